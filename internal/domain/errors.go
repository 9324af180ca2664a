package domain

import (
	"errors"
	"fmt"
)

var (
	// Lookup errors
	ErrMemberNotFound      = errors.New("member not found")
	ErrStockItemNotFound   = errors.New("stock item not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrJournalNotFound     = errors.New("journal entry not found")
	ErrRatioNotFound       = errors.New("conversion ratio not configured for unit pair")

	// Payment errors
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrUnknownKind         = errors.New("unknown transaction kind")
	ErrInsufficientBalance = errors.New("amount exceeds outstanding balance")

	// Transformation errors
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrInsufficientStock  = errors.New("insufficient source stock")
	ErrIncompatibleItems  = errors.New("items do not share a base product")
	ErrSameStockItem      = errors.New("cannot transform a stock item into itself")
	ErrFractionalQuantity = errors.New("transformation result is not a whole quantity")
	ErrInvalidRatio       = errors.New("conversion ratio must be positive")
	ErrQuantityOutOfRange = errors.New("transformation quantity out of range")

	// Journal errors
	ErrUnbalancedJournal  = errors.New("journal entry debits and credits do not balance")
	ErrInvalidJournalLine = errors.New("journal line must have exactly one side set")
	ErrUnknownAccount     = errors.New("unknown ledger account")

	// Engine errors
	ErrEngineUnstable = errors.New("engine is unstable after a system failure")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// ErrorCategory classifies engine failures by recovery policy.
type ErrorCategory string

const (
	CategoryValidation  ErrorCategory = "validation"
	CategoryBusiness    ErrorCategory = "business"
	CategoryCalculation ErrorCategory = "calculation"
	CategorySystem      ErrorCategory = "system"
)

// Severity tags a user-visible message.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Error is the closed error variant carried across the engine. The Message is
// safe to show to end users; the wrapped cause goes to the audit trail only.
type Error struct {
	Category    ErrorCategory
	Message     string
	Severity    Severity
	Recoverable bool
	Suggestions []string
	Context     map[string]any
	Err         error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// With attaches a context value and returns the error for chaining.
func (e *Error) With(key string, value any) *Error {
	if e.Context == nil {
		e.Context = map[string]any{}
	}
	e.Context[key] = value
	return e
}

// Suggest appends actionable suggestions shown alongside the message.
func (e *Error) Suggest(suggestions ...string) *Error {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// NewValidationError wraps a malformed or out-of-range input failure.
func NewValidationError(cause error, message string) *Error {
	return &Error{
		Category:    CategoryValidation,
		Message:     message,
		Severity:    SeverityError,
		Recoverable: true,
		Err:         cause,
	}
}

// NewBusinessError wraps a recoverable business rule failure such as an
// insufficient balance or a missing conversion ratio.
func NewBusinessError(cause error, message string) *Error {
	return &Error{
		Category:    CategoryBusiness,
		Message:     message,
		Severity:    SeverityError,
		Recoverable: true,
		Err:         cause,
	}
}

// NewCalculationError wraps a numeric failure such as a fractional
// transformation result or an overflow.
func NewCalculationError(cause error, message string) *Error {
	return &Error{
		Category:    CategoryCalculation,
		Message:     message,
		Severity:    SeverityError,
		Recoverable: false,
		Err:         cause,
	}
}

// NewSystemError wraps a persistence or unexpected failure. System errors are
// treated as potentially unrecoverable and flip the engine's unstable flag.
func NewSystemError(cause error, message string) *Error {
	return &Error{
		Category:    CategorySystem,
		Message:     message,
		Severity:    SeverityError,
		Recoverable: false,
		Err:         cause,
	}
}

// CategoryOf returns the category of err, defaulting to system for errors
// that did not originate inside the engine.
func CategoryOf(err error) ErrorCategory {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return CategorySystem
}

// IsRecoverable reports whether the user can adjust input and retry.
func IsRecoverable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Recoverable
	}
	return false
}
