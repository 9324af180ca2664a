package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxPaymentAmount = "1000000000000" // 1 trillion rupiah
	MaxNoteLength    = 500
)

// PaymentRequest asks for a debt or credit settlement.
type PaymentRequest struct {
	Date     *time.Time
	MemberID string
	Note     string
	Kind     TransactionKind
	Amount   decimal.Decimal
}

// TransformationRequest asks for a stock re-denomination.
type TransformationRequest struct {
	SourceCode string
	TargetCode string
	Quantity   int64
}

// TransformationSnapshot is the stock state the caller supplies for
// validating a transformation. Nil fields mean the record does not exist.
type TransformationSnapshot struct {
	Source *StockItem
	Target *StockItem
	Ratio  *ConversionRatio
}

// ValidationResult is the outcome of validating one request. Warnings do not
// block the operation.
type ValidationResult struct {
	Errors   []string
	Warnings []string
	Valid    bool
}

func (r *ValidationResult) addError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Valid = false
}

func (r *ValidationResult) addWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// ValidatePaymentShape checks everything about a payment that does not need a
// balance snapshot.
func ValidatePaymentShape(req PaymentRequest) ValidationResult {
	result := ValidationResult{Valid: true}

	if strings.TrimSpace(req.MemberID) == "" {
		result.addError("member id is required")
	}

	if !req.Kind.Valid() || !req.Kind.IsPayment() {
		result.addError(fmt.Sprintf("unknown payment type %q", req.Kind))
	}

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		result.addError("amount must be positive")
	}

	maxAmount, _ := decimal.NewFromString(MaxPaymentAmount)
	if req.Amount.GreaterThan(maxAmount) {
		result.addError(fmt.Sprintf("amount exceeds maximum of %s", MaxPaymentAmount))
	}

	if len(req.Note) > MaxNoteLength {
		result.addError(fmt.Sprintf("note exceeds %d characters", MaxNoteLength))
	}

	return result
}

// ValidatePayment checks a payment against the balance snapshot supplied by
// the caller. It never mutates state.
func ValidatePayment(req PaymentRequest, balance decimal.Decimal) ValidationResult {
	result := ValidatePaymentShape(req)
	if !result.Valid {
		return result
	}

	switch {
	case req.Amount.GreaterThan(balance):
		result.addError(fmt.Sprintf("amount %s exceeds outstanding balance %s",
			req.Amount.StringFixed(2), balance.StringFixed(2)))
	case req.Amount.Equal(balance):
		result.addWarning("this payment clears the outstanding balance")
	}

	return result
}

// ValidateTransformationShape checks everything about a transformation that
// does not need a stock snapshot.
func ValidateTransformationShape(req TransformationRequest) ValidationResult {
	result := ValidationResult{Valid: true}

	if strings.TrimSpace(req.SourceCode) == "" {
		result.addError("source item code is required")
	}

	if strings.TrimSpace(req.TargetCode) == "" {
		result.addError("target item code is required")
	}

	if req.SourceCode != "" && req.SourceCode == req.TargetCode {
		result.addError("source and target items must differ")
	}

	if req.Quantity <= 0 {
		result.addError("quantity must be positive")
	}

	return result
}

// ValidateTransformation checks a transformation against the stock snapshot
// supplied by the caller. It never mutates state.
func ValidateTransformation(req TransformationRequest, snapshot TransformationSnapshot) ValidationResult {
	result := ValidateTransformationShape(req)
	if !result.Valid {
		return result
	}

	if snapshot.Source == nil {
		result.addError(fmt.Sprintf("source item %q not found", req.SourceCode))
	}

	if snapshot.Target == nil {
		result.addError(fmt.Sprintf("target item %q not found", req.TargetCode))
	}

	if snapshot.Source == nil || snapshot.Target == nil {
		return result
	}

	if snapshot.Source.BaseProduct != snapshot.Target.BaseProduct {
		result.addError(fmt.Sprintf("items %q and %q do not share a base product",
			req.SourceCode, req.TargetCode))
		return result
	}

	if snapshot.Ratio == nil {
		result.addError(fmt.Sprintf("no conversion ratio configured for %s: %s to %s",
			snapshot.Source.BaseProduct, snapshot.Source.Unit, snapshot.Target.Unit))
		return result
	}

	if remaining := snapshot.Source.Quantity - req.Quantity; remaining < 0 {
		result.addError(fmt.Sprintf("insufficient stock: %d %s available, %d requested",
			snapshot.Source.Quantity, snapshot.Source.Unit, req.Quantity))
	}

	return result
}
