package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind identifies what a transaction does.
type TransactionKind string

const (
	KindDebtPayment         TransactionKind = "debt_payment"
	KindCreditPayment       TransactionKind = "credit_payment"
	KindStockTransformation TransactionKind = "stock_transformation"
)

// Valid reports whether the kind is known.
func (k TransactionKind) Valid() bool {
	switch k {
	case KindDebtPayment, KindCreditPayment, KindStockTransformation:
		return true
	}
	return false
}

// IsPayment reports whether the kind settles a member balance.
func (k TransactionKind) IsPayment() bool {
	return k == KindDebtPayment || k == KindCreditPayment
}

// TransactionStatus is the lifecycle state of a transaction. Pending is
// transient within a single synchronous operation and never persisted.
type TransactionStatus string

const (
	StatusPending    TransactionStatus = "pending"
	StatusCompleted  TransactionStatus = "completed"
	StatusFailed     TransactionStatus = "failed"
	StatusRolledBack TransactionStatus = "rolled_back"
)

// TransactionMode records how the operation was submitted.
type TransactionMode string

const (
	ModeManual TransactionMode = "manual"
	ModeBatch  TransactionMode = "batch"
)

// TransformationDetail captures the quantities of a stock re-denomination.
type TransformationDetail struct {
	SourceCode     string
	TargetCode     string
	SourceQuantity int64
	TargetQuantity int64
	Ratio          decimal.Decimal
}

// Transaction is the committed record of one accepted operation. A completed
// transaction always references a still-present journal entry, and
// BalanceAfter is always BalanceBefore adjusted by the signed amount.
type Transaction struct {
	Timestamp      time.Time
	BatchID        *string
	Transformation *TransformationDetail
	ID             string
	MemberID       string
	JournalID      string
	Kind           TransactionKind
	Status         TransactionStatus
	Mode           TransactionMode
	Amount         decimal.Decimal
	BalanceBefore  decimal.Decimal
	BalanceAfter   decimal.Decimal
}
