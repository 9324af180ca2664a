package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Member is a cooperative member referenced by transactions. The engine does
// not own member identity; it only keeps the opening totals the balance
// calculator replays against.
type Member struct {
	CreatedAt     time.Time
	ID            string
	Name          string
	ExternalID    string
	OpeningDebt   decimal.Decimal
	OpeningCredit decimal.Decimal
}

// OpeningTotal returns the opening total for a payment kind.
func (m *Member) OpeningTotal(kind TransactionKind) decimal.Decimal {
	switch kind {
	case KindDebtPayment:
		return m.OpeningDebt
	case KindCreditPayment:
		return m.OpeningCredit
	default:
		return decimal.Zero
	}
}
