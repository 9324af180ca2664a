package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/adiprasetyo/kopledger/internal/domain"
)

// BalanceCalculator derives a member's current debt or credit balance by
// replaying their settled transaction history against the opening totals.
type BalanceCalculator struct {
	members      MemberRepository
	transactions TransactionRepository
}

// NewBalanceCalculator creates a new BalanceCalculator.
func NewBalanceCalculator(members MemberRepository, transactions TransactionRepository) *BalanceCalculator {
	return &BalanceCalculator{
		members:      members,
		transactions: transactions,
	}
}

// Balance returns the member's outstanding balance for a payment kind.
// Members with no history have a zero balance; that is not an error.
func (c *BalanceCalculator) Balance(ctx context.Context, memberID string, kind domain.TransactionKind) (decimal.Decimal, error) {
	if !kind.IsPayment() {
		return decimal.Zero, domain.NewValidationError(domain.ErrUnknownKind, "balance is only defined for payment kinds").
			With("kind", string(kind))
	}

	member, err := c.members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, domain.NewSystemError(err, "failed to load member").
			With("member_id", memberID)
	}

	history, err := c.transactions.ListByMember(ctx, memberID)
	if err != nil {
		return decimal.Zero, domain.NewSystemError(err, "failed to load transaction history").
			With("member_id", memberID)
	}

	balance := member.OpeningTotal(kind)
	for _, txn := range history {
		if txn.Status != domain.StatusCompleted || txn.Kind != kind {
			continue
		}
		balance = balance.Sub(txn.Amount)
	}

	return balance, nil
}
