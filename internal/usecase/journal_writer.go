package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adiprasetyo/kopledger/internal/domain"
)

// JournalWriter builds and persists balanced double-entry records. It is the
// only component that creates or deletes journal entries.
type JournalWriter struct {
	journals JournalRepository
	idGen    IDGenerator
}

// NewJournalWriter creates a new JournalWriter.
func NewJournalWriter(journals JournalRepository, idGen IDGenerator) *JournalWriter {
	return &JournalWriter{
		journals: journals,
		idGen:    idGen,
	}
}

// Write builds the two-line entry for an operation kind, verifies the
// double-entry invariant, and persists it as one whole record.
func (w *JournalWriter) Write(ctx context.Context, kind domain.TransactionKind, amount decimal.Decimal, memberLabel string, date time.Time) (*domain.JournalEntry, error) {
	lines, description, err := journalLines(kind, amount, memberLabel)
	if err != nil {
		return nil, err
	}

	entry := &domain.JournalEntry{
		ID:          w.idGen.Generate(),
		Date:        date,
		Description: description,
		Lines:       lines,
	}

	if err := entry.Validate(); err != nil {
		return nil, domain.NewCalculationError(err, "journal entry failed the double-entry check").
			With("kind", string(kind)).
			With("amount", amount.String())
	}

	if err := w.journals.Create(ctx, entry); err != nil {
		return nil, domain.NewSystemError(err, "failed to persist journal entry").
			With("journal_id", entry.ID)
	}

	return entry, nil
}

// Revert deletes an entry written earlier in the same operation. Used only by
// the rollback coordinator.
func (w *JournalWriter) Revert(ctx context.Context, id string) error {
	if err := w.journals.Delete(ctx, id); err != nil {
		return domain.NewSystemError(err, "failed to revert journal entry").
			With("journal_id", id)
	}
	return nil
}

// journalLines returns the fixed account mapping for an operation kind.
func journalLines(kind domain.TransactionKind, amount decimal.Decimal, memberLabel string) ([]domain.JournalLine, string, error) {
	switch kind {
	case domain.KindDebtPayment:
		return []domain.JournalLine{
			{Account: domain.AccountCash, Debit: amount},
			{Account: domain.AccountMemberPayable, Credit: amount},
		}, fmt.Sprintf("Pembayaran hutang %s", memberLabel), nil

	case domain.KindCreditPayment:
		return []domain.JournalLine{
			{Account: domain.AccountMemberReceivable, Debit: amount},
			{Account: domain.AccountCash, Credit: amount},
		}, fmt.Sprintf("Pembayaran piutang %s", memberLabel), nil

	case domain.KindStockTransformation:
		return []domain.JournalLine{
			{Account: domain.AccountInventory, Debit: amount},
			{Account: domain.AccountInventoryAdjustment, Credit: amount},
		}, fmt.Sprintf("Transformasi stok %s", memberLabel), nil

	default:
		return nil, "", domain.NewValidationError(domain.ErrUnknownKind, "no account mapping for kind").
			With("kind", string(kind))
	}
}
