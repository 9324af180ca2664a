package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adiprasetyo/kopledger/internal/domain"
	"github.com/adiprasetyo/kopledger/internal/usecase"
)

// JournalRepo implements usecase.JournalRepository.
type JournalRepo struct {
	store usecase.Store
}

// NewJournalRepo creates a new JournalRepo.
func NewJournalRepo(store usecase.Store) *JournalRepo {
	return &JournalRepo{store: store}
}

type journalLineRecord struct {
	Account string          `json:"account"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
}

type journalRecord struct {
	ID          string              `json:"id"`
	Description string              `json:"description"`
	Lines       []journalLineRecord `json:"lines"`
	Date        time.Time           `json:"date"`
}

// Create stores a journal entry.
func (r *JournalRepo) Create(ctx context.Context, entry *domain.JournalEntry) error {
	record := journalRecord{
		ID:          entry.ID,
		Description: entry.Description,
		Date:        entry.Date,
		Lines:       make([]journalLineRecord, 0, len(entry.Lines)),
	}
	for _, line := range entry.Lines {
		record.Lines = append(record.Lines, journalLineRecord{
			Account: string(line.Account),
			Debit:   line.Debit,
			Credit:  line.Credit,
		})
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal journal entry: %w", err)
	}

	return r.store.Set(ctx, journalKey(entry.ID), data)
}

// GetByID retrieves a journal entry by ID.
func (r *JournalRepo) GetByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	data, err := r.store.Get(ctx, journalKey(id))
	if err != nil {
		if errors.Is(err, usecase.ErrKeyNotFound) {
			return nil, domain.ErrJournalNotFound
		}
		return nil, fmt.Errorf("get journal entry: %w", err)
	}

	var record journalRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshal journal entry: %w", err)
	}

	entry := &domain.JournalEntry{
		ID:          record.ID,
		Description: record.Description,
		Date:        record.Date,
		Lines:       make([]domain.JournalLine, 0, len(record.Lines)),
	}
	for _, line := range record.Lines {
		entry.Lines = append(entry.Lines, domain.JournalLine{
			Account: domain.LedgerAccount(line.Account),
			Debit:   line.Debit,
			Credit:  line.Credit,
		})
	}
	return entry, nil
}

// Delete removes a journal entry. Only the rollback path deletes entries.
func (r *JournalRepo) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, journalKey(id))
}
