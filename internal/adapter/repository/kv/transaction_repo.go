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

// TransactionRepo implements usecase.TransactionRepository.
type TransactionRepo struct {
	store usecase.Store
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(store usecase.Store) *TransactionRepo {
	return &TransactionRepo{store: store}
}

type transformationRecord struct {
	SourceCode     string          `json:"source_code"`
	TargetCode     string          `json:"target_code"`
	SourceQuantity int64           `json:"source_quantity"`
	TargetQuantity int64           `json:"target_quantity"`
	Ratio          decimal.Decimal `json:"ratio"`
}

type transactionRecord struct {
	ID             string                `json:"id"`
	MemberID       string                `json:"member_id,omitempty"`
	JournalID      string                `json:"journal_id"`
	BatchID        *string               `json:"batch_id,omitempty"`
	Kind           string                `json:"kind"`
	Status         string                `json:"status"`
	Mode           string                `json:"mode"`
	Amount         decimal.Decimal       `json:"amount"`
	BalanceBefore  decimal.Decimal       `json:"balance_before"`
	BalanceAfter   decimal.Decimal       `json:"balance_after"`
	Transformation *transformationRecord `json:"transformation,omitempty"`
	Timestamp      time.Time             `json:"timestamp"`
}

// Create stores a transaction record.
func (r *TransactionRepo) Create(ctx context.Context, txn *domain.Transaction) error {
	record := transactionRecord{
		ID:            txn.ID,
		MemberID:      txn.MemberID,
		JournalID:     txn.JournalID,
		BatchID:       txn.BatchID,
		Kind:          string(txn.Kind),
		Status:        string(txn.Status),
		Mode:          string(txn.Mode),
		Amount:        txn.Amount,
		BalanceBefore: txn.BalanceBefore,
		BalanceAfter:  txn.BalanceAfter,
		Timestamp:     txn.Timestamp,
	}
	if txn.Transformation != nil {
		record.Transformation = &transformationRecord{
			SourceCode:     txn.Transformation.SourceCode,
			TargetCode:     txn.Transformation.TargetCode,
			SourceQuantity: txn.Transformation.SourceQuantity,
			TargetQuantity: txn.Transformation.TargetQuantity,
			Ratio:          txn.Transformation.Ratio,
		}
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal transaction: %w", err)
	}

	return r.store.Set(ctx, transactionKey(txn.ID), data)
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	data, err := r.store.Get(ctx, transactionKey(id))
	if err != nil {
		if errors.Is(err, usecase.ErrKeyNotFound) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}

	return unmarshalTransaction(data)
}

// Delete removes a transaction record. Only the rollback path deletes
// transactions.
func (r *TransactionRepo) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, transactionKey(id))
}

// ListByMember returns a member's transactions oldest first. Transaction IDs
// are ULIDs, so key order is commit order.
func (r *TransactionRepo) ListByMember(ctx context.Context, memberID string) ([]*domain.Transaction, error) {
	records, err := r.store.List(ctx, transactionPrefix)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	var out []*domain.Transaction
	for _, record := range records {
		txn, err := unmarshalTransaction(record.Value)
		if err != nil {
			return nil, err
		}
		if txn.MemberID == memberID {
			out = append(out, txn)
		}
	}
	return out, nil
}

func unmarshalTransaction(data []byte) (*domain.Transaction, error) {
	var record transactionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshal transaction: %w", err)
	}

	txn := &domain.Transaction{
		ID:            record.ID,
		MemberID:      record.MemberID,
		JournalID:     record.JournalID,
		BatchID:       record.BatchID,
		Kind:          domain.TransactionKind(record.Kind),
		Status:        domain.TransactionStatus(record.Status),
		Mode:          domain.TransactionMode(record.Mode),
		Amount:        record.Amount,
		BalanceBefore: record.BalanceBefore,
		BalanceAfter:  record.BalanceAfter,
		Timestamp:     record.Timestamp,
	}
	if record.Transformation != nil {
		txn.Transformation = &domain.TransformationDetail{
			SourceCode:     record.Transformation.SourceCode,
			TargetCode:     record.Transformation.TargetCode,
			SourceQuantity: record.Transformation.SourceQuantity,
			TargetQuantity: record.Transformation.TargetQuantity,
			Ratio:          record.Transformation.Ratio,
		}
	}
	return txn, nil
}
