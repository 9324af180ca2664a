package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/adiprasetyo/kopledger/internal/domain"
)

func batchFixture() *engineFixture {
	return newEngineFixture(
		newFakeMemberRepo(&domain.Member{
			ID:          "M-001",
			Name:        "Budi Santoso",
			OpeningDebt: decimal.NewFromInt(100000),
		}),
		newFakeStockRepo(),
		newFakeRatioRepo(),
	)
}

func debtPayment(amount int64) Request {
	return Request{Payment: &domain.PaymentRequest{
		MemberID: "M-001",
		Kind:     domain.KindDebtPayment,
		Amount:   decimal.NewFromInt(amount),
	}}
}

func newOrchestrator(f *engineFixture) *BatchOrchestrator {
	return NewBatchOrchestrator(f.processor, f.audit, &seqIDGenerator{})
}

func TestProcessBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("failing item does not stop or roll back siblings", func(t *testing.T) {
		f := batchFixture()
		orch := newOrchestrator(f)

		result := orch.ProcessBatch(ctx, []Request{
			debtPayment(30000),
			debtPayment(999999), // exceeds balance
			debtPayment(20000),
		}, "importer", nil)

		if result.Total != 3 || result.SuccessCount != 2 || result.FailureCount != 1 {
			t.Fatalf("aggregate = %+v", result)
		}
		if result.SuccessCount+result.FailureCount != result.Total {
			t.Fatal("aggregate counts do not add up")
		}

		if len(result.Errors) != 1 {
			t.Fatalf("expected one item error, got %d", len(result.Errors))
		}
		itemErr := result.Errors[0]
		if itemErr.Index != 1 {
			t.Fatalf("failed index = %d, want 1", itemErr.Index)
		}
		if itemErr.Request.Payment == nil || !itemErr.Request.Payment.Amount.Equal(decimal.NewFromInt(999999)) {
			t.Fatal("failing request not preserved")
		}
		if !errors.Is(itemErr.Err, domain.ErrInsufficientBalance) {
			t.Fatalf("item error = %v", itemErr.Err)
		}

		// Items 1 and 3 stay committed.
		if len(result.Transactions) != 2 {
			t.Fatalf("committed transactions = %d", len(result.Transactions))
		}
		if len(f.transactions.txns) != 2 {
			t.Fatalf("persisted transactions = %d", len(f.transactions.txns))
		}
	})

	t.Run("items run strictly in order with batch id and mode set", func(t *testing.T) {
		f := batchFixture()
		orch := newOrchestrator(f)

		result := orch.ProcessBatch(ctx, []Request{
			debtPayment(10000),
			debtPayment(20000),
		}, "importer", nil)

		if result.FailureCount != 0 {
			t.Fatalf("unexpected failures: %+v", result.Errors)
		}

		first := result.Transactions[0]
		second := result.Transactions[1]
		if !first.Amount.Equal(decimal.NewFromInt(10000)) {
			t.Fatal("order not preserved")
		}
		if !second.BalanceBefore.Equal(decimal.NewFromInt(90000)) {
			t.Fatalf("second item did not see first item's effect: %s", second.BalanceBefore)
		}

		for _, txn := range result.Transactions {
			if txn.Mode != domain.ModeBatch {
				t.Fatalf("mode = %s", txn.Mode)
			}
			if txn.BatchID == nil || *txn.BatchID != result.BatchID {
				t.Fatal("batch id not stamped")
			}
		}
	})

	t.Run("progress is reported after every item", func(t *testing.T) {
		f := batchFixture()
		orch := newOrchestrator(f)

		var seen []Progress
		orch.ProcessBatch(ctx, []Request{
			debtPayment(10000),
			debtPayment(999999),
			debtPayment(20000),
		}, "importer", func(p Progress) { seen = append(seen, p) })

		if len(seen) != 3 {
			t.Fatalf("progress calls = %d, want 3", len(seen))
		}
		if seen[0].Current != 1 || seen[0].Total != 3 {
			t.Fatalf("first progress = %+v", seen[0])
		}
		if seen[2].Percentage != 100 {
			t.Fatalf("final percentage = %f", seen[2].Percentage)
		}
	})

	t.Run("cancellation stops before the next item and marks the rest skipped", func(t *testing.T) {
		f := batchFixture()
		orch := newOrchestrator(f)

		result := orch.ProcessBatch(ctx, []Request{
			debtPayment(10000),
			debtPayment(10000),
			debtPayment(10000),
			debtPayment(10000),
		}, "importer", func(p Progress) {
			if p.Current == 2 {
				orch.RequestCancellation()
			}
		})

		if !result.Cancelled {
			t.Fatal("result not marked cancelled")
		}
		if result.SuccessCount != 2 {
			t.Fatalf("successes before cancel = %d", result.SuccessCount)
		}
		if result.SkippedCount != 2 {
			t.Fatalf("skipped = %d, want 2", result.SkippedCount)
		}
		if result.FailureCount != 0 {
			t.Fatal("skipped items must not be counted as failed")
		}

		cancels := f.auditRepo.byCategory(domain.AuditCategoryBatch)
		if len(cancels) == 0 {
			t.Fatal("cancellation not audited")
		}
	})

	t.Run("context cancellation behaves like a cancel request", func(t *testing.T) {
		f := batchFixture()
		orch := newOrchestrator(f)

		cancelCtx, cancel := context.WithCancel(ctx)
		result := orch.ProcessBatch(cancelCtx, []Request{
			debtPayment(10000),
			debtPayment(10000),
		}, "importer", func(p Progress) { cancel() })

		if !result.Cancelled || result.SuccessCount != 1 || result.SkippedCount != 1 {
			t.Fatalf("aggregate = %+v", result)
		}
	})

	t.Run("system failure stops the batch without touching committed items", func(t *testing.T) {
		f := batchFixture()
		orch := newOrchestrator(f)

		processed := 0
		result := orch.ProcessBatch(ctx, []Request{
			debtPayment(10000),
			debtPayment(10000),
			debtPayment(10000),
		}, "importer", func(p Progress) {
			processed++
			if processed == 1 {
				// Simulate the store dying after the first item.
				f.transactions.createErr = fmt.Errorf("store offline")
			}
		})

		if result.SuccessCount != 1 {
			t.Fatalf("successes = %d, want 1", result.SuccessCount)
		}
		if result.FailureCount != 1 {
			t.Fatalf("failures = %d, want 1", result.FailureCount)
		}
		if result.SkippedCount != 1 {
			t.Fatalf("skipped = %d, want 1 (unstable engine must stop the batch)", result.SkippedCount)
		}

		// The committed first item survives; per-item atomicity only.
		if len(f.transactions.txns) != 1 {
			t.Fatalf("persisted transactions = %d, want 1", len(f.transactions.txns))
		}
	})

	t.Run("empty batch returns an empty aggregate", func(t *testing.T) {
		f := batchFixture()
		orch := newOrchestrator(f)

		result := orch.ProcessBatch(ctx, nil, "importer", nil)
		if result.Total != 0 || result.SuccessCount != 0 || result.FailureCount != 0 {
			t.Fatalf("aggregate = %+v", result)
		}
	})
}
