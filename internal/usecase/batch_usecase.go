package usecase

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/adiprasetyo/kopledger/internal/domain"
)

// Progress is reported to the caller after every batch item.
type Progress struct {
	StatusText string
	Current    int
	Total      int
	Percentage float64
}

// ProgressFunc receives batch progress. A nil ProgressFunc disables
// reporting.
type ProgressFunc func(Progress)

// BatchItemError records one failed item with its position and request
// preserved.
type BatchItemError struct {
	Err     error
	Request Request
	Index   int
}

// BatchResult is the aggregate outcome of one batch run. For a run that was
// neither cancelled nor stopped, SuccessCount+FailureCount == Total; items
// never attempted are counted in SkippedCount, not FailureCount.
type BatchResult struct {
	BatchID      string
	Transactions []*domain.Transaction
	Errors       []BatchItemError
	Total        int
	SuccessCount int
	FailureCount int
	SkippedCount int
	Cancelled    bool
}

// BatchOrchestrator applies the transaction processor to an ordered list of
// requests. Each item's atomicity boundary is itself: a failing item never
// stops or rolls back previously committed items.
type BatchOrchestrator struct {
	processor *TransactionProcessor
	audit     *AuditRecorder
	idGen     IDGenerator
	cancelled atomic.Bool
}

// NewBatchOrchestrator creates a new BatchOrchestrator.
func NewBatchOrchestrator(processor *TransactionProcessor, audit *AuditRecorder, idGen IDGenerator) *BatchOrchestrator {
	return &BatchOrchestrator{
		processor: processor,
		audit:     audit,
		idGen:     idGen,
	}
}

// RequestCancellation signals the orchestrator to stop before the next item.
// Cancellation is cooperative and checked only between items, never mid-item.
func (o *BatchOrchestrator) RequestCancellation() {
	o.cancelled.Store(true)
}

// ProcessBatch runs the requests strictly in order and returns the aggregate
// result. onProgress, when non-nil, is invoked after every item.
func (o *BatchOrchestrator) ProcessBatch(ctx context.Context, requests []Request, actor string, onProgress ProgressFunc) *BatchResult {
	o.cancelled.Store(false)

	batchID := o.idGen.Generate()
	result := &BatchResult{
		BatchID: batchID,
		Total:   len(requests),
	}

	for i, req := range requests {
		if o.cancelled.Load() || ctx.Err() != nil {
			result.Cancelled = true
			result.SkippedCount = result.Total - i
			o.recordCancel(ctx, actor, result, i)
			return result
		}

		if o.processor.Unstable() {
			result.SkippedCount = result.Total - i
			o.recordOutcome(ctx, actor, result)
			return result
		}

		itemResult := o.processor.Process(ctx, req, ProcessOptions{
			Actor:   actor,
			BatchID: &batchID,
			Mode:    domain.ModeBatch,
		})

		var status string
		if itemResult.Success {
			result.SuccessCount++
			result.Transactions = append(result.Transactions, itemResult.Transaction)
			status = fmt.Sprintf("item %d of %d processed", i+1, result.Total)
		} else {
			result.FailureCount++
			result.Errors = append(result.Errors, BatchItemError{
				Index:   i,
				Request: req,
				Err:     itemResult.Err,
			})
			status = fmt.Sprintf("item %d of %d failed", i+1, result.Total)
		}

		o.report(onProgress, i+1, result.Total, status)
	}

	o.recordOutcome(ctx, actor, result)

	return result
}

func (o *BatchOrchestrator) report(onProgress ProgressFunc, current, total int, status string) {
	if onProgress == nil {
		return
	}

	percentage := 100.0
	if total > 0 {
		percentage = float64(current) / float64(total) * 100
	}

	onProgress(Progress{
		Current:    current,
		Total:      total,
		Percentage: percentage,
		StatusText: status,
	})
}

func (o *BatchOrchestrator) recordOutcome(ctx context.Context, actor string, result *BatchResult) {
	severity := domain.SeverityInfo
	if result.FailureCount > 0 || result.SkippedCount > 0 {
		severity = domain.SeverityWarning
	}

	o.audit.Record(ctx, domain.AuditLog{
		Actor:    actor,
		Action:   string(domain.AuditActionBatchProcess),
		Category: domain.AuditCategoryBatch,
		Severity: severity,
		Context: domain.JSON{
			"batch_id": result.BatchID,
			"total":    result.Total,
			"success":  result.SuccessCount,
			"failed":   result.FailureCount,
			"skipped":  result.SkippedCount,
		},
	})
}

func (o *BatchOrchestrator) recordCancel(ctx context.Context, actor string, result *BatchResult, processed int) {
	o.audit.Record(ctx, domain.AuditLog{
		Actor:    actor,
		Action:   string(domain.AuditActionBatchCancel),
		Category: domain.AuditCategoryBatch,
		Severity: domain.SeverityWarning,
		Context: domain.JSON{
			"batch_id":  result.BatchID,
			"total":     result.Total,
			"processed": processed,
			"skipped":   result.SkippedCount,
		},
	})
}
