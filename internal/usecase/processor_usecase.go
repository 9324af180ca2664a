package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adiprasetyo/kopledger/internal/domain"
)

// Request is one operation submitted to the processor: exactly one of
// Payment or Transformation is set.
type Request struct {
	Payment        *domain.PaymentRequest
	Transformation *domain.TransformationRequest
}

// Kind returns the transaction kind the request maps to.
func (r Request) Kind() domain.TransactionKind {
	switch {
	case r.Payment != nil:
		return r.Payment.Kind
	case r.Transformation != nil:
		return domain.KindStockTransformation
	default:
		return ""
	}
}

// ProcessOptions carries submission context for one operation.
type ProcessOptions struct {
	BatchID *string
	Actor   string
	Mode    domain.TransactionMode
}

// ProcessResult is the outcome of one operation.
type ProcessResult struct {
	Transaction *domain.Transaction
	Err         error
	Warnings    []string
	Success     bool
}

// undoStep is one reversible effect on the processor's undo list.
type undoStep struct {
	name string
	fn   func(context.Context) error
}

// TransactionProcessor orchestrates one logical operation end to end:
// validate, compute balance or stock, write the journal, persist the
// transaction, with every applied effect reversed in reverse order when a
// later step fails. Nothing an operation writes is observable until it
// completes.
type TransactionProcessor struct {
	members      MemberRepository
	transactions TransactionRepository
	journal      *JournalWriter
	balance      *BalanceCalculator
	conversion   *ConversionCalculator
	stock        *StockBalanceStore
	audit        *AuditRecorder
	idGen        IDGenerator
	unstable     atomic.Bool
}

// NewTransactionProcessor creates a new TransactionProcessor.
func NewTransactionProcessor(
	members MemberRepository,
	transactions TransactionRepository,
	journal *JournalWriter,
	balance *BalanceCalculator,
	conversion *ConversionCalculator,
	stock *StockBalanceStore,
	audit *AuditRecorder,
	idGen IDGenerator,
) *TransactionProcessor {
	return &TransactionProcessor{
		members:      members,
		transactions: transactions,
		journal:      journal,
		balance:      balance,
		conversion:   conversion,
		stock:        stock,
		audit:        audit,
		idGen:        idGen,
	}
}

// Unstable reports whether a system failure left the engine in a state where
// callers should stop submitting work.
func (p *TransactionProcessor) Unstable() bool {
	return p.unstable.Load()
}

// Process runs one operation to completion or full rollback.
func (p *TransactionProcessor) Process(ctx context.Context, req Request, opts ProcessOptions) ProcessResult {
	if opts.Mode == "" {
		opts.Mode = domain.ModeManual
	}

	if p.unstable.Load() {
		return ProcessResult{Err: domain.NewSystemError(domain.ErrEngineUnstable,
			"engine is unstable, refusing new operations").
			Suggest("inspect the audit trail and restart the service")}
	}

	switch {
	case req.Payment != nil:
		return p.processPayment(ctx, *req.Payment, opts)
	case req.Transformation != nil:
		return p.processTransformation(ctx, *req.Transformation, opts)
	default:
		return ProcessResult{Err: domain.NewValidationError(domain.ErrUnknownKind, "empty request")}
	}
}

func (p *TransactionProcessor) processPayment(ctx context.Context, req domain.PaymentRequest, opts ProcessOptions) ProcessResult {
	action := string(domain.AuditActionPaymentProcess)
	auditCtx := domain.JSON{
		"member_id": req.MemberID,
		"kind":      string(req.Kind),
		"amount":    req.Amount.String(),
		"mode":      string(opts.Mode),
	}

	var undo []undoStep

	// Validating: request shape, before anything is read or written.
	if shape := domain.ValidatePaymentShape(req); !shape.Valid {
		return p.fail(ctx, action, opts.Actor, auditCtx, undo,
			domain.NewValidationError(domain.ErrInvalidAmount, strings.Join(shape.Errors, "; ")))
	}

	// ComputingBalance: replay the member's settled history.
	balance, err := p.balance.Balance(ctx, req.MemberID, req.Kind)
	if err != nil {
		return p.fail(ctx, action, opts.Actor, auditCtx, undo, err)
	}

	result := domain.ValidatePayment(req, balance)
	if !result.Valid {
		return p.fail(ctx, action, opts.Actor, auditCtx, undo,
			domain.NewBusinessError(domain.ErrInsufficientBalance, strings.Join(result.Errors, "; ")).
				With("balance", balance.String()).
				With("amount", req.Amount.String()).
				Suggest("reduce the amount to at most the outstanding balance"))
	}

	member, err := p.members.GetByID(ctx, req.MemberID)
	if err != nil {
		return p.fail(ctx, action, opts.Actor, auditCtx, undo,
			domain.NewSystemError(err, "failed to load member").With("member_id", req.MemberID))
	}

	memberLabel := member.Name
	if memberLabel == "" {
		memberLabel = member.ID
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = *req.Date
	}

	// WritingJournal
	entry, err := p.journal.Write(ctx, req.Kind, req.Amount, memberLabel, date)
	if err != nil {
		return p.fail(ctx, action, opts.Actor, auditCtx, undo, err)
	}
	undo = append(undo, undoStep{
		name: "delete journal entry",
		fn:   func(ctx context.Context) error { return p.journal.Revert(ctx, entry.ID) },
	})

	// PersistingTransaction
	txn := &domain.Transaction{
		ID:            p.idGen.Generate(),
		Timestamp:     date,
		MemberID:      req.MemberID,
		Kind:          req.Kind,
		Amount:        req.Amount,
		BalanceBefore: balance,
		BalanceAfter:  balance.Sub(req.Amount),
		JournalID:     entry.ID,
		Status:        domain.StatusCompleted,
		BatchID:       opts.BatchID,
		Mode:          opts.Mode,
	}

	if err := p.transactions.Create(ctx, txn); err != nil {
		return p.fail(ctx, action, opts.Actor, auditCtx, undo,
			domain.NewSystemError(err, "failed to persist transaction").With("transaction_id", txn.ID))
	}
	undo = append(undo, undoStep{
		name: "delete transaction record",
		fn:   func(ctx context.Context) error { return p.transactions.Delete(ctx, txn.ID) },
	})

	// Completed: the audit append happens-before the operation is reported.
	auditCtx["transaction_id"] = txn.ID
	auditCtx["journal_id"] = entry.ID
	auditCtx["balance_before"] = txn.BalanceBefore.String()
	auditCtx["balance_after"] = txn.BalanceAfter.String()

	if err := p.audit.Record(ctx, domain.AuditLog{
		Actor:    opts.Actor,
		Action:   action,
		Category: domain.AuditCategoryTransaction,
		Severity: domain.SeverityInfo,
		Context:  auditCtx,
	}); err != nil {
		return p.fail(ctx, action, opts.Actor, auditCtx, undo, err)
	}

	return ProcessResult{Success: true, Transaction: txn, Warnings: result.Warnings}
}

func (p *TransactionProcessor) processTransformation(ctx context.Context, req domain.TransformationRequest, opts ProcessOptions) ProcessResult {
	action := string(domain.AuditActionTransformationProcess)
	auditCtx := domain.JSON{
		"source_code": req.SourceCode,
		"target_code": req.TargetCode,
		"quantity":    req.Quantity,
		"mode":        string(opts.Mode),
	}

	var undo []undoStep

	// Validating
	if shape := domain.ValidateTransformationShape(req); !shape.Valid {
		return p.fail(ctx, action, opts.Actor, auditCtx, undo,
			domain.NewValidationError(domain.ErrInvalidQuantity, strings.Join(shape.Errors, "; ")))
	}

	// ComputingBalance: assemble the stock snapshot.
	snapshot, err := p.loadSnapshot(ctx, req)
	if err != nil {
		return p.fail(ctx, action, opts.Actor, auditCtx, undo, err)
	}

	result := domain.ValidateTransformation(req, snapshot)
	if !result.Valid {
		return p.fail(ctx, action, opts.Actor, auditCtx, undo,
			transformationError(snapshot, strings.Join(result.Errors, "; ")))
	}

	targetQty, err := p.conversion.TargetQuantity(req.Quantity, snapshot.Ratio.Ratio)
	if err != nil {
		return p.fail(ctx, action, opts.Actor, auditCtx, undo, err)
	}

	quantityBefore := snapshot.Source.Quantity

	// Decrement source and increment target as one logical step: a failure
	// between the two reverses the decrement before returning.
	source, err := p.stock.Apply(ctx, req.SourceCode, -req.Quantity)
	if err != nil {
		return p.fail(ctx, action, opts.Actor, auditCtx, undo, err)
	}
	undo = append(undo, undoStep{
		name: "restore source stock",
		fn: func(ctx context.Context) error {
			_, err := p.stock.Apply(ctx, req.SourceCode, req.Quantity)
			return err
		},
	})

	if _, err := p.stock.Apply(ctx, req.TargetCode, targetQty); err != nil {
		return p.fail(ctx, action, opts.Actor, auditCtx, undo, err)
	}
	undo = append(undo, undoStep{
		name: "restore target stock",
		fn: func(ctx context.Context) error {
			_, err := p.stock.Apply(ctx, req.TargetCode, -targetQty)
			return err
		},
	})

	// WritingJournal
	date := time.Now().UTC()
	label := fmt.Sprintf("%d %s %s ke %s", req.Quantity, snapshot.Source.Unit, req.SourceCode, req.TargetCode)

	entry, err := p.journal.Write(ctx, domain.KindStockTransformation, decimal.NewFromInt(req.Quantity), label, date)
	if err != nil {
		return p.fail(ctx, action, opts.Actor, auditCtx, undo, err)
	}
	undo = append(undo, undoStep{
		name: "delete journal entry",
		fn:   func(ctx context.Context) error { return p.journal.Revert(ctx, entry.ID) },
	})

	// PersistingTransaction
	txn := &domain.Transaction{
		ID:        p.idGen.Generate(),
		Timestamp: date,
		Kind:      domain.KindStockTransformation,
		Amount:    decimal.NewFromInt(req.Quantity),
		Transformation: &domain.TransformationDetail{
			SourceCode:     req.SourceCode,
			TargetCode:     req.TargetCode,
			SourceQuantity: req.Quantity,
			TargetQuantity: targetQty,
			Ratio:          snapshot.Ratio.Ratio,
		},
		BalanceBefore: decimal.NewFromInt(quantityBefore),
		BalanceAfter:  decimal.NewFromInt(source.Quantity),
		JournalID:     entry.ID,
		Status:        domain.StatusCompleted,
		BatchID:       opts.BatchID,
		Mode:          opts.Mode,
	}

	if err := p.transactions.Create(ctx, txn); err != nil {
		return p.fail(ctx, action, opts.Actor, auditCtx, undo,
			domain.NewSystemError(err, "failed to persist transaction").With("transaction_id", txn.ID))
	}
	undo = append(undo, undoStep{
		name: "delete transaction record",
		fn:   func(ctx context.Context) error { return p.transactions.Delete(ctx, txn.ID) },
	})

	auditCtx["transaction_id"] = txn.ID
	auditCtx["journal_id"] = entry.ID
	auditCtx["target_quantity"] = targetQty
	auditCtx["source_remaining"] = source.Quantity

	if err := p.audit.Record(ctx, domain.AuditLog{
		Actor:    opts.Actor,
		Action:   action,
		Category: domain.AuditCategoryTransaction,
		Severity: domain.SeverityInfo,
		Context:  auditCtx,
	}); err != nil {
		return p.fail(ctx, action, opts.Actor, auditCtx, undo, err)
	}

	return ProcessResult{Success: true, Transaction: txn, Warnings: result.Warnings}
}

// loadSnapshot reads the stock state a transformation is validated against.
// Missing records stay nil in the snapshot; only infrastructure failures are
// returned as errors.
func (p *TransactionProcessor) loadSnapshot(ctx context.Context, req domain.TransformationRequest) (domain.TransformationSnapshot, error) {
	var snapshot domain.TransformationSnapshot

	source, err := p.stock.Get(ctx, req.SourceCode)
	if err != nil && !errors.Is(err, domain.ErrStockItemNotFound) {
		return snapshot, err
	}
	snapshot.Source = source

	target, err := p.stock.Get(ctx, req.TargetCode)
	if err != nil && !errors.Is(err, domain.ErrStockItemNotFound) {
		return snapshot, err
	}
	snapshot.Target = target

	if source == nil || target == nil || source.BaseProduct != target.BaseProduct {
		return snapshot, nil
	}

	ratio, err := p.conversion.Ratio(ctx, source.BaseProduct, source.Unit, target.Unit)
	if err != nil {
		if errors.Is(err, domain.ErrRatioNotFound) {
			return snapshot, nil
		}
		return snapshot, err
	}
	snapshot.Ratio = ratio

	return snapshot, nil
}

// transformationError picks the sentinel matching the dominant rejection.
func transformationError(snapshot domain.TransformationSnapshot, message string) error {
	switch {
	case snapshot.Source == nil || snapshot.Target == nil:
		return domain.NewBusinessError(domain.ErrStockItemNotFound, message)
	case snapshot.Source.BaseProduct != snapshot.Target.BaseProduct:
		return domain.NewBusinessError(domain.ErrIncompatibleItems, message)
	case snapshot.Ratio == nil:
		return domain.NewBusinessError(domain.ErrRatioNotFound, message).
			Suggest("configure a ratio for this unit pair before transforming stock")
	default:
		return domain.NewBusinessError(domain.ErrInsufficientStock, message)
	}
}

// fail reverses already-applied effects in reverse order, records the failure
// in the audit trail, and returns the structured result. A rollback gets its
// own audit category so operators can tell "never applied" from "applied then
// reversed".
func (p *TransactionProcessor) fail(ctx context.Context, action, actor string, auditCtx domain.JSON, undo []undoStep, cause error) ProcessResult {
	if len(undo) > 0 {
		reversed := make([]string, 0, len(undo))

		for i := len(undo) - 1; i >= 0; i-- {
			step := undo[i]
			if err := step.fn(ctx); err != nil {
				p.unstable.Store(true)
				p.audit.Record(ctx, domain.AuditLog{
					Actor:        actor,
					Action:       string(domain.AuditActionSystemFailure),
					Category:     domain.AuditCategorySystem,
					Severity:     domain.SeverityError,
					ErrorSummary: err.Error(),
					Context: domain.JSON{
						"failed_undo_step": step.name,
						"operation":        action,
					},
				})
				break
			}
			reversed = append(reversed, step.name)
		}

		p.audit.Record(ctx, domain.AuditLog{
			Actor:        actor,
			Action:       string(domain.AuditActionTransactionRollback),
			Category:     domain.AuditCategoryRollback,
			Severity:     domain.SeverityWarning,
			ErrorSummary: cause.Error(),
			Context: domain.JSON{
				"operation":      action,
				"reversed_steps": reversed,
			},
		})
	}

	if domain.CategoryOf(cause) == domain.CategorySystem {
		p.unstable.Store(true)
	}

	p.audit.Record(ctx, domain.AuditLog{
		Actor:        actor,
		Action:       action,
		Category:     domain.AuditCategoryTransaction,
		Severity:     domain.SeverityError,
		ErrorSummary: cause.Error(),
		Context:      auditCtx,
	})

	return ProcessResult{Err: cause}
}
