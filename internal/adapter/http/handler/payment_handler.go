package handler

import (
	"encoding/json"
	"net/http"

	"github.com/adiprasetyo/kopledger/internal/adapter/http/dto"
	"github.com/adiprasetyo/kopledger/internal/domain"
	"github.com/adiprasetyo/kopledger/internal/infrastructure/metrics"
	"github.com/adiprasetyo/kopledger/internal/usecase"
)

// PaymentHandler handles payment and batch submissions.
type PaymentHandler struct {
	processor    *usecase.TransactionProcessor
	orchestrator *usecase.BatchOrchestrator
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(processor *usecase.TransactionProcessor, orchestrator *usecase.BatchOrchestrator) *PaymentHandler {
	return &PaymentHandler{
		processor:    processor,
		orchestrator: orchestrator,
	}
}

// Create processes a single debt or credit payment.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	payment := req.ToDomain()
	result := h.processor.Process(r.Context(), usecase.Request{Payment: &payment}, usecase.ProcessOptions{
		Actor: actorFrom(r),
	})
	if !result.Success {
		metrics.RecordPayment(string(payment.Kind), metrics.StatusFailed)
		metrics.RecordEngineError(string(domain.CategoryOf(result.Err)))
		writeEngineError(w, result.Err)
		return
	}

	metrics.RecordPayment(string(payment.Kind), metrics.StatusCompleted)
	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(result.Transaction, result.Warnings))
}

// CreateBatch processes an ordered batch of payments. Each item commits or
// rolls back on its own; the response carries the per-item outcomes.
func (h *PaymentHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if len(req.Payments) == 0 {
		writeError(w, http.StatusBadRequest, "empty batch", "at least one payment is required")
		return
	}

	result := h.orchestrator.ProcessBatch(r.Context(), req.ToRequests(), actorFrom(r), nil)
	metrics.RecordBatch(result.SuccessCount, result.FailureCount, result.SkippedCount)

	status := http.StatusCreated
	if result.FailureCount > 0 || result.SkippedCount > 0 {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, dto.BatchFromResult(result))
}
