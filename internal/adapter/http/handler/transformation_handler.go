package handler

import (
	"encoding/json"
	"net/http"

	"github.com/adiprasetyo/kopledger/internal/adapter/http/dto"
	"github.com/adiprasetyo/kopledger/internal/domain"
	"github.com/adiprasetyo/kopledger/internal/infrastructure/metrics"
	"github.com/adiprasetyo/kopledger/internal/usecase"
)

// TransformationHandler handles stock re-denomination requests.
type TransformationHandler struct {
	processor *usecase.TransactionProcessor
}

// NewTransformationHandler creates a new TransformationHandler.
func NewTransformationHandler(processor *usecase.TransactionProcessor) *TransformationHandler {
	return &TransformationHandler{processor: processor}
}

// Create processes a stock transformation.
func (h *TransformationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransformationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	transformation := req.ToDomain()
	result := h.processor.Process(r.Context(), usecase.Request{Transformation: &transformation}, usecase.ProcessOptions{
		Actor: actorFrom(r),
	})
	if !result.Success {
		metrics.RecordTransformation(metrics.StatusFailed)
		metrics.RecordEngineError(string(domain.CategoryOf(result.Err)))
		writeEngineError(w, result.Err)
		return
	}

	metrics.RecordTransformation(metrics.StatusCompleted)
	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(result.Transaction, result.Warnings))
}
