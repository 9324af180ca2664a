package handler

import (
	"encoding/json"
	"net/http"

	"github.com/adiprasetyo/kopledger/internal/adapter/http/dto"
	"github.com/adiprasetyo/kopledger/internal/domain"
	"github.com/adiprasetyo/kopledger/internal/usecase"
)

// RatioHandler handles conversion ratio configuration.
type RatioHandler struct {
	ratios usecase.RatioRepository
	audit  *usecase.AuditRecorder
}

// NewRatioHandler creates a new RatioHandler.
func NewRatioHandler(ratios usecase.RatioRepository, audit *usecase.AuditRecorder) *RatioHandler {
	return &RatioHandler{ratios: ratios, audit: audit}
}

// Create configures a conversion ratio for one unit pair.
func (h *RatioHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRatioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	ratio := req.ToDomain()
	if err := ratio.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid ratio", err.Error())
		return
	}

	if err := h.ratios.Save(r.Context(), ratio); err != nil {
		writeEngineError(w, err)
		return
	}

	h.audit.Record(r.Context(), domain.AuditLog{
		Actor:    actorFrom(r),
		Action:   string(domain.AuditActionRatioConfigure),
		Category: domain.AuditCategoryConfig,
		Severity: domain.SeverityInfo,
		Context: domain.JSON{
			"base_product": ratio.BaseProduct,
			"from_unit":    ratio.FromUnit,
			"to_unit":      ratio.ToUnit,
			"ratio":        ratio.Ratio.String(),
		},
	})

	writeJSON(w, http.StatusCreated, dto.RatioFromDomain(ratio))
}

// List returns all configured ratios.
func (h *RatioHandler) List(w http.ResponseWriter, r *http.Request) {
	ratios, err := h.ratios.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list ratios", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RatiosFromDomain(ratios))
}
