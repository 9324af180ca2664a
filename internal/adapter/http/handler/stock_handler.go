package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adiprasetyo/kopledger/internal/adapter/http/dto"
	"github.com/adiprasetyo/kopledger/internal/domain"
	"github.com/adiprasetyo/kopledger/internal/usecase"
)

// StockHandler serves stock views and denomination registration.
type StockHandler struct {
	stock *usecase.StockBalanceStore
	audit *usecase.AuditRecorder
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stock *usecase.StockBalanceStore, audit *usecase.AuditRecorder) *StockHandler {
	return &StockHandler{stock: stock, audit: audit}
}

// Create registers or replaces a stock denomination.
func (h *StockHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateStockItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Code == "" || req.BaseProduct == "" || req.Unit == "" {
		writeError(w, http.StatusBadRequest, "invalid stock item", "code, base_product and unit are required")
		return
	}
	if req.Quantity < 0 {
		writeError(w, http.StatusBadRequest, "invalid stock item", "quantity cannot be negative")
		return
	}

	item := req.ToDomain()
	if err := h.stock.Save(r.Context(), item); err != nil {
		writeEngineError(w, err)
		return
	}

	h.audit.Record(r.Context(), domain.AuditLog{
		Actor:    actorFrom(r),
		Action:   string(domain.AuditActionStockConfigure),
		Category: domain.AuditCategoryConfig,
		Severity: domain.SeverityInfo,
		Context: domain.JSON{
			"code":         item.Code,
			"base_product": item.BaseProduct,
			"unit":         item.Unit,
			"quantity":     item.Quantity,
		},
	})

	writeJSON(w, http.StatusCreated, dto.StockItemFromDomain(item))
}

// List returns all stock denominations.
func (h *StockHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.stock.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list stock", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StockItemsFromDomain(items))
}

// Get returns one stock denomination by code.
func (h *StockHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing stock code", "")
		return
	}

	item, err := h.stock.Get(r.Context(), code)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StockItemFromDomain(item))
}
