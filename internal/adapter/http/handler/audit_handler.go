package handler

import (
	"net/http"
	"time"

	"github.com/adiprasetyo/kopledger/internal/adapter/http/dto"
	"github.com/adiprasetyo/kopledger/internal/domain"
	"github.com/adiprasetyo/kopledger/internal/usecase"
)

// AuditHandler serves read-only audit trail queries.
type AuditHandler struct {
	audit *usecase.AuditRecorder
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(audit *usecase.AuditRecorder) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List returns audit entries newest first, filtered by the query parameters.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.AuditFilter{
		Actor:    r.URL.Query().Get("actor"),
		Action:   r.URL.Query().Get("action"),
		MemberID: r.URL.Query().Get("member_id"),
		Search:   r.URL.Query().Get("search"),
		Category: domain.AuditCategory(r.URL.Query().Get("category")),
		Severity: domain.Severity(r.URL.Query().Get("severity")),
		Limit:    parseIntQuery(r, "limit", 50),
		Offset:   parseIntQuery(r, "offset", 0),
	}

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start_date", "expected RFC3339 timestamp")
			return
		}
		filter.StartDate = &start
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		end, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end_date", "expected RFC3339 timestamp")
			return
		}
		filter.EndDate = &end
	}

	logs, err := h.audit.Query(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to query audit trail", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AuditLogsFromDomain(logs))
}
