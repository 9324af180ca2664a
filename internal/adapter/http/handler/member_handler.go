package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adiprasetyo/kopledger/internal/adapter/http/dto"
	"github.com/adiprasetyo/kopledger/internal/domain"
	"github.com/adiprasetyo/kopledger/internal/usecase"
)

// MemberHandler handles member registry and balance requests.
type MemberHandler struct {
	members usecase.MemberRepository
	balance *usecase.BalanceCalculator
	audit   *usecase.AuditRecorder
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(members usecase.MemberRepository, balance *usecase.BalanceCalculator, audit *usecase.AuditRecorder) *MemberHandler {
	return &MemberHandler{
		members: members,
		balance: balance,
		audit:   audit,
	}
}

// Create registers a member with their opening totals.
func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid member", "id and name are required")
		return
	}
	if req.OpeningDebt.IsNegative() || req.OpeningCredit.IsNegative() {
		writeError(w, http.StatusBadRequest, "invalid member", "opening totals cannot be negative")
		return
	}

	member := req.ToDomain()
	if err := h.members.Create(r.Context(), member); err != nil {
		writeEngineError(w, err)
		return
	}

	h.audit.Record(r.Context(), domain.AuditLog{
		Actor:    actorFrom(r),
		Action:   string(domain.AuditActionMemberRegister),
		Category: domain.AuditCategoryConfig,
		Severity: domain.SeverityInfo,
		Context: domain.JSON{
			"member_id":      member.ID,
			"opening_debt":   member.OpeningDebt.String(),
			"opening_credit": member.OpeningCredit.String(),
		},
	})

	writeJSON(w, http.StatusCreated, dto.MemberFromDomain(member))
}

// List returns all registered members.
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.members.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list members", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MembersFromDomain(members))
}

// Balance returns a member's outstanding balance for a payment kind.
func (h *MemberHandler) Balance(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")
	if memberID == "" {
		writeError(w, http.StatusBadRequest, "missing member ID", "")
		return
	}

	kind := domain.TransactionKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = domain.KindDebtPayment
	}

	balance, err := h.balance.Balance(r.Context(), memberID, kind)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		MemberID: memberID,
		Kind:     string(kind),
		Balance:  balance,
	})
}
