package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/adiprasetyo/kopledger/internal/adapter/http/dto"
	"github.com/adiprasetyo/kopledger/internal/adapter/http/middleware"
	"github.com/adiprasetyo/kopledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeEngineError maps a processing failure onto an HTTP status and
// surfaces the structured error fields to the client.
func writeEngineError(w http.ResponseWriter, err error) {
	resp := dto.ErrorResponse{Error: err.Error()}

	var engineErr *domain.Error
	if errors.As(err, &engineErr) {
		resp.Error = engineErr.Message
		resp.Category = string(engineErr.Category)
		resp.Recoverable = engineErr.Recoverable
		resp.Suggestions = engineErr.Suggestions
	}

	writeJSON(w, mapDomainError(err), resp)
}

// mapDomainError maps engine errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrMemberNotFound),
		errors.Is(err, domain.ErrStockItemNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrRatioNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEngineUnstable):
		return http.StatusServiceUnavailable
	}

	switch domain.CategoryOf(err) {
	case domain.CategoryValidation:
		return http.StatusBadRequest
	case domain.CategoryBusiness, domain.CategoryCalculation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// actorFrom resolves the audit actor for a request: the authenticated user
// when auth is enabled, "api" otherwise.
func actorFrom(r *http.Request) string {
	if user, ok := middleware.GetUserFromContext(r.Context()); ok {
		if user.Name != "" {
			return user.Name
		}
		return user.ID
	}
	return "api"
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
