package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/adiprasetyo/kopledger/internal/usecase"
)

// CheckFunc probes one dependency for readiness.
type CheckFunc func(ctx context.Context) error

// HealthHandler handles health check requests. Readiness probes the injected
// dependency checks and refuses traffic while the engine is unstable.
type HealthHandler struct {
	checks    map[string]CheckFunc
	processor *usecase.TransactionProcessor
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(checks map[string]CheckFunc, processor *usecase.TransactionProcessor) *HealthHandler {
	return &HealthHandler{
		checks:    checks,
		processor: processor,
	}
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 if the service is ready to accept traffic.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.processor != nil && h.processor.Unstable() {
		writeError(w, http.StatusServiceUnavailable, "engine unstable", "a system failure requires intervention")
		return
	}

	status := map[string]string{"status": "ready"}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, name+" unhealthy", err.Error())
			return
		}
		status[name] = "ok"
	}

	writeJSON(w, http.StatusOK, status)
}
