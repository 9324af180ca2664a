package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/adiprasetyo/kopledger/internal/adapter/http/handler"
	"github.com/adiprasetyo/kopledger/internal/adapter/http/middleware"
	"github.com/adiprasetyo/kopledger/internal/infrastructure/auth"
	"github.com/adiprasetyo/kopledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	PaymentHandler        *handler.PaymentHandler
	TransformationHandler *handler.TransformationHandler
	MemberHandler         *handler.MemberHandler
	StockHandler          *handler.StockHandler
	RatioHandler          *handler.RatioHandler
	AuditHandler          *handler.AuditHandler
	HealthHandler         *handler.HealthHandler
	IdempotencyStore      usecase.IdempotencyStore
	IdempotencyTTL        time.Duration
	JWTManager            *auth.JWTManager
	RequireAuth           bool
	Logger                zerolog.Logger
	RateLimitPerSecond    float64
	RateLimitBurst        int
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)

	if cfg.RateLimitPerSecond > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
		r.Use(limiter.Limit)
	}

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			if cfg.RequireAuth {
				r.Use(middleware.AuthMiddleware(cfg.JWTManager))
			} else {
				r.Use(middleware.OptionalAuth(cfg.JWTManager))
			}
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Payments
		r.Route("/payments", func(r chi.Router) {
			r.Post("/", cfg.PaymentHandler.Create)
			r.Post("/batch", cfg.PaymentHandler.CreateBatch)
		})

		// Transformations
		r.Post("/transformations", cfg.TransformationHandler.Create)

		// Members
		r.Route("/members", func(r chi.Router) {
			r.Post("/", cfg.MemberHandler.Create)
			r.Get("/", cfg.MemberHandler.List)
			r.Get("/{id}/balance", cfg.MemberHandler.Balance)
		})

		// Stock
		r.Route("/stock", func(r chi.Router) {
			r.Post("/", cfg.StockHandler.Create)
			r.Get("/", cfg.StockHandler.List)
			r.Get("/{code}", cfg.StockHandler.Get)
		})

		// Conversion ratios
		r.Route("/ratios", func(r chi.Router) {
			r.Post("/", cfg.RatioHandler.Create)
			r.Get("/", cfg.RatioHandler.List)
		})

		// Audit trail
		r.Get("/audit", cfg.AuditHandler.List)
	})

	return r
}
