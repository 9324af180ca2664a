package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpAdapter "github.com/adiprasetyo/kopledger/internal/adapter/http"
	"github.com/adiprasetyo/kopledger/internal/adapter/http/handler"
	badgerRepo "github.com/adiprasetyo/kopledger/internal/adapter/repository/badger"
	"github.com/adiprasetyo/kopledger/internal/adapter/repository/kv"
	"github.com/adiprasetyo/kopledger/internal/adapter/repository/memory"
	redisRepo "github.com/adiprasetyo/kopledger/internal/adapter/repository/redis"
	"github.com/adiprasetyo/kopledger/internal/infrastructure/auth"
	"github.com/adiprasetyo/kopledger/internal/infrastructure/config"
	"github.com/adiprasetyo/kopledger/internal/infrastructure/logger"
	"github.com/adiprasetyo/kopledger/internal/infrastructure/redis"
	"github.com/adiprasetyo/kopledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	// Storage: on-disk badger by default, in-memory for throwaway runs.
	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.StorePath).Msg("failed to open store")
	}
	defer closeStore()
	log.Info().Bool("in_memory", cfg.StoreInMemory).Str("path", cfg.StorePath).Msg("store opened")

	// Cache and idempotency: redis when configured, in-process otherwise.
	var (
		cache            usecase.Cache
		idempotencyStore usecase.IdempotencyStore
		checks           = map[string]handler.CheckFunc{
			"store": func(ctx context.Context) error {
				_, err := store.Get(ctx, "health:probe")
				if errors.Is(err, usecase.ErrKeyNotFound) {
					return nil
				}
				return err
			},
		}
	)
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")

		cache = redisRepo.NewCache(redisClient)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	} else {
		cache = memory.NewCache()
	}

	// Repositories
	memberRepo := kv.NewMemberRepo(store)
	transactionRepo := kv.NewTransactionRepo(store)
	journalRepo := kv.NewJournalRepo(store)
	stockRepo := kv.NewStockRepo(store)
	ratioRepo := kv.NewRatioRepo(store)
	auditRepo := kv.NewAuditRepo(store)
	idGen := kv.NewULIDGenerator()

	// Engine
	audit := usecase.NewAuditRecorder(auditRepo, idGen, cfg.AuditMaxRows)
	stockStore := usecase.NewStockBalanceStore(stockRepo, cache, cfg.CacheTTL)
	balance := usecase.NewBalanceCalculator(memberRepo, transactionRepo)
	journal := usecase.NewJournalWriter(journalRepo, idGen)
	conversion := usecase.NewConversionCalculator(ratioRepo)
	processor := usecase.NewTransactionProcessor(
		memberRepo, transactionRepo, journal, balance, conversion, stockStore, audit, idGen)
	orchestrator := usecase.NewBatchOrchestrator(processor, audit, idGen)

	var jwtManager *auth.JWTManager
	if cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		PaymentHandler:        handler.NewPaymentHandler(processor, orchestrator),
		TransformationHandler: handler.NewTransformationHandler(processor),
		MemberHandler:         handler.NewMemberHandler(memberRepo, balance, audit),
		StockHandler:          handler.NewStockHandler(stockStore, audit),
		RatioHandler:          handler.NewRatioHandler(ratioRepo, audit),
		AuditHandler:          handler.NewAuditHandler(audit),
		HealthHandler:         handler.NewHealthHandler(checks, processor),
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
		JWTManager:            jwtManager,
		RequireAuth:           cfg.AuthEnabled,
		Logger:                log,
		RateLimitPerSecond:    cfg.RateLimitPerSecond,
		RateLimitBurst:        cfg.RateLimitBurst,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// openStore returns the key-value store plus its close function. The
// in-memory store needs no cleanup, so its closer is a no-op.
func openStore(cfg *config.Config) (usecase.Store, func(), error) {
	if cfg.StoreInMemory {
		return memory.NewStore(), func() {}, nil
	}

	store, err := badgerRepo.NewStore(cfg.StorePath)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}
