package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taxcore/config"
	httpHandler "taxcore/internal/adapter/http/handler"
	pgStorage "taxcore/internal/adapter/storage/postgres"
	redisStorage "taxcore/internal/adapter/storage/redis"
	"taxcore/internal/core/ports"
	"taxcore/internal/service"
	"taxcore/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("taxcore", cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting tax compliance core")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	recordRepo := pgStorage.NewRecordRepo(pool)
	ruleRepo := pgStorage.NewRuleTableRepo(pool)
	ledgerRepo := pgStorage.NewLedgerRepo(pool)
	lotRepo := pgStorage.NewLotRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	ruleCache := redisStorage.NewRuleTableCache(rdb)

	// Initialize core services
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	ledgerSvc := service.NewLedgerService(ledgerRepo, transactor, log)

	// Initialize business services
	taxSvc := service.NewTaxService(ruleRepo, ruleCache, recordRepo, ledgerSvc, transactor, log)
	costBasisSvc := service.NewCostBasisService(lotRepo, recordRepo, ruleRepo, ledgerSvc, transactor, log)
	correctionSvc := service.NewCorrectionService(recordRepo, ledgerSvc, transactor, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		TaxSvc:         taxSvc,
		CostBasisSvc:   costBasisSvc,
		CorrectionSvc:  correctionSvc,
		LedgerSvc:      ledgerSvc,
		TokenSvc:       tokenSvc,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
