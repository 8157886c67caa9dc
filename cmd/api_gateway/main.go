package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/loyalty-points-ledger/internal/api_gateway"
	"github.com/loyalty-points-ledger/internal/api_gateway/service"
	"github.com/loyalty-points-ledger/internal/config"
	"github.com/loyalty-points-ledger/internal/data/mongo"
	"github.com/loyalty-points-ledger/internal/data/postgres"
	redisdata "github.com/loyalty-points-ledger/internal/data/redis"
	"github.com/loyalty-points-ledger/internal/engine"
	"github.com/loyalty-points-ledger/internal/identity"
	"github.com/loyalty-points-ledger/internal/logger"
	"github.com/loyalty-points-ledger/internal/platform/metrics"
	"github.com/loyalty-points-ledger/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	redisDB, err := persistence.NewRedisDB(appCtx, log, &cfg.Redis)
	if err != nil {
		log.Error("Failed to initialize Redis", "error", err)
		os.Exit(1)
	}

	// Initialize metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	creditMetrics := metrics.NewCreditMetrics(registry)

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	merchantRepo := redisdata.NewMerchantCache(
		log,
		redisDB.Client(),
		postgres.NewMerchantRepository(log, postgresDB),
		cfg.Redis.TTL,
	)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	ledgerStore := postgres.NewLedgerStore(log, postgresDB, outboxRepo)
	redemptionRepo := mongo.NewRedemptionRepository(log, mongoDB.Database())

	// Initialize identity gate
	verifier, err := identity.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	if err != nil {
		log.Error("Failed to initialize token verifier", "error", err)
		os.Exit(1)
	}
	gate := identity.NewGate(log, verifier, accountRepo)

	// Initialize the ledger engine and services
	ledgerEngine := engine.NewEngine(log, accountRepo, merchantRepo, ledgerStore, creditMetrics)
	merchantService := service.NewMerchantService(merchantRepo)
	accountService := service.NewAccountService(accountRepo)
	redemptionService := service.NewRedemptionService(redemptionRepo)

	// Initialize REST server
	server := api_gateway.NewServer(log, cfg, gate, registry, ledgerEngine, merchantService, accountService, redemptionService)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Shutdown HTTP server
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if err = redisDB.Close(); err != nil {
		log.Error("Error closing Redis connection", "error", err)
	}

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
