package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solar-ledger/config"
	httpHandler "solar-ledger/internal/adapter/http/handler"
	"solar-ledger/internal/adapter/storage/memory"
	redisStorage "solar-ledger/internal/adapter/storage/redis"
	"solar-ledger/internal/core/ports"
	"solar-ledger/internal/service"
	"solar-ledger/pkg/logger"

	"github.com/shopspring/decimal"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("node", cfg.Integrity.NodeName).
		Msg("Starting Solar Ledger")

	ctx := context.Background()

	// Optional Redis (rate limiting + health). The ledger itself is
	// in-memory; a node runs fine without Redis, just unthrottled.
	var rateLimitStore *redisStorage.RateLimitStore
	var healthCheckers []ports.HealthChecker
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()

		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	} else {
		log.Warn().Msg("Redis disabled, rate limiting off")
	}

	// Initialize in-memory stores
	walletStore := memory.NewWalletStore()
	orderBook := memory.NewOrderBook()

	// Initialize protocol registry from the fixed deployment constants
	registry, err := service.NewProtocolRegistry(cfg.Protocol)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid protocol constants")
	}

	// Initialize business services
	seed := decimal.NewFromFloat(cfg.Ledger.SeedBalance)
	ledgerSvc := service.NewLedgerService(walletStore, seed, log)
	marketSvc := service.NewMarketService(orderBook, log)
	integritySvc := service.NewIntegrityService(
		registry,
		&http.Client{Timeout: cfg.Integrity.Timeout},
		cfg.Integrity.Timeout,
		log,
	)
	querySvc := service.NewQueryService(ledgerSvc, marketSvc, registry, log)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		LedgerSvc:      ledgerSvc,
		MarketSvc:      marketSvc,
		IntegritySvc:   integritySvc,
		QuerySvc:       querySvc,
		NodeName:       cfg.Integrity.NodeName,
		RateLimitStore: rateLimitStore,
		HealthCheckers: healthCheckers,
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
