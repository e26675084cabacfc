// Command api is the Roster Compiler API server.
//
// Usage:
//
//	compiler-api
//	API_PORT=8080 HISTORY_DRIVER=sqlite HISTORY_DSN=history.db compiler-api

// @title Roster Compiler API
// @version 1.0.0
// @description Compiles JSON rosters into legacy team saves, inspects saves, and lists compile history.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @contact.name Roster Compiler
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ryanadelino-stack/compiler-api/internal/api"
	"github.com/ryanadelino-stack/compiler-api/internal/api/handler"
	"github.com/ryanadelino-stack/compiler-api/internal/cache"
	"github.com/ryanadelino-stack/compiler-api/internal/compiler"
	"github.com/ryanadelino-stack/compiler-api/internal/config"
	"github.com/ryanadelino-stack/compiler-api/internal/history"
	"github.com/ryanadelino-stack/compiler-api/internal/maintenance"
	"github.com/ryanadelino-stack/compiler-api/internal/metrics"

	_ "github.com/ryanadelino-stack/compiler-api/docs" // swagger docs
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	comp, tables, err := compiler.FromConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to build compiler", "error", err)
		os.Exit(1)
	}
	logger.Info("Compiler ready",
		"team_suid", cfg.TeamClassSUID,
		"max_depth", cfg.GuardLimits.MaxDepth,
		"max_refs", cfg.GuardLimits.MaxRefs,
		"max_bytes", cfg.GuardLimits.MaxBytes)

	// Compile history
	store, err := history.Open(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open compile history", "driver", cfg.HistoryDriver, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	if cfg.HistoryDriver != "" {
		logger.Info("Compile history connected",
			"driver", cfg.HistoryDriver,
			"min_conns", cfg.DBPoolMinConns,
			"max_conns", cfg.DBPoolMaxConns)
	} else {
		logger.Info("Compile history disabled (no HISTORY_DRIVER)")
	}

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled, cfg.CacheTTL)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled, "ttl", cfg.CacheTTL)

	// Start maintenance tickers (history retention, cache eviction)
	go maintenance.Start(ctx, store, appCache, maintenance.Config{
		PruneInterval: cfg.MaintenanceInterval,
		EvictInterval: maintenance.DefaultConfig().EvictInterval,
		Retention:     cfg.HistoryRetention,
	}, logger)

	var rec *metrics.Recorder
	if cfg.MetricsEnabled {
		rec = metrics.New()
	}

	// Create router
	router := api.NewRouter(handler.Deps{
		Compiler: comp,
		Cache:    appCache,
		History:  store,
		Metrics:  rec,
		Tables:   tables,
		Logger:   logger,
	}, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Roster Compiler API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
