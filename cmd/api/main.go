// Command api is the Lounge Stats API server: a caching proxy in front of
// the MK Central lounge ranking API.
//
// Usage:
//
//	lounge-api
//	PORT=8080 lounge-api
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/mklounge/stats-api/internal/api"
	"github.com/mklounge/stats-api/internal/cache"
	"github.com/mklounge/stats-api/internal/config"
	"github.com/mklounge/stats-api/internal/lounge"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled, cfg.CacheMaxEntries, cfg.CacheDefaultTTL)
	logger.Info("Cache initialized",
		"enabled", cfg.CacheEnabled,
		"max_entries", cfg.CacheMaxEntries,
		"default_ttl", cfg.CacheDefaultTTL)

	// Upstream lounge client
	client := lounge.NewClient(cfg.LoungeBaseURL, cfg.LoungeRequestsPerMinute, cfg.LoungeTimeout, logger)

	// Create router
	router := api.NewRouter(appCache, client, cfg, logger)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Lounge Stats API",
			"addr", addr,
			"environment", cfg.Environment,
			"upstream", cfg.LoungeBaseURL)
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
