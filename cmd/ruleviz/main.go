// Ruleviz - Merged workflow rule graphs that deploy in 60 seconds.
// Copyright (c) 2025 careops
// Licensed under the Apache License 2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/careops/ruleviz/internal/api"
	"github.com/careops/ruleviz/internal/bus"
	"github.com/careops/ruleviz/internal/cache"
	"github.com/careops/ruleviz/internal/domain"
	"github.com/careops/ruleviz/internal/layout"
	"github.com/careops/ruleviz/internal/repository"
	"github.com/careops/ruleviz/internal/validate"
	"github.com/careops/ruleviz/internal/worker"
)

// Version information (set via ldflags)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	// Initialize structured logger
	logLevel := slog.LevelInfo
	if os.Getenv("RULEVIZ_DEBUG") == "true" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Log startup
	slog.Info("starting ruleviz",
		"version", Version,
		"commit", Commit,
		"build_date", BuildDate,
	)

	// Load configuration
	cfg := domain.DefaultConfig()

	// Check for Pro tier via environment
	if os.Getenv("RULEVIZ_TIER") == "pro" {
		cfg = domain.ProConfig()
		slog.Info("running in Pro tier mode")
	}

	slog.Info("configuration loaded",
		"tier", cfg.Tier,
		"repository", cfg.Repository.Driver,
		"cache", cfg.Cache.Type,
		"eventbus", cfg.EventBus.Type,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Initialize Repository
	repo, err := repository.New(cfg.Repository)
	if err != nil {
		slog.Error("failed to initialize repository", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	slog.Info("repository initialized", "driver", cfg.Repository.Driver)

	// Initialize Cache
	cacheImpl, err := cache.New(cfg.Cache)
	if err != nil {
		slog.Error("failed to initialize cache", "error", err)
		os.Exit(1)
	}
	defer cacheImpl.Close()
	slog.Info("cache initialized", "type", cfg.Cache.Type)

	// Initialize EventBus
	busImpl, err := bus.New(cfg.EventBus)
	if err != nil {
		slog.Error("failed to initialize event bus", "error", err)
		os.Exit(1)
	}
	defer busImpl.Close()
	slog.Info("event bus initialized", "type", cfg.EventBus.Type)

	// Initialize rule validator
	validator, err := validate.NewValidator()
	if err != nil {
		slog.Error("failed to initialize validator", "error", err)
		os.Exit(1)
	}
	slog.Info("validator initialized")

	// Layout defaults for graph computation
	layoutOpts := layoutOptions(cfg.Layout)

	// Initialize recompute worker
	tenantIDs := []string{"default"}
	if envTenants := os.Getenv("RULEVIZ_TENANTS"); envTenants != "" {
		tenantIDs = strings.Split(envTenants, ",")
	}

	recomputeWorker := worker.NewWorker(busImpl, repo, cacheImpl, layoutOpts)
	if err := recomputeWorker.Start(worker.Config{TenantIDs: tenantIDs}); err != nil {
		slog.Error("failed to start recompute worker", "error", err)
	} else {
		slog.Info("recompute worker started", "tenant_count", len(tenantIDs))
	}

	// Initialize Server
	srv := api.NewServer(cfg.Server, repo, cacheImpl, busImpl, validator, layoutOpts, Version)

	// Start Server in goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("ruleviz is ready",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	printBanner(cfg, Version)

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("shutting down...")

	// Stop recompute worker first
	if err := recomputeWorker.Stop(); err != nil {
		slog.Error("failed to stop recompute worker", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("ruleviz shutdown complete")
}

// layoutOptions maps configured layout defaults onto engine options.
func layoutOptions(cfg domain.LayoutConfig) layout.Options {
	opts := layout.DefaultOptions()
	switch layout.Direction(cfg.Direction) {
	case layout.DirectionLR, layout.DirectionRL, layout.DirectionTB, layout.DirectionBT:
		opts.Direction = layout.Direction(cfg.Direction)
	}
	if cfg.RankSep > 0 {
		opts.RankSep = cfg.RankSep
	}
	if cfg.NodeSep > 0 {
		opts.NodeSep = cfg.NodeSep
	}
	return opts
}

func printBanner(cfg *domain.Config, version string) {
	fmt.Println()
	fmt.Println("  ==============================================")
	fmt.Println("              RULEVIZ")
	fmt.Println("     Workflow Rule Graph Engine")
	fmt.Println("      Every rule, one picture.")
	fmt.Println("  ==============================================")
	fmt.Println()
	fmt.Printf("  Version:  %s\n", version)
	fmt.Printf("  Tier:     %s\n", cfg.Tier)
	fmt.Printf("  Server:   http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println()
	fmt.Println("  Endpoints:")
	fmt.Println("    GET    /rules        - List all rules")
	fmt.Println("    POST   /rules        - Create a new rule")
	fmt.Println("    GET    /rules/{id}   - Get rule by ID")
	fmt.Println("    PUT    /rules/{id}   - Update a rule")
	fmt.Println("    DELETE /rules/{id}   - Delete a rule")
	fmt.Println("    GET    /graph        - Merged workflow graph with layout")
	fmt.Println("    GET    /summary      - Rule collection summary")
	fmt.Println("    GET    /health       - Health check")
	fmt.Println()
}
