package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/quick-order/configs"
	"github.com/jcmexdev/quick-order/internal/coordinator"
	"github.com/jcmexdev/quick-order/internal/coordinator/submitlog"
	"github.com/jcmexdev/quick-order/internal/coordinator/submitlog/sqlite"
	"github.com/jcmexdev/quick-order/internal/pkg/telemetry"
	"github.com/jcmexdev/quick-order/internal/storefront/catalog"
	"github.com/jcmexdev/quick-order/internal/storefront/core/ports"
	"github.com/jcmexdev/quick-order/internal/storefront/infra/adapters/cartclient"
	"github.com/jcmexdev/quick-order/internal/storefront/infra/httpx"
)

func main() {
	cfg, err := configs.Load(getEnv("CONFIG_DIR", "configs"), os.Getenv("APP_ENV"))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateStorefront(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	telemetry.InitLogger(telemetry.LoggerOptions{Service: "storefront", Level: cfg.App.LogLevel, File: cfg.App.LogFile})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "storefront"), cfg.Telemetry.Enabled)
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	items, err := catalog.Load(cfg.Catalog.Path, cfg.Catalog.Currency)
	if err != nil {
		slog.Error("failed to load catalog", "path", cfg.Catalog.Path, "error", err)
		os.Exit(1)
	}

	var logRepo submitlog.Repository = submitlog.NewMemoryRepository()
	if path := cfg.SubmitLog.SQLitePath; path != "" {
		repo, err := sqlite.Open(path)
		if err != nil {
			slog.Error("failed to open submission log", "path", path, "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		logRepo = repo
	}

	var carts ports.CartService
	if cfg.CartService.BaseURL == "" {
		slog.Warn("cart_service.base_url not set, using in-memory fake cart service")
		carts = cartclient.NewFake()
	} else {
		carts = cartclient.New(cfg.CartService.BaseURL, cfg.CartService.Timeout)
	}

	registry := httpx.NewRegistry(coordinator.NewSubmitter(carts, logRepo), cfg.CartService.CartPage)
	handler := httpx.NewHandler(registry, items, logRepo)

	srv := &http.Server{
		Addr:         cfg.App.HTTPAddr,
		Handler:      httpx.NewRouter(handler),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		slog.Info("storefront running", "addr", srv.Addr, "catalog_items", len(items), "cart_service", cfg.CartService.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down storefront")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
