package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/quick-order/configs"
	"github.com/jcmexdev/quick-order/internal/cart-service/app"
	"github.com/jcmexdev/quick-order/internal/cart-service/authz"
	"github.com/jcmexdev/quick-order/internal/cart-service/events"
	"github.com/jcmexdev/quick-order/internal/cart-service/idempotency"
	"github.com/jcmexdev/quick-order/internal/cart-service/store"
	"github.com/jcmexdev/quick-order/internal/pkg/cache"
	"github.com/jcmexdev/quick-order/internal/pkg/telemetry"
)

func main() {
	issueFor := flag.String("issue-token", "", "print a session token for the given subject and exit")
	flag.Parse()

	cfg, err := configs.Load(getEnv("CONFIG_DIR", "configs"), os.Getenv("APP_ENV"))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateCartService(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	auth := authz.New(authz.Config{
		Secret:   cfg.Security.JWTSecret,
		Issuer:   cfg.Security.Issuer,
		Audience: cfg.Security.Audience,
		TTL:      cfg.Security.TTL,
	})
	if *issueFor != "" {
		tok, err := auth.IssueToken(*issueFor)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(tok)
		return
	}

	telemetry.InitLogger(telemetry.LoggerOptions{Service: "cart-service", Level: cfg.App.LogLevel, File: cfg.App.LogFile})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "cart-service"), cfg.Telemetry.Enabled)
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

	var (
		carts store.Repository  = store.NewMemoryRepository()
		idem  idempotency.Store = idempotency.NewMemoryStore(cfg.Idempotency.TTL)
	)
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			slog.Error("failed to connect to redis", "addr", cfg.Redis.Addr, "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		carts = store.NewRedisRepository(rdb)
		idem = idempotency.NewRedisStore(rdb, cfg.Idempotency.TTL)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Rabbit.URL != "" {
		rp, err := events.DialRabbit(cfg.Rabbit.URL, cfg.Rabbit.Exchange)
		if err != nil {
			slog.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rp.Close()
		publisher = rp
	}

	handler := app.NewHandler(app.NewCartService(carts, idem, publisher))
	srv := &http.Server{
		Addr:         cfg.CartService.ListenAddr,
		Handler:      app.NewRouter(handler, auth),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		slog.Info("cart service running",
			"addr", srv.Addr,
			"redis", cfg.Redis.Addr != "",
			"rabbitmq", cfg.Rabbit.URL != "",
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down cart service")
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
