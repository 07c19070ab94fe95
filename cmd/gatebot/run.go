package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Proton-105/gatebot/internal/bot"
	"github.com/Proton-105/gatebot/internal/health"
	"github.com/Proton-105/gatebot/internal/lifecycle"
	"github.com/Proton-105/gatebot/internal/middleware"
	"github.com/Proton-105/gatebot/internal/registry"
	"github.com/Proton-105/gatebot/pkg/config"
	"github.com/Proton-105/gatebot/pkg/graceful"
	"github.com/Proton-105/gatebot/pkg/logger"
	appredis "github.com/Proton-105/gatebot/pkg/redis"
)

func runBot(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load(globalFlags.env)
	if err != nil {
		return err
	}
	if globalFlags.debug {
		cfg.Log.Level = "debug"
	}

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.AppEnv,
			Release:     programName + "@" + Version,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	log, logCloser := logger.New(cfg.Log, cfg.Sentry.Enabled)
	defer func() { _ = logCloser.Close() }()
	slog.SetDefault(log)

	log.Info("starting "+programName,
		slog.String("version", versionString()),
		slog.String("env", cfg.AppEnv),
		slog.String("mode", cfg.Bot.Mode),
		slog.String("registry", cfg.Registry.Backend),
	)

	config.Watch(v, log)

	shutdown := lifecycle.NewShutdown(log)
	checker := health.NewChecker(log)

	store, closeStore, err := newStore(ctx, cfg, log, checker)
	if err != nil {
		return err
	}
	// The store outlives the bot so in-flight updates can still record users.
	defer func() {
		if err := closeStore(); err != nil {
			log.Error("failed to close registry store", slog.Any("error", err))
		}
	}()

	users := registry.New(store, log)

	b, err := bot.New(*cfg, log, users)
	if err != nil {
		return err
	}
	checker.AddCheck("telegram", health.NewTelegramChecker(b.Telebot()))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", checker)
	server := graceful.NewServer(log, cfg.Server.Addr, logger.Middleware(middleware.New(log)(mux)), cfg.Server.ShutdownTimeout)

	serverErr := make(chan error, 1)
	go func() { serverErr <- server.ListenAndServe(ctx) }()

	botDone := make(chan struct{})
	go func() {
		defer close(botDone)
		b.Start()
	}()

	shutdown.Register("telegram", func(ctx context.Context) error {
		go b.Stop()
		select {
		case <-botDone:
			return nil
		case <-ctx.Done():
			return fmt.Errorf("bot did not stop: %w", ctx.Err())
		}
	})

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			log.Error("observability server stopped", slog.Any("error", err))
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return shutdown.Execute(shutdownCtx)
}

func newStore(ctx context.Context, cfg *config.Config, log *slog.Logger, checker *health.Checker) (registry.Store, func() error, error) {
	if cfg.Registry.Backend != config.BackendRedis {
		log.Warn("using in-memory user registry; known users are lost on restart")
		return registry.NewMemoryStore(), func() error { return nil }, nil
	}

	client, err := appredis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}

	checker.AddCheck("redis", health.NewRedisChecker(client))

	return registry.NewRedisStore(client, cfg.Registry.Key, log), client.Close, nil
}
