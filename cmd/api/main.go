// Package main is the entry point for the shelfwatch API server.
//
// It loads configuration, connects the database pool, wires the notification
// pipeline (selector, deduplicator, composer, dispatcher) behind the HTTP
// handlers, and serves with graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"shelfwatch/internal/api/handlers"
	"shelfwatch/internal/config"
	"shelfwatch/internal/core"
	"shelfwatch/internal/db"
	"shelfwatch/internal/external"
	"shelfwatch/internal/notifications"
	"shelfwatch/internal/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit on
// error.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("shelfwatch API starting",
		"environment", cfg.Environment,
		"version", cfg.Build.Version,
		"commit", cfg.Build.Commit,
		"port", cfg.Server.Port,
	)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting database: %w", err)
	}

	userRepo := db.NewUserRepository(pool)
	productRepo := db.NewProductRepository(pool)
	notifRepo := db.NewNotificationRepository(pool)

	fonnte := external.NewFonnteClient(
		&http.Client{Timeout: cfg.WhatsApp.SendTimeout},
		external.FonnteClientConfig{
			Token:       cfg.WhatsApp.FonnteToken,
			CountryCode: cfg.WhatsApp.CountryCode,
			BaseURL:     cfg.WhatsApp.BaseURL,
			Logger:      logger,
		},
	)
	dispatcher := notifications.NewDispatcher(fonnte, cfg.WhatsApp.FonnteToken, cfg.WhatsApp.CountryCode, logger)
	raiser := notifications.NewRaiser(notifRepo, types.RealClock{}, logger)
	coordinator := notifications.NewCoordinator(
		userRepo,
		productRepo,
		raiser,
		dispatcher,
		cfg.RH.WindowDays,
		types.RealClock{},
		logger,
	)

	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		pool.Close()
		return fmt.Errorf("creating server: %w", err)
	}
	srv.Closers = append(srv.Closers, pool.Close)
	srv.HealthProbes = append(srv.HealthProbes, db.NewProbe(pool))

	notifHandler := handlers.NewNotificationHandler(coordinator, notifRepo, userRepo, srv.Validator, logger)
	productHandler := handlers.NewProductHandler(productRepo, cfg.RH.WindowDays, types.RealClock{}, logger)
	userHandler := handlers.NewUserHandler(userRepo, srv.Validator, logger)

	srv.V1RouteRegistrars = append(srv.V1RouteRegistrars,
		func(r chi.Router) { notifHandler.RegisterRoutes(r) },
		func(r chi.Router) { productHandler.RegisterRoutes(r) },
		func(r chi.Router) { userHandler.RegisterRoutes(r) },
	)

	srv.MountRoutes()

	return runHTTPServer(srv, cfg, logger)
}

// runHTTPServer starts the server in standard HTTP mode with graceful
// shutdown.
func runHTTPServer(srv *core.Server, cfg *config.Config, logger *slog.Logger) error {
	addr := ":" + cfg.Server.Port

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server resource shutdown error", "error", err)
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newLogger creates a structured slog.Logger configured for the given level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
