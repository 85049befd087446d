// Package main implements the scheduled notification run. It iterates all
// users, raises deduplicated notification rows for batches at or past their
// return horizon, sends one grouped WhatsApp message per user, and prints a
// summary. The process exits non-zero when any per-user delivery failed, so
// cron monitoring can alert on partial runs.
//
// Usage:
//
//	go run ./cmd/notifier
//	go run ./cmd/notifier --rh-days=30
//
// Schedule examples:
//
//	0 8 * * *  shelfwatch-notifier          # every day at 08:00
//	0 9 * * 1  shelfwatch-notifier          # every Monday at 09:00
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"shelfwatch/internal/config"
	"shelfwatch/internal/db"
	"shelfwatch/internal/external"
	"shelfwatch/internal/notifications"
	"shelfwatch/internal/types"
)

func main() {
	rhDays := flag.Int("rh-days", 0, "override the warning window in days (0 = configured default)")
	flag.Parse()

	report, err := run(*rhDays)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}

	printSummary(report)
	if report.Failed > 0 {
		os.Exit(1)
	}
}

func run(rhDays int) (*types.RunReport, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	window := cfg.RH.WindowDays
	if rhDays > 0 {
		window = rhDays
	}

	fmt.Println("============================================================")
	fmt.Println("  shelfwatch notification run")
	fmt.Printf("  window: H-%d\n", window)
	fmt.Println("============================================================")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connecting database: %w", err)
	}
	defer pool.Close()

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

	report, err := coordinator.RunAll(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("notification run: %w", err)
	}
	return report, nil
}

func printSummary(report *types.RunReport) {
	fmt.Println()
	fmt.Println("============================================================")
	fmt.Println("  SUMMARY")
	fmt.Println("============================================================")
	fmt.Printf("  sent:   %d\n", report.Sent)
	fmt.Printf("  failed: %d\n", report.Failed)
	fmt.Printf("  total:  %d\n", report.Sent+report.Failed)

	if len(report.Errors) > 0 {
		fmt.Println()
		fmt.Println("  errors:")
		for i, msg := range report.Errors {
			fmt.Printf("    %d. %s\n", i+1, msg)
		}
	}
	fmt.Println()
	fmt.Println("  run completed")
}
