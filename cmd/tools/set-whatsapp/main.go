// Package main implements the WhatsApp contact backfill tool. It sets the
// notification number for a user identified by username, applying the same
// digit normalization as the API endpoint.
//
// Usage:
//
//	go run ./cmd/tools/set-whatsapp --username=admin --number="+62 812-3456-7890"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"shelfwatch/internal/config"
	"shelfwatch/internal/db"
	"shelfwatch/internal/notifications"
)

func main() {
	username := flag.String("username", "", "username of the user to update")
	number := flag.String("number", "", "WhatsApp number (non-digits are stripped)")
	flag.Parse()

	if err := run(*username, *number); err != nil {
		fmt.Fprintf(os.Stderr, "set-whatsapp failed: %v\n", err)
		os.Exit(1)
	}
}

func run(username, number string) error {
	if username == "" || number == "" {
		return fmt.Errorf("both --username and --number are required")
	}

	cleaned := notifications.NormalizeNumber(number)
	if len(cleaned) < 10 {
		return fmt.Errorf("number %q has fewer than 10 digits after cleaning", number)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting database: %w", err)
	}
	defer pool.Close()

	var id string
	if err := pool.QueryRow(ctx, `SELECT id FROM users WHERE username = $1`, username).Scan(&id); err != nil {
		return fmt.Errorf("looking up user %q: %w", username, err)
	}

	if err := db.NewUserRepository(pool).UpdateWhatsApp(ctx, id, cleaned); err != nil {
		return fmt.Errorf("updating user %q: %w", username, err)
	}

	fmt.Printf("user %s updated with WhatsApp %s\n", username, cleaned)
	return nil
}
