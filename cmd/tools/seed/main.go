// Package main implements the demo data seeder. It creates two demo users
// (passwords stored as bcrypt hashes), a handful of products with batches
// spread across the safe/warning/expired statuses, and raises the initial
// notification rows for everything already inside the warning window.
//
// Usage:
//
//	go run ./cmd/tools/seed
//
// The seeder is idempotent: users upsert on username, products are skipped
// when their barcode already exists, and notification rows deduplicate on
// (product, batch).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"shelfwatch/internal/config"
	"shelfwatch/internal/db"
	"shelfwatch/internal/notifications"
	"shelfwatch/internal/rh"
	"shelfwatch/internal/types"
)

type seedUser struct {
	username string
	email    string
	name     string
	password string
	whatsapp string
	role     types.UserRole
}

var seedUsers = []seedUser{
	{"admin", "admin@safir.com", "Admin", "admin", "6281234567890", types.RoleAdmin},
	{"user", "user@safir.com", "Test User", "user", "6289876543210", types.RoleGudang},
}

type seedBatch struct {
	daysToExpiry int
	quantity     int
}

type seedProduct struct {
	barcode     string
	name        string
	description string
	category    string
	batches     []seedBatch
}

var seedProducts = []seedProduct{
	{"8991102381901", "Susu UHT Full Cream 1L", "Susu UHT kemasan karton", "Minuman", []seedBatch{
		{daysToExpiry: 60, quantity: 24},
		{daysToExpiry: 10, quantity: 12},
	}},
	{"8992761002077", "Roti Tawar Spesial", "Roti tawar kupas", "Bakery", []seedBatch{
		{daysToExpiry: 3, quantity: 8},
	}},
	{"8998866200578", "Yogurt Drink Stroberi", "", "Minuman", []seedBatch{
		{daysToExpiry: -2, quantity: 6},
		{daysToExpiry: 45, quantity: 30},
	}},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("seed completed")
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting database: %w", err)
	}
	defer pool.Close()

	ownerID, err := upsertUsers(ctx, pool)
	if err != nil {
		return err
	}

	productRepo := db.NewProductRepository(pool)
	clock := types.RealClock{}
	today := clock.Now()

	for _, sp := range seedProducts {
		if err := seedOneProduct(ctx, productRepo, ownerID, sp, today, cfg.RH.WindowDays); err != nil {
			return err
		}
	}

	// Raise the initial notification rows for anything already in the window.
	products, err := productRepo.ListByUser(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("listing seeded products: %w", err)
	}
	items := rh.SelectNeedingAttention(products, today, cfg.RH.WindowDays)
	raiser := notifications.NewRaiser(db.NewNotificationRepository(pool), clock, logger)
	raised, err := raiser.Raise(ctx, ownerID, items)
	if err != nil {
		return fmt.Errorf("raising initial notifications: %w", err)
	}
	fmt.Printf("raised %d notification rows for %d qualifying batches\n", len(raised), len(items))

	return nil
}

// upsertUsers creates the demo users, returning the ID of the first (the
// product owner). Passwords are stored as bcrypt hashes.
func upsertUsers(ctx context.Context, pool *pgxpool.Pool) (string, error) {
	var ownerID string
	for i, su := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			return "", fmt.Errorf("hashing password for %s: %w", su.username, err)
		}

		var id string
		err = pool.QueryRow(ctx,
			`INSERT INTO users (id, username, email, name, whatsapp, role, password_hash)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (username) DO UPDATE SET email = EXCLUDED.email
			 RETURNING id`,
			uuid.NewString(),
			su.username,
			su.email,
			su.name,
			su.whatsapp,
			string(su.role),
			string(hash),
		).Scan(&id)
		if err != nil {
			return "", fmt.Errorf("upserting user %s: %w", su.username, err)
		}
		fmt.Printf("user %s ready (%s)\n", su.username, id)
		if i == 0 {
			ownerID = id
		}
	}
	return ownerID, nil
}

func seedOneProduct(
	ctx context.Context,
	repo *db.ProductRepository,
	ownerID string,
	sp seedProduct,
	today time.Time,
	windowDays int,
) error {
	if existing, err := repo.GetByBarcode(ctx, ownerID, sp.barcode); err == nil {
		fmt.Printf("product %s already seeded (%s), skipping\n", sp.name, existing.PLU)
		return nil
	} else {
		var appErr *types.AppError
		if !errors.As(err, &appErr) || appErr.Code != types.ErrCodeNotFoundProduct {
			return fmt.Errorf("checking product %s: %w", sp.barcode, err)
		}
	}

	p := &types.Product{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Barcode:     sp.barcode,
		Name:        sp.name,
		Description: sp.description,
		Category:    sp.category,
	}
	if err := repo.Create(ctx, p); err != nil {
		return fmt.Errorf("creating product %s: %w", sp.name, err)
	}

	for _, sb := range sp.batches {
		expiry := today.AddDate(0, 0, sb.daysToExpiry)
		batch := &types.ProductBatch{
			ID:         uuid.NewString(),
			ExpiryDate: expiry,
			RHDate:     rh.Date(expiry, windowDays),
			Quantity:   sb.quantity,
			Status:     rh.Compute(expiry, today, windowDays),
		}
		if err := repo.AddBatch(ctx, p.ID, batch); err != nil {
			return fmt.Errorf("adding batch to %s: %w", sp.name, err)
		}
		fmt.Printf("  %s %s (%s) expiry %s\n", p.PLU, batch.BatchNumber, batch.Status, expiry.Format("2006-01-02"))
	}
	return nil
}
