// Package db provides PostgreSQL-backed repository implementations for the
// ShelfWatch service. All repositories accept a DBTX interface that is
// satisfied by both *pgxpool.Pool (for normal queries) and pgx.Tx (for
// transactional execution), enabling clean transaction support.
//
// Schema expectations:
//
//	users(id, username, name, email, whatsapp, role, password_hash, created_at)
//	products(id, user_id, barcode UNIQUE, plu, name, description, category,
//	         created_at, updated_at)
//	product_batches(id, product_id REFERENCES products ON DELETE CASCADE,
//	         batch_number, expiry_date, rh_date, quantity, status, created_at,
//	         UNIQUE (product_id, batch_number))
//	notifications(id, user_id, type, product_id, product_name, barcode,
//	         batch_number, rh_date, expiry_date, message, is_read, created_at,
//	         UNIQUE (product_id, batch_number))
//	sequences: products_plu_seq, one batch_number sequence per barcode is
//	         emulated via batch_counters(barcode, next_number)
package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the minimal interface shared by *pgxpool.Pool and pgx.Tx.
// Repositories accept this so the same code works inside or outside a
// transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const uniqueViolation = "23505"

// isUniqueViolation checks if the error is a PostgreSQL unique constraint
// violation. Used by repositories to detect duplicate key conflicts and
// return appropriate application-level errors.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// nilIfEmpty returns nil if the string is empty, otherwise a pointer to it.
// Used to store NULL instead of empty strings for optional columns.
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

