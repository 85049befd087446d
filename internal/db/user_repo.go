package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"shelfwatch/internal/types"
)

// UserRepository provides data access for the users table.
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository backed by the given
// database connection (pool or transaction).
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// userColumns is the column list every user query selects, in scanUser order.
const userColumns = `u.id, u.username, u.name, u.email, u.whatsapp, u.role, u.password_hash, u.created_at`

// scanUser reads one row in userColumns order. name, whatsapp, and
// password_hash are nullable.
func scanUser(row pgx.Row) (*types.User, error) {
	var u types.User
	var (
		name         *string
		whatsapp     *string
		passwordHash *string
	)
	err := row.Scan(
		&u.ID,
		&u.Username,
		&name,
		&u.Email,
		&whatsapp,
		&u.Role,
		&passwordHash,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if name != nil {
		u.Name = *name
	}
	if whatsapp != nil {
		u.WhatsApp = *whatsapp
	}
	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}
	return &u, nil
}

// GetByID retrieves a user by their ID.
// Returns not_found_user if no user exists.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*types.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.id = $1`,
		id,
	)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewAppError(types.ErrCodeNotFoundUser, "user not found", nil)
		}
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to retrieve user", err)
	}
	return u, nil
}

// List returns all users in creation order. Used by the scheduled run, which
// iterates every user; the user population of a single store is small enough
// that no pagination is needed.
func (r *UserRepository) List(ctx context.Context) ([]*types.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users u ORDER BY u.created_at, u.id`,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to list users", err)
	}
	defer rows.Close()

	var users []*types.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan user row", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to iterate user rows", err)
	}
	return users, nil
}

// UpdateWhatsApp sets the user's contact address. The caller validates the
// number format; an empty string clears the address (stored as NULL).
func (r *UserRepository) UpdateWhatsApp(ctx context.Context, id string, whatsapp string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET whatsapp = $1 WHERE id = $2`,
		nilIfEmpty(whatsapp),
		id,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to update whatsapp number", err)
	}
	if tag.RowsAffected() == 0 {
		return types.NewAppError(types.ErrCodeNotFoundUser, "user not found", nil)
	}
	return nil
}
