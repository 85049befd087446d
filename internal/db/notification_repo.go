package db

import (
	"context"

	"github.com/jackc/pgx/v5"

	"shelfwatch/internal/types"
)

// NotificationRepository provides data access for notification rows.
type NotificationRepository struct {
	db DBTX
}

// NewNotificationRepository creates a new NotificationRepository backed by the
// given database connection (pool or transaction).
func NewNotificationRepository(db DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationColumns = `n.id, n.user_id, n.type, n.product_id, n.product_name, n.barcode,
	n.batch_number, n.rh_date, n.expiry_date, n.message, n.is_read, n.created_at`

func scanNotification(row pgx.Row) (*types.Notification, error) {
	var n types.Notification
	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.Type,
		&n.ProductID,
		&n.ProductName,
		&n.Barcode,
		&n.BatchNumber,
		&n.RHDate,
		&n.ExpiryDate,
		&n.Message,
		&n.IsRead,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Create inserts a notification row. The unique constraint on (product_id,
// batch_number) makes this idempotent: when a row for the pair already exists
// the insert is silently dropped and Create reports created=false. The caller
// deduplicates before reaching here; this is the backstop for concurrent runs.
func (r *NotificationRepository) Create(ctx context.Context, n *types.Notification) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO notifications
		 (id, user_id, type, product_id, product_name, barcode, batch_number,
		  rh_date, expiry_date, message, is_read)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false)
		 ON CONFLICT (product_id, batch_number) DO NOTHING`,
		n.ID,
		n.UserID,
		string(n.Type),
		n.ProductID,
		n.ProductName,
		n.Barcode,
		n.BatchNumber,
		n.RHDate,
		n.ExpiryDate,
		n.Message,
	)
	if err != nil {
		return false, types.NewAppError(types.ErrCodeInternalDB, "failed to create notification", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListByUser returns the user's notifications, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]*types.Notification, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+notificationColumns+`
		 FROM notifications n
		 WHERE n.user_id = $1
		 ORDER BY n.created_at DESC, n.id`,
		userID,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to list notifications", err)
	}
	defer rows.Close()

	var notifications []*types.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan notification row", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to iterate notification rows", err)
	}
	return notifications, nil
}

// MarkRead flags a notification as read. Marking an already-read notification
// succeeds without change.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1`,
		id,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to mark notification read", err)
	}
	if tag.RowsAffected() == 0 {
		return types.NewAppError(types.ErrCodeNotFoundNotification, "notification not found", nil)
	}
	return nil
}

var _ types.NotificationRepository = (*NotificationRepository)(nil)
var _ types.UserRepository = (*UserRepository)(nil)
var _ types.ProductRepository = (*ProductRepository)(nil)
