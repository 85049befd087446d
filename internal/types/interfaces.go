package types

import (
	"context"
	"time"
)

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the real system time (always UTC).
type RealClock struct{}

// Now returns the current time in UTC.
func (RealClock) Now() time.Time { return time.Now().UTC() }

// MessageSender is the abstract outbound messaging provider contract. The
// dispatcher is written against this interface; the concrete Fonnte WhatsApp
// gateway integration is one implementation, substitutable in tests with a
// fake.
//
// Send performs a single synchronous call. It returns a non-nil
// DeliveryResult for application-level rejections (transport succeeded but
// the provider refused the message) and an error for transport failures.
type MessageSender interface {
	Send(ctx context.Context, target string, message string) (*DeliveryResult, error)
}

// UserRepository defines the data access contract for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	UpdateWhatsApp(ctx context.Context, id string, whatsapp string) error
}

// ProductRepository defines the data access contract for products and their
// batches.
type ProductRepository interface {
	// ListByUser returns the user's products with batches hydrated, in
	// creation order (products and batches both).
	ListByUser(ctx context.Context, userID string) ([]*Product, error)
	GetByBarcode(ctx context.Context, userID string, barcode string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	AddBatch(ctx context.Context, productID string, b *ProductBatch) error
	Delete(ctx context.Context, id string, userID string) error
}

// NotificationRepository defines the data access contract for notification
// rows. Create must be a no-op when a row for the same (product_id,
// batch_number) already exists; the storage layer enforces the uniqueness
// constraint as a backstop against concurrent raises.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) (created bool, err error)
	ListByUser(ctx context.Context, userID string) ([]*Notification, error)
	MarkRead(ctx context.Context, id string) error
}
