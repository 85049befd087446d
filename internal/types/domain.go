package types

import (
	"encoding/json"
	"time"
)

// User represents a store employee who owns products and receives WhatsApp
// notifications for batches approaching their return horizon.
type User struct {
	ID           string   `json:"id" db:"id"`
	Username     string   `json:"username" db:"username"`
	Name         string   `json:"name" db:"name"`
	Email        string   `json:"email" db:"email"`
	WhatsApp     string   `json:"whatsapp,omitempty" db:"whatsapp"`
	Role         UserRole `json:"role" db:"role"`
	PasswordHash string   `json:"-" db:"password_hash"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// HasWhatsApp reports whether the user has a contact address on file.
// An empty address is a reportable (not fatal) condition during a run.
func (u *User) HasWhatsApp() bool {
	return u.WhatsApp != ""
}

// Product is identified by its barcode (globally unique business key) and a
// store-local PLU short code. It owns an ordered collection of batches;
// batch order is creation order.
type Product struct {
	ID          string `json:"id" db:"id"`
	UserID      string `json:"user_id" db:"user_id"`
	Barcode     string `json:"barcode" db:"barcode"`
	PLU         string `json:"plu" db:"plu"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description,omitempty" db:"description"`
	Category    string `json:"category,omitempty" db:"category"`

	Batches []ProductBatch `json:"batches" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProductBatch is a quantity of a product sharing one expiry date. It belongs
// to exactly one product; deleting the product deletes its batches.
//
// Status here is a cached rendering aid: the authoritative value is always
// recomputed from ExpiryDate and the current date (see the rh package).
type ProductBatch struct {
	ID          string      `json:"id" db:"id"`
	ProductID   string      `json:"product_id" db:"product_id"`
	BatchNumber string      `json:"batch_number" db:"batch_number"`
	ExpiryDate  time.Time   `json:"expiry_date" db:"expiry_date"`
	RHDate      time.Time   `json:"rh_date" db:"rh_date"`
	Quantity    int         `json:"quantity" db:"quantity"`
	Status      BatchStatus `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Notification is one raised alert for a specific (product, batch) pair.
// Product fields are denormalized snapshots for display stability even if the
// source batch later changes. At most one notification exists per
// (product_id, batch_number) pair at any time.
type Notification struct {
	ID          string           `json:"id" db:"id"`
	UserID      string           `json:"user_id" db:"user_id"`
	Type        NotificationType `json:"type" db:"type"`
	ProductID   string           `json:"product_id" db:"product_id"`
	ProductName string           `json:"product_name" db:"product_name"`
	Barcode     string           `json:"barcode" db:"barcode"`
	BatchNumber string           `json:"batch_number" db:"batch_number"`
	RHDate      time.Time        `json:"rh_date" db:"rh_date"`
	ExpiryDate  time.Time        `json:"expiry_date" db:"expiry_date"`
	Message     string           `json:"message" db:"message"`
	IsRead      bool             `json:"is_read" db:"is_read"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AttentionItem is a denormalized (product, batch) pair whose computed status
// is warning or expired. It carries everything the composer and deduplicator
// need so neither has to re-join products and batches.
type AttentionItem struct {
	ProductID   string      `json:"product_id"`
	ProductName string      `json:"product_name"`
	Barcode     string      `json:"barcode"`
	PLU         string      `json:"plu"`
	BatchNumber string      `json:"batch_number"`
	ExpiryDate  time.Time   `json:"expiry_date"`
	RHDate      time.Time   `json:"rh_date"`
	Status      BatchStatus `json:"status"`
	Quantity    int         `json:"quantity"`
}

// RHSummary is the derived dashboard aggregate: batch counts per status plus
// the total product count. Recomputed on demand, never persisted.
type RHSummary struct {
	TotalSafe     int `json:"total_safe"`
	TotalWarning  int `json:"total_warning"`
	TotalExpired  int `json:"total_expired"`
	TotalProducts int `json:"total_products"`
}

// DeliveryResult is the classified outcome of a single provider send attempt.
type DeliveryResult struct {
	Success bool `json:"success"`
	// ProviderResponse holds the raw gateway response body when one was
	// received; useful for operator diagnosis, never parsed beyond the
	// success flag.
	ProviderResponse json.RawMessage `json:"provider_response,omitempty"`
	ErrorReason      string          `json:"error_reason,omitempty"`
}

// RunReport aggregates the outcome of one notification run. For the scheduled
// path it spans all users; for the on-demand path it covers a single user.
// Success is false iff Failed > 0.
type RunReport struct {
	Success bool     `json:"success"`
	Sent    int      `json:"sent"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// AddError records a per-user failure. Individual failures never stop the
// iteration; they only accumulate here.
func (r *RunReport) AddError(msg string) {
	r.Failed++
	r.Errors = append(r.Errors, msg)
	r.Success = false
}
