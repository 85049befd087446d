package types

// BatchStatus represents the return-horizon lifecycle state of a product batch.
// It is always derived from the batch expiry date and the current date; a
// persisted copy is a display cache and must never be trusted without
// recomputation.
type BatchStatus string

const (
	StatusSafe    BatchStatus = "safe"
	StatusWarning BatchStatus = "warning"
	StatusExpired BatchStatus = "expired"
)

// NotificationType mirrors the batch status at raise time. Safe batches never
// produce notifications, so only the two alerting states are valid here.
type NotificationType string

const (
	NotificationWarning NotificationType = "warning"
	NotificationExpired NotificationType = "expired"
)

// UserRole defines authorization levels within a store.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleGudang UserRole = "gudang"
	RoleUser   UserRole = "user"
)
