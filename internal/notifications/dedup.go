package notifications

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"shelfwatch/internal/types"
)

// batchKey uniquely identifies a raised alert. One notification may exist per
// key at any time, read or unread.
type batchKey struct {
	ProductID   string
	BatchNumber string
}

// Diff returns the qualifying items that have no existing notification for
// their (productID, batchNumber) pair, preserving input order. Existing
// notifications are never updated: their read state and stored dates stay as
// raised, even if the batch's dates changed since.
//
// Diff is re-run idempotent: feeding its own output back as existing
// notifications yields an empty result.
func Diff(items []types.AttentionItem, existing []*types.Notification) []types.AttentionItem {
	seen := make(map[batchKey]struct{}, len(existing))
	for _, n := range existing {
		seen[batchKey{n.ProductID, n.BatchNumber}] = struct{}{}
	}

	var fresh []types.AttentionItem
	for _, item := range items {
		if _, ok := seen[batchKey{item.ProductID, item.BatchNumber}]; ok {
			continue
		}
		fresh = append(fresh, item)
	}
	return fresh
}

// Build constructs the notification row for a newly qualifying item. Type
// mirrors the item's current status; product fields are snapshot for display
// stability.
func Build(userID string, item types.AttentionItem, clock types.Clock) *types.Notification {
	n := &types.Notification{
		ID:          uuid.NewString(),
		UserID:      userID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		Barcode:     item.Barcode,
		BatchNumber: item.BatchNumber,
		RHDate:      item.RHDate,
		ExpiryDate:  item.ExpiryDate,
		IsRead:      false,
		CreatedAt:   clock.Now(),
	}

	if item.Status == types.StatusExpired {
		n.Type = types.NotificationExpired
		n.Message = fmt.Sprintf("%s telah jatuh RH pada %s", item.BatchNumber, FormatDateShort(item.RHDate))
	} else {
		n.Type = types.NotificationWarning
		n.Message = fmt.Sprintf("%s wajib diretur sebelum %s", item.BatchNumber, FormatDateShort(item.RHDate))
	}

	return n
}

// Raiser persists deduplicated notification rows for qualifying batches.
// It is the only component that creates notifications; read-flag updates go
// straight to the repository.
type Raiser struct {
	repo   types.NotificationRepository
	clock  types.Clock
	logger *slog.Logger
}

// NewRaiser creates a Raiser. A nil clock defaults to the real UTC clock.
func NewRaiser(repo types.NotificationRepository, clock types.Clock, logger *slog.Logger) *Raiser {
	if clock == nil {
		clock = types.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Raiser{repo: repo, clock: clock, logger: logger}
}

// Raise creates notification rows for the qualifying items that do not
// already have one, and returns the rows actually created.
//
// The check is read-then-conditional-write; under concurrent runs the
// repository's (product_id, batch_number) uniqueness constraint is the
// backstop, surfaced through the created flag on Create. A row lost to that
// race is silently skipped, same as one found by the read.
func (r *Raiser) Raise(ctx context.Context, userID string, items []types.AttentionItem) ([]*types.Notification, error) {
	if len(items) == 0 {
		return nil, nil
	}

	existing, err := r.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing existing notifications: %w", err)
	}

	var created []*types.Notification
	for _, item := range Diff(items, existing) {
		n := Build(userID, item, r.clock)
		ok, err := r.repo.Create(ctx, n)
		if err != nil {
			return created, fmt.Errorf("creating notification for batch %s: %w", item.BatchNumber, err)
		}
		if !ok {
			r.logger.Info("notification already raised concurrently, skipping",
				"product_id", item.ProductID,
				"batch_number", item.BatchNumber,
			)
			continue
		}
		created = append(created, n)
	}

	return created, nil
}
