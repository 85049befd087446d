package rh

import (
	"time"

	"shelfwatch/internal/types"
)

// SelectNeedingAttention filters a user's products down to the (product,
// batch) pairs whose computed status is warning or expired.
//
// Ordering is stable: products in input order, batches in batch-list order.
// The same input always yields the same output order, which keeps downstream
// deduplication deterministic. A product with zero batches contributes
// nothing.
func SelectNeedingAttention(products []*types.Product, today time.Time, windowDays int) []types.AttentionItem {
	var items []types.AttentionItem

	for _, p := range products {
		for _, b := range p.Batches {
			status := Compute(b.ExpiryDate, today, windowDays)
			if status != types.StatusWarning && status != types.StatusExpired {
				continue
			}
			items = append(items, types.AttentionItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Barcode:     p.Barcode,
				PLU:         p.PLU,
				BatchNumber: b.BatchNumber,
				ExpiryDate:  b.ExpiryDate,
				RHDate:      Date(b.ExpiryDate, windowDays),
				Status:      status,
				Quantity:    b.Quantity,
			})
		}
	}

	return items
}

// Summarize recomputes the dashboard aggregate for a set of products: batch
// counts per status plus the total product count. Statuses are derived fresh;
// any cached copy on the batch rows is ignored.
func Summarize(products []*types.Product, today time.Time, windowDays int) types.RHSummary {
	s := types.RHSummary{TotalProducts: len(products)}
	for _, p := range products {
		for _, b := range p.Batches {
			switch Compute(b.ExpiryDate, today, windowDays) {
			case types.StatusSafe:
				s.TotalSafe++
			case types.StatusWarning:
				s.TotalWarning++
			case types.StatusExpired:
				s.TotalExpired++
			}
		}
	}
	return s
}
