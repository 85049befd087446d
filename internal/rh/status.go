// Package rh implements the return-horizon status logic: deriving a batch's
// lifecycle status from its expiry date and selecting the (product, batch)
// pairs that need attention.
//
// Compute is the single source of truth for status. No other component may
// recompute status differently; persisted status columns are caches fed from
// here.
package rh

import (
	"time"

	"shelfwatch/internal/types"
)

// DefaultWindowDays is the default return-horizon window (H-14): a batch
// enters warning when its expiry date is at most this many days away.
const DefaultWindowDays = 14

// midnight truncates t to 00:00 of its calendar day in UTC. Both operands of
// the day subtraction are normalized so that wall-clock time never shifts a
// batch across a status boundary.
func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysUntil returns the number of calendar days from today until expiry,
// rounding partial days up. Zero or negative means the expiry date has
// arrived or passed.
func DaysUntil(expiry, today time.Time) int {
	d := midnight(expiry).Sub(midnight(today))
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// Compute derives the batch status from its expiry date:
//
//	expired  when daysUntilExpiry <= 0
//	warning  when 0 < daysUntilExpiry <= windowDays (inclusive boundary)
//	safe     otherwise
func Compute(expiry, today time.Time, windowDays int) types.BatchStatus {
	days := DaysUntil(expiry, today)
	switch {
	case days <= 0:
		return types.StatusExpired
	case days <= windowDays:
		return types.StatusWarning
	default:
		return types.StatusSafe
	}
}

// Date returns the return-horizon deadline: expiry minus windowDays calendar
// days.
func Date(expiry time.Time, windowDays int) time.Time {
	return midnight(expiry).AddDate(0, 0, -windowDays)
}
