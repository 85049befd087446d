package rh

import (
	"testing"
	"time"

	"shelfwatch/internal/types"
)

var today = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func TestCompute_Boundaries(t *testing.T) {
	tests := []struct {
		name       string
		expiry     time.Time
		windowDays int
		want       types.BatchStatus
	}{
		{"expiry today is expired", today, 14, types.StatusExpired},
		{"expiry yesterday is expired", today.AddDate(0, 0, -1), 14, types.StatusExpired},
		{"expiry long past is expired", today.AddDate(0, -3, 0), 14, types.StatusExpired},
		{"expiry tomorrow is warning", today.AddDate(0, 0, 1), 14, types.StatusWarning},
		{"expiry exactly window days away is warning", today.AddDate(0, 0, 14), 14, types.StatusWarning},
		{"expiry one past window is safe", today.AddDate(0, 0, 15), 14, types.StatusSafe},
		{"expiry far future is safe", today.AddDate(1, 0, 0), 14, types.StatusSafe},
		{"window 0 makes tomorrow safe", today.AddDate(0, 0, 1), 0, types.StatusSafe},
		{"window 30 widens warning", today.AddDate(0, 0, 25), 30, types.StatusWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compute(tt.expiry, today, tt.windowDays); got != tt.want {
				t.Errorf("Compute(%v, today, %d) = %q, want %q", tt.expiry, tt.windowDays, got, tt.want)
			}
		})
	}
}

func TestCompute_NormalizesWallClock(t *testing.T) {
	// 23:59 on the expiry day must still count as expired, and a late "today"
	// must not push a same-day expiry into warning.
	expiry := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 0, 1, 0, 0, time.UTC)
	if got := Compute(expiry, now, 14); got != types.StatusExpired {
		t.Errorf("same-day expiry with wall-clock times = %q, want expired", got)
	}
}

func TestCompute_TimezoneInput(t *testing.T) {
	// A non-UTC input representing the same calendar instant must not change
	// the verdict.
	jakarta := time.FixedZone("WIB", 7*60*60)
	expiry := time.Date(2026, 3, 24, 10, 0, 0, 0, jakarta) // 2026-03-24 03:00 UTC
	if got := Compute(expiry, today, 14); got != types.StatusWarning {
		t.Errorf("Compute with zoned expiry = %q, want warning", got)
	}
}

func TestDate(t *testing.T) {
	expiry := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	got := Date(expiry, 14)
	want := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Date(%v, 14) = %v, want %v", expiry, got, want)
	}

	// Window 0 is the expiry date itself.
	if got := Date(expiry, 0); !got.Equal(expiry) {
		t.Errorf("Date(%v, 0) = %v, want expiry", expiry, got)
	}

	// Month boundary.
	got = Date(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), 14)
	want = time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Date across month boundary = %v, want %v", got, want)
	}
}

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		name   string
		expiry time.Time
		want   int
	}{
		{"today", today, 0},
		{"tomorrow", today.AddDate(0, 0, 1), 1},
		{"yesterday", today.AddDate(0, 0, -1), -1},
		{"ten days", today.AddDate(0, 0, 10), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysUntil(tt.expiry, today); got != tt.want {
				t.Errorf("DaysUntil = %d, want %d", got, tt.want)
			}
		})
	}
}
