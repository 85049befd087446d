// Package notifications implements the notification pipeline: deduplicated
// raising of alert rows, WhatsApp message composition, outbound delivery
// dispatch, and the batch run coordinator that drives them per user.
package notifications

import (
	"fmt"
	"strings"
	"time"

	"shelfwatch/internal/types"
)

// Indonesian month names for message date rendering. The target audience of
// the WhatsApp messages is Indonesian retail staff, matching the id-ID locale
// output of the dashboard.
var monthNamesID = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var monthAbbrevID = [...]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

// FormatDateLong renders a date as "2 Januari 2026".
func FormatDateLong(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), monthNamesID[t.Month()-1], t.Year())
}

// FormatDateShort renders a date as "02 Jan 2026", used in per-notification
// row messages.
func FormatDateShort(t time.Time) string {
	return fmt.Sprintf("%02d %s %d", t.Day(), monthAbbrevID[t.Month()-1], t.Year())
}

// Compose renders the grouped WhatsApp summary for a user's qualifying items.
//
// Returns the empty string when items is empty; callers must treat that as
// "nothing to send", not an error. Expired items are rendered first, in full,
// then warning items; 1..N numbering restarts per group. Performs no I/O.
func Compose(userName string, items []types.AttentionItem, windowDays int) string {
	if len(items) == 0 {
		return ""
	}

	var expired, warning []types.AttentionItem
	for _, item := range items {
		if item.Status == types.StatusExpired {
			expired = append(expired, item)
		} else {
			warning = append(warning, item)
		}
	}

	var b strings.Builder
	b.WriteString("🔔 *NOTIFIKASI RH KADALUARSA*\n\n")
	fmt.Fprintf(&b, "Halo %s, berikut produk yang perlu perhatian:\n\n", userName)

	if len(expired) > 0 {
		b.WriteString("❌ *PRODUK SUDAH JATUH RH*\n")
		writeItemGroup(&b, expired)
		b.WriteString("\n")
	}

	if len(warning) > 0 {
		fmt.Fprintf(&b, "⚠️ *PRODUK WAJIB RETUR (H-%d)*\n", windowDays)
		writeItemGroup(&b, warning)
		b.WriteString("\n")
	}

	b.WriteString("Mohon segera lakukan pengecekan dan tindaklanjuti.\n\n")
	b.WriteString("Terima kasih,\n")
	b.WriteString("📱 Sistem RH KADALUARSA\n")
	b.WriteString("© Copyright Safir")

	return b.String()
}

func writeItemGroup(b *strings.Builder, items []types.AttentionItem) {
	for i, item := range items {
		fmt.Fprintf(b, "\n%d. %s\n", i+1, item.ProductName)
		fmt.Fprintf(b, "   Barcode: %s\n", item.Barcode)
		fmt.Fprintf(b, "   PLU: %s\n", item.PLU)
		fmt.Fprintf(b, "   Batch: %s\n", item.BatchNumber)
		fmt.Fprintf(b, "   Tgl Kadaluarsa: %s\n", FormatDateLong(item.ExpiryDate))
		fmt.Fprintf(b, "   Tgl RH: %s\n", FormatDateLong(item.RHDate))
		fmt.Fprintf(b, "   Jumlah: %d\n", item.Quantity)
	}
}
