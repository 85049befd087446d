package notifications

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfwatch/internal/types"
)

func attnItem(name, batchNum string, status types.BatchStatus) types.AttentionItem {
	return types.AttentionItem{
		ProductID:   "p-" + name,
		ProductName: name,
		Barcode:     "899" + batchNum,
		PLU:         "PLU001",
		BatchNumber: batchNum,
		ExpiryDate:  time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		RHDate:      time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
		Status:      status,
		Quantity:    100,
	}
}

func TestCompose_EmptyItems(t *testing.T) {
	assert.Empty(t, Compose("Safir", nil, 14))
	assert.Empty(t, Compose("Safir", []types.AttentionItem{}, 14))
}

func TestCompose_ExpiredGroupFirst(t *testing.T) {
	items := []types.AttentionItem{
		attnItem("Indomie Goreng", "BATCH001", types.StatusWarning),
		attnItem("Aqua 600ml", "BATCH002", types.StatusExpired),
	}

	msg := Compose("Safir", items, 14)
	require.NotEmpty(t, msg)

	expiredIdx := strings.Index(msg, "PRODUK SUDAH JATUH RH")
	warningIdx := strings.Index(msg, "PRODUK WAJIB RETUR (H-14)")
	require.GreaterOrEqual(t, expiredIdx, 0, "expired header missing")
	require.GreaterOrEqual(t, warningIdx, 0, "warning header missing")
	assert.Less(t, expiredIdx, warningIdx, "expired group must render before warning group")

	// Items land in their own groups.
	assert.Less(t, strings.Index(msg, "Aqua 600ml"), warningIdx)
	assert.Greater(t, strings.Index(msg, "Indomie Goreng"), warningIdx)
}

func TestCompose_NumberingRestartsPerGroup(t *testing.T) {
	items := []types.AttentionItem{
		attnItem("A", "B1", types.StatusExpired),
		attnItem("B", "B2", types.StatusExpired),
		attnItem("C", "B3", types.StatusWarning),
	}

	msg := Compose("Safir", items, 14)
	assert.Contains(t, msg, "\n1. A\n")
	assert.Contains(t, msg, "\n2. B\n")
	// Warning group restarts at 1.
	assert.Contains(t, msg, "\n1. C\n")
	assert.NotContains(t, msg, "\n3. C\n")
}

func TestCompose_ItemFields(t *testing.T) {
	items := []types.AttentionItem{attnItem("Susu UHT 1L", "BATCH004", types.StatusWarning)}

	msg := Compose("Budi", items, 14)
	assert.Contains(t, msg, "Halo Budi")
	assert.Contains(t, msg, "Barcode: 899BATCH004")
	assert.Contains(t, msg, "PLU: PLU001")
	assert.Contains(t, msg, "Batch: BATCH004")
	assert.Contains(t, msg, "Tgl Kadaluarsa: 20 Maret 2026")
	assert.Contains(t, msg, "Tgl RH: 6 Maret 2026")
	assert.Contains(t, msg, "Jumlah: 100")
	assert.Contains(t, msg, "Mohon segera lakukan pengecekan dan tindaklanjuti.")
	assert.True(t, strings.HasSuffix(msg, "© Copyright Safir"))
}

func TestCompose_WindowInHeader(t *testing.T) {
	items := []types.AttentionItem{attnItem("A", "B1", types.StatusWarning)}
	assert.Contains(t, Compose("Safir", items, 30), "PRODUK WAJIB RETUR (H-30)")
}

func TestFormatDateLong(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), "2 Januari 2026"},
		{time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), "17 Agustus 2026"},
		{time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), "31 Desember 2025"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDateLong(tt.in))
	}
}

func TestFormatDateShort(t *testing.T) {
	assert.Equal(t, "06 Mar 2026", FormatDateShort(time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "31 Agu 2026", FormatDateShort(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)))
}
