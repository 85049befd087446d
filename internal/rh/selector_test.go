package rh

import (
	"testing"
	"time"

	"shelfwatch/internal/types"
)

func batch(num string, expiry time.Time, qty int) types.ProductBatch {
	return types.ProductBatch{BatchNumber: num, ExpiryDate: expiry, Quantity: qty}
}

func testProducts() []*types.Product {
	return []*types.Product{
		{
			ID: "p1", Name: "Indomie Goreng Spesial", Barcode: "8991234567890", PLU: "PLU001",
			Batches: []types.ProductBatch{
				batch("BATCH001", today.AddDate(0, 0, 10), 100), // warning
				batch("BATCH002", today.AddDate(0, 0, 60), 150), // safe
			},
		},
		{
			ID: "p2", Name: "Aqua 600ml", Barcode: "8999876543210", PLU: "PLU002",
			Batches: []types.ProductBatch{
				batch("BATCH003", today.AddDate(0, 0, -5), 200), // expired
			},
		},
		{
			ID: "p3", Name: "Susu UHT 1L", Barcode: "8995555555555", PLU: "PLU003",
			Batches: nil, // contributes nothing
		},
	}
}

func TestSelectNeedingAttention(t *testing.T) {
	items := SelectNeedingAttention(testProducts(), today, 14)

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	if items[0].BatchNumber != "BATCH001" || items[0].Status != types.StatusWarning {
		t.Errorf("items[0] = %s/%s, want BATCH001/warning", items[0].BatchNumber, items[0].Status)
	}
	if items[1].BatchNumber != "BATCH003" || items[1].Status != types.StatusExpired {
		t.Errorf("items[1] = %s/%s, want BATCH003/expired", items[1].BatchNumber, items[1].Status)
	}

	// Denormalized product fields are carried through.
	if items[0].ProductName != "Indomie Goreng Spesial" || items[0].PLU != "PLU001" {
		t.Errorf("items[0] product fields not hydrated: %+v", items[0])
	}
	// RH date is derived from the expiry date, not read from the row.
	wantRH := Date(items[0].ExpiryDate, 14)
	if !items[0].RHDate.Equal(wantRH) {
		t.Errorf("items[0].RHDate = %v, want %v", items[0].RHDate, wantRH)
	}
}

func TestSelectNeedingAttention_StableOrder(t *testing.T) {
	products := testProducts()
	first := SelectNeedingAttention(products, today, 14)
	second := SelectNeedingAttention(products, today, 14)

	if len(first) != len(second) {
		t.Fatalf("lengths differ across calls: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ProductID != second[i].ProductID || first[i].BatchNumber != second[i].BatchNumber {
			t.Errorf("order not stable at %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestSelectNeedingAttention_InclusiveBoundary(t *testing.T) {
	products := []*types.Product{{
		ID: "p1", Name: "Boundary", Barcode: "b", PLU: "PLU001",
		Batches: []types.ProductBatch{batch("B1", today.AddDate(0, 0, 14), 1)},
	}}

	items := SelectNeedingAttention(products, today, 14)
	if len(items) != 1 || items[0].Status != types.StatusWarning {
		t.Fatalf("batch exactly windowDays away should be warning, got %+v", items)
	}
}

func TestSelectNeedingAttention_Empty(t *testing.T) {
	if items := SelectNeedingAttention(nil, today, 14); len(items) != 0 {
		t.Errorf("nil products should yield no items, got %d", len(items))
	}

	safeOnly := []*types.Product{{
		ID: "p1", Name: "Fresh", Barcode: "b", PLU: "PLU001",
		Batches: []types.ProductBatch{batch("B1", today.AddDate(1, 0, 0), 5)},
	}}
	if items := SelectNeedingAttention(safeOnly, today, 14); len(items) != 0 {
		t.Errorf("safe-only products should yield no items, got %d", len(items))
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(testProducts(), today, 14)

	want := types.RHSummary{TotalSafe: 1, TotalWarning: 1, TotalExpired: 1, TotalProducts: 3}
	if s != want {
		t.Errorf("Summarize = %+v, want %+v", s, want)
	}
}
