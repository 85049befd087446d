package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfwatch/internal/types"
)

type mockProductRepo struct {
	listByUserFn func(ctx context.Context, userID string) ([]*types.Product, error)
}

func (m *mockProductRepo) ListByUser(ctx context.Context, userID string) ([]*types.Product, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockProductRepo) GetByBarcode(ctx context.Context, userID, barcode string) (*types.Product, error) {
	return nil, types.NewAppError(types.ErrCodeNotFoundProduct, "product not found", nil)
}

func (m *mockProductRepo) Create(ctx context.Context, p *types.Product) error { return nil }

func (m *mockProductRepo) AddBatch(ctx context.Context, productID string, b *types.ProductBatch) error {
	return nil
}

func (m *mockProductRepo) Delete(ctx context.Context, id, userID string) error { return nil }

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func serveProducts(h *ProductHandler, r *http.Request) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Route("/v1", func(r chi.Router) {
		h.RegisterRoutes(r)
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestProductSummary(t *testing.T) {
	today := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	products := &mockProductRepo{
		listByUserFn: func(_ context.Context, _ string) ([]*types.Product, error) {
			return []*types.Product{
				{ID: "p1", Name: "Susu UHT", Batches: []types.ProductBatch{
					{BatchNumber: "BATCH001", ExpiryDate: today.AddDate(0, 0, 60)},
					{BatchNumber: "BATCH002", ExpiryDate: today.AddDate(0, 0, 7)},
				}},
				{ID: "p2", Name: "Roti Tawar", Batches: []types.ProductBatch{
					{BatchNumber: "BATCH001", ExpiryDate: today.AddDate(0, 0, -1)},
				}},
			}, nil
		},
	}
	h := NewProductHandler(products, 14, fixedClock{now: today}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/products/summary?user_id=user-1", nil)
	w := serveProducts(h, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data types.RHSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.TotalSafe)
	assert.Equal(t, 1, resp.Data.TotalWarning)
	assert.Equal(t, 1, resp.Data.TotalExpired)
	assert.Equal(t, 2, resp.Data.TotalProducts)
}

func TestProductSummary_MissingParam(t *testing.T) {
	h := NewProductHandler(&mockProductRepo{}, 14, fixedClock{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/products/summary", nil)
	w := serveProducts(h, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductSummary_RepoError(t *testing.T) {
	products := &mockProductRepo{
		listByUserFn: func(_ context.Context, _ string) ([]*types.Product, error) {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to list products", nil)
		},
	}
	h := NewProductHandler(products, 14, fixedClock{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/products/summary?user_id=user-1", nil)
	w := serveProducts(h, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
