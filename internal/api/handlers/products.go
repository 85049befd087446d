// This file implements the product endpoints: the RH summary aggregate used
// by the dashboard.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shelfwatch/internal/core"
	"shelfwatch/internal/rh"
	"shelfwatch/internal/types"
)

// ProductHandler serves the product endpoints.
type ProductHandler struct {
	productRepo types.ProductRepository
	windowDays  int
	clock       types.Clock
	logger      *slog.Logger
}

// NewProductHandler creates a new ProductHandler. windowDays is the
// configured default warning window.
func NewProductHandler(productRepo types.ProductRepository, windowDays int, clock types.Clock, l *slog.Logger) *ProductHandler {
	if clock == nil {
		clock = types.RealClock{}
	}
	if l == nil {
		l = slog.Default()
	}
	return &ProductHandler{
		productRepo: productRepo,
		windowDays:  windowDays,
		clock:       clock,
		logger:      l,
	}
}

// RegisterRoutes mounts product routes on the provided chi.Router.
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/summary", h.Summary)
	})
}

// Summary handles GET /v1/products/summary. Statuses are recomputed from
// expiry dates at request time; the stored status column is never trusted
// for this aggregate.
func (h *ProductHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeValidationMissingField,
			"user_id query parameter is required",
			nil,
		))
		return
	}

	products, err := h.productRepo.ListByUser(r.Context(), userID)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	summary := rh.Summarize(products, h.clock.Now(), h.windowDays)
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: summary})
}
