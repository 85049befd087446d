// This file implements the user contact endpoints: updating the WhatsApp
// number a user receives notifications on.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shelfwatch/internal/core"
	"shelfwatch/internal/notifications"
	"shelfwatch/internal/types"
)

// minWhatsAppDigits is the minimum digit count accepted for a contact number.
const minWhatsAppDigits = 10

// UpdateWhatsAppRequest is the request body for PUT /v1/users/{id}/whatsapp.
type UpdateWhatsAppRequest struct {
	WhatsApp string `json:"whatsapp" validate:"required"`
}

// UpdateWhatsAppResponse echoes the updated user with the stored number
// grouped for display.
type UpdateWhatsAppResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	WhatsApp string `json:"whatsapp"`
}

// UserHandler serves the user contact endpoints.
type UserHandler struct {
	userRepo  types.UserRepository
	validator *core.Validator
	logger    *slog.Logger
}

// NewUserHandler creates a new UserHandler with the provided dependencies.
func NewUserHandler(userRepo types.UserRepository, v *core.Validator, l *slog.Logger) *UserHandler {
	if l == nil {
		l = slog.Default()
	}
	return &UserHandler{
		userRepo:  userRepo,
		validator: v,
		logger:    l,
	}
}

// RegisterRoutes mounts user routes on the provided chi.Router.
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Put("/{id}/whatsapp", h.UpdateWhatsApp)
	})
}

// UpdateWhatsApp handles PUT /v1/users/{id}/whatsapp. The number is stripped
// to digits before storage; anything shorter than ten digits is rejected.
func (h *UserHandler) UpdateWhatsApp(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateWhatsAppRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	cleaned := notifications.NormalizeNumber(req.WhatsApp)
	if len(cleaned) < minWhatsAppDigits {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeValidationInvalidWhatsApp,
			"WhatsApp number must contain at least 10 digits",
			nil,
		))
		return
	}

	if err := h.userRepo.UpdateWhatsApp(r.Context(), id, cleaned); err != nil {
		core.Error(w, r, err)
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), id)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	resp := UpdateWhatsAppResponse{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
		WhatsApp: FormatWhatsAppDisplay(user.WhatsApp),
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: resp})
}

// FormatWhatsAppDisplay groups a digit string as xxx-xxxx-xxxx for display.
// Numbers that do not fit the grouping are returned unchanged.
func FormatWhatsAppDisplay(digits string) string {
	if len(digits) < 11 {
		return digits
	}
	return digits[:3] + "-" + digits[3:7] + "-" + digits[7:]
}
