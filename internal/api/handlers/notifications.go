// Package handlers contains the HTTP handler implementations for the
// shelfwatch API.
//
// This file implements the notification endpoints:
//   - On-demand notification run for a single user
//   - WhatsApp configuration status probe
//   - Listing a user's notification rows
//   - Marking a notification as read
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shelfwatch/internal/core"
	"shelfwatch/internal/types"
)

// NotificationRunner triggers a notification run for one user. Implemented by
// notifications.Coordinator; defined locally so the handler can be tested
// against a mock without importing the concrete type.
type NotificationRunner interface {
	RunForUser(ctx context.Context, userID string, windowDays int) (*types.RunReport, error)
}

// CheckNotificationsRequest is the request body for POST /v1/notifications/check.
// RHDays overrides the configured warning window for this run only.
type CheckNotificationsRequest struct {
	UserID string `json:"user_id" validate:"required"`
	RHDays int    `json:"rh_days,omitempty" validate:"min=0"`
}

// CheckNotificationsResponse reports the outcome of an on-demand run.
type CheckNotificationsResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Sent    int      `json:"sent"`
	Failed  int      `json:"failed"`
	Details []string `json:"details,omitempty"`
}

// NotificationStatusResponse is the WhatsApp configuration probe result. The
// number is grouped xxx-xxxx-xxxx for display.
type NotificationStatusResponse struct {
	UserID              string `json:"user_id"`
	UserName            string `json:"user_name"`
	HasWhatsApp         bool   `json:"has_whatsapp"`
	WhatsAppNumber      string `json:"whatsapp_number"`
	NotificationEnabled bool   `json:"notification_enabled"`
}

// NotificationHandler serves the notification endpoints.
type NotificationHandler struct {
	runner    NotificationRunner
	notifRepo types.NotificationRepository
	userRepo  types.UserRepository
	validator *core.Validator
	logger    *slog.Logger
}

// NewNotificationHandler creates a new NotificationHandler with the provided
// dependencies.
func NewNotificationHandler(
	runner NotificationRunner,
	notifRepo types.NotificationRepository,
	userRepo types.UserRepository,
	v *core.Validator,
	l *slog.Logger,
) *NotificationHandler {
	if l == nil {
		l = slog.Default()
	}
	return &NotificationHandler{
		runner:    runner,
		notifRepo: notifRepo,
		userRepo:  userRepo,
		validator: v,
		logger:    l,
	}
}

// RegisterRoutes mounts notification routes on the provided chi.Router.
func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Post("/check", h.Check)
		r.Get("/status", h.Status)
		r.Get("/", h.List)
		r.Post("/{id}/read", h.MarkRead)
	})
}

// Check handles POST /v1/notifications/check. It runs the full selection,
// composition, and delivery pipeline for one user and returns the run report.
// Notification rows are not persisted on this path; only the scheduled run
// writes them.
func (h *NotificationHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req CheckNotificationsRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	report, err := h.runner.RunForUser(r.Context(), req.UserID, req.RHDays)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	resp := CheckNotificationsResponse{
		Success: report.Success,
		Message: "notification check completed",
		Sent:    report.Sent,
		Failed:  report.Failed,
		Details: report.Errors,
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: resp})
}

// Status handles GET /v1/notifications/status. It reports whether the user
// has a WhatsApp number on file and therefore whether delivery is enabled.
func (h *NotificationHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeValidationMissingField,
			"user_id query parameter is required",
			nil,
		))
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	resp := NotificationStatusResponse{
		UserID:              user.ID,
		UserName:            user.Name,
		HasWhatsApp:         user.HasWhatsApp(),
		NotificationEnabled: user.HasWhatsApp(),
	}
	if user.HasWhatsApp() {
		resp.WhatsAppNumber = FormatWhatsAppDisplay(user.WhatsApp)
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: resp})
}

// List handles GET /v1/notifications. Rows come back newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeValidationMissingField,
			"user_id query parameter is required",
			nil,
		))
		return
	}

	notifications, err := h.notifRepo.ListByUser(r.Context(), userID)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	if notifications == nil {
		notifications = []*types.Notification{}
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: notifications})
}

// MarkRead handles POST /v1/notifications/{id}/read. Marking an already-read
// notification succeeds.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.notifRepo.MarkRead(r.Context(), id); err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: map[string]bool{"read": true}})
}
