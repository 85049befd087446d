// Package core provides the API chassis for shelfwatch. It creates a chi
// router and enforces cross-cutting concerns (recovery, request correlation,
// logging, error formatting) before requests reach domain handlers.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shelfwatch/internal/config"
)

// RouteRegistrar mounts a group of domain handler routes onto the router.
// Entry points register their handlers through this indirection so core does
// not import handler packages.
type RouteRegistrar func(r chi.Router)

// Server encapsulates the HTTP chassis dependencies, allowing injection
// during testing and distinct configuration for different environments.
type Server struct {
	Config    *config.Config
	Logger    *slog.Logger
	Validator *Validator

	// HealthProbes are checked by GET /health. Registered by the entry point.
	HealthProbes []HealthProbe

	// V1RouteRegistrars mount domain routes under /v1.
	V1RouteRegistrars []RouteRegistrar

	// Closers are resources released during Shutdown, in registration order.
	Closers []func()

	router *chi.Mux
}

// NewServer initializes the chassis and prepares it for route mounting. The
// caller registers routes and probes, then calls MountRoutes.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	return &Server{
		Config:    cfg,
		Logger:    logger,
		Validator: NewValidator(),
		router:    chi.NewRouter(),
	}, nil
}

// Handler returns the http.Handler for the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router returns the underlying chi.Mux for route registration in tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Shutdown releases server-owned resources (database pools and the like).
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("server shutdown initiated")
	for _, closeFn := range s.Closers {
		closeFn()
	}
	s.Logger.Info("server shutdown complete")
	return nil
}
