package core

import (
	"context"
	"net/http"
	"time"
)

// healthCheckTimeout bounds the total time spent probing subsystems.
const healthCheckTimeout = 2 * time.Second

// HealthProbe is a subsystem health check. Each probe represents a critical
// dependency (the database, the WhatsApp gateway) that must be reachable for
// the service to function.
type HealthProbe interface {
	// Name returns a short identifier for the probe, e.g. "database".
	Name() string

	// Check performs the health check. It must respect the context deadline
	// and return an error when the subsystem is unhealthy or unreachable.
	Check(ctx context.Context) error
}

type componentStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type healthResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components,omitempty"`
}

// HandleHealth runs all registered probes under a shared deadline. Returns
// 200 when every probe reports healthy, 503 otherwise. Mounted publicly at
// GET /health.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if len(s.HealthProbes) == 0 {
		JSON(w, r, http.StatusOK, healthResponse{Status: "healthy"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	components := make(map[string]componentStatus, len(s.HealthProbes))
	allHealthy := true
	for _, probe := range s.HealthProbes {
		if err := probe.Check(ctx); err != nil {
			allHealthy = false
			components[probe.Name()] = componentStatus{Status: "unhealthy", Message: err.Error()}
			continue
		}
		components[probe.Name()] = componentStatus{Status: "healthy"}
	}

	resp := healthResponse{Components: components}
	if allHealthy {
		resp.Status = "healthy"
		JSON(w, r, http.StatusOK, resp)
		return
	}
	resp.Status = "unhealthy"
	JSON(w, r, http.StatusServiceUnavailable, resp)
}
