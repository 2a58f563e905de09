package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// HealthHandler reports service liveness.
type HealthHandler struct {
	version string
	started time.Time
}

// NewHealthHandler creates a health handler stamped with the build
// version.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version, started: time.Now()}
}

// HealthCheck handles GET /api/health.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":  "healthy",
		"version": h.version,
		"uptime":  time.Since(h.started).String(),
	})
}
