package handlers

import (
	"net/http"
	"time"

	"meetsched/internal/api/response"
	"meetsched/internal/config"
)

// HealthHandler reports service liveness.
type HealthHandler struct {
	config  *config.Config
	started time.Time
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{config: cfg, started: time.Now()}
}

// Handle responds to GET /health.
func (h *HealthHandler) Handle(w http.ResponseWriter, _ *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"server":         "meetsched",
		"uptime_seconds": int(time.Since(h.started).Seconds()),
	})
}
