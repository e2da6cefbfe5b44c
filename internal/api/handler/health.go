package handler

import (
	"net/http"

	"github.com/mkarahan/worlddominion/internal/api/response"
	"github.com/mkarahan/worlddominion/internal/dependencies/clock"
	"github.com/mkarahan/worlddominion/internal/services/stats"
)

// HealthHandler handles the health check endpoint
type HealthHandler struct {
	stats       *stats.Service
	clock       clock.Clock
	environment string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(statsService *stats.Service, clk clock.Clock, environment string) *HealthHandler {
	return &HealthHandler{
		stats:       statsService,
		clock:       clk,
		environment: environment,
	}
}

// Get handles GET /api/health
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.stats.Snapshot(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HealthResponse{
		Status:      "ok",
		Timestamp:   h.clock.Now(),
		Environment: h.environment,
		Players:     snapshot.TotalPlayers,
	})
}
