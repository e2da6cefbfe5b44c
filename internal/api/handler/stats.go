package handler

import (
	"net/http"

	"github.com/mkarahan/worlddominion/internal/api/response"
	"github.com/mkarahan/worlddominion/internal/dependencies/clock"
	"github.com/mkarahan/worlddominion/internal/gateway"
	"github.com/mkarahan/worlddominion/internal/services/stats"
)

// StatsHandler handles global statistics and leaderboard endpoints
type StatsHandler struct {
	stats *stats.Service
	hub   *gateway.Hub
	clock clock.Clock
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *stats.Service, hub *gateway.Hub, clk clock.Clock) *StatsHandler {
	return &StatsHandler{stats: statsService, hub: hub, clock: clk}
}

// Get handles GET /api/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.stats.Snapshot(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.StatsResponse{
		TotalPlayers:  snapshot.TotalPlayers,
		ActiveGames:   snapshot.ActiveRooms,
		TotalGames:    snapshot.TotalGames,
		OnlinePlayers: h.hub.ConnectionCount(),
		Timestamp:     h.clock.Now(),
	})
}

// Leaderboard handles GET /api/leaderboard
func (h *StatsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.stats.Leaderboard(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, entries)
}
