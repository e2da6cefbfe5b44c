package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mkarahan/worlddominion/internal/api/apierr"
	"github.com/mkarahan/worlddominion/internal/api/request"
	"github.com/mkarahan/worlddominion/internal/api/response"
	"github.com/mkarahan/worlddominion/internal/model"
	"github.com/mkarahan/worlddominion/internal/services/registry"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	registry *registry.Registry
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(reg *registry.Registry) *PlayerHandler {
	return &PlayerHandler{registry: reg}
}

// Save handles POST /api/players/{playerId}/save
func (h *PlayerHandler) Save(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["playerId"])

	var req request.SavePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apierr.NewInvalidRequestError("Invalid JSON body"))
		return
	}

	player, err := h.registry.ApplyDelta(r.Context(), id, req.Player)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SavePlayerResponse{
		Saved:  true,
		Player: player,
	})
}

// Get handles GET /api/players/{playerId}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["playerId"])

	player, err := h.registry.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, player)
}
