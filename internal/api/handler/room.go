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
	"github.com/mkarahan/worlddominion/internal/services/room"
)

// RoomHandler handles room-related endpoints
type RoomHandler struct {
	registry *registry.Registry
	rooms    *room.Manager
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(reg *registry.Registry, rooms *room.Manager) *RoomHandler {
	return &RoomHandler{registry: reg, rooms: rooms}
}

// Join handles POST /api/rooms/join. The request creates the player
// and seats them in a room in one step, mirroring the realtime
// playerJoin event.
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req request.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apierr.NewInvalidRequestError("Invalid JSON body"))
		return
	}

	player, err := h.registry.Create(r.Context(), req.PlayerName, req.Country)
	if err != nil {
		WriteError(w, err)
		return
	}

	joined, err := h.rooms.JoinAny(r.Context(), player.ID)
	if err != nil {
		_ = h.registry.Remove(r.Context(), player.ID)
		WriteError(w, err)
		return
	}

	members, err := h.rooms.Members(r.Context(), joined.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.JoinRoomResponse{
		RoomID:   string(joined.ID),
		PlayerID: string(player.ID),
		Player:   player,
		Room:     response.RoomFromModel(joined, members),
	})
}

// Get handles GET /api/rooms/{roomId}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["roomId"])

	found, err := h.rooms.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	members, err := h.rooms.Members(r.Context(), found.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(found, members))
}
