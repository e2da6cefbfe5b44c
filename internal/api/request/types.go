package request

import "github.com/mkarahan/worlddominion/internal/model"

// JoinRoomRequest is the request body for joining a room over HTTP.
// Joining creates the player, so the body carries the same identity
// fields as the realtime playerJoin event.
type JoinRoomRequest struct {
	PlayerName string `json:"playerName"`
	Country    string `json:"country"`
}

// SavePlayerRequest is the request body for persisting a partial
// player update
type SavePlayerRequest struct {
	Player model.PlayerDelta `json:"player"`
}
