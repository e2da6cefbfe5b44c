package response

import (
	"time"

	"github.com/mkarahan/worlddominion/internal/model"
)

// HealthResponse is the health check payload
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
	Players     int       `json:"players"`
}

// StatsResponse is the global statistics payload. OnlinePlayers counts
// open realtime connections, which can lag TotalPlayers while idle
// players await cleanup.
type StatsResponse struct {
	TotalPlayers  int       `json:"totalPlayers"`
	ActiveGames   int       `json:"activeGames"`
	TotalGames    int64     `json:"totalGames"`
	OnlinePlayers int       `json:"onlinePlayers"`
	Timestamp     time.Time `json:"timestamp"`
}

// RoomMember is one player summarised for room views
type RoomMember struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Country    string `json:"country"`
	PowerScore int    `json:"powerScore"`
}

// RoomMemberFromModel converts a model.Player to a RoomMember
func RoomMemberFromModel(p *model.Player) RoomMember {
	return RoomMember{
		ID:         string(p.ID),
		Name:       p.Name,
		Country:    p.Country,
		PowerScore: p.Stats.PowerScore,
	}
}

// Room represents a room in API responses
type Room struct {
	ID        string       `json:"id"`
	Status    string       `json:"status"`
	Capacity  int          `json:"capacity"`
	Players   []RoomMember `json:"players"`
	CreatedAt time.Time    `json:"createdAt"`
}

// RoomFromModel converts a model.Room and its resolved members
func RoomFromModel(r *model.Room, members []*model.Player) Room {
	players := make([]RoomMember, len(members))
	for i, p := range members {
		players[i] = RoomMemberFromModel(p)
	}
	return Room{
		ID:        string(r.ID),
		Status:    string(r.Status),
		Capacity:  r.Capacity,
		Players:   players,
		CreatedAt: r.CreatedAt,
	}
}

// JoinRoomResponse is returned when a player is created and seated
type JoinRoomResponse struct {
	RoomID   string        `json:"roomId"`
	PlayerID string        `json:"playerId"`
	Player   *model.Player `json:"player"`
	Room     Room          `json:"room"`
}

// SavePlayerResponse acknowledges a persisted player update
type SavePlayerResponse struct {
	Saved  bool          `json:"saved"`
	Player *model.Player `json:"player"`
}
