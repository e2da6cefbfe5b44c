package model

import (
	"sort"
	"time"
)

// RoomID uniquely identifies a room session
type RoomID string

// RoomStatus represents a room's lifecycle state
type RoomStatus string

const (
	RoomStatusActive  RoomStatus = "active"
	RoomStatusClosing RoomStatus = "closing"
)

// DefaultRoomCapacity is the fixed membership bound for new rooms
const DefaultRoomCapacity = 20

// Room is a bounded-capacity grouping of concurrently-playing players
// sharing chat/diplomacy broadcast scope. Rooms hold member ids only;
// the player records themselves are owned by the registry.
type Room struct {
	ID        RoomID            `json:"id"`
	Members   map[PlayerID]bool `json:"members"`
	Capacity  int               `json:"capacity"`
	Status    RoomStatus        `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}

// NewRoom creates an empty active room with the default capacity
func NewRoom(id RoomID, createdAt time.Time) *Room {
	return &Room{
		ID:        id,
		Members:   make(map[PlayerID]bool),
		Capacity:  DefaultRoomCapacity,
		Status:    RoomStatusActive,
		CreatedAt: createdAt,
	}
}

// HasMember reports whether the player is in the room
func (r *Room) HasMember(id PlayerID) bool {
	return r.Members[id]
}

// MemberCount returns the current membership size
func (r *Room) MemberCount() int {
	return len(r.Members)
}

// HasCapacity reports whether the room can seat another player
func (r *Room) HasCapacity() bool {
	return r.Status == RoomStatusActive && len(r.Members) < r.Capacity
}

// MemberIDs returns the member ids in sorted order
func (r *Room) MemberIDs() []PlayerID {
	ids := make([]PlayerID, 0, len(r.Members))
	for id := range r.Members {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
