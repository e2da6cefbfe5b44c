package storage

import (
	"context"

	"github.com/mkarahan/worlddominion/internal/model"
)

// Storage defines the interface for game-state persistence.
//
// All reads return defensive copies, and every read-modify-write goes
// through UpdatePlayer/UpdateRoom, which run the mutation function under
// the store's write lock. No two mutations interleave on the same record
// even with connection handlers and the tick scheduler running
// concurrently. If the mutation function returns an error, the record is
// left unchanged.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	UpdatePlayer(ctx context.Context, id model.PlayerID, mutate func(*model.Player) error) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error
	ListPlayers(ctx context.Context) ([]*model.Player, error)
	CountPlayers(ctx context.Context) (int, error)

	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	UpdateRoom(ctx context.Context, id model.RoomID, mutate func(*model.Room) error) (*model.Room, error)
	DeleteRoom(ctx context.Context, id model.RoomID) error
	ListRooms(ctx context.Context) ([]*model.Room, error)
	CountRooms(ctx context.Context) (int, error)

	// Cumulative games counter, incremented when a room is created
	IncrementTotalGames(ctx context.Context) (int64, error)
	TotalGames(ctx context.Context) (int64, error)
}
