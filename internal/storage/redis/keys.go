package redis

import (
	"fmt"

	"github.com/mkarahan/worlddominion/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "wdgame"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// playerIndexKey returns the Redis key for the SET of live player ids
func playerIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// roomIndexKey returns the Redis key for the SET of live room ids
func roomIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}

// totalGamesKey returns the Redis key for the cumulative games counter
func totalGamesKey() string {
	return fmt.Sprintf("%s:counter:total_games", keyPrefix)
}
