package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkarahan/worlddominion/internal/model"
	"github.com/mkarahan/worlddominion/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
//
// The server is a single authoritative process, so read-modify-write
// mutations are serialized with an in-process mutex rather than WATCH
// transactions.
type Storage struct {
	client *redis.Client
	cfg    Config

	// Guards UpdatePlayer/UpdateRoom read-modify-write cycles
	mu sync.Mutex
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, playerKey(player.ID), data, s.cfg.PlayerTTL)
	pipe.SAdd(ctx, playerIndexKey(), string(player.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, id model.PlayerID, mutate func(*model.Player) error) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := mutate(player); err != nil {
		return nil, err
	}
	if err := s.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, playerKey(id))
	pipe.SRem(ctx, playerIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	ids, err := s.client.SMembers(ctx, playerIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(ids))
	for _, id := range ids {
		player, err := s.GetPlayer(ctx, model.PlayerID(id))
		if errors.Is(err, model.ErrPlayerNotFound) {
			// Record expired out from under the index; drop the stale entry
			_ = s.client.SRem(ctx, playerIndexKey(), id).Err()
			continue
		}
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players, nil
}

func (s *Storage) CountPlayers(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, playerIndexKey()).Result()
	return int(n), err
}

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, roomKey(room.ID), data, s.cfg.RoomTTL)
	pipe.SAdd(ctx, roomIndexKey(), string(room.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	data, err := s.client.Get(ctx, roomKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}

	var room model.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	if room.Members == nil {
		room.Members = make(map[model.PlayerID]bool)
	}
	return &room, nil
}

func (s *Storage) UpdateRoom(ctx context.Context, id model.RoomID, mutate func(*model.Room) error) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := mutate(room); err != nil {
		return nil, err
	}
	if err := s.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, roomKey(id))
	pipe.SRem(ctx, roomIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListRooms(ctx context.Context) ([]*model.Room, error) {
	ids, err := s.client.SMembers(ctx, roomIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	rooms := make([]*model.Room, 0, len(ids))
	for _, id := range ids {
		room, err := s.GetRoom(ctx, model.RoomID(id))
		if errors.Is(err, model.ErrRoomNotFound) {
			_ = s.client.SRem(ctx, roomIndexKey(), id).Err()
			continue
		}
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool {
		if !rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
		}
		return rooms[i].ID < rooms[j].ID
	})
	return rooms, nil
}

func (s *Storage) CountRooms(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, roomIndexKey()).Result()
	return int(n), err
}

// Counter operations

func (s *Storage) IncrementTotalGames(ctx context.Context) (int64, error) {
	return s.client.Incr(ctx, totalGamesKey()).Result()
}

func (s *Storage) TotalGames(ctx context.Context) (int64, error) {
	n, err := s.client.Get(ctx, totalGamesKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}
