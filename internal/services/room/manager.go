package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mkarahan/worlddominion/internal/dependencies/clock"
	"github.com/mkarahan/worlddominion/internal/dependencies/random"
	"github.com/mkarahan/worlddominion/internal/model"
	"github.com/mkarahan/worlddominion/internal/storage"
)

// roomIDSuffixLength is the random suffix length in generated room ids
const roomIDSuffixLength = 6

// Manager groups players into bounded-capacity room sessions. Joins are
// first-fit over active rooms in creation order; a room is created
// lazily when no active room has spare capacity and deleted as soon as
// its membership becomes empty.
type Manager struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewManager creates a new Manager
func NewManager(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Manager {
	return &Manager{
		storage: store,
		clock:   clk,
		random:  rnd,
		logger:  logger.With(slog.String("component", "rooms")),
	}
}

// JoinAny seats the player in the first active room with spare capacity,
// creating a new room if none has any. A player belongs to at most one
// room at a time; callers hand each player to JoinAny exactly once.
func (m *Manager) JoinAny(ctx context.Context, playerID model.PlayerID) (*model.Room, error) {
	rooms, err := m.storage.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}

	for _, candidate := range rooms {
		if !candidate.HasCapacity() {
			continue
		}
		room, err := m.storage.UpdateRoom(ctx, candidate.ID, func(r *model.Room) error {
			// Re-check under the store lock; the scan above was a snapshot
			if !r.HasCapacity() {
				return model.ErrRoomFull
			}
			r.Members[playerID] = true
			return nil
		})
		if errors.Is(err, model.ErrRoomFull) || errors.Is(err, model.ErrRoomNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return room, nil
	}

	return m.createRoom(ctx, playerID)
}

func (m *Manager) createRoom(ctx context.Context, playerID model.PlayerID) (*model.Room, error) {
	room := model.NewRoom(m.newRoomID(), m.clock.Now())
	room.Members[playerID] = true

	if err := m.storage.SaveRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("saving room: %w", err)
	}
	if _, err := m.storage.IncrementTotalGames(ctx); err != nil {
		m.logger.Warn("incrementing games counter failed", slog.Any("error", err))
	}

	m.logger.Info("room created", slog.String("room_id", string(room.ID)))
	return room, nil
}

// Leave removes the player from the room. If the membership becomes
// empty the room is deleted immediately. Leaving an unknown room is a
// no-op so disconnect handling stays idempotent.
func (m *Manager) Leave(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) error {
	room, err := m.storage.UpdateRoom(ctx, roomID, func(r *model.Room) error {
		delete(r.Members, playerID)
		return nil
	})
	if errors.Is(err, model.ErrRoomNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if room.MemberCount() == 0 {
		if err := m.storage.DeleteRoom(ctx, roomID); err != nil {
			return err
		}
		m.logger.Info("room deleted", slog.String("room_id", string(roomID)))
	}
	return nil
}

// Get retrieves a room by id
func (m *Manager) Get(ctx context.Context, id model.RoomID) (*model.Room, error) {
	return m.storage.GetRoom(ctx, id)
}

// Members resolves the room's membership to player records. Ids whose
// record has already been removed are skipped.
func (m *Manager) Members(ctx context.Context, id model.RoomID) ([]*model.Player, error) {
	room, err := m.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, room.MemberCount())
	for _, pid := range room.MemberIDs() {
		player, err := m.storage.GetPlayer(ctx, pid)
		if errors.Is(err, model.ErrPlayerNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, nil
}

func (m *Manager) newRoomID() model.RoomID {
	return model.RoomID(fmt.Sprintf("room_%d_%s",
		m.clock.Now().UnixMilli(),
		m.random.String(roomIDSuffixLength, random.IDAlphabet)))
}
