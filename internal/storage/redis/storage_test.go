package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mkarahan/worlddominion/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.PlayerTTL = time.Hour
	cfg.RoomTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) newPlayer(id string) *model.Player {
	return &model.Player{
		ID:           model.PlayerID(id),
		Name:         "Ava",
		Country:      "japan",
		Resources:    model.StartingResources(),
		Buildings:    model.StartingBuildings(),
		Technologies: model.NewTechSet(),
		Stats:        model.StartingStats(),
		Alliances:    model.NewPlayerIDSet(),
		Wars:         model.NewPlayerIDSet(),
		JoinedAt:     time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		LastActiveAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := s.newPlayer("player-1")

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal(player.Name, retrieved.Name)
	s.Equal(player.Resources, retrieved.Resources)
	s.Equal(player.Stats, retrieved.Stats)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nope")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestUpdatePlayerCommitsMutation() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, s.newPlayer("player-1")))

	updated, err := s.storage.UpdatePlayer(s.ctx, "player-1", func(p *model.Player) error {
		p.Technologies.Add("gunpowder")
		return nil
	})
	s.Require().NoError(err)
	s.True(updated.Technologies.Has("gunpowder"))

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.True(retrieved.Technologies.Has("gunpowder"))
}

func (s *StorageSuite) TestUpdatePlayerErrorDiscardsMutation() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, s.newPlayer("player-1")))

	_, err := s.storage.UpdatePlayer(s.ctx, "player-1", func(p *model.Player) error {
		p.Resources.Gold = 0
		return model.ErrInsufficientResources
	})
	s.ErrorIs(err, model.ErrInsufficientResources)

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(1000, retrieved.Resources.Gold)
}

func (s *StorageSuite) TestDeletePlayerRemovesFromIndex() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, s.newPlayer("player-1")))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, s.newPlayer("player-2")))

	s.Require().NoError(s.storage.DeletePlayer(s.ctx, "player-1"))

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 1)
	s.Equal(model.PlayerID("player-2"), players[0].ID)

	count, err := s.storage.CountPlayers(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *StorageSuite) TestListPlayersSkipsExpiredRecords() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, s.newPlayer("player-1")))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, s.newPlayer("player-2")))

	// Simulate TTL expiry of the record while the index entry lingers
	s.mini.FastForward(2 * time.Hour)

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

// Room tests

func (s *StorageSuite) TestSaveAndGetRoom() {
	room := model.NewRoom("room-1", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	room.Members["player-1"] = true

	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	retrieved, err := s.storage.GetRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(room.ID, retrieved.ID)
	s.True(retrieved.HasMember("player-1"))
	s.Equal(model.RoomStatusActive, retrieved.Status)
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "nope")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestUpdateRoomCommitsMutation() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, model.NewRoom("room-1", time.Now())))

	updated, err := s.storage.UpdateRoom(s.ctx, "room-1", func(r *model.Room) error {
		r.Members["player-1"] = true
		return nil
	})
	s.Require().NoError(err)
	s.True(updated.HasMember("player-1"))

	retrieved, err := s.storage.GetRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	s.True(retrieved.HasMember("player-1"))
}

func (s *StorageSuite) TestListRoomsOrderedByCreation() {
	older := model.NewRoom("room-b", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	newer := model.NewRoom("room-a", time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC))
	s.Require().NoError(s.storage.SaveRoom(s.ctx, newer))
	s.Require().NoError(s.storage.SaveRoom(s.ctx, older))

	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rooms, 2)
	s.Equal(model.RoomID("room-b"), rooms[0].ID)
	s.Equal(model.RoomID("room-a"), rooms[1].ID)
}

func (s *StorageSuite) TestDeleteRoom() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, model.NewRoom("room-1", time.Now())))

	s.Require().NoError(s.storage.DeleteRoom(s.ctx, "room-1"))

	_, err := s.storage.GetRoom(s.ctx, "room-1")
	s.ErrorIs(err, model.ErrRoomNotFound)

	count, err := s.storage.CountRooms(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, count)
}

// Counter tests

func (s *StorageSuite) TestTotalGamesCounter() {
	total, err := s.storage.TotalGames(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(0), total)

	n, err := s.storage.IncrementTotalGames(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	total, err = s.storage.TotalGames(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
}
