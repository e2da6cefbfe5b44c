package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mkarahan/worlddominion/internal/dependencies/mocks"
	"github.com/mkarahan/worlddominion/internal/model"
	"github.com/mkarahan/worlddominion/internal/storage/memory"
	"github.com/mkarahan/worlddominion/internal/testutil"
)

type RegistrySuite struct {
	suite.Suite
	storage  *memory.Storage
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	registry *Registry
	ctx      context.Context
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.registry = New(s.storage, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *RegistrySuite) createPlayer(name, country string) *model.Player {
	s.random.QueueString("abc123def")
	player, err := s.registry.Create(s.ctx, name, country)
	s.Require().NoError(err)
	return player
}

// Create tests

func (s *RegistrySuite) TestCreateSucceeds() {
	s.random.QueueString("abc123def")

	player, err := s.registry.Create(s.ctx, "Ava", "brazil")
	s.Require().NoError(err)

	s.Equal("Ava", player.Name)
	s.Equal("brazil", player.Country)
	s.Equal(model.PlayerID("player_1704110400000_abc123def"), player.ID)
	s.Equal(s.clock.Now(), player.JoinedAt)
	s.Equal(s.clock.Now(), player.LastActiveAt)
}

func (s *RegistrySuite) TestCreateStartingState() {
	player := s.createPlayer("Ava", "brazil")

	s.Equal(model.Resources{Gold: 1000, Production: 100, Science: 50, Military: 75}, player.Resources)
	s.Equal(model.Buildings{Factories: 5, Labs: 3, Barracks: 2}, player.Buildings)
	s.Equal(50_000_000, player.Stats.Population)
	s.Equal(85, player.Stats.Happiness)
	s.Equal(1250, player.Stats.PowerScore)
	s.Empty(player.Technologies)
	s.Empty(player.Alliances)
	s.Empty(player.Wars)
}

func (s *RegistrySuite) TestCreateIsPersisted() {
	player := s.createPlayer("Ava", "brazil")

	retrieved, err := s.registry.Get(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
}

func (s *RegistrySuite) TestCreateTrimsName() {
	player := s.createPlayer("  Ava  ", "brazil")
	s.Equal("Ava", player.Name)
}

func (s *RegistrySuite) TestCreateRejectsBlankName() {
	_, err := s.registry.Create(s.ctx, "   ", "brazil")
	s.ErrorIs(err, model.ErrInvalidName)
}

func (s *RegistrySuite) TestCreateRejectsUnknownCountry() {
	_, err := s.registry.Create(s.ctx, "Ava", "atlantis")
	s.ErrorIs(err, model.ErrInvalidCountry)
}

// Build tests

func (s *RegistrySuite) TestBuildFactoryChargesCatalogPrice() {
	player := s.createPlayer("Ava", "brazil")

	updated, err := s.registry.Build(s.ctx, player.ID, model.BuildingFactory)
	s.Require().NoError(err)

	s.Equal(500, updated.Resources.Gold)
	s.Equal(50, updated.Resources.Production)
	s.Equal(6, updated.Buildings.Factories)
}

func (s *RegistrySuite) TestBuildExactAffordabilitySucceeds() {
	player := s.createPlayer("Ava", "brazil")
	_, err := s.registry.ApplyDelta(s.ctx, player.ID, model.PlayerDelta{
		Resources: &model.Resources{Gold: 500, Production: 50},
	})
	s.Require().NoError(err)

	updated, err := s.registry.Build(s.ctx, player.ID, model.BuildingFactory)
	s.Require().NoError(err)
	s.Equal(0, updated.Resources.Gold)
	s.Equal(0, updated.Resources.Production)
}

func (s *RegistrySuite) TestBuildInsufficientResourcesChangesNothing() {
	player := s.createPlayer("Ava", "brazil")
	_, err := s.registry.ApplyDelta(s.ctx, player.ID, model.PlayerDelta{
		Resources: &model.Resources{Gold: 799, Science: 100},
	})
	s.Require().NoError(err)

	_, err = s.registry.Build(s.ctx, player.ID, model.BuildingLab)
	s.ErrorIs(err, model.ErrInsufficientResources)

	retrieved, err := s.registry.Get(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(799, retrieved.Resources.Gold)
	s.Equal(100, retrieved.Resources.Science)
	s.Equal(3, retrieved.Buildings.Labs)
}

func (s *RegistrySuite) TestBuildUnknownType() {
	player := s.createPlayer("Ava", "brazil")

	_, err := s.registry.Build(s.ctx, player.ID, "castle")
	s.ErrorIs(err, model.ErrUnknownBuilding)
}

func (s *RegistrySuite) TestBuildRefreshesActivity() {
	player := s.createPlayer("Ava", "brazil")
	s.clock.Advance(10 * time.Minute)

	updated, err := s.registry.Build(s.ctx, player.ID, model.BuildingFactory)
	s.Require().NoError(err)
	s.Equal(s.clock.Now(), updated.LastActiveAt)
}

// ApplyDelta tests

func (s *RegistrySuite) TestApplyDeltaMergesWhitelistedFields() {
	player := s.createPlayer("Ava", "brazil")

	allies := model.PlayerIDSet{"player-2": true}
	updated, err := s.registry.ApplyDelta(s.ctx, player.ID, model.PlayerDelta{
		Resources: &model.Resources{Gold: 2000, Production: 100, Science: 50, Military: 75},
		Alliances: &allies,
	})
	s.Require().NoError(err)

	s.Equal(2000, updated.Resources.Gold)
	s.True(updated.Alliances["player-2"])
	// Untouched fields keep their values
	s.Equal("Ava", updated.Name)
	s.Equal(5, updated.Buildings.Factories)
}

func (s *RegistrySuite) TestApplyDeltaClampsNegatives() {
	player := s.createPlayer("Ava", "brazil")

	updated, err := s.registry.ApplyDelta(s.ctx, player.ID, model.PlayerDelta{
		Resources: &model.Resources{Gold: -500, Production: 10},
		Buildings: &model.Buildings{Factories: -1},
	})
	s.Require().NoError(err)

	s.Equal(0, updated.Resources.Gold)
	s.Equal(10, updated.Resources.Production)
	s.Equal(0, updated.Buildings.Factories)
}

func (s *RegistrySuite) TestApplyDeltaUnknownPlayer() {
	_, err := s.registry.ApplyDelta(s.ctx, "nope", model.PlayerDelta{})
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Remove tests

func (s *RegistrySuite) TestRemoveDeletesRecord() {
	player := s.createPlayer("Ava", "brazil")

	s.Require().NoError(s.registry.Remove(s.ctx, player.ID))

	_, err := s.registry.Get(s.ctx, player.ID)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *RegistrySuite) TestRemoveIsIdempotent() {
	s.NoError(s.registry.Remove(s.ctx, "nope"))
}

// Touch tests

func (s *RegistrySuite) TestTouchRefreshesActivity() {
	player := s.createPlayer("Ava", "brazil")
	s.clock.Advance(5 * time.Minute)

	s.registry.Touch(s.ctx, player.ID)

	retrieved, err := s.registry.Get(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(s.clock.Now(), retrieved.LastActiveAt)
}
