package registry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mkarahan/worlddominion/internal/dependencies/clock"
	"github.com/mkarahan/worlddominion/internal/dependencies/random"
	"github.com/mkarahan/worlddominion/internal/model"
	"github.com/mkarahan/worlddominion/internal/storage"
)

// playerIDSuffixLength is the random suffix length in generated player ids
const playerIDSuffixLength = 9

// Registry owns the lifecycle of player records: creation with validated
// identity, whitelisted updates, construction, and teardown.
type Registry struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new Registry
func New(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Registry {
	return &Registry{
		storage: store,
		clock:   clk,
		random:  rnd,
		logger:  logger.With(slog.String("component", "registry")),
	}
}

// Create validates the join fields and creates a new player record with
// the fixed starting state.
func (r *Registry) Create(ctx context.Context, name, country string) (*model.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrInvalidName
	}
	if !model.ValidCountry(country) {
		return nil, model.ErrInvalidCountry
	}

	now := r.clock.Now()
	player := &model.Player{
		ID:           r.newPlayerID(),
		Name:         name,
		Country:      country,
		Resources:    model.StartingResources(),
		Buildings:    model.StartingBuildings(),
		Technologies: model.NewTechSet(),
		Stats:        model.StartingStats(),
		Alliances:    model.NewPlayerIDSet(),
		Wars:         model.NewPlayerIDSet(),
		JoinedAt:     now,
		LastActiveAt: now,
	}

	if err := r.storage.SavePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("saving player: %w", err)
	}

	r.logger.Info("player created",
		slog.String("player_id", string(player.ID)),
		slog.String("name", name),
		slog.String("country", country))
	return player, nil
}

// Get retrieves a player by id
func (r *Registry) Get(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return r.storage.GetPlayer(ctx, id)
}

// Remove deletes a player record. Removing an unknown id is a no-op.
func (r *Registry) Remove(ctx context.Context, id model.PlayerID) error {
	return r.storage.DeletePlayer(ctx, id)
}

// Build constructs one building of the given type, charging the
// authoritative catalog price. The deduction is all-or-nothing: if any
// single cost resource is short, no resource changes.
func (r *Registry) Build(ctx context.Context, id model.PlayerID, buildingType model.BuildingType) (*model.Player, error) {
	spec, ok := model.BuildingSpecFor(buildingType)
	if !ok {
		return nil, model.ErrUnknownBuilding
	}

	player, err := r.storage.UpdatePlayer(ctx, id, func(p *model.Player) error {
		if err := p.Resources.Spend(spec.Cost); err != nil {
			return err
		}
		p.Buildings.Increment(buildingType)
		p.LastActiveAt = r.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("building constructed",
		slog.String("player_id", string(id)),
		slog.String("building", string(buildingType)))
	return player, nil
}

// ApplyDelta merges a whitelisted partial update into the player record
func (r *Registry) ApplyDelta(ctx context.Context, id model.PlayerID, delta model.PlayerDelta) (*model.Player, error) {
	return r.storage.UpdatePlayer(ctx, id, func(p *model.Player) error {
		delta.Apply(p)
		p.LastActiveAt = r.clock.Now()
		return nil
	})
}

// Touch refreshes the player's last-activity timestamp
func (r *Registry) Touch(ctx context.Context, id model.PlayerID) {
	_, err := r.storage.UpdatePlayer(ctx, id, func(p *model.Player) error {
		p.LastActiveAt = r.clock.Now()
		return nil
	})
	if err != nil {
		r.logger.Debug("touch failed", slog.String("player_id", string(id)), slog.Any("error", err))
	}
}

func (r *Registry) newPlayerID() model.PlayerID {
	return model.PlayerID(fmt.Sprintf("player_%d_%s",
		r.clock.Now().UnixMilli(),
		r.random.String(playerIDSuffixLength, random.IDAlphabet)))
}
