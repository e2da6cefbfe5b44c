package tech

import (
	"context"
	"log/slog"
	"sort"

	"github.com/mkarahan/worlddominion/internal/dependencies/clock"
	"github.com/mkarahan/worlddominion/internal/model"
	"github.com/mkarahan/worlddominion/internal/storage"
)

// Graph is the static technology prerequisite DAG plus research
// validation. The graph is loaded once at startup and never mutated; the
// cost table here is authoritative and client-declared costs are ignored.
type Graph struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
	techs   map[model.TechID]model.Technology
}

// NewGraph creates a Graph over the given technology definitions
func NewGraph(store storage.Storage, clk clock.Clock, logger *slog.Logger, techs []model.Technology) *Graph {
	byID := make(map[model.TechID]model.Technology, len(techs))
	for _, t := range techs {
		byID[t.ID] = t
	}
	return &Graph{
		storage: store,
		clock:   clk,
		logger:  logger.With(slog.String("component", "tech")),
		techs:   byID,
	}
}

// DefaultTechnologies returns the built-in technology tree
func DefaultTechnologies() []model.Technology {
	return []model.Technology{
		{
			ID:            "gunpowder",
			Name:          "Gunpowder",
			Category:      "military",
			Cost:          model.Cost{model.ResourceScience: 50},
			Effects:       model.Cost{model.ResourceMilitary: 15},
			Prerequisites: nil,
		},
		{
			ID:            "artillery",
			Name:          "Artillery",
			Category:      "military",
			Cost:          model.Cost{model.ResourceScience: 100},
			Effects:       model.Cost{model.ResourceMilitary: 25},
			Prerequisites: []model.TechID{"gunpowder"},
		},
		{
			ID:            "steam",
			Name:          "Steam Power",
			Category:      "industrial",
			Cost:          model.Cost{model.ResourceScience: 75},
			Effects:       model.Cost{model.ResourceProduction: 20},
			Prerequisites: nil,
		},
		{
			ID:            "electricity",
			Name:          "Electricity",
			Category:      "industrial",
			Cost:          model.Cost{model.ResourceScience: 150},
			Effects:       model.Cost{model.ResourceProduction: 35, model.ResourceScience: 10},
			Prerequisites: []model.TechID{"steam"},
		},
	}
}

// Get returns the technology with the given id
func (g *Graph) Get(id model.TechID) (model.Technology, bool) {
	t, ok := g.techs[id]
	return t, ok
}

// All returns every technology, sorted by id
func (g *Graph) All() []model.Technology {
	out := make([]model.Technology, 0, len(g.techs))
	for _, t := range g.techs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CanResearch reports whether the player may research the technology. It
// returns nil when the tech exists, is not yet owned, every prerequisite
// is unlocked, and the full cost is affordable; otherwise the specific
// validation error.
func (g *Graph) CanResearch(player *model.Player, id model.TechID) error {
	t, ok := g.techs[id]
	if !ok {
		return model.ErrTechNotFound
	}
	if player.Technologies.Has(id) {
		return model.ErrTechAlreadyOwned
	}
	for _, prereq := range t.Prerequisites {
		if !player.Technologies.Has(prereq) {
			return model.ErrMissingPrerequisite
		}
	}
	if !player.Resources.CanAfford(t.Cost) {
		return model.ErrInsufficientResources
	}
	return nil
}

// Research validates and applies a research request. The cost deduction
// is all-or-nothing and the technology set only ever grows. Effects apply
// on subsequent ticks, not retroactively.
func (g *Graph) Research(ctx context.Context, playerID model.PlayerID, id model.TechID) (*model.Player, error) {
	player, err := g.storage.UpdatePlayer(ctx, playerID, func(p *model.Player) error {
		if err := g.CanResearch(p, id); err != nil {
			return err
		}
		t := g.techs[id]
		if err := p.Resources.Spend(t.Cost); err != nil {
			return err
		}
		p.Technologies.Add(id)
		p.LastActiveAt = g.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	g.logger.Info("technology researched",
		slog.String("player_id", string(playerID)),
		slog.String("tech_id", string(id)))
	return player, nil
}
