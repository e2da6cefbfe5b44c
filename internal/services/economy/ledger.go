package economy

import (
	"log/slog"

	"github.com/mkarahan/worlddominion/internal/model"
	"github.com/mkarahan/worlddominion/internal/services/tech"
)

// Ledger applies the deterministic per-tick economic update to a player
// record: building yields, then unlocked technology effects, then the
// derived power score. It mutates only the record it is given.
type Ledger struct {
	graph  *tech.Graph
	logger *slog.Logger
}

// NewLedger creates a Ledger over the given technology graph
func NewLedger(graph *tech.Graph, logger *slog.Logger) *Ledger {
	return &Ledger{
		graph:  graph,
		logger: logger.With(slog.String("component", "economy")),
	}
}

// ApplyTick applies one discrete economic tick to the player
func (l *Ledger) ApplyTick(p *model.Player) {
	for _, bt := range model.AllBuildingTypes {
		spec, ok := model.BuildingSpecFor(bt)
		if !ok {
			continue
		}
		count := p.Buildings.Count(bt)
		if count == 0 {
			continue
		}
		for res, perUnit := range spec.Yield {
			p.Resources.Set(res, p.Resources.Get(res)+count*perUnit)
		}
	}

	for id := range p.Technologies {
		t, ok := l.graph.Get(id)
		if !ok {
			continue
		}
		p.Resources.Add(t.Effects)
	}

	p.Stats.PowerScore = PowerScore(p.Resources)
}

// PowerScore computes the derived ranking metric from weighted resource
// holdings: floor(gold*0.1 + production*2 + science*5 + military*3).
// Integer division matches the floor for non-negative gold.
func PowerScore(r model.Resources) int {
	return r.Gold/10 + r.Production*2 + r.Science*5 + r.Military*3
}
