package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkarahan/worlddominion/internal/dependencies/clock"
	"github.com/mkarahan/worlddominion/internal/model"
	"github.com/mkarahan/worlddominion/internal/services/economy"
	"github.com/mkarahan/worlddominion/internal/storage"
)

// Config holds the scheduler's timing settings
type Config struct {
	// TickInterval is the period between resource-generation sweeps
	TickInterval time.Duration
	// CleanupInterval is the period between inactivity sweeps
	CleanupInterval time.Duration
	// InactivityThreshold is how long a player may stay idle before the
	// cleanup sweep removes them
	InactivityThreshold time.Duration
	// StatsLogInterval is the period between periodic stats log lines
	StatsLogInterval time.Duration
}

// DefaultConfig returns the production timing settings
func DefaultConfig() Config {
	return Config{
		TickInterval:        5 * time.Second,
		CleanupInterval:     5 * time.Minute,
		InactivityThreshold: 30 * time.Minute,
		StatsLogInterval:    time.Minute,
	}
}

// Scheduler drives time-based simulation independent of client activity:
// periodic resource ticks for every registered player and periodic
// cleanup of idle players and empty rooms.
type Scheduler struct {
	storage storage.Storage
	ledger  *economy.Ledger
	clock   clock.Clock
	logger  *slog.Logger
	cfg     Config
}

// New creates a new Scheduler
func New(store storage.Storage, ledger *economy.Ledger, clk clock.Clock, cfg Config, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		storage: store,
		ledger:  ledger,
		clock:   clk,
		logger:  logger.With(slog.String("component", "scheduler")),
		cfg:     cfg,
	}
}

// Run drives the periodic sweeps until the context is cancelled
func (s *Scheduler) Run(ctx context.Context) {
	tick := time.NewTicker(s.cfg.TickInterval)
	defer tick.Stop()
	cleanup := time.NewTicker(s.cfg.CleanupInterval)
	defer cleanup.Stop()
	statsLog := time.NewTicker(s.cfg.StatsLogInterval)
	defer statsLog.Stop()

	s.logger.Info("scheduler started",
		slog.Duration("tick_interval", s.cfg.TickInterval),
		slog.Duration("cleanup_interval", s.cfg.CleanupInterval))

	for {
		select {
		case <-tick.C:
			s.RunResourceTick(ctx)
		case <-cleanup.C:
			s.RunCleanup(ctx)
		case <-statsLog.C:
			s.logCounts(ctx)
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		}
	}
}

// RunResourceTick applies one economic tick to every registered player.
// A failure or panic in one player's tick does not abort the sweep.
func (s *Scheduler) RunResourceTick(ctx context.Context) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		s.logger.Error("resource tick aborted", slog.Any("error", err))
		return
	}

	for _, p := range players {
		if err := s.tickPlayer(ctx, p.ID); err != nil {
			s.logger.Error("player tick failed",
				slog.String("player_id", string(p.ID)),
				slog.Any("error", err))
		}
	}
}

func (s *Scheduler) tickPlayer(ctx context.Context, id model.PlayerID) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tick panic: %v", r)
		}
	}()

	_, err = s.storage.UpdatePlayer(ctx, id, func(p *model.Player) error {
		s.ledger.ApplyTick(p)
		return nil
	})
	return err
}

// RunCleanup removes players idle past the inactivity threshold and
// deletes any room left without members.
func (s *Scheduler) RunCleanup(ctx context.Context) {
	now := s.clock.Now()

	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		s.logger.Error("cleanup aborted", slog.Any("error", err))
		return
	}

	removed := 0
	for _, p := range players {
		if now.Sub(p.LastActiveAt) <= s.cfg.InactivityThreshold {
			continue
		}
		if err := s.storage.DeletePlayer(ctx, p.ID); err != nil {
			s.logger.Error("removing idle player failed",
				slog.String("player_id", string(p.ID)),
				slog.Any("error", err))
			continue
		}
		s.evictFromRooms(ctx, p.ID)
		removed++
	}

	s.removeEmptyRooms(ctx)

	if removed > 0 {
		s.logger.Info("idle players removed", slog.Int("count", removed))
	}
}

func (s *Scheduler) evictFromRooms(ctx context.Context, id model.PlayerID) {
	rooms, err := s.storage.ListRooms(ctx)
	if err != nil {
		s.logger.Error("listing rooms failed", slog.Any("error", err))
		return
	}
	for _, r := range rooms {
		if !r.HasMember(id) {
			continue
		}
		_, err := s.storage.UpdateRoom(ctx, r.ID, func(room *model.Room) error {
			delete(room.Members, id)
			return nil
		})
		if err != nil {
			s.logger.Error("evicting player from room failed",
				slog.String("room_id", string(r.ID)),
				slog.Any("error", err))
		}
	}
}

func (s *Scheduler) removeEmptyRooms(ctx context.Context) {
	rooms, err := s.storage.ListRooms(ctx)
	if err != nil {
		s.logger.Error("listing rooms failed", slog.Any("error", err))
		return
	}
	for _, r := range rooms {
		if r.MemberCount() != 0 {
			continue
		}
		if err := s.storage.DeleteRoom(ctx, r.ID); err != nil {
			s.logger.Error("deleting empty room failed",
				slog.String("room_id", string(r.ID)),
				slog.Any("error", err))
		}
	}
}

func (s *Scheduler) logCounts(ctx context.Context) {
	players, err := s.storage.CountPlayers(ctx)
	if err != nil {
		return
	}
	rooms, err := s.storage.CountRooms(ctx)
	if err != nil {
		return
	}
	s.logger.Info("world status", slog.Int("players", players), slog.Int("rooms", rooms))
}
