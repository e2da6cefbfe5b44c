package stats

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/mkarahan/worlddominion/internal/model"
	"github.com/mkarahan/worlddominion/internal/storage"
)

// leaderboardSize caps the leaderboard at the top 100 players
const leaderboardSize = 100

// Service computes process-wide aggregate statistics and the power-score
// leaderboard. Counts are derived from storage on demand, so every
// membership change is reflected in the next snapshot.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new stats Service
func New(store storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		logger:  logger.With(slog.String("component", "stats")),
	}
}

// Snapshot returns the current global aggregate counts
func (s *Service) Snapshot(ctx context.Context) (model.GlobalStats, error) {
	players, err := s.storage.CountPlayers(ctx)
	if err != nil {
		return model.GlobalStats{}, err
	}
	rooms, err := s.storage.CountRooms(ctx)
	if err != nil {
		return model.GlobalStats{}, err
	}
	games, err := s.storage.TotalGames(ctx)
	if err != nil {
		return model.GlobalStats{}, err
	}
	return model.GlobalStats{
		TotalPlayers: players,
		ActiveRooms:  rooms,
		TotalGames:   games,
	}, nil
}

// LeaderboardEntry is one ranked row of the leaderboard
type LeaderboardEntry struct {
	ID         model.PlayerID `json:"id"`
	Name       string         `json:"name"`
	Country    string         `json:"country"`
	PowerScore int            `json:"powerScore"`
	JoinedAt   time.Time      `json:"joinedAt"`
}

// Leaderboard returns up to the top 100 players by descending power score
func (s *Service) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Stats.PowerScore > players[j].Stats.PowerScore
	})
	if len(players) > leaderboardSize {
		players = players[:leaderboardSize]
	}

	entries := make([]LeaderboardEntry, len(players))
	for i, p := range players {
		entries[i] = LeaderboardEntry{
			ID:         p.ID,
			Name:       p.Name,
			Country:    p.Country,
			PowerScore: p.Stats.PowerScore,
			JoinedAt:   p.JoinedAt,
		}
	}
	return entries, nil
}
