package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mkarahan/worlddominion/internal/dependencies/clock"
	"github.com/mkarahan/worlddominion/internal/dependencies/random"
	"github.com/mkarahan/worlddominion/internal/gateway"
	"github.com/mkarahan/worlddominion/internal/services/economy"
	"github.com/mkarahan/worlddominion/internal/services/registry"
	"github.com/mkarahan/worlddominion/internal/services/room"
	"github.com/mkarahan/worlddominion/internal/services/scheduler"
	"github.com/mkarahan/worlddominion/internal/services/stats"
	"github.com/mkarahan/worlddominion/internal/services/tech"
	"github.com/mkarahan/worlddominion/internal/storage"
	"github.com/mkarahan/worlddominion/internal/storage/memory"
	redisstorage "github.com/mkarahan/worlddominion/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	TechGraph    *tech.Graph
	Ledger       *economy.Ledger
	Registry     *registry.Registry
	RoomManager  *room.Manager
	StatsService *stats.Service
	Scheduler    *scheduler.Scheduler
	Hub          *gateway.Hub
	Gateway      *gateway.Gateway
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SchedulerConfig holds the simulation timing settings (optional)
	// If zero value, defaults to scheduler.DefaultConfig()
	SchedulerConfig scheduler.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	schedCfg := cfg.SchedulerConfig
	if schedCfg.TickInterval == 0 {
		schedCfg = scheduler.DefaultConfig()
	}

	return newWithDependencies(store, clk, rnd, schedCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, schedCfg scheduler.Config, logger *slog.Logger) *App {
	techGraph := tech.NewGraph(store, clk, logger, tech.DefaultTechnologies())
	ledger := economy.NewLedger(techGraph, logger)
	reg := registry.New(store, clk, rnd, logger)
	roomManager := room.NewManager(store, clk, rnd, logger)
	statsService := stats.New(store, logger)
	sched := scheduler.New(store, ledger, clk, schedCfg, logger)
	hub := gateway.NewHub(logger)
	gw := gateway.New(hub, reg, roomManager, techGraph, statsService, clk, logger)

	return &App{
		Storage:      store,
		Clock:        clk,
		Random:       rnd,
		TechGraph:    techGraph,
		Ledger:       ledger,
		Registry:     reg,
		RoomManager:  roomManager,
		StatsService: statsService,
		Scheduler:    sched,
		Hub:          hub,
		Gateway:      gw,
	}
}
