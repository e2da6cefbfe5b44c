package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mkarahan/worlddominion/internal/api/apierr"
	"github.com/mkarahan/worlddominion/internal/api/handler"
	"github.com/mkarahan/worlddominion/internal/api/middleware"
	"github.com/mkarahan/worlddominion/internal/dependencies/clock"
	"github.com/mkarahan/worlddominion/internal/gateway"
	"github.com/mkarahan/worlddominion/internal/services/registry"
	"github.com/mkarahan/worlddominion/internal/services/room"
	"github.com/mkarahan/worlddominion/internal/services/stats"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger       *slog.Logger
	Environment  string
	Clock        clock.Clock
	Registry     *registry.Registry
	RoomManager  *room.Manager
	StatsService *stats.Service
	Gateway      *gateway.Gateway
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	healthHandler := handler.NewHealthHandler(cfg.StatsService, cfg.Clock, cfg.Environment)
	statsHandler := handler.NewStatsHandler(cfg.StatsService, cfg.Gateway.Hub(), cfg.Clock)
	roomHandler := handler.NewRoomHandler(cfg.Registry, cfg.RoomManager)
	playerHandler := handler.NewPlayerHandler(cfg.Registry)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/stats", statsHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", statsHandler.Leaderboard).Methods(http.MethodGet)

	api.HandleFunc("/rooms/join", roomHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{roomId}", roomHandler.Get).Methods(http.MethodGet)

	api.HandleFunc("/players/{playerId}", playerHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/players/{playerId}/save", playerHandler.Save).Methods(http.MethodPost)

	// Websocket endpoint sits outside the logging middleware: the
	// connection is hijacked and stays open for the session lifetime.
	r.HandleFunc("/ws", cfg.Gateway.ServeWS)

	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	return r
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	apierr.WriteError(w, apierr.NewNotFoundError("Route not found"))
}
