package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mkarahan/worlddominion/internal/dependencies/clock"
	"github.com/mkarahan/worlddominion/internal/model"
	"github.com/mkarahan/worlddominion/internal/services/registry"
	"github.com/mkarahan/worlddominion/internal/services/room"
	"github.com/mkarahan/worlddominion/internal/services/stats"
	"github.com/mkarahan/worlddominion/internal/services/tech"
)

// Gateway is the authoritative session loop: it receives client intents
// over websocket connections, validates them against the registry, room
// manager, and technology graph, and fans the resulting deltas out to
// room members.
type Gateway struct {
	hub      *Hub
	registry *registry.Registry
	rooms    *room.Manager
	graph    *tech.Graph
	stats    *stats.Service
	clock    clock.Clock
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// New creates a new Gateway
func New(
	hub *Hub,
	reg *registry.Registry,
	rooms *room.Manager,
	graph *tech.Graph,
	statsService *stats.Service,
	clk clock.Clock,
	logger *slog.Logger,
) *Gateway {
	return &Gateway{
		hub:      hub,
		registry: reg,
		rooms:    rooms,
		graph:    graph,
		stats:    statsService,
		clock:    clk,
		logger:   logger.With(slog.String("component", "gateway")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The browser client is served from arbitrary origins in
			// development; room membership is the only access control.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Hub exposes the session hub, mainly for shutdown broadcasting
func (g *Gateway) Hub() *Hub {
	return g.hub
}

// ServeWS upgrades an HTTP request to a websocket session and runs its
// read loop until disconnect.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	sess := newSession(g.hub, conn, g.clock.Now())
	g.hub.Register(sess)
	go sess.writePump()

	g.readLoop(sess)
}

func (g *Gateway) readLoop(sess *Session) {
	defer g.handleDisconnect(sess)

	sess.conn.SetReadLimit(maxMessageSize)
	_ = sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	sess.conn.SetPongHandler(func(string) error {
		return sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.logger.Debug("websocket closed unexpectedly", slog.Any("error", err))
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			g.logger.Debug("malformed envelope", slog.Any("error", err))
			continue
		}
		g.dispatch(context.Background(), sess, env)
	}
}

// dispatch routes one inbound event. A fault handling one event must not
// affect other connections or the scheduler, so handler errors are
// reported to the sender and swallowed here.
func (g *Gateway) dispatch(ctx context.Context, sess *Session, env Envelope) {
	if sess.joined {
		g.registry.Touch(ctx, sess.playerID)
	}

	switch env.Type {
	case EventPlayerJoin:
		g.handlePlayerJoin(ctx, sess, env.Data)
	case EventChatMessage:
		g.handleChatMessage(ctx, sess, env.Data)
	case EventGameStateUpdate:
		g.handleGameStateUpdate(ctx, sess, env.Data)
	case EventDiplomacyAction:
		g.handleDiplomacyAction(ctx, sess, env.Data)
	case EventTechResearch:
		g.handleTechResearch(ctx, sess, env.Data)
	case EventBuildStructure:
		g.handleBuildStructure(ctx, sess, env.Data)
	default:
		g.logger.Debug("unknown event type", slog.String("type", env.Type))
	}
}

func (g *Gateway) handlePlayerJoin(ctx context.Context, sess *Session, data json.RawMessage) {
	if sess.joined {
		g.logger.Warn("duplicate playerJoin ignored", slog.String("player_id", string(sess.playerID)))
		return
	}

	var payload PlayerJoinPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		g.sendError(sess, "INVALID_INPUT", "malformed join payload")
		return
	}

	player, err := g.registry.Create(ctx, payload.PlayerName, payload.Country)
	if err != nil {
		g.sendError(sess, errorCode(err), err.Error())
		return
	}

	joinedRoom, err := g.rooms.JoinAny(ctx, player.ID)
	if err != nil {
		g.logger.Error("room assignment failed", slog.Any("error", err))
		_ = g.registry.Remove(ctx, player.ID)
		g.sendError(sess, "INTERNAL", "could not assign a room")
		return
	}

	sess.playerID = player.ID
	sess.roomID = joinedRoom.ID
	sess.joined = true
	g.hub.Bind(sess, joinedRoom.ID)

	members, err := g.rooms.Members(ctx, joinedRoom.ID)
	if err != nil {
		g.logger.Error("resolving room members failed", slog.Any("error", err))
		members = []*model.Player{player}
	}

	g.sendEvent(sess, EventPlayerJoined, PlayerJoinedPayload{
		Player: player,
		Room:   RoomSnapshot{ID: joinedRoom.ID, Players: members},
	})
	g.broadcastRoom(joinedRoom.ID, EventPlayerJoined, player, sess)

	g.logStats(ctx)
	g.logger.Info("player joined",
		slog.String("player_id", string(player.ID)),
		slog.String("room_id", string(joinedRoom.ID)),
		slog.String("country", player.Country))
}

func (g *Gateway) handleChatMessage(ctx context.Context, sess *Session, data json.RawMessage) {
	if !sess.joined {
		return
	}
	if !sess.chat.Allow() {
		g.logger.Debug("chat message rate limited", slog.String("player_id", string(sess.playerID)))
		return
	}

	var payload ChatMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	player, err := g.registry.Get(ctx, sess.playerID)
	if err != nil {
		return
	}

	now := g.clock.Now().UnixMilli()
	g.broadcastRoom(sess.roomID, EventChatMessage, ChatBroadcast{
		ID:         now,
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Message:    payload.Message,
		Timestamp:  now,
		Type:       "player",
	}, nil)
}

func (g *Gateway) handleGameStateUpdate(ctx context.Context, sess *Session, data json.RawMessage) {
	if !sess.joined {
		return
	}

	var payload GameStateUpdatePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		g.sendError(sess, "INVALID_INPUT", "malformed state update")
		return
	}

	player, err := g.registry.ApplyDelta(ctx, sess.playerID, payload.Player)
	if err != nil {
		g.logger.Warn("state update failed",
			slog.String("player_id", string(sess.playerID)),
			slog.Any("error", err))
		return
	}

	g.broadcastRoom(sess.roomID, EventGameStateUpdate, GameStateBroadcast{
		PlayerID: player.ID,
		Player:   player,
		WorldAge: payload.WorldAge,
	}, sess)
}

func (g *Gateway) handleDiplomacyAction(ctx context.Context, sess *Session, data json.RawMessage) {
	if !sess.joined {
		return
	}

	var payload DiplomacyActionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	currentRoom, err := g.rooms.Get(ctx, sess.roomID)
	if err != nil || !currentRoom.HasMember(payload.TargetPlayerID) {
		// Target not in this room: dropped silently, a product choice
		return
	}

	from, err := g.registry.Get(ctx, sess.playerID)
	if err != nil {
		return
	}
	to, err := g.registry.Get(ctx, payload.TargetPlayerID)
	if err != nil {
		return
	}

	g.broadcastRoom(sess.roomID, EventDiplomacyProposal, DiplomacyProposalPayload{
		From:      from,
		To:        to,
		Action:    payload.Action,
		Details:   payload.Details,
		Timestamp: g.clock.Now().UnixMilli(),
	}, sess)

	g.logger.Info("diplomacy proposed",
		slog.String("from", string(from.ID)),
		slog.String("to", string(to.ID)),
		slog.String("action", payload.Action))
}

func (g *Gateway) handleTechResearch(ctx context.Context, sess *Session, data json.RawMessage) {
	if !sess.joined {
		return
	}

	var payload TechResearchPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		g.sendError(sess, "INVALID_INPUT", "malformed research payload")
		return
	}

	// Client-declared cost is ignored; the graph validates prerequisites
	// and charges its own cost table.
	player, err := g.graph.Research(ctx, sess.playerID, payload.TechID)
	if err != nil {
		g.sendError(sess, errorCode(err), err.Error())
		return
	}

	g.sendEvent(sess, EventTechResearchComplete, TechResearchCompletePayload{
		TechID: payload.TechID,
		Player: player,
	})
}

func (g *Gateway) handleBuildStructure(ctx context.Context, sess *Session, data json.RawMessage) {
	if !sess.joined {
		return
	}

	var payload BuildStructurePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		g.sendError(sess, "INVALID_INPUT", "malformed build payload")
		return
	}

	player, err := g.registry.Build(ctx, sess.playerID, payload.BuildingType)
	if err != nil {
		g.sendError(sess, errorCode(err), err.Error())
		return
	}

	g.sendEvent(sess, EventBuildingComplete, BuildingCompletePayload{
		BuildingType: payload.BuildingType,
		Player:       player,
	})
}

// handleDisconnect tears down a session: the player leaves their room
// and registry, remaining members are notified, and global stats are
// refreshed. Terminal; no further events are processed for the session.
func (g *Gateway) handleDisconnect(sess *Session) {
	ctx := context.Background()

	if sess.joined {
		if err := g.rooms.Leave(ctx, sess.roomID, sess.playerID); err != nil {
			g.logger.Error("leaving room failed", slog.Any("error", err))
		}
		if err := g.registry.Remove(ctx, sess.playerID); err != nil {
			g.logger.Error("removing player failed", slog.Any("error", err))
		}

		g.broadcastRoom(sess.roomID, EventPlayerLeft, sess.playerID, sess)
		g.logger.Info("player disconnected", slog.String("player_id", string(sess.playerID)))
	}

	g.hub.Unregister(sess)
	g.logStats(ctx)
}

// BroadcastShutdown warns every connected client that the server is
// going down.
func (g *Gateway) BroadcastShutdown(message string, countdown int) {
	data, err := marshalEvent(EventServerShutdown, ServerShutdownPayload{
		Message:   message,
		Countdown: countdown,
	})
	if err != nil {
		g.logger.Error("marshaling shutdown event failed", slog.Any("error", err))
		return
	}
	g.hub.BroadcastAll(data)
}

func (g *Gateway) sendEvent(sess *Session, eventType string, payload any) {
	data, err := marshalEvent(eventType, payload)
	if err != nil {
		g.logger.Error("marshaling event failed",
			slog.String("type", eventType),
			slog.Any("error", err))
		return
	}
	sess.enqueue(data)
}

func (g *Gateway) broadcastRoom(roomID model.RoomID, eventType string, payload any, except *Session) {
	data, err := marshalEvent(eventType, payload)
	if err != nil {
		g.logger.Error("marshaling event failed",
			slog.String("type", eventType),
			slog.Any("error", err))
		return
	}
	g.hub.BroadcastRoom(roomID, data, except)
}

func (g *Gateway) sendError(sess *Session, code, message string) {
	g.sendEvent(sess, EventError, ErrorPayload{Code: code, Message: message})
}

func (g *Gateway) logStats(ctx context.Context) {
	snapshot, err := g.stats.Snapshot(ctx)
	if err != nil {
		return
	}
	g.logger.Info("global stats",
		slog.Int("players", snapshot.TotalPlayers),
		slog.Int("rooms", snapshot.ActiveRooms),
		slog.Int64("total_games", snapshot.TotalGames))
}

// errorCode maps domain errors to wire codes for the error event
func errorCode(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidName), errors.Is(err, model.ErrInvalidCountry):
		return "INVALID_INPUT"
	case errors.Is(err, model.ErrInsufficientResources):
		return "INSUFFICIENT_RESOURCES"
	case errors.Is(err, model.ErrTechNotFound),
		errors.Is(err, model.ErrTechAlreadyOwned),
		errors.Is(err, model.ErrMissingPrerequisite):
		return "INVALID_RESEARCH"
	case errors.Is(err, model.ErrUnknownBuilding):
		return "UNKNOWN_BUILDING"
	case errors.Is(err, model.ErrPlayerNotFound), errors.Is(err, model.ErrRoomNotFound):
		return "NOT_FOUND"
	default:
		return "INTERNAL"
	}
}
