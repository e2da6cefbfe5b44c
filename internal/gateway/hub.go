package gateway

import (
	"log/slog"
	"sync"

	"github.com/mkarahan/worlddominion/internal/model"
)

// Hub tracks live websocket sessions and their room bindings and fans
// events out to them. Broadcasts snapshot the recipient list before
// sending, so a membership change racing with a broadcast never breaks
// the fan-out.
type Hub struct {
	mu       sync.RWMutex
	sessions map[*Session]bool
	rooms    map[model.RoomID]map[*Session]bool
	logger   *slog.Logger
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		sessions: make(map[*Session]bool),
		rooms:    make(map[model.RoomID]map[*Session]bool),
		logger:   logger.With(slog.String("component", "hub")),
	}
}

// Register adds a session to the hub
func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	h.sessions[s] = true
	total := len(h.sessions)
	h.mu.Unlock()
	h.logger.Info("connection registered", slog.Int("total_connections", total))
}

// Unregister removes a session from the hub and its room binding and
// closes its send channel. Safe to call more than once.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.sessions[s] {
		return
	}
	delete(h.sessions, s)
	h.unbindLocked(s)
	s.closeSend()
}

// Bind associates a joined session with its room
func (h *Hub) Bind(s *Session, roomID model.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unbindLocked(s)
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[*Session]bool)
		h.rooms[roomID] = members
	}
	members[s] = true
}

// Unbind removes a session's room association, if any
func (h *Hub) Unbind(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unbindLocked(s)
}

func (h *Hub) unbindLocked(s *Session) {
	for roomID, members := range h.rooms {
		if members[s] {
			delete(members, s)
			if len(members) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
}

// BroadcastRoom sends a message to every session bound to the room,
// except the excluded one (pass nil to include everyone).
func (h *Hub) BroadcastRoom(roomID model.RoomID, message []byte, except *Session) {
	h.mu.RLock()
	recipients := make([]*Session, 0, len(h.rooms[roomID]))
	for s := range h.rooms[roomID] {
		if s != except {
			recipients = append(recipients, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range recipients {
		s.enqueue(message)
	}
}

// BroadcastAll sends a message to every connected session
func (h *Hub) BroadcastAll(message []byte) {
	h.mu.RLock()
	recipients := make([]*Session, 0, len(h.sessions))
	for s := range h.sessions {
		recipients = append(recipients, s)
	}
	h.mu.RUnlock()

	for _, s := range recipients {
		s.enqueue(message)
	}
}

// ConnectionCount returns the number of live sessions
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// RoomConnectionCount returns the number of sessions bound to a room
func (h *Hub) RoomConnectionCount(roomID model.RoomID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
