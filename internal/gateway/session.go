package gateway

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/mkarahan/worlddominion/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period; must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size in bytes
	maxMessageSize = 8192

	// Buffer size for outgoing messages
	sendBufferSize = 64

	// Chat flood control: one message per second, bursts of five
	chatRatePerSecond = 1
	chatBurst         = 5
)

// Session is one websocket connection's state machine: it starts
// unbound, becomes joined once playerJoin creates and seats a player,
// and is terminal after disconnect.
type Session struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// Set once on join; read only from the connection's read loop
	playerID model.PlayerID
	roomID   model.RoomID
	joined   bool

	chat        *rate.Limiter
	connectedAt time.Time

	mu     sync.Mutex
	closed bool
}

func newSession(hub *Hub, conn *websocket.Conn, connectedAt time.Time) *Session {
	return &Session{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		chat:        rate.NewLimiter(rate.Limit(chatRatePerSecond), chatBurst),
		connectedAt: connectedAt,
	}
}

// enqueue pushes a message onto the session's send buffer without
// blocking. Messages to a full or closed session are dropped; broadcasts
// are fire-and-forget.
func (s *Session) enqueue(message []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.send <- message:
	default:
	}
}

// closeSend marks the session closed and closes the send channel so the
// write pump drains and exits. Safe to call more than once.
func (s *Session) closeSend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.send)
}

// writePump pumps buffered messages out to the websocket connection and
// keeps the connection alive with periodic pings.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
