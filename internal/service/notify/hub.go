package notify

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"caseflow/internal/domain/models"
	"caseflow/internal/httputil"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 16
)

// Hub fans notices out to connected WebSocket clients. Notices are
// fire-and-forget: a client whose send buffer is full is dropped rather
// than blocking the publisher.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.RWMutex
	clients map[string]map[*client]struct{} // userID -> connections
}

type client struct {
	conn *websocket.Conn

	mu     sync.Mutex
	send   chan *models.Notice
	closed bool
}

// trySend queues the notice for the client. Returns false when the send
// buffer is full; a client already torn down counts as delivered. The
// mutex makes queueing safe against a concurrent teardown - a disconnect
// racing a publish must never send on a closed channel.
func (c *client) trySend(notice *models.Notice) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- notice:
		return true
	default:
		return false
	}
}

// teardown closes the send channel and connection exactly once. Both the
// read and write loops unregister on exit, so this must be idempotent.
func (c *client) teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	if c.conn != nil {
		c.conn.Close()
	}
}

// NewHub creates a notice hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// CORS is handled at the middleware layer
				return true
			},
		},
		logger:  logger,
		clients: make(map[string]map[*client]struct{}),
	}
}

// HandleStream upgrades the request to a WebSocket connection and streams
// notices for the authenticated user until the client disconnects.
// GET /api/notices/stream
func (h *Hub) HandleStream(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan *models.Notice, sendBuffer),
	}
	h.register(userID, c)
	h.logger.Debug("notice client connected", "user_id", userID)

	go h.writeLoop(userID, c)
	h.readLoop(userID, c)
}

// Push delivers a notice to every connection of the notice's user.
// Never blocks; full clients are dropped.
func (h *Hub) Push(notice *models.Notice) {
	h.mu.RLock()
	conns := make([]*client, 0, len(h.clients[notice.UserID]))
	for c := range h.clients[notice.UserID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if !c.trySend(notice) {
			h.logger.Warn("dropping slow notice client", "user_id", notice.UserID)
			h.unregister(notice.UserID, c)
		}
	}
}

func (h *Hub) register(userID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*client]struct{})
	}
	h.clients[userID][c] = struct{}{}
}

func (h *Hub) unregister(userID string, c *client) {
	h.mu.Lock()
	if conns, ok := h.clients[userID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.clients, userID)
		}
	}
	h.mu.Unlock()
	c.teardown()
}

// readLoop drains client messages so pong handlers run; the stream is
// server-to-client only.
func (h *Hub) readLoop(userID string, c *client) {
	defer h.unregister(userID, c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("notice client read error", "user_id", userID, "error", err)
			}
			return
		}
	}
}

func (h *Hub) writeLoop(userID string, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.unregister(userID, c)
	}()

	for {
		select {
		case notice, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(notice); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
