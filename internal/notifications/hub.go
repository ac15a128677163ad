package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"quad/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	maxConnsPerProfile = 8
	maxTotalConns      = 10000

	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

var (
	ErrHubFull     = errors.New("server connection limit reached")
	ErrProfileFull = errors.New("profile connection limit reached")
)

// Hub fans notification events out to the websocket connections of their
// recipient profile.
type Hub struct {
	mu    sync.RWMutex
	conns map[uint]map[*Client]struct{}
	total int
}

func NewHub() *Hub {
	return &Hub{conns: make(map[uint]map[*Client]struct{})}
}

// Client is one websocket connection of a profile. Conn may be nil in tests,
// in which case messages are only queued on Send.
type Client struct {
	hub       *Hub
	Conn      *websocket.Conn
	ProfileID uint
	Send      chan []byte
}

// Register adds a connection for profileID.
func (h *Hub) Register(profileID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.total >= maxTotalConns {
		return nil, ErrHubFull
	}
	m, ok := h.conns[profileID]
	if !ok {
		m = make(map[*Client]struct{})
		h.conns[profileID] = m
	}
	if len(m) >= maxConnsPerProfile {
		return nil, ErrProfileFull
	}

	c := &Client{hub: h, Conn: conn, ProfileID: profileID, Send: make(chan []byte, sendBuffer)}
	m[c] = struct{}{}
	h.total++
	observability.ActiveWebSockets.Inc()
	return c, nil
}

// Unregister removes c and closes its Send channel. It is safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.conns[c.ProfileID]
	if !ok {
		return
	}
	if _, exists := m[c]; !exists {
		return
	}
	delete(m, c)
	if len(m) == 0 {
		delete(h.conns, c.ProfileID)
	}
	h.total--
	observability.ActiveWebSockets.Dec()
	close(c.Send)
}

// Connections reports how many connections profileID has open.
func (h *Hub) Connections(profileID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[profileID])
}

// Deliver queues ev for every connection of its recipient.
func (h *Hub) Deliver(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns[ev.ProfileID] {
		select {
		case c.Send <- payload:
		default:
			observability.WebSocketDrops.WithLabelValues("buffer_full").Inc()
		}
	}
}

// Run wires the hub to n: every published event reaches the connections of
// its recipient, on this instance, until ctx ends.
func (h *Hub) Run(ctx context.Context, n *Notifier) error {
	return n.Subscribe(ctx, h.Deliver)
}

// Shutdown closes every connection.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	clients := make([]*Client, 0, h.total)
	for _, m := range h.conns {
		for c := range m {
			clients = append(clients, c)
		}
	}
	h.mu.Unlock()

	for _, c := range clients {
		if c.Conn != nil {
			_ = c.Conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
		}
		h.Unregister(c)
	}
}

// ReadPump discards inbound frames and keeps the read deadline fresh. It
// returns when the peer goes away and unregisters the client.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				observability.GlobalLogger.Warn("notification stream closed",
					slog.Uint64("profile_id", uint64(c.ProfileID)),
					slog.String("error", err.Error()))
			}
			return
		}
	}
}

// WritePump sends queued events and pings until Send is closed.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
