// internal/devauth/hub.go
package devauth

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Event is pushed to every connected websocket whenever the auth state of
// any account changes. The storefront uses it to refresh admin dashboards.
type Event struct {
	Type  string `json:"type"` // login, logout, refresh, register
	Email string `json:"email,omitempty"`
	At    int64  `json:"at"`
}

type hubClient struct {
	conn *websocket.Conn
	send chan Event
}

// Hub fans auth events out to connected websocket clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[*hubClient]bool

	register   chan *hubClient
	unregister chan *hubClient
	events     chan Event

	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*hubClient]bool),
		register:   make(chan *hubClient),
		unregister: make(chan *hubClient),
		events:     make(chan Event, 256),
		logger:     logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("websocket client connected", zap.Int("total", total))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("websocket client disconnected", zap.Int("total", total))

		case event := <-h.events:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- event:
				default:
					// Slow consumer, drop the event for this client.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish queues an auth event for broadcast. Never blocks the caller.
func (h *Hub) Publish(eventType, email string) {
	event := Event{Type: eventType, Email: email, At: time.Now().UnixMilli()}
	select {
	case h.events <- event:
	default:
		h.logger.Warn("event buffer full, dropping auth event", zap.String("type", eventType))
	}
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve attaches a websocket connection to the hub and pumps events to it
// until the connection drops.
func (h *Hub) Serve(conn *websocket.Conn) {
	client := &hubClient{conn: conn, send: make(chan Event, 32)}
	h.register <- client

	go h.readPump(client)
	h.writePump(client)
}

func (h *Hub) readPump(client *hubClient) {
	defer func() {
		h.unregister <- client
		client.conn.Close()
	}()

	client.conn.SetReadLimit(1024)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// The feed is one-way; inbound messages are drained only to service
	// control frames.
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(client *hubClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case event, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		client.conn.Close()
	}
	h.clients = make(map[*hubClient]bool)
}
