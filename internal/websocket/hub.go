package websocket

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/parshjain/stockdesk/internal/models"
)

// Hub maintains the set of connected clients and broadcasts order events
// to all of them.
type Hub struct {
	mu          sync.Mutex
	connections map[*websocket.Conn]bool

	broadcast chan models.Message
	upgrader  websocket.Upgrader
}

// NewHub creates a hub for managing WebSocket connections
func NewHub() *Hub {
	return &Hub{
		connections: make(map[*websocket.Conn]bool),
		broadcast:   make(chan models.Message, 16),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run starts listening for messages to broadcast
func (h *Hub) Run() {
	for msg := range h.broadcast {
		h.mu.Lock()
		for client := range h.connections {
			if err := client.WriteJSON(msg); err != nil {
				zap.S().Warnw("dropping websocket client", "error", err)
				client.Close()
				delete(h.connections, client)
			}
		}
		h.mu.Unlock()
	}
}

// HandleWebSocket upgrades an HTTP connection to WebSocket
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Warnw("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.connections[ws] = true
	h.mu.Unlock()

	// Drain client reads to detect disconnects.
	go func() {
		defer ws.Close()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				h.mu.Lock()
				delete(h.connections, ws)
				h.mu.Unlock()
				break
			}
		}
	}()
}

// Broadcast sends a message to all connected clients
func (h *Hub) Broadcast(msg models.Message) {
	select {
	case h.broadcast <- msg:
	default:
		zap.S().Warnw("websocket broadcast queue full, dropping message", "type", msg.Type)
	}
}
