package server

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Local dev server only; skip the origin check.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub is the multi-subscriber live-reload channel. Broadcasts are
// fire-and-forget: with no connected clients the signal is dropped.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

func (h *Hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	slog.Debug("live-reload client connected")
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
		slog.Debug("live-reload client disconnected")
	}
}

// Broadcast sends a text message to every connected client, dropping
// clients whose connection has gone away.
func (h *Hub) Broadcast(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if err := client.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
			slog.Debug("dropping live-reload client", "error", err)
			client.Close()
			delete(h.clients, client)
		}
	}
}

// ServeWS upgrades an HTTP request to a live-reload subscription and
// holds it open until the client disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	h.register(conn)
	defer h.unregister(conn)

	// Clients never send messages; reading just detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
