package server

import (
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/rainhsu/pokertrainer/internal/game"
)

// StateMessage is the frame pushed to websocket viewers after every state
// change.
type StateMessage struct {
	Type  string        `json:"type"`
	State game.Snapshot `json:"state"`
}

// Hub fans table snapshots out to connected websocket viewers. Slow viewers
// are dropped rather than allowed to stall the table.
type Hub struct {
	mu       sync.Mutex
	clients  map[*hubClient]struct{}
	upgrader websocket.Upgrader
	logger   *log.Logger
}

type hubClient struct {
	conn *websocket.Conn
	send chan StateMessage
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients: make(map[*hubClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger.WithPrefix("hub"),
	}
}

// ServeWS upgrades the request and registers the viewer until it disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	client := &hubClient{conn: conn, send: make(chan StateMessage, 16)}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("viewer connected", "viewers", count)

	go h.writePump(client)
	h.readPump(client)
}

// Broadcast queues a snapshot for every connected viewer.
func (h *Hub) Broadcast(state game.Snapshot) {
	msg := StateMessage{Type: "state", State: state}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			// Buffer full; drop the viewer.
			delete(h.clients, client)
			close(client.send)
			_ = client.conn.Close()
			h.logger.Warn("viewer dropped, send buffer full")
		}
	}
}

// Viewers reports the number of connected clients.
func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) writePump(client *hubClient) {
	for msg := range client.send {
		if err := client.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// readPump drains inbound frames so pings are answered; any read error
// unregisters the viewer.
func (h *Hub) readPump(client *hubClient) {
	defer h.remove(client)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) remove(client *hubClient) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
	_ = client.conn.Close()
}
