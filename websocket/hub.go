package websocket

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event types pushed to connected admin dashboards
const (
	EventAccountPending = "account_pending"
	EventPhotoPending   = "photo_pending"
	EventConnected      = "connected"
)

// Event is a message sent over the moderation feed
type Event struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Client represents a connected admin dashboard
type Client struct {
	UserID primitive.ObjectID
	Conn   *websocket.Conn

	// Guards Conn writes: gorilla/websocket allows at most one concurrent
	// writer per connection.
	writeMu sync.Mutex
}

func (c *Client) send(event Event) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteJSON(event)
}

// Hub maintains the set of connected admin clients and broadcasts moderation
// events to them. Only admins reach the WebSocket endpoint (the session gate
// runs in front of it), so every registered client receives every event.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Conn.Close()
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends an event to every connected admin client.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		client.send(event)
	}
}

// NotifyAccountPending announces a newly verified account awaiting approval.
func (h *Hub) NotifyAccountPending(data interface{}) {
	h.Broadcast(Event{
		Type:    EventAccountPending,
		Message: "New account awaiting approval",
		Data:    data,
	})
}

// NotifyPhotoPending announces a newly uploaded photo awaiting moderation.
func (h *Hub) NotifyPhotoPending(data interface{}) {
	h.Broadcast(Event{
		Type:    EventPhotoPending,
		Message: "New photo awaiting moderation",
		Data:    data,
	})
}
