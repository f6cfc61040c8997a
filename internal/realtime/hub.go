// Package realtime fans board changes out to subscribers and websocket clients.
package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
)

// Event types published after a successful write
const (
	EventTasksChanged      = "tasks.changed"
	EventColumnsChanged    = "columns.changed"
	EventBoardsChanged     = "boards.changed"
	EventWorkspacesChanged = "workspaces.changed"
)

const broadcastBuffer = 256

// Event is a single change notification. Origin is the tab that caused it and
// is never sent over the wire.
type Event struct {
	Type    string `json:"type"`
	BoardID string `json:"boardId,omitempty"`
	Data    any    `json:"data,omitempty"`
	Origin  string `json:"-"`
}

// Publisher is implemented by anything that accepts change events
type Publisher interface {
	Publish(ev Event)
}

// Subscriber receives every event on the hub goroutine
type Subscriber func(ev Event)

// Hub maintains the set of active clients and subscribers and broadcasts events to them
type Hub struct {
	clients     map[*Client]bool
	subscribers []Subscriber
	mu          sync.RWMutex
	count       atomic.Int64

	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

// NewHub creates a new hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Event, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Subscribe adds an in-process listener
func (h *Hub) Subscribe(fn Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers = append(h.subscribers, fn)
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount reports the number of connected clients
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Publish queues ev for delivery. It never blocks; when the queue is full the
// event is dropped.
func (h *Hub) Publish(ev Event) {
	select {
	case h.broadcast <- ev:
	default:
		log.Printf("Realtime queue full, dropping %s event for board %q", ev.Type, ev.BoardID)
	}
}

// Run starts the hub's main loop and returns when ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			h.count.Add(1)
			log.Printf("Realtime client connected (tab %q, board %q)", client.TabID, client.BoardID)
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Printf("Realtime client disconnected (tab %q)", client.TabID)
			}
		case ev := <-h.broadcast:
			h.notify(ev)
			h.fanOut(ev)
		}
	}
}

func (h *Hub) notify(ev Event) {
	h.mu.RLock()
	subs := make([]Subscriber, len(h.subscribers))
	copy(subs, h.subscribers)
	h.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}

func (h *Hub) fanOut(ev Event) {
	if len(h.clients) == 0 {
		return
	}
	message, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Error marshalling realtime event: %v", err)
		return
	}

	for client := range h.clients {
		if !client.wants(ev) {
			continue
		}
		select {
		case client.Send <- message:
		default:
			// Client's send buffer is full, assume disconnected
			log.Printf("Client send buffer full, removing client (tab %q)", client.TabID)
			h.drop(client)
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.Send)
	h.count.Add(-1)
}
