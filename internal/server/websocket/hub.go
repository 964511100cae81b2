// Package websocket pushes conversion events to WebSocket clients.
package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Message is the JSON document written to clients.
type Message struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Hub tracks connected clients and fans messages out to them. A client
// whose buffer is full is disconnected.
type Hub struct {
	logger *zerolog.Logger

	joins    chan *Client
	leaves   chan *Client
	messages chan Message
	stopped  chan struct{}

	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// NewHub returns a hub. Clients are only served while Run is active.
func NewHub(logger *zerolog.Logger) *Hub {
	return &Hub{
		logger:   logger,
		joins:    make(chan *Client, 16),
		leaves:   make(chan *Client, 16),
		messages: make(chan Message, 256),
		stopped:  make(chan struct{}),
		clients:  map[*Client]struct{}{},
	}
}

// Run owns the client set until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				h.drop(c)
			}
			h.mu.Unlock()
			h.logger.Info().Msg("WebSocket hub shut down")
			return
		case c := <-h.joins:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			h.logger.Info().Str("client_id", c.id).Int("clients", h.ClientCount()).Msg("WebSocket client connected")
		case c := <-h.leaves:
			h.mu.Lock()
			h.drop(c)
			h.mu.Unlock()
			h.logger.Info().Str("client_id", c.id).Int("clients", h.ClientCount()).Msg("WebSocket client disconnected")
		case msg := <-h.messages:
			h.fanOut(msg)
		}
	}
}

// drop removes c and ends its write pump. The caller holds h.mu.
func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) fanOut(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn().Str("client_id", c.id).Msg("WebSocket client lagging, disconnecting")
			h.drop(c)
		}
	}
}

// Register adds c once Run picks it up.
func (h *Hub) Register(c *Client) { h.joins <- c }

// unregister is a no-op after the hub stopped.
func (h *Hub) unregister(c *Client) {
	select {
	case h.leaves <- c:
	case <-h.stopped:
	}
}

// Broadcast queues msg without blocking. A full queue drops it.
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.messages <- msg:
	default:
		h.logger.Warn().Str("type", msg.Type).Msg("WebSocket queue full, dropping message")
	}
}

// ClientCount reports the connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
