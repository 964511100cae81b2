// Package sse streams conversion events to Server-Sent Events clients.
package sse

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	clientBuffer    = 256
	broadcastBuffer = 256
)

// Event is one Server-Sent Event. Event and ID are omitted from the frame
// when empty.
type Event struct {
	Event string `json:"event,omitempty"`
	ID    string `json:"id,omitempty"`
	Data  any    `json:"data"`
}

// frame encodes e in text/event-stream framing.
func (e Event) frame() ([]byte, error) {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if e.Event != "" {
		buf.WriteString("event: " + e.Event + "\n")
	}
	if e.ID != "" {
		buf.WriteString("id: " + e.ID + "\n")
	}
	buf.WriteString("data: ")
	buf.Write(data)
	buf.WriteString("\n\n")
	return buf.Bytes(), nil
}

// Broadcaster is an http.Handler that streams broadcast events to every
// connected client. Slow clients miss events rather than stalling others.
type Broadcaster struct {
	logger *zerolog.Logger

	connect    chan chan Event
	disconnect chan chan Event
	outbox     chan Event

	mu      sync.RWMutex
	clients map[chan Event]struct{}
}

// NewBroadcaster returns a broadcaster. Clients are only served while Run is active.
func NewBroadcaster(logger *zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		logger:     logger,
		connect:    make(chan chan Event, 10),
		disconnect: make(chan chan Event, 10),
		outbox:     make(chan Event, broadcastBuffer),
		clients:    map[chan Event]struct{}{},
	}
}

// Run owns the client set until ctx is done, then ends every stream.
func (b *Broadcaster) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			b.mu.Lock()
			for ch := range b.clients {
				close(ch)
			}
			clear(b.clients)
			b.mu.Unlock()
			b.logger.Info().Msg("SSE broadcaster shut down")
			return

		case ch := <-b.connect:
			b.mu.Lock()
			b.clients[ch] = struct{}{}
			n := len(b.clients)
			b.mu.Unlock()
			b.logger.Info().Int("clients", n).Msg("SSE client connected")

		case ch := <-b.disconnect:
			b.mu.Lock()
			if _, ok := b.clients[ch]; ok {
				delete(b.clients, ch)
				close(ch)
			}
			n := len(b.clients)
			b.mu.Unlock()
			b.logger.Info().Int("clients", n).Msg("SSE client disconnected")

		case event := <-b.outbox:
			b.fanOut(event)
		}
	}
}

func (b *Broadcaster) fanOut(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.clients {
		select {
		case ch <- event:
		default:
			b.logger.Warn().Str("event", event.Event).Msg("SSE client lagging, skipping event")
		}
	}
}

// Broadcast queues event without blocking. A full queue drops it.
func (b *Broadcaster) Broadcast(event Event) {
	select {
	case b.outbox <- event:
	default:
		b.logger.Warn().Str("event", event.Event).Msg("SSE queue full, dropping event")
	}
}

// ClientCount reports the connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// ServeHTTP holds the connection open and writes events until the client
// goes away or the broadcaster stops.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")

	ch := make(chan Event, clientBuffer)
	b.connect <- ch
	defer func() { b.disconnect <- ch }()

	send := func(event Event) {
		frame, err := event.frame()
		if err != nil {
			b.logger.Error().Err(err).Str("event", event.Event).Msg("Cannot encode SSE event")
			return
		}
		_, _ = w.Write(frame)
		flusher.Flush()
	}

	send(Event{Event: "connected", Data: map[string]any{
		"message":   "Connected to henkan conversion events",
		"timestamp": time.Now(),
	}})

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-ch:
			if !open {
				return
			}
			send(event)
		}
	}
}
