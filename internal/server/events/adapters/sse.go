package adapters

import (
	"strconv"
	"sync/atomic"

	"github.com/agentstation/henkan/internal/server/events"
	"github.com/agentstation/henkan/internal/server/sse"
)

// SSESubscriber forwards broker events to an SSE broadcaster. Each event
// gets a sequential id so clients can tell events in the same second apart.
type SSESubscriber struct {
	broadcaster *sse.Broadcaster
	seq         atomic.Uint64
}

// NewSSESubscriber creates a subscriber for broadcaster.
func NewSSESubscriber(broadcaster *sse.Broadcaster) *SSESubscriber {
	return &SSESubscriber{broadcaster: broadcaster}
}

// Send broadcasts event to every connected client.
func (s *SSESubscriber) Send(event events.Event) error {
	s.broadcaster.Broadcast(sse.Event{
		Event: string(event.Type),
		ID:    strconv.FormatUint(s.seq.Add(1), 10),
		Data:  event.Data,
	})
	return nil
}

// Close is a no-op; the broadcaster owns its clients.
func (s *SSESubscriber) Close() error {
	return nil
}
