// Package events distributes conversion events to the server's real-time
// transports.
//
// Converter hooks publish into a Broker, which fans every event out to its
// subscribers (WebSocket, SSE).
package events

import "time"

// EventType names an event.
type EventType string

// Event types.
const (
	// SegmentConverted is published after a segment received candidates.
	SegmentConverted EventType = "segment.converted"
	// SegmentFallback is published when a reading fell back to itself.
	SegmentFallback EventType = "segment.fallback"

	// ClientConnected is published by transports when a client connects.
	ClientConnected EventType = "client.connected"
)

// Event is a timestamped event with a payload.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}
