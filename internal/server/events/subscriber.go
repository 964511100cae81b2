package events

// Subscriber adapts the event stream to a transport.
type Subscriber interface {
	// Send delivers an event. It must not block.
	Send(Event) error

	// Close shuts the subscriber down.
	Close() error
}
