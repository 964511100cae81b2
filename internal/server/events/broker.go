package events

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const (
	eventQueueSize        = 256
	subscriptionQueueSize = 16
)

// Broker fans published events out to its subscribers from a single
// goroutine, so subscribers see events in publish order.
type Broker struct {
	logger *zerolog.Logger

	queue chan Event
	join  chan Subscriber
	leave chan Subscriber

	mu   sync.RWMutex
	subs []Subscriber

	published atomic.Int64
	dropped   atomic.Int64
}

// NewBroker returns a broker that is idle until Run. Subscribe and Publish
// may be called before Run starts.
func NewBroker(logger *zerolog.Logger) *Broker {
	return &Broker{
		logger: logger,
		queue:  make(chan Event, eventQueueSize),
		join:   make(chan Subscriber, subscriptionQueueSize),
		leave:  make(chan Subscriber, subscriptionQueueSize),
	}
}

// Run delivers events until ctx is done and then closes every subscriber.
func (b *Broker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			b.closeAll()
			b.logger.Info().Msg("Event broker shut down")
			return
		case sub := <-b.join:
			b.add(sub)
		case sub := <-b.leave:
			b.remove(sub)
		case event := <-b.queue:
			b.deliver(event)
		}
	}
}

// Publish stamps and queues an event without blocking. When the queue is
// full the event is counted as dropped.
func (b *Broker) Publish(eventType EventType, data any) {
	select {
	case b.queue <- Event{Type: eventType, Timestamp: time.Now(), Data: data}:
		b.published.Add(1)
	default:
		b.dropped.Add(1)
		b.logger.Warn().Str("event_type", string(eventType)).Msg("Event queue full, dropping event")
	}
}

// Subscribe adds sub on the broker goroutine.
func (b *Broker) Subscribe(sub Subscriber) { b.join <- sub }

// Unsubscribe removes and closes sub on the broker goroutine.
func (b *Broker) Unsubscribe(sub Subscriber) { b.leave <- sub }

func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Broker) EventsPublished() int64 { return b.published.Load() }

func (b *Broker) EventsDropped() int64 { return b.dropped.Load() }

// QueueDepth is the number of events waiting for delivery.
func (b *Broker) QueueDepth() int { return len(b.queue) }

func (b *Broker) add(sub Subscriber) {
	b.mu.Lock()
	b.subs = append(b.subs, sub)
	n := len(b.subs)
	b.mu.Unlock()
	b.logger.Debug().Int("subscribers", n).Msg("Subscriber joined")
}

func (b *Broker) remove(sub Subscriber) {
	b.mu.Lock()
	i := slices.Index(b.subs, sub)
	if i >= 0 {
		b.subs = slices.Delete(b.subs, i, i+1)
	}
	n := len(b.subs)
	b.mu.Unlock()

	if i >= 0 {
		_ = sub.Close()
	}
	b.logger.Debug().Int("subscribers", n).Msg("Subscriber left")
}

func (b *Broker) closeAll() {
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, sub := range subs {
		_ = sub.Close()
	}
}

func (b *Broker) deliver(event Event) {
	b.mu.RLock()
	subs := slices.Clone(b.subs)
	b.mu.RUnlock()

	log := b.logger.With().Str("event_type", string(event.Type)).Logger()
	for _, sub := range subs {
		if err := sub.Send(event); err != nil {
			log.Warn().Err(err).Msg("Subscriber rejected event")
		}
	}
	log.Debug().Int("subscribers", len(subs)).Msg("Event delivered")
}
