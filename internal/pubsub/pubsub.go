// Package pubsub fans events out to in-process subscribers, optionally
// bridged over NATS so multiple server instances see each other's picks.
package pubsub

import (
	"sync"
)

// Event types published on the bus.
const (
	EventPickMade   = "pick.made"
	EventWeekGraded = "week.graded"
)

// Event is one notification: something changed for a season/week.
type Event struct {
	Type   string `json:"type"`
	Season int    `json:"season"`
	Week   int    `json:"week"`
}

// Publisher is the write side of the bus.
type Publisher interface {
	Publish(Event)
}

// Upstream is an external broker (NATS) the local bus can bridge through.
// Events published locally go up; events arriving from upstream are
// delivered to local subscribers.
type Upstream interface {
	Publish(Event) error
	Subscribe() (<-chan Event, error)
}

// PubSub is the in-process bus.
type PubSub struct {
	mu          sync.RWMutex
	subscribers []chan Event
	upstream    Upstream
}

// New creates a local-only bus.
func New() *PubSub {
	return &PubSub{}
}

// NewWithUpstream creates a bus bridged through an upstream broker. Events
// arriving from the upstream are forwarded to local subscribers; Publish
// sends upstream only, and delivery loops back via the subscription so
// every instance (including this one) sees the same stream.
func NewWithUpstream(upstream Upstream) (*PubSub, error) {
	ps := &PubSub{upstream: upstream}

	ch, err := upstream.Subscribe()
	if err != nil {
		return nil, err
	}
	go func() {
		for event := range ch {
			ps.publishLocal(event)
		}
	}()

	return ps, nil
}

// Subscribe returns a channel of future events. Slow subscribers have
// events dropped rather than blocking the publisher.
func (ps *PubSub) Subscribe() chan Event {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ch := make(chan Event, 16)
	ps.subscribers = append(ps.subscribers, ch)
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (ps *PubSub) Unsubscribe(ch chan Event) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for i, sub := range ps.subscribers {
		if sub == ch {
			close(ch)
			ps.subscribers = append(ps.subscribers[:i], ps.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to every subscriber, through the upstream when
// one is configured.
func (ps *PubSub) Publish(event Event) {
	if ps.upstream != nil {
		// Delivery comes back through the upstream subscription.
		_ = ps.upstream.Publish(event)
		return
	}
	ps.publishLocal(event)
}

func (ps *PubSub) publishLocal(event Event) {
	ps.mu.RLock()
	subs := make([]chan Event, len(ps.subscribers))
	copy(subs, ps.subscribers)
	ps.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}
