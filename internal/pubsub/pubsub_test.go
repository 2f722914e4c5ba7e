package pubsub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	ps := New()
	a := ps.Subscribe()
	b := ps.Subscribe()

	ps.Publish(Event{Type: EventPickMade, Season: 2025, Week: 2})

	for _, ch := range []chan Event{a, b} {
		select {
		case got := <-ch:
			assert.Equal(t, EventPickMade, got.Type)
			assert.Equal(t, 2, got.Week)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	ps := New()
	ch := ps.Subscribe()
	ps.Unsubscribe(ch)

	_, open := <-ch
	require.False(t, open)

	// Publishing after unsubscribe must not panic.
	ps.Publish(Event{Type: EventWeekGraded})
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	ps := New()
	ch := ps.Subscribe()

	// Fill the buffer and keep publishing; extra events are dropped.
	for i := 0; i < cap(ch)+8; i++ {
		ps.Publish(Event{Type: EventPickMade, Week: i})
	}

	assert.Len(t, ch, cap(ch))
}
