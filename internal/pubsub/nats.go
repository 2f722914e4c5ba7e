package pubsub

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const subject = "pickem.events"

// NATSUpstream bridges the local bus over a NATS subject.
type NATSUpstream struct {
	nc  *nats.Conn
	log *zap.Logger
}

// NewNATSUpstream connects to NATS.
func NewNATSUpstream(url string, log *zap.Logger) (*NATSUpstream, error) {
	nc, err := nats.Connect(url, nats.Name("pickem-backend"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSUpstream{nc: nc, log: log}, nil
}

// Publish sends an event on the shared subject.
func (u *NATSUpstream) Publish(event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := u.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to NATS: %w", err)
	}
	return nil
}

// Subscribe delivers every event published on the shared subject,
// including this instance's own.
func (u *NATSUpstream) Subscribe() (<-chan Event, error) {
	ch := make(chan Event, 16)
	_, err := u.nc.Subscribe(subject, func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			u.log.Warn("dropping malformed event", zap.Error(err))
			return
		}
		select {
		case ch <- event:
		default:
			u.log.Warn("dropping event, subscriber backlog full", zap.String("type", event.Type))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to NATS: %w", err)
	}
	return ch, nil
}

// Close drains and closes the connection.
func (u *NATSUpstream) Close() {
	_ = u.nc.Drain()
}
