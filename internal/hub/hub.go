// Package hub fans draft snapshots out to websocket clients, one broadcast
// room per week. Pick events from the bus trigger a snapshot refetch and a
// broadcast; the hub never derives draft state itself.
package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/pickemgo/pickem-backend/internal/draft"
	"github.com/pickemgo/pickem-backend/internal/pubsub"
)

type HubMsg interface{ isHubMsg() }

type GetRoom struct {
	Week  int
	Reply chan *Room
}

// EnsureRoom returns the week's room, creating it with the given snapshot
// if it does not exist yet.
type EnsureRoom struct {
	Week  int
	Snap  *draft.Snapshot
	Reply chan *Room
}

type RemoveRoom struct {
	Week int
}

type ShutdownHub struct{}

func (GetRoom) isHubMsg()     {}
func (EnsureRoom) isHubMsg()  {}
func (RemoveRoom) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

// SnapshotFunc refetches the current draft snapshot for a week.
type SnapshotFunc func(ctx context.Context, week int) (*draft.Snapshot, error)

type Hub struct {
	inbox     chan HubMsg
	rooms     map[int]*Room
	events    chan pubsub.Event
	snapshots SnapshotFunc
	log       *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewHub(parent context.Context, bus *pubsub.PubSub, snapshots SnapshotFunc, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:     make(chan HubMsg, 64),
		rooms:     make(map[int]*Room),
		events:    bus.Subscribe(),
		snapshots: snapshots,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case event := <-h.events:
			h.refresh(event.Week)

		case m := <-h.inbox:
			switch msg := m.(type) {
			case GetRoom:
				msg.Reply <- h.rooms[msg.Week] // May be nil

			case EnsureRoom:
				if room := h.rooms[msg.Week]; room != nil {
					msg.Reply <- room
					break
				}
				room := NewRoom(h.ctx, msg.Snap)
				h.rooms[msg.Week] = room
				msg.Reply <- room

			case RemoveRoom:
				delete(h.rooms, msg.Week)

			case ShutdownHub:
				for _, room := range h.rooms {
					room.Inbox() <- Shutdown{}
				}
				clear(h.rooms)
				h.cancel()
			}
		}
	}
}

// refresh refetches the week's snapshot and broadcasts it, if anyone is
// watching that week.
func (h *Hub) refresh(week int) {
	room := h.rooms[week]
	if room == nil {
		return
	}
	snap, err := h.snapshots(h.ctx, week)
	if err != nil {
		h.log.Error("failed to refresh snapshot", zap.Int("week", week), zap.Error(err))
		return
	}
	room.Inbox() <- Refresh{Snap: snap}
}
