package hub

import (
	"context"

	"github.com/pickemgo/pickem-backend/internal/draft"
)

type RoomMsg interface{ isRoomMsg() }

// Join registers a client and immediately sends the current snapshot.
type Join struct {
	ClientID string
	Outbox   chan Update
}

func (Join) isRoomMsg() {}

type Leave struct{ ClientID string }

func (Leave) isRoomMsg() {}

// Refresh replaces the room's snapshot and broadcasts it.
type Refresh struct {
	Snap *draft.Snapshot
}

func (Refresh) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

// GetView reflects internal state for tests without data races.
type GetView struct {
	Reply chan View
}

func (GetView) isRoomMsg() {}

// Update is what clients receive on every snapshot change.
type Update struct {
	Version int
	Snap    *draft.Snapshot
}

type View struct {
	Version    int
	NumClients int
	Snap       *draft.Snapshot
}

// Room is the broadcast actor for one week's draft. A single goroutine
// owns the snapshot and the client set; everything comes in through the
// inbox.
type Room struct {
	inbox   chan RoomMsg
	snap    *draft.Snapshot
	version int
	clients map[string]chan Update
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewRoom(parent context.Context, initial *draft.Snapshot) *Room {
	ctx, cancel := context.WithCancel(parent)

	r := &Room{
		inbox:   make(chan RoomMsg, 64),
		snap:    initial,
		clients: make(map[string]chan Update),
		ctx:     ctx,
		cancel:  cancel,
	}

	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- RoomMsg { return r.inbox }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- Update{Version: r.version, Snap: r.snap}

			case Leave:
				delete(r.clients, msg.ClientID)

			case Refresh:
				r.snap = msg.Snap
				r.version++
				r.broadcast(Update{Version: r.version, Snap: r.snap})

			case GetView:
				msg.Reply <- View{
					Version:    r.version,
					NumClients: len(r.clients),
					Snap:       r.snap,
				}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) shutdown() {
	for id, ch := range r.clients {
		close(ch)
		delete(r.clients, id)
	}
	r.cancel()
}

func (r *Room) broadcast(update Update) {
	for id, ch := range r.clients {
		select {
		case ch <- update:
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(r.clients, id)
		}
	}
}
