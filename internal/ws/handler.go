package ws

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/pickemgo/pickem-backend/internal/draft"
	"github.com/pickemgo/pickem-backend/internal/hub"
	"github.com/pickemgo/pickem-backend/internal/models"
	"github.com/pickemgo/pickem-backend/internal/types"
)

// Handler upgrades GET /ws?week=N, joins the week's room, streams draft
// snapshots out, and accepts pick submissions in.
func Handler(h *hub.Hub, svc *draft.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		week, err := strconv.Atoi(r.URL.Query().Get("week"))
		if err != nil || week < 1 {
			http.Error(w, "missing or invalid week", http.StatusBadRequest)
			return
		}

		snap, err := svc.Snapshot(r.Context(), week)
		if err != nil {
			log.Error("failed to load snapshot", zap.Int("week", week), zap.Error(err))
			http.Error(w, "failed to load draft state", http.StatusInternalServerError)
			return
		}

		reply := make(chan *hub.Room, 1)
		h.Inbox() <- hub.EnsureRoom{Week: week, Snap: snap, Reply: reply}
		room := <-reply
		if room == nil {
			http.Error(w, "failed to join draft room", http.StatusInternalServerError)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan hub.Update, 8)
		clientID := randID(6)

		room.Inbox() <- hub.Join{ClientID: clientID, Outbox: out}
		defer func() { room.Inbox() <- hub.Leave{ClientID: clientID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for update := range out {
				msg := types.ServerMessage{Type: "DraftSnapshot", Version: update.Version, Snapshot: update.Snap}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(r.Context(), conn, "bad json")
				continue
			}

			req, ok := toSubmitRequest(cm, week)
			if !ok {
				writeError(r.Context(), conn, "unknown type")
				continue
			}

			if _, err := svc.SubmitPick(r.Context(), req); err != nil {
				writeError(r.Context(), conn, submitErrorMessage(err))
			}
			// The pick event comes back through the hub as a snapshot.
		}
	}
}

func toSubmitRequest(m types.ClientMessage, week int) (draft.SubmitPickRequest, bool) {
	if m.Type != "SubmitPick" {
		return draft.SubmitPickRequest{}, false
	}
	return draft.SubmitPickRequest{
		Week:     week,
		PlayerID: m.PlayerID,
		GameID:   m.GameID,
		Kind:     models.PickKind(m.Kind),
		Side:     models.PickSide(m.Side),
	}, true
}

func submitErrorMessage(err error) string {
	switch {
	case errors.Is(err, draft.ErrNotYourTurn),
		errors.Is(err, draft.ErrWrongPhase),
		errors.Is(err, draft.ErrDraftComplete),
		errors.Is(err, draft.ErrWrongWeek),
		errors.Is(err, draft.ErrInvalidSide),
		errors.Is(err, draft.ErrTurnConflict),
		errors.Is(err, draft.ErrDuplicateOU):
		return err.Error()
	default:
		return "pick failed"
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, msg string) {
	payload, _ := json.Marshal(types.ServerMessage{Type: "Error", Error: msg})
	_ = conn.Write(ctx, websocket.MessageText, payload)
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
