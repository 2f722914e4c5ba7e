package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pickemgo/pickem-backend/internal/draft"
	"github.com/pickemgo/pickem-backend/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{Error: msg})
}

func weekParam(r *http.Request) (int, bool) {
	week, err := strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil || week < 1 {
		return 0, false
	}
	return week, true
}

// statusForSubmitError maps draft service sentinels onto HTTP codes.
func statusForSubmitError(err error) (int, string) {
	switch {
	case errors.Is(err, draft.ErrInvalidSide), errors.Is(err, draft.ErrWrongWeek):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, draft.ErrNotYourTurn),
		errors.Is(err, draft.ErrWrongPhase),
		errors.Is(err, draft.ErrDraftComplete),
		errors.Is(err, draft.ErrTurnConflict),
		errors.Is(err, draft.ErrDuplicateOU):
		return http.StatusConflict, err.Error()
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "game not found"
	default:
		return http.StatusInternalServerError, "pick failed"
	}
}

// GetDraft returns the derived draft snapshot for a week: the rotated
// order, the pick counter, and who is on the clock (absent once the draft
// is complete).
func GetDraft(svc *draft.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		week, ok := weekParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid week")
			return
		}

		snap, err := svc.Snapshot(r.Context(), week)
		if err != nil {
			log.Error("snapshot failed", zap.Int("week", week), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load draft state")
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

// SubmitPick records a pick for the player on the clock.
func SubmitPick(svc *draft.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		week, ok := weekParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid week")
			return
		}

		var req draft.SubmitPickRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		req.Week = week

		pick, err := svc.SubmitPick(r.Context(), req)
		if err != nil {
			status, msg := statusForSubmitError(err)
			if status == http.StatusInternalServerError {
				log.Error("submit pick failed", zap.Int("week", week), zap.Error(err))
			}
			writeError(w, status, msg)
			return
		}
		writeJSON(w, http.StatusCreated, pick)
	}
}

// ListPicks returns the week's picks in draft order.
func ListPicks(svc *draft.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		week, ok := weekParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid week")
			return
		}

		picks, err := svc.PicksForWeek(r.Context(), week)
		if err != nil {
			log.Error("list picks failed", zap.Int("week", week), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load picks")
			return
		}
		writeJSON(w, http.StatusOK, picks)
	}
}

// ListGames returns the week's slate.
func ListGames(svc *draft.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		week, ok := weekParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid week")
			return
		}

		games, err := svc.GamesForWeek(r.Context(), week)
		if err != nil {
			log.Error("list games failed", zap.Int("week", week), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load games")
			return
		}
		writeJSON(w, http.StatusOK, games)
	}
}

// GradeWeek settles pending picks against final scores.
func GradeWeek(svc *draft.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		week, ok := weekParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid week")
			return
		}

		graded, err := svc.GradeWeek(r.Context(), week)
		if err != nil {
			log.Error("grade week failed", zap.Int("week", week), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to grade week")
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Graded int `json:"graded"`
		}{Graded: graded})
	}
}

// WeekScores returns per-player tallies for the week.
func WeekScores(svc *draft.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		week, ok := weekParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid week")
			return
		}

		scores, err := svc.WeekScores(r.Context(), week)
		if err != nil {
			log.Error("week scores failed", zap.Int("week", week), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load scores")
			return
		}
		writeJSON(w, http.StatusOK, scores)
	}
}

// Standings returns the season table.
func Standings(svc *draft.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		standings, err := svc.Standings(r.Context())
		if err != nil {
			log.Error("standings failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load standings")
			return
		}
		writeJSON(w, http.StatusOK, standings)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
