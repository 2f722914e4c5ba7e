// Package draft reconstructs weekly draft state from persisted picks and
// enforces turn order on submissions.
package draft

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pickemgo/pickem-backend/internal/draftorder"
	"github.com/pickemgo/pickem-backend/internal/models"
	"github.com/pickemgo/pickem-backend/internal/pubsub"
	"github.com/pickemgo/pickem-backend/internal/scoring"
	"github.com/pickemgo/pickem-backend/internal/store"
)

var (
	ErrNotYourTurn   = errors.New("not your turn")
	ErrWrongPhase    = errors.New("wrong phase for pick kind")
	ErrDraftComplete = errors.New("draft already complete")
	ErrWrongWeek     = errors.New("game is not in this week's slate")
	ErrInvalidSide   = errors.New("invalid side for pick kind")
	ErrTurnConflict  = errors.New("turn already taken")
	ErrDuplicateOU   = errors.New("player already has an o/u pick this week")
	ErrEmptyRoster   = errors.New("no active players on the roster")
)

// PlayerStore is what the service needs from the roster repository.
type PlayerStore interface {
	Roster(ctx context.Context) ([]models.Player, error)
}

// GameStore is what the service needs from the slate repository.
type GameStore interface {
	Get(ctx context.Context, id int64) (*models.Game, error)
	ByWeek(ctx context.Context, season, week int) ([]models.Game, error)
}

// PickStore is what the service needs from the pick repository.
type PickStore interface {
	Insert(ctx context.Context, pick *models.Pick) error
	CountByKind(ctx context.Context, season, week int) (ats int64, ou int64, err error)
	ByWeek(ctx context.Context, season, week int) ([]models.Pick, error)
	BySeason(ctx context.Context, season int) ([]models.Pick, error)
	UpdateResult(ctx context.Context, id int64, result models.PickResult) error
	HasOUPick(ctx context.Context, season, week int, playerID int64) (bool, error)
}

// Service is the draft application layer.
type Service struct {
	players PlayerStore
	games   GameStore
	picks   PickStore
	events  pubsub.Publisher
	log     *zap.Logger
	season  int
}

func NewService(players PlayerStore, games GameStore, picks PickStore, events pubsub.Publisher, log *zap.Logger, season int) *Service {
	return &Service{
		players: players,
		games:   games,
		picks:   picks,
		events:  events,
		log:     log,
		season:  season,
	}
}

// Snapshot is the derived view of one week's draft. Turn order is
// recomputed from pick counts on every call, never stored.
type Snapshot struct {
	Season     int                 `json:"season"`
	Week       int                 `json:"week"`
	Order      []draftorder.Player `json:"order"`
	PickNumber int                 `json:"pick_number"`
	TotalPicks int                 `json:"total_picks"`
	Phase      draftorder.Phase    `json:"phase,omitempty"`
	OnClock    *draftorder.Player  `json:"on_clock,omitempty"`
	Complete   bool                `json:"complete"`
}

// Snapshot rebuilds the week's draft state: the rotated round-1 order, how
// many picks have been made, and who is on the clock. Once every pick is
// in, no on-clock player is reported.
func (s *Service) Snapshot(ctx context.Context, week int) (*Snapshot, error) {
	roster, err := s.players.Roster(ctx)
	if err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return nil, ErrEmptyRoster
	}

	base := make([]draftorder.Player, len(roster))
	for i, p := range roster {
		base[i] = draftorder.Player{ID: p.ID, Name: p.Name}
	}
	order := draftorder.RoundOneOrderForWeek(base, week)

	ats, ou, err := s.picks.CountByKind(ctx, s.season, week)
	if err != nil {
		return nil, err
	}

	state := draftorder.State{PickNumber: int(ats + ou), Players: order}
	snap := &Snapshot{
		Season:     s.season,
		Week:       week,
		Order:      order,
		PickNumber: state.PickNumber,
		TotalPicks: draftorder.TotalPicks(len(order)),
	}

	if draftorder.Complete(state) {
		snap.Complete = true
		return snap, nil
	}

	phase, player := draftorder.WhoIsOnClock(state)
	snap.Phase = phase
	snap.OnClock = &player
	return snap, nil
}

// SubmitPickRequest is one player's attempt to use their turn.
type SubmitPickRequest struct {
	Week     int             `json:"week"`
	PlayerID int64           `json:"player_id"`
	GameID   int64           `json:"game_id"`
	Kind     models.PickKind `json:"kind"`
	Side     models.PickSide `json:"side"`
}

// SubmitPick validates that the submitting player is on the clock for the
// active phase, then records the pick under the current overall number.
// The unique turn index arbitrates races; the loser gets ErrTurnConflict
// and the client refetches the snapshot.
func (s *Service) SubmitPick(ctx context.Context, req SubmitPickRequest) (*models.Pick, error) {
	if !models.ValidSide(req.Kind, req.Side) {
		return nil, ErrInvalidSide
	}

	snap, err := s.Snapshot(ctx, req.Week)
	if err != nil {
		return nil, err
	}
	if snap.Complete {
		return nil, ErrDraftComplete
	}
	if string(snap.Phase) != string(req.Kind) {
		return nil, ErrWrongPhase
	}
	if snap.OnClock.ID != req.PlayerID {
		return nil, ErrNotYourTurn
	}

	game, err := s.games.Get(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if game.Season != s.season || game.Week != req.Week {
		return nil, ErrWrongWeek
	}

	if req.Kind == models.PickKindOU {
		has, err := s.picks.HasOUPick(ctx, s.season, req.Week, req.PlayerID)
		if err != nil {
			return nil, err
		}
		if has {
			return nil, ErrDuplicateOU
		}
	}

	pick := &models.Pick{
		Season:        s.season,
		Week:          req.Week,
		OverallNumber: snap.PickNumber,
		PlayerID:      req.PlayerID,
		GameID:        req.GameID,
		Kind:          req.Kind,
		Side:          req.Side,
		Result:        models.ResultPending,
	}
	if err := s.picks.Insert(ctx, pick); err != nil {
		if errors.Is(err, store.ErrDuplicatePick) {
			return nil, ErrTurnConflict
		}
		return nil, err
	}

	s.log.Info("pick recorded",
		zap.Int("week", req.Week),
		zap.Int("overall", pick.OverallNumber),
		zap.Int64("player_id", req.PlayerID),
		zap.String("kind", string(req.Kind)),
		zap.String("side", string(req.Side)))

	s.events.Publish(pubsub.Event{Type: pubsub.EventPickMade, Season: s.season, Week: req.Week})
	return pick, nil
}

// GradeWeek grades every pending pick for a week against final scores and
// returns how many picks were settled.
func (s *Service) GradeWeek(ctx context.Context, week int) (int, error) {
	games, err := s.games.ByWeek(ctx, s.season, week)
	if err != nil {
		return 0, err
	}
	byID := make(map[int64]models.Game, len(games))
	for _, g := range games {
		byID[g.ID] = g
	}

	picks, err := s.picks.ByWeek(ctx, s.season, week)
	if err != nil {
		return 0, err
	}

	graded := 0
	for _, pick := range picks {
		if pick.Result != models.ResultPending {
			continue
		}
		game, ok := byID[pick.GameID]
		if !ok {
			return graded, fmt.Errorf("pick %d references unknown game %d", pick.ID, pick.GameID)
		}
		result := scoring.Grade(game, pick)
		if result == models.ResultPending {
			continue
		}
		if err := s.picks.UpdateResult(ctx, pick.ID, result); err != nil {
			return graded, err
		}
		graded++
	}

	if graded > 0 {
		s.log.Info("week graded", zap.Int("week", week), zap.Int("picks", graded))
		s.events.Publish(pubsub.Event{Type: pubsub.EventWeekGraded, Season: s.season, Week: week})
	}
	return graded, nil
}

// Standings builds the season table from every graded pick.
func (s *Service) Standings(ctx context.Context) ([]scoring.Standing, error) {
	roster, err := s.players.Roster(ctx)
	if err != nil {
		return nil, err
	}
	picks, err := s.picks.BySeason(ctx, s.season)
	if err != nil {
		return nil, err
	}
	return scoring.BuildStandings(roster, picks), nil
}

// WeekScores tallies one week per player.
func (s *Service) WeekScores(ctx context.Context, week int) ([]scoring.WeekScore, error) {
	roster, err := s.players.Roster(ctx)
	if err != nil {
		return nil, err
	}
	picks, err := s.picks.ByWeek(ctx, s.season, week)
	if err != nil {
		return nil, err
	}
	return scoring.WeekScores(roster, week, picks), nil
}

// PicksForWeek lists the week's picks in draft order.
func (s *Service) PicksForWeek(ctx context.Context, week int) ([]models.Pick, error) {
	return s.picks.ByWeek(ctx, s.season, week)
}

// GamesForWeek lists the week's slate.
func (s *Service) GamesForWeek(ctx context.Context, week int) ([]models.Game, error) {
	return s.games.ByWeek(ctx, s.season, week)
}
