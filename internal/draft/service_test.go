package draft

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pickemgo/pickem-backend/internal/draftorder"
	"github.com/pickemgo/pickem-backend/internal/models"
	"github.com/pickemgo/pickem-backend/internal/pubsub"
	"github.com/pickemgo/pickem-backend/internal/store"
)

const testSeason = 2025

// fakeStore backs all three store interfaces with slices so service tests
// run without a database.
type fakeStore struct {
	roster    []models.Player
	games     map[int64]models.Game
	picks     []models.Pick
	nextID    int64
	failNext  error
	published []pubsub.Event
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		roster: []models.Player{
			{ID: 1, Name: "Big Dawg", DraftSlot: 0, Active: true},
			{ID: 2, Name: "Pud", DraftSlot: 1, Active: true},
			{ID: 3, Name: "Kinish", DraftSlot: 2, Active: true},
		},
		games: map[int64]models.Game{
			10: {ID: 10, Season: testSeason, Week: 2, Away: "DET", Home: "GB", Spread: -3, OUTotal: 44.5},
			11: {ID: 11, Season: testSeason, Week: 2, Away: "KC", Home: "LAC", Spread: 1.5, OUTotal: 41},
			99: {ID: 99, Season: testSeason, Week: 3, Away: "BUF", Home: "MIA", Spread: -2.5, OUTotal: 48},
		},
	}
}

func (f *fakeStore) Roster(ctx context.Context) ([]models.Player, error) {
	return f.roster, nil
}

func (f *fakeStore) Get(ctx context.Context, id int64) (*models.Game, error) {
	g, ok := f.games[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &g, nil
}

func (f *fakeStore) ByWeek(ctx context.Context, season, week int) ([]models.Game, error) {
	var out []models.Game
	for _, g := range f.games {
		if g.Season == season && g.Week == week {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeStore) Insert(ctx context.Context, pick *models.Pick) error {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	for _, existing := range f.picks {
		if existing.Season == pick.Season && existing.Week == pick.Week &&
			existing.OverallNumber == pick.OverallNumber {
			return store.ErrDuplicatePick
		}
	}
	f.nextID++
	pick.ID = f.nextID
	f.picks = append(f.picks, *pick)
	return nil
}

func (f *fakeStore) CountByKind(ctx context.Context, season, week int) (int64, int64, error) {
	var ats, ou int64
	for _, p := range f.picks {
		if p.Season != season || p.Week != week {
			continue
		}
		if p.Kind == models.PickKindATS {
			ats++
		} else {
			ou++
		}
	}
	return ats, ou, nil
}

func (f *fakeStore) pickForWeek(season, week int) []models.Pick {
	var out []models.Pick
	for _, p := range f.picks {
		if p.Season == season && p.Week == week {
			out = append(out, p)
		}
	}
	return out
}

func (f *fakeStore) ByWeekPicks(ctx context.Context, season, week int) ([]models.Pick, error) {
	return f.pickForWeek(season, week), nil
}

func (f *fakeStore) BySeason(ctx context.Context, season int) ([]models.Pick, error) {
	return f.picks, nil
}

func (f *fakeStore) UpdateResult(ctx context.Context, id int64, result models.PickResult) error {
	for i := range f.picks {
		if f.picks[i].ID == id {
			f.picks[i].Result = result
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) HasOUPick(ctx context.Context, season, week int, playerID int64) (bool, error) {
	for _, p := range f.picks {
		if p.Season == season && p.Week == week && p.PlayerID == playerID && p.Kind == models.PickKindOU {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Publish(event pubsub.Event) {
	f.published = append(f.published, event)
}

// pickStoreAdapter renames ByWeekPicks to the PickStore method set.
type pickStoreAdapter struct{ *fakeStore }

func (a pickStoreAdapter) ByWeek(ctx context.Context, season, week int) ([]models.Pick, error) {
	return a.ByWeekPicks(ctx, season, week)
}

func newTestService(f *fakeStore) *Service {
	return NewService(f, f, pickStoreAdapter{f}, f, zap.NewNop(), testSeason)
}

func TestSnapshotFreshWeek(t *testing.T) {
	f := newFakeStore()
	svc := newTestService(f)

	snap, err := svc.Snapshot(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 12, snap.TotalPicks)
	assert.Equal(t, 0, snap.PickNumber)
	assert.Equal(t, draftorder.PhaseATS, snap.Phase)
	assert.False(t, snap.Complete)
	// Week 2 rotates the base order by one.
	require.NotNil(t, snap.OnClock)
	assert.Equal(t, "Pud", snap.OnClock.Name)
}

func TestSubmitPickAdvancesTurn(t *testing.T) {
	f := newFakeStore()
	svc := newTestService(f)
	ctx := context.Background()

	pick, err := svc.SubmitPick(ctx, SubmitPickRequest{
		Week: 2, PlayerID: 2, GameID: 10, Kind: models.PickKindATS, Side: models.SideHome,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, pick.OverallNumber)

	snap, err := svc.Snapshot(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.PickNumber)
	assert.Equal(t, "Kinish", snap.OnClock.Name)

	require.Len(t, f.published, 1)
	assert.Equal(t, pubsub.EventPickMade, f.published[0].Type)
}

func TestSubmitPickRejections(t *testing.T) {
	cases := []struct {
		name    string
		req     SubmitPickRequest
		wantErr error
	}{
		{
			name:    "not your turn",
			req:     SubmitPickRequest{Week: 2, PlayerID: 1, GameID: 10, Kind: models.PickKindATS, Side: models.SideHome},
			wantErr: ErrNotYourTurn,
		},
		{
			name:    "ou pick during ats phase",
			req:     SubmitPickRequest{Week: 2, PlayerID: 2, GameID: 10, Kind: models.PickKindOU, Side: models.SideOver},
			wantErr: ErrWrongPhase,
		},
		{
			name:    "side does not match kind",
			req:     SubmitPickRequest{Week: 2, PlayerID: 2, GameID: 10, Kind: models.PickKindATS, Side: models.SideOver},
			wantErr: ErrInvalidSide,
		},
		{
			name:    "game from another week",
			req:     SubmitPickRequest{Week: 2, PlayerID: 2, GameID: 99, Kind: models.PickKindATS, Side: models.SideHome},
			wantErr: ErrWrongWeek,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(newFakeStore())
			_, err := svc.SubmitPick(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestSubmitPickTurnRace(t *testing.T) {
	f := newFakeStore()
	svc := newTestService(f)

	f.failNext = store.ErrDuplicatePick
	_, err := svc.SubmitPick(context.Background(), SubmitPickRequest{
		Week: 2, PlayerID: 2, GameID: 10, Kind: models.PickKindATS, Side: models.SideHome,
	})
	assert.ErrorIs(t, err, ErrTurnConflict)
}

// drainWeek drafts all 12 picks for week 2 in the computed order.
func drainWeek(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		snap, err := svc.Snapshot(ctx, 2)
		require.NoError(t, err)
		require.False(t, snap.Complete, "draft complete after %d picks", i)

		req := SubmitPickRequest{Week: 2, PlayerID: snap.OnClock.ID, GameID: 10}
		if snap.Phase == draftorder.PhaseATS {
			req.Kind, req.Side = models.PickKindATS, models.SideHome
		} else {
			req.Kind, req.Side = models.PickKindOU, models.SideOver
		}
		_, err = svc.SubmitPick(ctx, req)
		require.NoError(t, err, "pick %d", i)
	}
}

func TestDraftCompletionSuppressesOnClock(t *testing.T) {
	f := newFakeStore()
	svc := newTestService(f)
	ctx := context.Background()

	drainWeek(t, svc)

	snap, err := svc.Snapshot(ctx, 2)
	require.NoError(t, err)
	assert.True(t, snap.Complete)
	assert.Nil(t, snap.OnClock)
	assert.Equal(t, 12, snap.PickNumber)

	_, err = svc.SubmitPick(ctx, SubmitPickRequest{
		Week: 2, PlayerID: 1, GameID: 10, Kind: models.PickKindOU, Side: models.SideOver,
	})
	assert.ErrorIs(t, err, ErrDraftComplete)
}

func TestOUPhaseFollowsCarrySnake(t *testing.T) {
	f := newFakeStore()
	svc := newTestService(f)
	ctx := context.Background()

	// Drain the nine ATS picks.
	for i := 0; i < 9; i++ {
		snap, err := svc.Snapshot(ctx, 2)
		require.NoError(t, err)
		_, err = svc.SubmitPick(ctx, SubmitPickRequest{
			Week: 2, PlayerID: snap.OnClock.ID, GameID: 10,
			Kind: models.PickKindATS, Side: models.SideAway,
		})
		require.NoError(t, err)
	}

	// Week 2 order is [Pud, Kinish, Big Dawg]; the O/U round reverses it.
	for _, want := range []string{"Big Dawg", "Kinish", "Pud"} {
		snap, err := svc.Snapshot(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, draftorder.PhaseOU, snap.Phase)
		assert.Equal(t, want, snap.OnClock.Name)

		_, err = svc.SubmitPick(ctx, SubmitPickRequest{
			Week: 2, PlayerID: snap.OnClock.ID, GameID: 11,
			Kind: models.PickKindOU, Side: models.SideUnder,
		})
		require.NoError(t, err)
	}
}

func TestGradeWeekSettlesPendingPicks(t *testing.T) {
	f := newFakeStore()
	svc := newTestService(f)
	ctx := context.Background()

	_, err := svc.SubmitPick(ctx, SubmitPickRequest{
		Week: 2, PlayerID: 2, GameID: 10, Kind: models.PickKindATS, Side: models.SideHome,
	})
	require.NoError(t, err)

	// Nothing final yet: nothing grades.
	graded, err := svc.GradeWeek(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, graded)

	g := f.games[10]
	g.AwayScore, g.HomeScore, g.Final = 17, 27, true
	f.games[10] = g

	graded, err = svc.GradeWeek(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, graded)
	assert.Equal(t, models.ResultWin, f.picks[0].Result)

	standings, err := svc.Standings(ctx)
	require.NoError(t, err)
	require.Len(t, standings, 3)
	assert.Equal(t, "Pud", standings[0].PlayerName)
	assert.Equal(t, 1, standings[0].Points)
}
