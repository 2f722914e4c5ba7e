// Package draftorder computes whose turn it is in a week's two-phase snake
// draft: three against-the-spread rounds followed by a single over/under
// tie-breaker round. Turn order is never stored; it is recomputed from the
// count of picks already made, so it cannot drift from pick history.
package draftorder

// ATSRounds is the number of against-the-spread rounds drafted each week.
const ATSRounds = 3

// Player identifies a roster member. Equality is by ID.
type Player struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Phase string

const (
	PhaseATS Phase = "ats"
	PhaseOU  Phase = "ou"
)

// State is the sole input to the on-clock query: a zero-based counter over
// ALL picks made so far this week (ATS then O/U), and the week's round-1
// order. Rebuild it from counted pick rows on every query.
type State struct {
	PickNumber int
	Players    []Player
}

// RoundOneOrderForWeek rotates base forward by (week-1) mod n so the player
// who picked first last week picks last this week. Week numbering is
// 1-based; week 1 returns base unchanged and the rotation is periodic with
// period n. Any integer week is accepted, the shift is normalized into
// [0, n).
func RoundOneOrderForWeek(base []Player, week int) []Player {
	n := len(base)
	if n == 0 {
		panic("draftorder: empty roster")
	}
	shift := mod(week-1, n)
	order := make([]Player, 0, n)
	order = append(order, base[shift:]...)
	order = append(order, base[:shift]...)
	return order
}

// OnClockATS returns the player on the clock for a zero-based pick index
// within the ATS phase, standard snake ordering: even rounds run forward,
// odd rounds run in reverse. Callers gate the index into
// [0, n*ATSRounds) via WhoIsOnClock.
func OnClockATS(playersR1 []Player, atsPickNumber int) Player {
	n := len(playersR1)
	if n == 0 {
		panic("draftorder: empty roster")
	}
	round := atsPickNumber / n
	idx := atsPickNumber % n
	if round%2 == 1 {
		idx = n - 1 - idx
	}
	return playersR1[idx]
}

// OnClockOUCarrySnake returns the player on the clock for the O/U round,
// carrying the snake's direction out of the final ATS round: when ATSRounds
// is odd the last ATS round ran forward, so the O/U round runs in reverse
// of round-1 order; when even it runs in round-1 order. The O/U round is a
// single pass, indices beyond n wrap modulo n and callers are responsible
// for recognizing phase completion.
func OnClockOUCarrySnake(playersR1 []Player, ouPickNumber int) Player {
	n := len(playersR1)
	if n == 0 {
		panic("draftorder: empty roster")
	}
	idx := mod(ouPickNumber, n)
	if ATSRounds%2 == 1 {
		idx = n - 1 - idx
	}
	return playersR1[idx]
}

// WhoIsOnClock is the unified query: which phase is active and who picks
// next. It performs no completion check; a counter at or beyond
// TotalPicks wraps around the O/U order, so callers must test Complete
// first and suppress the on-clock display once the draft is done.
func WhoIsOnClock(s State) (Phase, Player) {
	atsTotal := ATSTotal(len(s.Players))
	if s.PickNumber < atsTotal {
		return PhaseATS, OnClockATS(s.Players, s.PickNumber)
	}
	return PhaseOU, OnClockOUCarrySnake(s.Players, s.PickNumber-atsTotal)
}

// ATSTotal is the number of ATS picks in a week for an n-player roster.
func ATSTotal(n int) int { return n * ATSRounds }

// TotalPicks is the number of picks in a full week: ATS rounds plus one
// O/U pick per player.
func TotalPicks(n int) int { return ATSTotal(n) + n }

// Complete reports whether every pick for the week has been made.
func Complete(s State) bool {
	return s.PickNumber >= TotalPicks(len(s.Players))
}

// mod normalizes a % n into [0, n), unlike Go's remainder for negative a.
func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
