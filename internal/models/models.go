// Package models defines the persistent domain model: the roster, the
// weekly game slate with its betting lines, and the picks drafted against
// them.
package models

import "time"

// PickKind distinguishes the two draft phases.
type PickKind string

const (
	PickKindATS PickKind = "ats"
	PickKindOU  PickKind = "ou"
)

// PickSide is the side taken: home/away against the spread, over/under on
// the game total.
type PickSide string

const (
	SideHome  PickSide = "home"
	SideAway  PickSide = "away"
	SideOver  PickSide = "over"
	SideUnder PickSide = "under"
)

// PickResult is the graded outcome of a pick.
type PickResult string

const (
	ResultPending PickResult = "pending"
	ResultWin     PickResult = "win"
	ResultLoss    PickResult = "loss"
	ResultPush    PickResult = "push"
)

// Player is a roster member. DraftSlot is the player's zero-based position
// in the base round-1 order; week-to-week rotation is derived from it.
type Player struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	DraftSlot int       `gorm:"not null" json:"draft_slot"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Game is one slate entry: matchup, lines, and (once final) the score.
// Spread is the handicap added to the home score, negative when the home
// team is favored.
type Game struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Season    int       `gorm:"not null;index:idx_games_week" json:"season"`
	Week      int       `gorm:"not null;index:idx_games_week" json:"week"`
	Away      string    `gorm:"not null" json:"away"`
	Home      string    `gorm:"not null" json:"home"`
	Spread    float64   `json:"spread"`
	OUTotal   float64   `json:"ou_total"`
	AwayScore int       `json:"away_score"`
	HomeScore int       `json:"home_score"`
	Final     bool      `gorm:"default:false" json:"final"`
	Kickoff   time.Time `json:"kickoff"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pick is one drafted pick. OverallNumber is the zero-based counter across
// all of a week's picks (ATS phase then O/U phase); its uniqueness
// constraint is what serializes concurrent submissions for the same turn.
type Pick struct {
	ID            int64      `gorm:"primaryKey" json:"id"`
	Season        int        `gorm:"not null;uniqueIndex:idx_picks_turn" json:"season"`
	Week          int        `gorm:"not null;uniqueIndex:idx_picks_turn" json:"week"`
	OverallNumber int        `gorm:"not null;uniqueIndex:idx_picks_turn" json:"overall_number"`
	PlayerID      int64      `gorm:"not null;index" json:"player_id"`
	GameID        int64      `gorm:"not null;index" json:"game_id"`
	Kind          PickKind   `gorm:"not null" json:"kind"`
	Side          PickSide   `gorm:"not null" json:"side"`
	Result        PickResult `gorm:"not null;default:pending" json:"result"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ValidSide reports whether a side is legal for a pick kind.
func ValidSide(kind PickKind, side PickSide) bool {
	switch kind {
	case PickKindATS:
		return side == SideHome || side == SideAway
	case PickKindOU:
		return side == SideOver || side == SideUnder
	default:
		return false
	}
}
