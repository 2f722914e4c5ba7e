// Package scoring grades picks against final scores and aggregates weekly
// and season results.
package scoring

import (
	"sort"

	"github.com/pickemgo/pickem-backend/internal/models"
)

// GradeATS grades a home/away pick against the spread. The spread is the
// handicap added to the home score; equal adjusted scores are a push.
// Games that are not final grade as pending.
func GradeATS(g models.Game, side models.PickSide) models.PickResult {
	if !g.Final {
		return models.ResultPending
	}
	adjusted := float64(g.HomeScore) + g.Spread
	away := float64(g.AwayScore)
	switch {
	case adjusted == away:
		return models.ResultPush
	case adjusted > away:
		if side == models.SideHome {
			return models.ResultWin
		}
		return models.ResultLoss
	default:
		if side == models.SideAway {
			return models.ResultWin
		}
		return models.ResultLoss
	}
}

// GradeOU grades an over/under pick against the game total. Landing
// exactly on the total is a push.
func GradeOU(g models.Game, side models.PickSide) models.PickResult {
	if !g.Final {
		return models.ResultPending
	}
	combined := float64(g.AwayScore + g.HomeScore)
	switch {
	case combined == g.OUTotal:
		return models.ResultPush
	case combined > g.OUTotal:
		if side == models.SideOver {
			return models.ResultWin
		}
		return models.ResultLoss
	default:
		if side == models.SideUnder {
			return models.ResultWin
		}
		return models.ResultLoss
	}
}

// Grade dispatches on the pick kind.
func Grade(g models.Game, p models.Pick) models.PickResult {
	if p.Kind == models.PickKindOU {
		return GradeOU(g, p.Side)
	}
	return GradeATS(g, p.Side)
}

// WeekScore is one player's tally for a single week.
type WeekScore struct {
	PlayerID   int64  `json:"player_id"`
	PlayerName string `json:"player_name"`
	Week       int    `json:"week"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	Pushes     int    `json:"pushes"`
	Pending    int    `json:"pending"`
	OUWins     int    `json:"ou_wins"`
	Points     int    `json:"points"`
	Complete   bool   `json:"complete"`
}

// UpdateFromPicks recalculates the tally from the player's graded picks.
// Points are winning picks; pushes and the O/U tie-breaker score nothing
// but O/U wins are kept for standings tie-breaks.
func (ws *WeekScore) UpdateFromPicks(picks []models.Pick) {
	ws.Wins, ws.Losses, ws.Pushes, ws.Pending, ws.OUWins = 0, 0, 0, 0, 0
	for _, p := range picks {
		switch p.Result {
		case models.ResultWin:
			ws.Wins++
			if p.Kind == models.PickKindOU {
				ws.OUWins++
			}
		case models.ResultLoss:
			ws.Losses++
		case models.ResultPush:
			ws.Pushes++
		default:
			ws.Pending++
		}
	}
	ws.Points = ws.Wins
	ws.Complete = ws.Pending == 0
}

// Standing is one row of the season table.
type Standing struct {
	PlayerID   int64  `json:"player_id"`
	PlayerName string `json:"player_name"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	Pushes     int    `json:"pushes"`
	OUWins     int    `json:"ou_wins"`
	Points     int    `json:"points"`
}

// BuildStandings aggregates a season of graded picks into a table sorted
// by points, then O/U tie-breaker wins, then name.
func BuildStandings(players []models.Player, picks []models.Pick) []Standing {
	index := make(map[int64]*Standing, len(players))
	for _, p := range players {
		index[p.ID] = &Standing{PlayerID: p.ID, PlayerName: p.Name}
	}

	for _, pick := range picks {
		entry := index[pick.PlayerID]
		if entry == nil {
			continue
		}
		switch pick.Result {
		case models.ResultWin:
			entry.Wins++
			entry.Points++
			if pick.Kind == models.PickKindOU {
				entry.OUWins++
			}
		case models.ResultLoss:
			entry.Losses++
		case models.ResultPush:
			entry.Pushes++
		}
	}

	standings := make([]Standing, 0, len(players))
	for _, p := range players {
		standings = append(standings, *index[p.ID])
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Points != standings[j].Points {
			return standings[i].Points > standings[j].Points
		}
		if standings[i].OUWins != standings[j].OUWins {
			return standings[i].OUWins > standings[j].OUWins
		}
		return standings[i].PlayerName < standings[j].PlayerName
	})
	return standings
}

// WeekScores builds per-player tallies for one week's picks.
func WeekScores(players []models.Player, week int, picks []models.Pick) []WeekScore {
	byPlayer := make(map[int64][]models.Pick)
	for _, p := range picks {
		byPlayer[p.PlayerID] = append(byPlayer[p.PlayerID], p)
	}

	scores := make([]WeekScore, 0, len(players))
	for _, pl := range players {
		ws := WeekScore{PlayerID: pl.ID, PlayerName: pl.Name, Week: week}
		ws.UpdateFromPicks(byPlayer[pl.ID])
		scores = append(scores, ws)
	}
	return scores
}
