// Package types holds the websocket wire messages.
//
// Client -> Server
//
//	SubmitPick:
//	  player_id: number
//	  game_id: number
//	  kind: "ats" | "ou"
//	  side: "home" | "away" | "over" | "under"
//
// Server -> Client
//
//	DraftSnapshot:
//	  version: number
//	  snapshot: { season, week, order, pick_number, total_picks,
//	              phase, on_clock, complete }
//
//	Error:
//	  error: string
package types

import "github.com/pickemgo/pickem-backend/internal/draft"

type ClientMessage struct {
	Type     string `json:"type"`
	PlayerID int64  `json:"player_id,omitempty"`
	GameID   int64  `json:"game_id,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Side     string `json:"side,omitempty"`
}

type ServerMessage struct {
	Type     string          `json:"type"` // "DraftSnapshot" | "Error"
	Version  int             `json:"version,omitempty"`
	Snapshot *draft.Snapshot `json:"snapshot,omitempty"`
	Error    string          `json:"error,omitempty"`
}
