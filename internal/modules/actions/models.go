package actions

import "time"

// Aggressive action types. Everything else (fold, check, call) is passive.
const (
	ActionBet   = "bet"
	ActionRaise = "raise"
)

// Action is a single player decision within a hand, joined to its hand's
// timestamp and time-of-day category. Immutable for the duration of one
// analysis pass; the stream for a player is ordered by PlayedAt.
type Action struct {
	ID              int64
	HandID          string
	PlayerID        string
	ActionType      string
	NetWin          float64 // net result attributable to the action's hand, in bb
	RaisePercentage float64 // raise size relative to pot, percent
	HandStrength    float64 // estimated hand strength [0,1]
	PlayedAt        time.Time
	TimeCategory    string // morning/afternoon/evening/night
}

// IsAggressive reports whether the action is a bet or raise
func (a Action) IsAggressive() bool {
	return a.ActionType == ActionBet || a.ActionType == ActionRaise
}

// TiltEvent is an externally-detected episode of degraded play. Used only as
// a side signal joined by hour / weekday.
type TiltEvent struct {
	ID              int64
	PlayerID        string
	StartedAt       time.Time
	DurationMinutes float64
}
