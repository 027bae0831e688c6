package temporal

import (
	"fmt"
	"time"

	"github.com/feltlab/timepatterns/internal/modules/actions"
)

// testBase is a Monday at noon UTC
var testBase = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

// callAt builds a passive action with its own distinct hand
func callAt(t time.Time, netWin float64) actions.Action {
	return actions.Action{
		HandID:       fmt.Sprintf("hand-%d", t.Unix()),
		PlayerID:     "player-1",
		ActionType:   "call",
		NetWin:       netWin,
		PlayedAt:     t,
		TimeCategory: CategoryAfternoon,
	}
}

// betAt builds an aggressive action with its own distinct hand
func betAt(t time.Time, netWin float64) actions.Action {
	a := callAt(t, netWin)
	a.ActionType = actions.ActionBet
	return a
}

// minutes converts whole minutes to a duration
func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}

// streamEvery builds n passive actions starting at start, spaced by step
func streamEvery(start time.Time, n int, step time.Duration) []actions.Action {
	stream := make([]actions.Action, 0, n)
	for i := 0; i < n; i++ {
		stream = append(stream, callAt(start.Add(time.Duration(i)*step), 0))
	}
	return stream
}
