package temporal

import "github.com/feltlab/timepatterns/internal/modules/actions"

// AnalyzeSession computes the behavioral metrics for one session window.
// Returns (session, true) for accepted windows, or (zero, false) when the
// window fails the configured action-count or duration minimums. A window
// can have many actions packed into too short a span, or a sparse pair of
// actions spanning a long idle window; both are rejected here.
func AnalyzeSession(playerID string, window []actions.Action, cfg Config) (Session, bool) {
	// The length guard alone is not enough: a zero configured minimum would
	// let an empty window through.
	if len(window) == 0 || len(window) < cfg.SessionMinActions {
		return Session{}, false
	}

	start := window[0].PlayedAt
	end := window[len(window)-1].PlayedAt
	duration := int(end.Sub(start).Minutes())

	if float64(duration) < cfg.SessionMinDuration.Minutes() {
		return Session{}, false
	}

	var netWin float64
	biggestWin := window[0].NetWin
	biggestLoss := window[0].NetWin
	for _, a := range window {
		netWin += a.NetWin
		if a.NetWin > biggestWin {
			biggestWin = a.NetWin
		}
		if a.NetWin < biggestLoss {
			biggestLoss = a.NetWin
		}
	}

	bbPerHour := 0.0
	if duration > 0 {
		bbPerHour = netWin / (float64(duration) / 60)
	}

	outcome := OutcomeBreakeven
	switch {
	case netWin > cfg.SessionWinThreshold:
		outcome = OutcomeWinning
	case netWin < cfg.SessionLossThreshold:
		outcome = OutcomeLosing
	}

	// Early vs late aggression: first and last third of the window by
	// action order. With very few actions the thirds may be empty, which
	// yields a rate of 0.
	third := len(window) / 3
	early := AggressionRate(window[:third])
	late := AggressionRate(window[len(window)-third:])

	category := modalCategory(window)
	dayOfWeek := MondayWeekday(start)

	return Session{
		PlayerID:     playerID,
		Start:        start,
		End:          end,
		Duration:     duration,
		HandsPlayed:  len(window),
		NetWinBB:     netWin,
		BBPerHour:    bbPerHour,
		TimeCategory: category,
		DayOfWeek:    dayOfWeek,
		IsWeekend:    dayOfWeek >= 5,

		EarlyAggression:  early,
		LateAggression:   late,
		AggressionChange: late - early,
		FatigueScore:     FatigueScore(float64(duration), category, cfg),

		Outcome:        outcome,
		BiggestPotWon:  biggestWin,
		BiggestPotLost: biggestLoss,
	}, true
}

// modalCategory returns the most frequent time-of-day category across the
// window's actions. Ties break toward the first-encountered category.
func modalCategory(window []actions.Action) string {
	if len(window) == 0 {
		return "unknown"
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, a := range window {
		if _, ok := firstSeen[a.TimeCategory]; !ok {
			firstSeen[a.TimeCategory] = i
		}
		counts[a.TimeCategory]++
	}

	best := window[0].TimeCategory
	for category, count := range counts {
		if count > counts[best] || (count == counts[best] && firstSeen[category] < firstSeen[best]) {
			best = category
		}
	}
	return best
}
