package temporal

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/feltlab/timepatterns/internal/modules/actions"
)

// populationVariance computes E[x²] − E[x]² over the sample.
// This matches the variance definition used for all stored variance_bb
// columns (population variance, not the n−1 sample estimator).
func populationVariance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	squares := make([]float64, len(xs))
	for i, x := range xs {
		squares[i] = x * x
	}
	mean := stat.Mean(xs, nil)
	return stat.Mean(squares, nil) - mean*mean
}

// bucketAccumulator collects per-bucket raw counts before metric derivation
type bucketAccumulator struct {
	hands      map[string]struct{}
	netWins    []float64
	betSizes   []float64
	aggressive int
	overbets   int
}

func newBucketAccumulator() *bucketAccumulator {
	return &bucketAccumulator{hands: make(map[string]struct{})}
}

func (b *bucketAccumulator) add(a actions.Action) {
	b.hands[a.HandID] = struct{}{}
	b.netWins = append(b.netWins, a.NetWin)
	b.betSizes = append(b.betSizes, a.RaisePercentage)
	if a.IsAggressive() {
		b.aggressive++
		if a.RaisePercentage > 100 {
			b.overbets++
		}
	}
}

func (b *bucketAccumulator) totalNetWin() float64 {
	var sum float64
	for _, x := range b.netWins {
		sum += x
	}
	return sum
}

func (b *bucketAccumulator) extremes() (biggestWin, biggestLoss float64) {
	if len(b.netWins) == 0 {
		return 0, 0
	}
	biggestWin, biggestLoss = b.netWins[0], b.netWins[0]
	for _, x := range b.netWins[1:] {
		if x > biggestWin {
			biggestWin = x
		}
		if x < biggestLoss {
			biggestLoss = x
		}
	}
	return biggestWin, biggestLoss
}

// BuildHourlyPerformance computes the per-hour-of-day rollup for one player,
// independent of session boundaries. Buckets with fewer distinct hands than
// cfg.HourlyMinHands are excluded entirely. Output is ordered by hour.
func BuildHourlyPerformance(playerID string, stream []actions.Action, tilt []actions.TiltEvent, cfg Config) []HourlyPerformance {
	buckets := make(map[int]*bucketAccumulator)
	for _, a := range stream {
		hour := a.PlayedAt.Hour()
		acc, ok := buckets[hour]
		if !ok {
			acc = newBucketAccumulator()
			buckets[hour] = acc
		}
		acc.add(a)
	}

	tiltByHour := make(map[int]int)
	for _, e := range tilt {
		tiltByHour[e.StartedAt.Hour()]++
	}

	var result []HourlyPerformance
	for hour := 0; hour < 24; hour++ {
		acc, ok := buckets[hour]
		if !ok {
			continue
		}
		hands := len(acc.hands)
		if hands < cfg.HourlyMinHands {
			continue
		}

		totalActions := len(acc.netWins)
		netWin := acc.totalNetWin()
		biggestWin, biggestLoss := acc.extremes()

		overbetFreq := 0.0
		if acc.aggressive > 0 {
			overbetFreq = float64(acc.overbets) / float64(acc.aggressive) * 100
		}

		result = append(result, HourlyPerformance{
			PlayerID:    playerID,
			HourOfDay:   hour,
			HandsPlayed: hands,

			NetWinBB:      netWin,
			BBPer100Hands: netWin / float64(hands) * 100,
			AvgNetWinBB:   stat.Mean(acc.netWins, nil),

			AggressionFactor:     float64(acc.aggressive) / float64(totalActions) * 100,
			AvgBetSizePercentage: stat.Mean(acc.betSizes, nil),
			OverbetFrequency:     overbetFreq,

			VarianceBB:      populationVariance(acc.netWins),
			BiggestWinBB:    biggestWin,
			BiggestLossBB:   biggestLoss,
			TiltEventsCount: tiltByHour[hour],
		})
	}

	return result
}

// BuildWeekdayPerformance computes the per-weekday rollup for one player.
// Weekdays use the Monday-based convention. Accepted sessions contribute the
// per-day session counts and average length; tilt events contribute counts
// and average duration. Buckets with fewer distinct hands than
// cfg.WeekdayMinHands are excluded entirely. Output is ordered by weekday.
func BuildWeekdayPerformance(playerID string, stream []actions.Action, tilt []actions.TiltEvent, sessions []Session, cfg Config) []WeekdayPerformance {
	buckets := make(map[int]*bucketAccumulator)
	for _, a := range stream {
		day := MondayWeekday(a.PlayedAt)
		acc, ok := buckets[day]
		if !ok {
			acc = newBucketAccumulator()
			buckets[day] = acc
		}
		acc.add(a)
	}

	tiltCount := make(map[int]int)
	tiltDuration := make(map[int]float64)
	for _, e := range tilt {
		day := MondayWeekday(e.StartedAt)
		tiltCount[day]++
		tiltDuration[day] += e.DurationMinutes
	}

	sessionCount := make(map[int]int)
	sessionMinutes := make(map[int]float64)
	for _, s := range sessions {
		sessionCount[s.DayOfWeek]++
		sessionMinutes[s.DayOfWeek] += float64(s.Duration)
	}

	var result []WeekdayPerformance
	for day := 0; day < 7; day++ {
		acc, ok := buckets[day]
		if !ok {
			continue
		}
		hands := len(acc.hands)
		if hands < cfg.WeekdayMinHands {
			continue
		}

		totalActions := len(acc.netWins)
		netWin := acc.totalNetWin()

		avgSessionLength := 0.0
		if sessionCount[day] > 0 {
			avgSessionLength = sessionMinutes[day] / float64(sessionCount[day])
		}

		avgTiltDuration := 0.0
		if tiltCount[day] > 0 {
			avgTiltDuration = tiltDuration[day] / float64(tiltCount[day])
		}

		result = append(result, WeekdayPerformance{
			PlayerID:  playerID,
			DayOfWeek: day,
			DayName:   DayName(day),

			HandsPlayed:             hands,
			SessionsCount:           sessionCount[day],
			AvgSessionLengthMinutes: avgSessionLength,

			NetWinBB:         netWin,
			BBPer100Hands:    netWin / float64(hands) * 100,
			AggressionFactor: float64(acc.aggressive) / float64(totalActions) * 100,
			VarianceBB:       populationVariance(acc.netWins),

			TiltEventsCount:        tiltCount[day],
			AvgTiltDurationMinutes: avgTiltDuration,
		})
	}

	return result
}

// BuildCategoryPerformance computes the direct per-time-of-day-category
// aggregation the optimal-time selector consumes. All categories present in
// the stream are returned; the selector applies its own hand-count minimum.
// Output order is the fixed category order, then any unrecognized categories
// alphabetically, so selection tie-breaks are deterministic.
func BuildCategoryPerformance(stream []actions.Action) []CategoryPerformance {
	buckets := make(map[string]*bucketAccumulator)
	for _, a := range stream {
		acc, ok := buckets[a.TimeCategory]
		if !ok {
			acc = newBucketAccumulator()
			buckets[a.TimeCategory] = acc
		}
		acc.add(a)
	}

	ordered := make([]string, 0, len(buckets))
	seen := make(map[string]bool)
	for _, c := range categoryOrder {
		if _, ok := buckets[c]; ok {
			ordered = append(ordered, c)
			seen[c] = true
		}
	}
	var extra []string
	for c := range buckets {
		if !seen[c] {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)
	ordered = append(ordered, extra...)

	result := make([]CategoryPerformance, 0, len(ordered))
	for _, c := range ordered {
		acc := buckets[c]
		result = append(result, CategoryPerformance{
			Category:    c,
			HandsPlayed: len(acc.hands),
			BBPer100:    stat.Mean(acc.netWins, nil) * 100,
			VarianceBB:  populationVariance(acc.netWins),
		})
	}

	return result
}
