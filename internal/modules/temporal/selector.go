package temporal

import "sort"

// SelectOptimalTimes derives the per-player recommendation row from the
// already-computed rollups. Each dimension (hour, weekday, category) is
// selected only among buckets meeting that dimension's hand-count minimum;
// a dimension with no qualifying bucket is left absent (nil) with 0-valued
// metrics. Tie-breaks are deterministic: the inputs are ordered (by hour, by
// weekday, by fixed category order) and strict comparisons keep the first.
func SelectOptimalTimes(
	playerID string,
	hourly []HourlyPerformance,
	weekday []WeekdayPerformance,
	categories []CategoryPerformance,
	sessions []Session,
	totalHands int,
	cfg Config,
) OptimalPlayTimes {
	opt := OptimalPlayTimes{
		PlayerID:   playerID,
		AvoidHours: []int{},
	}

	// Best and worst hour; the best/worst hour bucket also supplies the
	// stored rate and variance metrics.
	bestHour, worstHour := bestWorstHours(hourly, cfg.OptimalMinHandsHourly)
	if bestHour != nil {
		h := bestHour.HourOfDay
		opt.BestHourOfDay = &h
		opt.OptimalBBPer100 = bestHour.BBPer100Hands
		opt.OptimalVariance = bestHour.VarianceBB
	}
	if worstHour != nil {
		h := worstHour.HourOfDay
		opt.WorstHourOfDay = &h
		opt.WorstBBPer100 = worstHour.BBPer100Hands
		opt.WorstVariance = worstHour.VarianceBB
	}

	if best, worst := bestWorstWeekdays(weekday, cfg.OptimalMinHandsDaily); best != nil {
		d := best.DayOfWeek
		opt.BestDayOfWeek = &d
		w := worst.DayOfWeek
		opt.WorstDayOfWeek = &w
	}

	if best, worst := bestWorstCategories(categories, cfg.OptimalMinHandsCategory); best != nil {
		c := best.Category
		opt.BestTimeCategory = &c
		w := worst.Category
		opt.WorstTimeCategory = &w
	}

	opt.RecommendedSessionLengthMinutes = recommendedSessionLength(sessions, cfg)
	opt.AvoidHours = avoidHours(hourly, cfg)
	opt.OptimalVolumePerDay = recommendedDailyVolume(totalHands, cfg)
	opt.DataConfidence = ConfidenceScore(totalHands, cfg)

	return opt
}

func bestWorstHours(hourly []HourlyPerformance, minHands int) (best, worst *HourlyPerformance) {
	for i := range hourly {
		h := &hourly[i]
		if h.HandsPlayed < minHands {
			continue
		}
		if best == nil || h.BBPer100Hands > best.BBPer100Hands {
			best = h
		}
		if worst == nil || h.BBPer100Hands < worst.BBPer100Hands {
			worst = h
		}
	}
	return best, worst
}

func bestWorstWeekdays(weekday []WeekdayPerformance, minHands int) (best, worst *WeekdayPerformance) {
	for i := range weekday {
		d := &weekday[i]
		if d.HandsPlayed < minHands {
			continue
		}
		if best == nil || d.BBPer100Hands > best.BBPer100Hands {
			best = d
		}
		if worst == nil || d.BBPer100Hands < worst.BBPer100Hands {
			worst = d
		}
	}
	return best, worst
}

func bestWorstCategories(categories []CategoryPerformance, minHands int) (best, worst *CategoryPerformance) {
	for i := range categories {
		c := &categories[i]
		if c.HandsPlayed < minHands {
			continue
		}
		if best == nil || c.BBPer100 > best.BBPer100 {
			best = c
		}
		if worst == nil || c.BBPer100 < worst.BBPer100 {
			worst = c
		}
	}
	return best, worst
}

// recommendedSessionLength is the average duration of the player's winning
// sessions, or the configured default when none exist.
func recommendedSessionLength(sessions []Session, cfg Config) int {
	var total, count int
	for _, s := range sessions {
		if s.Outcome == OutcomeWinning {
			total += s.Duration
			count++
		}
	}
	if count == 0 {
		return cfg.DefaultSessionDuration
	}
	return total / count
}

// avoidHours lists hours whose tilt count exceeds the threshold or whose
// rate is below the loss threshold, ordered tilt-count descending then rate
// ascending.
func avoidHours(hourly []HourlyPerformance, cfg Config) []int {
	var flagged []HourlyPerformance
	for _, h := range hourly {
		if h.TiltEventsCount > cfg.AvoidTiltThreshold || h.BBPer100Hands < cfg.AvoidLossThreshold {
			flagged = append(flagged, h)
		}
	}

	sort.SliceStable(flagged, func(i, j int) bool {
		if flagged[i].TiltEventsCount != flagged[j].TiltEventsCount {
			return flagged[i].TiltEventsCount > flagged[j].TiltEventsCount
		}
		return flagged[i].BBPer100Hands < flagged[j].BBPer100Hands
	})

	hours := make([]int, 0, len(flagged))
	for _, h := range flagged {
		hours = append(hours, h.HourOfDay)
	}
	return hours
}

// recommendedDailyVolume caps lifetime-hands/10 at the configured maximum
func recommendedDailyVolume(totalHands int, cfg Config) int {
	volume := totalHands / 10
	if volume > cfg.MaxDailyVolume {
		return cfg.MaxDailyVolume
	}
	return volume
}

// ConfidenceScore ramps linearly with lifetime hand count, reaching 100 at
// the configured confidence threshold. Bounded to [0,100].
func ConfidenceScore(totalHands int, cfg Config) float64 {
	threshold := cfg.ConfidenceThresholdHands
	if threshold <= 0 {
		threshold = DefaultConfig().ConfidenceThresholdHands
	}
	confidence := float64(totalHands) / (threshold / 100)
	if confidence > 100 {
		return 100
	}
	if confidence < 0 {
		return 0
	}
	return confidence
}
