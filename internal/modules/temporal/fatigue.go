package temporal

// FatigueScore estimates fatigue for a session from its duration and
// dominant time-of-day category. Pure function of its inputs.
//
// Base fatigue ramps linearly, reaching 100 at the configured threshold,
// then a per-category modifier is applied. The result is clamped to [0,100].
func FatigueScore(durationMinutes float64, timeCategory string, cfg Config) float64 {
	if durationMinutes < 0 {
		durationMinutes = 0
	}

	threshold := cfg.FatigueThresholdMinutes
	if threshold <= 0 {
		threshold = DefaultConfig().FatigueThresholdMinutes
	}

	base := durationMinutes / (threshold / 100)
	if base > 100 {
		base = 100
	}

	modifier, ok := cfg.FatigueModifiers[timeCategory]
	if !ok {
		modifier = 1.0
	}

	fatigue := base * modifier
	if fatigue > 100 {
		fatigue = 100
	}
	return fatigue
}
