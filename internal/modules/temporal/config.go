package temporal

import (
	"fmt"
	"time"

	"github.com/feltlab/timepatterns/internal/modules/settings"
)

// Config holds every threshold the temporal analysis uses. It is built once
// per run from the settings repository and passed explicitly into each
// component; nothing in this package reads settings ad-hoc.
type Config struct {
	// Periodic aggregation minimums
	HourlyMinHands  int
	WeekdayMinHands int

	// Session detection
	SessionGap           time.Duration
	SessionMinActions    int
	SessionMinDuration   time.Duration
	SessionWinThreshold  float64
	SessionLossThreshold float64
	MinActionsPerPlayer  int // batch-scoping minimum for a player to be analyzed

	// Fatigue model
	FatigueThresholdMinutes float64
	FatigueModifiers        map[string]float64 // by time-of-day category

	// Optimal time selection
	OptimalMinHandsHourly    int
	OptimalMinHandsDaily     int
	OptimalMinHandsCategory  int
	DefaultSessionDuration   int // minutes
	AvoidTiltThreshold       int
	AvoidLossThreshold       float64
	MaxDailyVolume           int
	ConfidenceThresholdHands float64

	// Operational
	PerformanceAlerts bool
	SlowPlayerWarning time.Duration
}

// DefaultConfig returns the documented defaults without touching storage
func DefaultConfig() Config {
	return Config{
		HourlyMinHands:  5,
		WeekdayMinHands: 10,

		SessionGap:           30 * time.Minute,
		SessionMinActions:    5,
		SessionMinDuration:   10 * time.Minute,
		SessionWinThreshold:  5,
		SessionLossThreshold: -5,
		MinActionsPerPlayer:  5,

		FatigueThresholdMinutes: 300,
		FatigueModifiers: map[string]float64{
			CategoryMorning:   0.8,
			CategoryAfternoon: 1.0,
			CategoryEvening:   1.2,
			CategoryNight:     1.5,
		},

		OptimalMinHandsHourly:    20,
		OptimalMinHandsDaily:     50,
		OptimalMinHandsCategory:  30,
		DefaultSessionDuration:   120,
		AvoidTiltThreshold:       2,
		AvoidLossThreshold:       -10,
		MaxDailyVolume:           500,
		ConfidenceThresholdHands: 1000,

		PerformanceAlerts: false,
		SlowPlayerWarning: 5 * time.Second,
	}
}

// LoadConfig materializes an immutable Config from the settings repository,
// falling back to the documented defaults for any missing key.
func LoadConfig(repo *settings.Repository) (Config, error) {
	cfg := DefaultConfig()

	type floatField struct {
		key string
		dst *float64
	}
	type intField struct {
		key string
		dst *int
	}

	intFields := []intField{
		{"hourly_min_hands", &cfg.HourlyMinHands},
		{"weekday_min_hands", &cfg.WeekdayMinHands},
		{"session_min_actions", &cfg.SessionMinActions},
		{"time_patterns_min_actions", &cfg.MinActionsPerPlayer},
		{"optimal_min_hands_hourly", &cfg.OptimalMinHandsHourly},
		{"optimal_min_hands_daily", &cfg.OptimalMinHandsDaily},
		{"optimal_min_hands_category", &cfg.OptimalMinHandsCategory},
		{"default_session_duration", &cfg.DefaultSessionDuration},
		{"avoid_tilt_threshold", &cfg.AvoidTiltThreshold},
		{"max_daily_volume", &cfg.MaxDailyVolume},
	}
	for _, f := range intFields {
		v, err := repo.GetInt(f.key, *f.dst)
		if err != nil {
			return cfg, fmt.Errorf("failed to load setting %s: %w", f.key, err)
		}
		*f.dst = v
	}

	floatFields := []floatField{
		{"session_win_threshold", &cfg.SessionWinThreshold},
		{"session_loss_threshold", &cfg.SessionLossThreshold},
		{"fatigue_threshold_minutes", &cfg.FatigueThresholdMinutes},
		{"avoid_loss_threshold", &cfg.AvoidLossThreshold},
		{"confidence_threshold_hands", &cfg.ConfidenceThresholdHands},
	}
	for _, f := range floatFields {
		v, err := repo.GetFloat(f.key, *f.dst)
		if err != nil {
			return cfg, fmt.Errorf("failed to load setting %s: %w", f.key, err)
		}
		*f.dst = v
	}

	gapMinutes, err := repo.GetFloat("session_gap_minutes", cfg.SessionGap.Minutes())
	if err != nil {
		return cfg, fmt.Errorf("failed to load setting session_gap_minutes: %w", err)
	}
	cfg.SessionGap = time.Duration(gapMinutes * float64(time.Minute))

	minDuration, err := repo.GetFloat("session_min_duration", cfg.SessionMinDuration.Minutes())
	if err != nil {
		return cfg, fmt.Errorf("failed to load setting session_min_duration: %w", err)
	}
	cfg.SessionMinDuration = time.Duration(minDuration * float64(time.Minute))

	modifiers := map[string]string{
		CategoryMorning:   "fatigue_morning_modifier",
		CategoryAfternoon: "fatigue_afternoon_modifier",
		CategoryEvening:   "fatigue_evening_modifier",
		CategoryNight:     "fatigue_night_modifier",
	}
	cfg.FatigueModifiers = make(map[string]float64, len(modifiers))
	for category, key := range modifiers {
		v, err := repo.GetFloat(key, settings.DefaultFloat(key, 1.0))
		if err != nil {
			return cfg, fmt.Errorf("failed to load setting %s: %w", key, err)
		}
		cfg.FatigueModifiers[category] = v
	}

	alerts, err := repo.GetBool("performance_alerts", cfg.PerformanceAlerts)
	if err != nil {
		return cfg, fmt.Errorf("failed to load setting performance_alerts: %w", err)
	}
	cfg.PerformanceAlerts = alerts

	slowSeconds, err := repo.GetFloat("slow_player_warning_seconds", cfg.SlowPlayerWarning.Seconds())
	if err != nil {
		return cfg, fmt.Errorf("failed to load setting slow_player_warning_seconds: %w", err)
	}
	cfg.SlowPlayerWarning = time.Duration(slowSeconds * float64(time.Second))

	return cfg, nil
}
