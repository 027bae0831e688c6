package settings

// SettingDefaults holds all default values for configurable analysis thresholds.
// Values are stored as strings in the settings table and parsed on read;
// anything not present in the table falls back to the default listed here.
var SettingDefaults = map[string]interface{}{
	// Periodic aggregation minimums
	"hourly_min_hands":  5.0,  // Minimum hands for an hourly bucket to be computed
	"weekday_min_hands": 10.0, // Minimum hands for a weekday bucket to be computed

	// Session detection
	"session_gap_minutes":       30.0, // Inactivity gap that splits two sessions
	"session_min_actions":       5.0,  // Minimum actions for a window to count as a session
	"session_min_duration":      10.0, // Minimum session length in minutes
	"session_win_threshold":     5.0,  // Net bb above which a session is "winning"
	"session_loss_threshold":    -5.0, // Net bb below which a session is "losing"
	"time_patterns_min_actions": 5.0,  // Minimum actions in the new-hand batch for a player to be analyzed

	// Fatigue model
	"fatigue_threshold_minutes":  300.0, // Duration at which base fatigue reaches 100
	"fatigue_morning_modifier":   0.8,
	"fatigue_afternoon_modifier": 1.0,
	"fatigue_evening_modifier":   1.2,
	"fatigue_night_modifier":     1.5,

	// Optimal time selection
	"optimal_min_hands_hourly":   20.0,   // Minimum hands for an hourly bucket to qualify for best/worst
	"optimal_min_hands_daily":    50.0,   // Minimum hands for a weekday bucket to qualify
	"optimal_min_hands_category": 30.0,   // Minimum hands for a time-of-day category to qualify
	"default_session_duration":   120.0,  // Fallback recommended session length (minutes)
	"avoid_tilt_threshold":       2.0,    // Tilt events above which an hour is flagged
	"avoid_loss_threshold":       -10.0,  // bb/100 below which an hour is flagged
	"max_daily_volume":           500.0,  // Cap on recommended hands per day
	"confidence_threshold_hands": 1000.0, // Hand count at which confidence reaches 100

	// Operational
	"performance_alerts":          0.0, // 1.0 = warn when a player's analysis is slow
	"slow_player_warning_seconds": 5.0, // Wall-clock threshold for the slow-player warning
}

// SettingDescriptions provides human-readable descriptions for settings
var SettingDescriptions = map[string]string{
	"hourly_min_hands":            "Minimum distinct hands before an hourly bucket is stored",
	"weekday_min_hands":           "Minimum distinct hands before a weekday bucket is stored",
	"session_gap_minutes":         "Inactivity gap in minutes that ends a session",
	"session_min_actions":         "Minimum actions for a detected window to be kept",
	"session_min_duration":        "Minimum elapsed minutes for a detected window to be kept",
	"session_win_threshold":       "Net result above which a session is classified winning",
	"session_loss_threshold":      "Net result below which a session is classified losing",
	"time_patterns_min_actions":   "Minimum actions among new hands for a player to be analyzed this run",
	"fatigue_threshold_minutes":   "Session duration at which base fatigue saturates at 100",
	"fatigue_morning_modifier":    "Fatigue multiplier for morning sessions",
	"fatigue_afternoon_modifier":  "Fatigue multiplier for afternoon sessions",
	"fatigue_evening_modifier":    "Fatigue multiplier for evening sessions",
	"fatigue_night_modifier":      "Fatigue multiplier for night sessions",
	"optimal_min_hands_hourly":    "Minimum hands for an hourly bucket to qualify for best/worst selection",
	"optimal_min_hands_daily":     "Minimum hands for a weekday bucket to qualify for best/worst selection",
	"optimal_min_hands_category":  "Minimum hands for a time-of-day category to qualify for best/worst selection",
	"default_session_duration":    "Recommended session length when no winning sessions exist",
	"avoid_tilt_threshold":        "Tilt events per hour above which the hour is listed as avoid",
	"avoid_loss_threshold":        "bb/100 per hour below which the hour is listed as avoid",
	"max_daily_volume":            "Upper bound on the recommended daily hand volume",
	"confidence_threshold_hands":  "Lifetime hand count at which recommendation confidence reaches 100",
	"performance_alerts":          "Log a warning when a single player's analysis runs long (1=on)",
	"slow_player_warning_seconds": "Per-player wall-clock duration that triggers the slow warning",
}
