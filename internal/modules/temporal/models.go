package temporal

import "time"

// Session outcome classifications
const (
	OutcomeWinning   = "winning"
	OutcomeLosing    = "losing"
	OutcomeBreakeven = "breakeven"
)

// Time-of-day categories assigned upstream on each hand
const (
	CategoryMorning   = "morning"
	CategoryAfternoon = "afternoon"
	CategoryEvening   = "evening"
	CategoryNight     = "night"
)

// categoryOrder fixes a deterministic ordering for tie-breaks in
// best/worst category selection.
var categoryOrder = []string{CategoryMorning, CategoryAfternoon, CategoryEvening, CategoryNight}

// dayNames indexed by Monday-based weekday (0=Monday .. 6=Sunday)
var dayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// MondayWeekday converts a timestamp to a Monday-based weekday index
// (0=Monday .. 6=Sunday). This is the single conversion point from Go's
// Sunday-based time.Weekday; every weekday stored or compared in this
// package uses the Monday-based convention.
func MondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// DayName returns the English day name for a Monday-based weekday index
func DayName(mondayWeekday int) string {
	if mondayWeekday < 0 || mondayWeekday > 6 {
		return "Unknown"
	}
	return dayNames[mondayWeekday]
}

// Session is a contiguous run of one player's actions bounded by inactivity
// gaps. Recomputed from scratch each run; never incrementally updated.
type Session struct {
	PlayerID     string
	Start        time.Time
	End          time.Time
	Duration     int // whole minutes
	HandsPlayed  int // action count within the window
	NetWinBB     float64
	BBPerHour    float64
	TimeCategory string // modal category across the window's actions
	DayOfWeek    int    // 0=Monday .. 6=Sunday, from session start
	IsWeekend    bool

	EarlyAggression  float64 // aggression rate in the first third, percent
	LateAggression   float64 // aggression rate in the last third, percent
	AggressionChange float64 // late - early
	FatigueScore     float64

	Outcome        string
	BiggestPotWon  float64
	BiggestPotLost float64
}

// HourlyPerformance is the per-(player, hour-of-day) rollup
type HourlyPerformance struct {
	PlayerID    string
	HourOfDay   int
	HandsPlayed int

	NetWinBB      float64
	BBPer100Hands float64
	AvgNetWinBB   float64

	AggressionFactor     float64 // aggressive / total actions, percent
	AvgBetSizePercentage float64
	OverbetFrequency     float64 // overbets / aggressive actions, percent

	VarianceBB      float64 // population variance of per-action net_win
	BiggestWinBB    float64
	BiggestLossBB   float64
	TiltEventsCount int
}

// WeekdayPerformance is the per-(player, weekday) rollup.
// DayOfWeek uses the Monday-based convention (0=Monday .. 6=Sunday).
type WeekdayPerformance struct {
	PlayerID  string
	DayOfWeek int
	DayName   string

	HandsPlayed             int
	SessionsCount           int
	AvgSessionLengthMinutes float64

	NetWinBB         float64
	BBPer100Hands    float64
	AggressionFactor float64
	VarianceBB       float64

	TiltEventsCount        int
	AvgTiltDurationMinutes float64
}

// CategoryPerformance is the direct per-time-of-day-category aggregation
// consumed by the optimal-time selector (never persisted on its own).
type CategoryPerformance struct {
	Category    string
	HandsPlayed int
	BBPer100    float64 // mean per-action net_win * 100
	VarianceBB  float64
}

// OptimalPlayTimes is the per-player recommendation row, replaced each run.
// Nil pointers mean the dimension had no qualifying bucket.
type OptimalPlayTimes struct {
	PlayerID string

	BestHourOfDay    *int
	BestDayOfWeek    *int
	BestTimeCategory *string
	OptimalBBPer100  float64
	OptimalVariance  float64

	WorstHourOfDay    *int
	WorstDayOfWeek    *int
	WorstTimeCategory *string
	WorstBBPer100     float64
	WorstVariance     float64

	RecommendedSessionLengthMinutes int
	AvoidHours                      []int
	OptimalVolumePerDay             int
	DataConfidence                  float64 // 0-100
}
