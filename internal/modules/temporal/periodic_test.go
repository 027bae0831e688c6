package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feltlab/timepatterns/internal/modules/actions"
)

func TestPopulationVariance(t *testing.T) {
	assert.Zero(t, populationVariance(nil))
	assert.Zero(t, populationVariance([]float64{7}))

	// {1,-1,1,-1}: mean 0, E[x^2] = 1
	assert.InDelta(t, 1.0, populationVariance([]float64{1, -1, 1, -1}), 1e-9)

	// {2,4}: mean 3, E[x^2] = 10, variance 1
	assert.InDelta(t, 1.0, populationVariance([]float64{2, 4}), 1e-9)
}

func TestBuildHourlyPerformance_SingleBucket(t *testing.T) {
	cfg := DefaultConfig() // HourlyMinHands = 5

	// 6 actions at hour 12, distinct hands, alternating +1/-1 net
	hour := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	stream := []actions.Action{
		betAt(hour.Add(minutes(0)), 1),
		callAt(hour.Add(minutes(5)), -1),
		betAt(hour.Add(minutes(10)), 1),
		callAt(hour.Add(minutes(15)), -1),
		betAt(hour.Add(minutes(20)), 1),
		callAt(hour.Add(minutes(25)), -1),
	}
	stream[0].RaisePercentage = 150 // overbet
	stream[2].RaisePercentage = 80
	stream[4].RaisePercentage = 60

	result := BuildHourlyPerformance("player-1", stream, nil, cfg)

	require.Len(t, result, 1)
	h := result[0]
	assert.Equal(t, "player-1", h.PlayerID)
	assert.Equal(t, 12, h.HourOfDay)
	assert.Equal(t, 6, h.HandsPlayed)
	assert.InDelta(t, 0.0, h.NetWinBB, 1e-9)
	assert.InDelta(t, 0.0, h.BBPer100Hands, 1e-9)
	assert.InDelta(t, 0.0, h.AvgNetWinBB, 1e-9)
	assert.InDelta(t, 50.0, h.AggressionFactor, 1e-9)     // 3 of 6
	assert.InDelta(t, 100.0/3, h.OverbetFrequency, 1e-9)  // 1 of 3 aggressive
	assert.InDelta(t, 1.0, h.VarianceBB, 1e-9)
	assert.InDelta(t, 1.0, h.BiggestWinBB, 1e-9)
	assert.InDelta(t, -1.0, h.BiggestLossBB, 1e-9)
	assert.Zero(t, h.TiltEventsCount)
}

func TestBuildHourlyPerformance_ExcludesThinBuckets(t *testing.T) {
	cfg := DefaultConfig()

	// 4 distinct hands at hour 9, below the minimum of 5
	stream := streamEvery(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), 4, minutes(5))

	assert.Empty(t, BuildHourlyPerformance("player-1", stream, nil, cfg))
}

func TestBuildHourlyPerformance_CountsDistinctHands(t *testing.T) {
	cfg := DefaultConfig()

	// 10 actions but only 2 distinct hands: excluded by the hand minimum
	hour := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	var stream []actions.Action
	for i := 0; i < 10; i++ {
		a := callAt(hour.Add(time.Duration(i)*time.Minute), 0)
		a.HandID = "hand-a"
		if i%2 == 0 {
			a.HandID = "hand-b"
		}
		stream = append(stream, a)
	}

	assert.Empty(t, BuildHourlyPerformance("player-1", stream, nil, cfg))
}

func TestBuildHourlyPerformance_JoinsTiltEventsByHour(t *testing.T) {
	cfg := DefaultConfig()

	hour := time.Date(2025, 6, 2, 22, 0, 0, 0, time.UTC)
	stream := streamEvery(hour, 5, minutes(5))
	tilt := []actions.TiltEvent{
		{PlayerID: "player-1", StartedAt: hour.Add(minutes(10)), DurationMinutes: 15},
		{PlayerID: "player-1", StartedAt: hour.Add(minutes(40)), DurationMinutes: 5},
		{PlayerID: "player-1", StartedAt: hour.Add(-2 * time.Hour), DurationMinutes: 20},
	}

	result := BuildHourlyPerformance("player-1", stream, tilt, cfg)

	require.Len(t, result, 1)
	assert.Equal(t, 22, result[0].HourOfDay)
	assert.Equal(t, 2, result[0].TiltEventsCount)
}

func TestBuildHourlyPerformance_OrderedByHour(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HourlyMinHands = 1

	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	stream := []actions.Action{
		callAt(day.Add(23*time.Hour), 0),
		callAt(day.Add(3*time.Hour), 0),
		callAt(day.Add(14*time.Hour), 0),
	}

	result := BuildHourlyPerformance("player-1", stream, nil, cfg)

	require.Len(t, result, 3)
	assert.Equal(t, 3, result[0].HourOfDay)
	assert.Equal(t, 14, result[1].HourOfDay)
	assert.Equal(t, 23, result[2].HourOfDay)
}

func TestBuildWeekdayPerformance_MondayConvention(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WeekdayMinHands = 1

	monday := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)
	stream := []actions.Action{
		callAt(sunday, 0),
		callAt(monday, 0),
	}

	result := BuildWeekdayPerformance("player-1", stream, nil, nil, cfg)

	require.Len(t, result, 2)
	assert.Equal(t, 0, result[0].DayOfWeek)
	assert.Equal(t, "Monday", result[0].DayName)
	assert.Equal(t, 6, result[1].DayOfWeek)
	assert.Equal(t, "Sunday", result[1].DayName)
}

func TestBuildWeekdayPerformance_ExcludesThinBuckets(t *testing.T) {
	cfg := DefaultConfig() // WeekdayMinHands = 10

	stream := streamEvery(testBase, 9, minutes(5))

	assert.Empty(t, BuildWeekdayPerformance("player-1", stream, nil, nil, cfg))
}

func TestBuildWeekdayPerformance_SessionAndTiltRollups(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WeekdayMinHands = 1

	stream := streamEvery(testBase, 3, minutes(5)) // Monday
	sessions := []Session{
		{PlayerID: "player-1", DayOfWeek: 0, Duration: 60},
		{PlayerID: "player-1", DayOfWeek: 0, Duration: 120},
		{PlayerID: "player-1", DayOfWeek: 3, Duration: 45},
	}
	tilt := []actions.TiltEvent{
		{PlayerID: "player-1", StartedAt: testBase.Add(time.Hour), DurationMinutes: 10},
		{PlayerID: "player-1", StartedAt: testBase.Add(2 * time.Hour), DurationMinutes: 30},
	}

	result := BuildWeekdayPerformance("player-1", stream, tilt, sessions, cfg)

	require.Len(t, result, 1)
	d := result[0]
	assert.Equal(t, 0, d.DayOfWeek)
	assert.Equal(t, 2, d.SessionsCount)
	assert.InDelta(t, 90.0, d.AvgSessionLengthMinutes, 1e-9)
	assert.Equal(t, 2, d.TiltEventsCount)
	assert.InDelta(t, 20.0, d.AvgTiltDurationMinutes, 1e-9)
}

func TestBuildCategoryPerformance_MeansAndOrder(t *testing.T) {
	var stream []actions.Action
	for i, c := range []string{CategoryNight, CategoryNight, CategoryMorning} {
		a := callAt(testBase.Add(time.Duration(i)*time.Minute), float64(i+1))
		a.TimeCategory = c
		stream = append(stream, a)
	}

	result := BuildCategoryPerformance(stream)

	require.Len(t, result, 2)
	// Fixed category order: morning before night
	assert.Equal(t, CategoryMorning, result[0].Category)
	assert.Equal(t, 1, result[0].HandsPlayed)
	assert.InDelta(t, 300.0, result[0].BBPer100, 1e-9) // mean 3 * 100

	assert.Equal(t, CategoryNight, result[1].Category)
	assert.Equal(t, 2, result[1].HandsPlayed)
	assert.InDelta(t, 150.0, result[1].BBPer100, 1e-9) // mean 1.5 * 100
}

func TestBuildCategoryPerformance_UnrecognizedCategoriesSortLast(t *testing.T) {
	var stream []actions.Action
	for i, c := range []string{"zzz", CategoryEvening, "aaa"} {
		a := callAt(testBase.Add(time.Duration(i)*time.Minute), 0)
		a.TimeCategory = c
		stream = append(stream, a)
	}

	result := BuildCategoryPerformance(stream)

	require.Len(t, result, 3)
	assert.Equal(t, CategoryEvening, result[0].Category)
	assert.Equal(t, "aaa", result[1].Category)
	assert.Equal(t, "zzz", result[2].Category)
}
