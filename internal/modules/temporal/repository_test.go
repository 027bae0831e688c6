package temporal

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(playerID string, start time.Time) Session {
	return Session{
		PlayerID:     playerID,
		Start:        start,
		End:          start.Add(90 * time.Minute),
		Duration:     90,
		HandsPlayed:  42,
		NetWinBB:     17.5,
		BBPerHour:    11.67,
		TimeCategory: CategoryEvening,
		DayOfWeek:    0,
		IsWeekend:    false,

		EarlyAggression:  40,
		LateAggression:   55,
		AggressionChange: 15,
		FatigueScore:     36,

		Outcome:        OutcomeWinning,
		BiggestPotWon:  60,
		BiggestPotLost: -22,
	}
}

func TestReplaceSessions_RoundTrip(t *testing.T) {
	db := newAnalyticsTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())

	want := testSession("player-1", testBase)
	require.NoError(t, repo.ReplaceSessions("player-1", []Session{want}))

	got, err := repo.GetSessionsByPlayer("player-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, want, got[0])
}

func TestReplaceSessions_ReplacesPreviousRows(t *testing.T) {
	db := newAnalyticsTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())

	require.NoError(t, repo.ReplaceSessions("player-1", []Session{
		testSession("player-1", testBase),
		testSession("player-1", testBase.Add(4*time.Hour)),
	}))

	replacement := testSession("player-1", testBase.Add(24*time.Hour))
	require.NoError(t, repo.ReplaceSessions("player-1", []Session{replacement}))

	got, err := repo.GetSessionsByPlayer("player-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, replacement.Start, got[0].Start)
}

func TestReplaceSessions_EmptySetLeavesExistingRows(t *testing.T) {
	db := newAnalyticsTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())

	require.NoError(t, repo.ReplaceSessions("player-1", []Session{testSession("player-1", testBase)}))
	require.NoError(t, repo.ReplaceSessions("player-1", nil))

	got, err := repo.GetSessionsByPlayer("player-1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestReplaceSessions_ScopedToPlayer(t *testing.T) {
	db := newAnalyticsTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())

	require.NoError(t, repo.ReplaceSessions("player-1", []Session{testSession("player-1", testBase)}))
	require.NoError(t, repo.ReplaceSessions("player-2", []Session{testSession("player-2", testBase)}))

	// Replacing player-2 must not touch player-1
	require.NoError(t, repo.ReplaceSessions("player-2", []Session{testSession("player-2", testBase.Add(time.Hour))}))

	got, err := repo.GetSessionsByPlayer("player-1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestReplaceHourly_RoundTrip(t *testing.T) {
	db := newAnalyticsTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())

	want := []HourlyPerformance{
		{
			PlayerID: "player-1", HourOfDay: 3, HandsPlayed: 25,
			NetWinBB: 12, BBPer100Hands: 48, AvgNetWinBB: 0.3,
			AggressionFactor: 35, AvgBetSizePercentage: 62, OverbetFrequency: 10,
			VarianceBB: 4.5, BiggestWinBB: 30, BiggestLossBB: -18, TiltEventsCount: 1,
		},
		{
			PlayerID: "player-1", HourOfDay: 22, HandsPlayed: 40,
			NetWinBB: -8, BBPer100Hands: -20, AvgNetWinBB: -0.1,
			AggressionFactor: 50, AvgBetSizePercentage: 75, OverbetFrequency: 25,
			VarianceBB: 9.1, BiggestWinBB: 12, BiggestLossBB: -40, TiltEventsCount: 3,
		},
	}

	require.NoError(t, repo.ReplaceHourly("player-1", want))

	got, err := repo.GetHourlyByPlayer("player-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReplaceWeekday_RoundTrip(t *testing.T) {
	db := newAnalyticsTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())

	want := []WeekdayPerformance{
		{
			PlayerID: "player-1", DayOfWeek: 0, DayName: "Monday",
			HandsPlayed: 120, SessionsCount: 4, AvgSessionLengthMinutes: 85,
			NetWinBB: 22, BBPer100Hands: 18.3, AggressionFactor: 42,
			VarianceBB: 6.6, TiltEventsCount: 2, AvgTiltDurationMinutes: 12.5,
		},
		{
			PlayerID: "player-1", DayOfWeek: 6, DayName: "Sunday",
			HandsPlayed: 55, SessionsCount: 2, AvgSessionLengthMinutes: 140,
			NetWinBB: -11, BBPer100Hands: -20, AggressionFactor: 61,
			VarianceBB: 14.2, TiltEventsCount: 5, AvgTiltDurationMinutes: 22,
		},
	}

	require.NoError(t, repo.ReplaceWeekday("player-1", want))

	got, err := repo.GetWeekdayByPlayer("player-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUpsertOptimalTimes_RoundTripWithNilDimensions(t *testing.T) {
	db := newAnalyticsTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())

	want := OptimalPlayTimes{
		PlayerID:                        "player-1",
		RecommendedSessionLengthMinutes: 120,
		AvoidHours:                      []int{},
		OptimalVolumePerDay:             40,
		DataConfidence:                  40,
	}

	require.NoError(t, repo.UpsertOptimalTimes(want))

	got, err := repo.GetOptimalTimes("player-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestUpsertOptimalTimes_SecondWriteReplacesRow(t *testing.T) {
	db := newAnalyticsTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())

	bestHour, worstHour := 22, 14
	category := CategoryEvening
	first := OptimalPlayTimes{
		PlayerID:            "player-1",
		BestHourOfDay:       &bestHour,
		OptimalBBPer100:     15,
		AvoidHours:          []int{3, 4},
		OptimalVolumePerDay: 100,
		DataConfidence:      60,
	}
	require.NoError(t, repo.UpsertOptimalTimes(first))

	second := first
	second.WorstHourOfDay = &worstHour
	second.BestTimeCategory = &category
	second.AvoidHours = []int{23}
	second.DataConfidence = 80
	require.NoError(t, repo.UpsertOptimalTimes(second))

	got, err := repo.GetOptimalTimes("player-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 22, *got.BestHourOfDay)
	assert.Equal(t, 14, *got.WorstHourOfDay)
	assert.Equal(t, CategoryEvening, *got.BestTimeCategory)
	assert.Equal(t, []int{23}, got.AvoidHours)
	assert.InDelta(t, 80.0, got.DataConfidence, 1e-9)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM optimal_play_times WHERE player_id = ?", "player-1").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestGetOptimalTimes_MissingPlayerReturnsNil(t *testing.T) {
	db := newAnalyticsTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())

	got, err := repo.GetOptimalTimes("nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}
