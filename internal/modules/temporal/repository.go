// Package temporal implements the session-detection and temporal-aggregation
// pipeline: gap-based session segmentation, per-session behavioral metrics,
// hourly/weekday rollups, and optimal-play-time selection.
//
// This file implements the Repository, which persists the derived rows in
// analytics.db. All writes use replace semantics per player, so re-running
// the pipeline on an unchanged input snapshot reproduces the same derived
// metrics. Replaced rows get fresh created_at timestamps; only
// optimal_play_times preserves its created_at across runs.
package temporal

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/feltlab/timepatterns/internal/database"
)

// Repository handles reads and writes for the derived analytics tables
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new temporal analytics repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "temporal").Logger(),
	}
}

// ReplaceSessions replaces the player's stored sessions with the given set
// in a single transaction. An empty set performs no writes at all (a run
// with zero accepted sessions leaves no placeholder rows and touches
// nothing).
func (r *Repository) ReplaceSessions(playerID string, sessions []Session) error {
	if len(sessions) == 0 {
		return nil
	}

	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM session_analysis WHERE player_id = ?", playerID); err != nil {
			return fmt.Errorf("failed to clear sessions for player %s: %w", playerID, err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO session_analysis (
				player_id, session_start, session_end, duration_minutes, hands_played,
				net_win_bb, bb_per_hour, time_of_day_category, day_of_week, is_weekend,
				early_aggression, late_aggression, aggression_change, fatigue_score,
				session_outcome, biggest_pot_won, biggest_pot_lost
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare session insert: %w", err)
		}
		defer stmt.Close()

		for _, s := range sessions {
			_, err := stmt.Exec(
				s.PlayerID, s.Start.Unix(), s.End.Unix(), s.Duration, s.HandsPlayed,
				s.NetWinBB, s.BBPerHour, s.TimeCategory, s.DayOfWeek, boolToInt(s.IsWeekend),
				s.EarlyAggression, s.LateAggression, s.AggressionChange, s.FatigueScore,
				s.Outcome, s.BiggestPotWon, s.BiggestPotLost,
			)
			if err != nil {
				return fmt.Errorf("failed to insert session: %w", err)
			}
		}

		return nil
	})
}

// ReplaceHourly replaces the player's hourly buckets atomically.
// An empty set performs no writes.
func (r *Repository) ReplaceHourly(playerID string, rows []HourlyPerformance) error {
	if len(rows) == 0 {
		return nil
	}

	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM hourly_performance WHERE player_id = ?", playerID); err != nil {
			return fmt.Errorf("failed to clear hourly buckets for player %s: %w", playerID, err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO hourly_performance (
				player_id, hour_of_day, hands_played, net_win_bb, bb_per_100_hands,
				avg_net_win_bb, aggression_factor, avg_bet_size_percentage,
				overbet_frequency, variance_bb, biggest_win_bb, biggest_loss_bb,
				tilt_events_count
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare hourly insert: %w", err)
		}
		defer stmt.Close()

		for _, h := range rows {
			_, err := stmt.Exec(
				h.PlayerID, h.HourOfDay, h.HandsPlayed, h.NetWinBB, h.BBPer100Hands,
				h.AvgNetWinBB, h.AggressionFactor, h.AvgBetSizePercentage,
				h.OverbetFrequency, h.VarianceBB, h.BiggestWinBB, h.BiggestLossBB,
				h.TiltEventsCount,
			)
			if err != nil {
				return fmt.Errorf("failed to insert hourly bucket: %w", err)
			}
		}

		return nil
	})
}

// ReplaceWeekday replaces the player's weekday buckets atomically.
// An empty set performs no writes.
func (r *Repository) ReplaceWeekday(playerID string, rows []WeekdayPerformance) error {
	if len(rows) == 0 {
		return nil
	}

	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM weekday_performance WHERE player_id = ?", playerID); err != nil {
			return fmt.Errorf("failed to clear weekday buckets for player %s: %w", playerID, err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO weekday_performance (
				player_id, day_of_week, day_name, hands_played, sessions_count,
				avg_session_length_minutes, net_win_bb, bb_per_100_hands,
				aggression_factor, variance_bb, tilt_events_count,
				avg_tilt_duration_minutes
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare weekday insert: %w", err)
		}
		defer stmt.Close()

		for _, d := range rows {
			_, err := stmt.Exec(
				d.PlayerID, d.DayOfWeek, d.DayName, d.HandsPlayed, d.SessionsCount,
				d.AvgSessionLengthMinutes, d.NetWinBB, d.BBPer100Hands,
				d.AggressionFactor, d.VarianceBB, d.TiltEventsCount,
				d.AvgTiltDurationMinutes,
			)
			if err != nil {
				return fmt.Errorf("failed to insert weekday bucket: %w", err)
			}
		}

		return nil
	})
}

// UpsertOptimalTimes stores the player's recommendation row using
// INSERT OR REPLACE semantics (one row per player).
func (r *Repository) UpsertOptimalTimes(opt OptimalPlayTimes) error {
	avoidJSON, err := json.Marshal(opt.AvoidHours)
	if err != nil {
		return fmt.Errorf("failed to marshal avoid hours: %w", err)
	}

	now := time.Now().Unix()
	query := `
		INSERT OR REPLACE INTO optimal_play_times (
			player_id, best_hour_of_day, best_day_of_week, best_time_category,
			optimal_bb_per_100, optimal_variance,
			worst_hour_of_day, worst_day_of_week, worst_time_category,
			worst_bb_per_100, worst_variance,
			recommended_session_length_minutes, avoid_hours, optimal_volume_per_day,
			data_confidence, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			COALESCE((SELECT created_at FROM optimal_play_times WHERE player_id = ?), ?), ?)
	`

	_, err = r.db.Exec(query,
		opt.PlayerID, nullIntPtr(opt.BestHourOfDay), nullIntPtr(opt.BestDayOfWeek), nullStringPtr(opt.BestTimeCategory),
		opt.OptimalBBPer100, opt.OptimalVariance,
		nullIntPtr(opt.WorstHourOfDay), nullIntPtr(opt.WorstDayOfWeek), nullStringPtr(opt.WorstTimeCategory),
		opt.WorstBBPer100, opt.WorstVariance,
		opt.RecommendedSessionLengthMinutes, string(avoidJSON), opt.OptimalVolumePerDay,
		opt.DataConfidence, opt.PlayerID, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert optimal play times: %w", err)
	}

	return nil
}

// GetSessionsByPlayer retrieves the player's stored sessions ordered by start time
func (r *Repository) GetSessionsByPlayer(playerID string) ([]Session, error) {
	query := `
		SELECT player_id, session_start, session_end, duration_minutes, hands_played,
		       net_win_bb, bb_per_hour, time_of_day_category, day_of_week, is_weekend,
		       early_aggression, late_aggression, aggression_change, fatigue_score,
		       session_outcome, biggest_pot_won, biggest_pot_lost
		FROM session_analysis
		WHERE player_id = ?
		ORDER BY session_start
	`

	rows, err := r.db.Query(query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions for player %s: %w", playerID, err)
	}
	defer rows.Close()

	var result []Session
	for rows.Next() {
		var s Session
		var start, end int64
		var isWeekend int
		if err := rows.Scan(
			&s.PlayerID, &start, &end, &s.Duration, &s.HandsPlayed,
			&s.NetWinBB, &s.BBPerHour, &s.TimeCategory, &s.DayOfWeek, &isWeekend,
			&s.EarlyAggression, &s.LateAggression, &s.AggressionChange, &s.FatigueScore,
			&s.Outcome, &s.BiggestPotWon, &s.BiggestPotLost,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.Start = time.Unix(start, 0).UTC()
		s.End = time.Unix(end, 0).UTC()
		s.IsWeekend = isWeekend == 1
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return result, nil
}

// GetHourlyByPlayer retrieves the player's stored hourly buckets ordered by hour
func (r *Repository) GetHourlyByPlayer(playerID string) ([]HourlyPerformance, error) {
	query := `
		SELECT player_id, hour_of_day, hands_played, net_win_bb, bb_per_100_hands,
		       avg_net_win_bb, aggression_factor, avg_bet_size_percentage,
		       overbet_frequency, variance_bb, biggest_win_bb, biggest_loss_bb,
		       tilt_events_count
		FROM hourly_performance
		WHERE player_id = ?
		ORDER BY hour_of_day
	`

	rows, err := r.db.Query(query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get hourly buckets for player %s: %w", playerID, err)
	}
	defer rows.Close()

	var result []HourlyPerformance
	for rows.Next() {
		var h HourlyPerformance
		if err := rows.Scan(
			&h.PlayerID, &h.HourOfDay, &h.HandsPlayed, &h.NetWinBB, &h.BBPer100Hands,
			&h.AvgNetWinBB, &h.AggressionFactor, &h.AvgBetSizePercentage,
			&h.OverbetFrequency, &h.VarianceBB, &h.BiggestWinBB, &h.BiggestLossBB,
			&h.TiltEventsCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan hourly bucket: %w", err)
		}
		result = append(result, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate hourly buckets: %w", err)
	}

	return result, nil
}

// GetWeekdayByPlayer retrieves the player's stored weekday buckets ordered by weekday
func (r *Repository) GetWeekdayByPlayer(playerID string) ([]WeekdayPerformance, error) {
	query := `
		SELECT player_id, day_of_week, day_name, hands_played, sessions_count,
		       avg_session_length_minutes, net_win_bb, bb_per_100_hands,
		       aggression_factor, variance_bb, tilt_events_count,
		       avg_tilt_duration_minutes
		FROM weekday_performance
		WHERE player_id = ?
		ORDER BY day_of_week
	`

	rows, err := r.db.Query(query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get weekday buckets for player %s: %w", playerID, err)
	}
	defer rows.Close()

	var result []WeekdayPerformance
	for rows.Next() {
		var d WeekdayPerformance
		if err := rows.Scan(
			&d.PlayerID, &d.DayOfWeek, &d.DayName, &d.HandsPlayed, &d.SessionsCount,
			&d.AvgSessionLengthMinutes, &d.NetWinBB, &d.BBPer100Hands,
			&d.AggressionFactor, &d.VarianceBB, &d.TiltEventsCount,
			&d.AvgTiltDurationMinutes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan weekday bucket: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate weekday buckets: %w", err)
	}

	return result, nil
}

// GetOptimalTimes retrieves the player's recommendation row.
// Returns nil when no row exists (player never analyzed).
func (r *Repository) GetOptimalTimes(playerID string) (*OptimalPlayTimes, error) {
	query := `
		SELECT player_id, best_hour_of_day, best_day_of_week, best_time_category,
		       optimal_bb_per_100, optimal_variance,
		       worst_hour_of_day, worst_day_of_week, worst_time_category,
		       worst_bb_per_100, worst_variance,
		       recommended_session_length_minutes, avoid_hours, optimal_volume_per_day,
		       data_confidence
		FROM optimal_play_times
		WHERE player_id = ?
	`

	var opt OptimalPlayTimes
	var bestHour, bestDay, worstHour, worstDay sql.NullInt64
	var bestCategory, worstCategory sql.NullString
	var avoidJSON string

	err := r.db.QueryRow(query, playerID).Scan(
		&opt.PlayerID, &bestHour, &bestDay, &bestCategory,
		&opt.OptimalBBPer100, &opt.OptimalVariance,
		&worstHour, &worstDay, &worstCategory,
		&opt.WorstBBPer100, &opt.WorstVariance,
		&opt.RecommendedSessionLengthMinutes, &avoidJSON, &opt.OptimalVolumePerDay,
		&opt.DataConfidence,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get optimal play times for player %s: %w", playerID, err)
	}

	opt.BestHourOfDay = intPtrFromNull(bestHour)
	opt.BestDayOfWeek = intPtrFromNull(bestDay)
	opt.WorstHourOfDay = intPtrFromNull(worstHour)
	opt.WorstDayOfWeek = intPtrFromNull(worstDay)
	opt.BestTimeCategory = stringPtrFromNull(bestCategory)
	opt.WorstTimeCategory = stringPtrFromNull(worstCategory)

	opt.AvoidHours = []int{}
	if err := json.Unmarshal([]byte(avoidJSON), &opt.AvoidHours); err != nil {
		return nil, fmt.Errorf("failed to unmarshal avoid hours for player %s: %w", playerID, err)
	}

	return &opt, nil
}

// Helper functions

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIntPtr(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func intPtrFromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	i := int(n.Int64)
	return &i
}

func stringPtrFromNull(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	s := n.String
	return &s
}
