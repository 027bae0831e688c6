package temporal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// RunSummary aggregates the per-player results of one analysis pass.
// Persisted so operators can see what recent runs did and so the next run
// knows where the previous new-hand batch ended.
type RunSummary struct {
	ID              string
	StartedAt       time.Time
	FinishedAt      time.Time
	HandsSeen       int
	PlayersTotal    int
	PlayersAnalyzed int
	PlayersSkipped  int
	PlayersFailed   int
}

// RunRepository persists analysis run summaries
type RunRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRunRepository creates a new run summary repository
func NewRunRepository(db *sql.DB, log zerolog.Logger) *RunRepository {
	return &RunRepository{
		db:  db,
		log: log.With().Str("repository", "analysis_runs").Logger(),
	}
}

// Record stores a completed run summary
func (r *RunRepository) Record(summary RunSummary) error {
	query := `
		INSERT INTO analysis_runs (
			id, started_at, finished_at, hands_seen,
			players_total, players_analyzed, players_skipped, players_failed
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		summary.ID, summary.StartedAt.Unix(), summary.FinishedAt.Unix(), summary.HandsSeen,
		summary.PlayersTotal, summary.PlayersAnalyzed, summary.PlayersSkipped, summary.PlayersFailed,
	)
	if err != nil {
		return fmt.Errorf("failed to record analysis run: %w", err)
	}

	return nil
}

// LastStartedAt returns the start time of the most recent completed run,
// or zero when no run has completed yet (first run scopes every hand).
func (r *RunRepository) LastStartedAt() (int64, error) {
	var startedAt int64
	err := r.db.QueryRow(
		"SELECT started_at FROM analysis_runs WHERE finished_at IS NOT NULL ORDER BY started_at DESC LIMIT 1",
	).Scan(&startedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get last run start: %w", err)
	}
	return startedAt, nil
}

// Recent returns the most recent run summaries, newest first
func (r *RunRepository) Recent(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(`
		SELECT id, started_at, finished_at, hands_seen,
		       players_total, players_analyzed, players_skipped, players_failed
		FROM analysis_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent runs: %w", err)
	}
	defer rows.Close()

	var result []RunSummary
	for rows.Next() {
		var s RunSummary
		var startedAt, finishedAt int64
		if err := rows.Scan(&s.ID, &startedAt, &finishedAt, &s.HandsSeen,
			&s.PlayersTotal, &s.PlayersAnalyzed, &s.PlayersSkipped, &s.PlayersFailed); err != nil {
			return nil, fmt.Errorf("failed to scan run summary: %w", err)
		}
		s.StartedAt = time.Unix(startedAt, 0).UTC()
		s.FinishedAt = time.Unix(finishedAt, 0).UTC()
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate run summaries: %w", err)
	}

	return result, nil
}
