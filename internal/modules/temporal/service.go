package temporal

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/feltlab/timepatterns/internal/modules/actions"
)

// AnalysisStatus classifies the outcome of one player's analysis
type AnalysisStatus string

const (
	// StatusAnalyzed - the full pipeline ran and results were persisted
	StatusAnalyzed AnalysisStatus = "analyzed"
	// StatusSkipped - not enough data to analyze; nothing was written
	StatusSkipped AnalysisStatus = "skipped"
)

// ActionStore is the read-only input collaborator supplying the per-player
// ordered action stream and tilt-event side signal.
type ActionStore interface {
	GetByPlayer(playerID string) ([]actions.Action, error)
	TiltEventsByPlayer(playerID string) ([]actions.TiltEvent, error)
	CountHands(playerID string) (int, error)
}

// Service orchestrates the full temporal analysis for one player:
// segmentation, session analysis, periodic aggregation, persistence, and
// optimal-time selection. All work for one player is strictly sequential
// because the optimal-time selection reads back the aggregates the earlier
// stages wrote.
type Service struct {
	store ActionStore
	repo  *Repository
	log   zerolog.Logger
}

// NewService creates a new temporal analysis service
func NewService(store ActionStore, repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		repo:  repo,
		log:   log.With().Str("service", "temporal").Logger(),
	}
}

// AnalyzePlayer runs the complete pipeline for one player with the given
// immutable configuration. Insufficient data is not an error: the player is
// reported as skipped and nothing is written.
func (s *Service) AnalyzePlayer(playerID string, cfg Config) (AnalysisStatus, error) {
	stream, err := s.store.GetByPlayer(playerID)
	if err != nil {
		return "", fmt.Errorf("failed to load action stream: %w", err)
	}

	if len(stream) < cfg.MinActionsPerPlayer {
		s.log.Debug().
			Str("player_id", playerID).
			Int("actions", len(stream)).
			Msg("Not enough actions, skipping player")
		return StatusSkipped, nil
	}

	tilt, err := s.store.TiltEventsByPlayer(playerID)
	if err != nil {
		return "", fmt.Errorf("failed to load tilt events: %w", err)
	}

	// Session detection: segment the stream, analyze surviving windows
	var sessions []Session
	for _, window := range SegmentSessions(stream, cfg) {
		if session, ok := AnalyzeSession(playerID, window, cfg); ok {
			sessions = append(sessions, session)
		}
	}
	if err := s.repo.ReplaceSessions(playerID, sessions); err != nil {
		return "", fmt.Errorf("failed to persist sessions: %w", err)
	}

	// Periodic rollups, session-independent
	hourly := BuildHourlyPerformance(playerID, stream, tilt, cfg)
	if err := s.repo.ReplaceHourly(playerID, hourly); err != nil {
		return "", fmt.Errorf("failed to persist hourly buckets: %w", err)
	}

	weekday := BuildWeekdayPerformance(playerID, stream, tilt, sessions, cfg)
	if err := s.repo.ReplaceWeekday(playerID, weekday); err != nil {
		return "", fmt.Errorf("failed to persist weekday buckets: %w", err)
	}

	// Optimal-time selection reads the stored aggregates back rather than
	// reusing the in-memory slices, keeping the write-then-read ordering
	// the pipeline is specified around.
	storedHourly, err := s.repo.GetHourlyByPlayer(playerID)
	if err != nil {
		return "", fmt.Errorf("failed to read hourly buckets back: %w", err)
	}
	storedWeekday, err := s.repo.GetWeekdayByPlayer(playerID)
	if err != nil {
		return "", fmt.Errorf("failed to read weekday buckets back: %w", err)
	}
	storedSessions, err := s.repo.GetSessionsByPlayer(playerID)
	if err != nil {
		return "", fmt.Errorf("failed to read sessions back: %w", err)
	}

	totalHands, err := s.store.CountHands(playerID)
	if err != nil {
		return "", fmt.Errorf("failed to count lifetime hands: %w", err)
	}

	categories := BuildCategoryPerformance(stream)

	opt := SelectOptimalTimes(playerID, storedHourly, storedWeekday, categories, storedSessions, totalHands, cfg)
	if err := s.repo.UpsertOptimalTimes(opt); err != nil {
		return "", fmt.Errorf("failed to persist optimal play times: %w", err)
	}

	s.log.Debug().
		Str("player_id", playerID).
		Int("sessions", len(sessions)).
		Int("hourly_buckets", len(hourly)).
		Int("weekday_buckets", len(weekday)).
		Float64("confidence", opt.DataConfidence).
		Msg("Player analysis complete")

	return StatusAnalyzed, nil
}
