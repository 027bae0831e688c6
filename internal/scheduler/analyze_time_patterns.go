package scheduler

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/feltlab/timepatterns/internal/modules/temporal"
)

// HandSource scopes a run to the players with enough new activity
type HandSource interface {
	HandIDsSince(sinceUnix int64) ([]string, error)
	ActivePlayers(handIDs []string, minActions int) ([]string, error)
}

// PlayerAnalyzer runs the temporal pipeline for one player
type PlayerAnalyzer interface {
	AnalyzePlayer(playerID string, cfg temporal.Config) (temporal.AnalysisStatus, error)
}

// RunRecorder persists run summaries and remembers where the previous
// new-hand batch ended
type RunRecorder interface {
	Record(summary temporal.RunSummary) error
	LastStartedAt() (int64, error)
}

// ConfigLoader materializes the immutable analysis configuration for a run
type ConfigLoader func() (temporal.Config, error)

// PlayerResult is the outcome of one player's analysis attempt within a run
type PlayerResult struct {
	PlayerID string
	Status   temporal.AnalysisStatus
	Err      error
	Elapsed  time.Duration
}

// AnalyzeTimePatternsJob is the batch driver: it scopes the run to players
// with sufficient new activity, analyzes each player in isolation, and
// records an aggregate run summary. A failure on one player never aborts
// the remaining players.
type AnalyzeTimePatternsJob struct {
	log        zerolog.Logger
	hands      HandSource
	analyzer   PlayerAnalyzer
	runs       RunRecorder
	loadConfig ConfigLoader
}

// NewAnalyzeTimePatternsJob creates the analysis job
func NewAnalyzeTimePatternsJob(hands HandSource, analyzer PlayerAnalyzer, runs RunRecorder, loadConfig ConfigLoader) *AnalyzeTimePatternsJob {
	return &AnalyzeTimePatternsJob{
		log:        zerolog.Nop(),
		hands:      hands,
		analyzer:   analyzer,
		runs:       runs,
		loadConfig: loadConfig,
	}
}

// SetLogger sets the logger for the job
func (j *AnalyzeTimePatternsJob) SetLogger(log zerolog.Logger) {
	j.log = log.With().Str("job", j.Name()).Logger()
}

// Name returns the job name
func (j *AnalyzeTimePatternsJob) Name() string {
	return "analyze_time_patterns"
}

// Run executes one full analysis pass
func (j *AnalyzeTimePatternsJob) Run() error {
	cfg, err := j.loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load analysis config: %w", err)
	}

	lastStart, err := j.runs.LastStartedAt()
	if err != nil {
		return fmt.Errorf("failed to determine previous run: %w", err)
	}

	startedAt := time.Now().UTC()

	handIDs, err := j.hands.HandIDsSince(lastStart)
	if err != nil {
		return fmt.Errorf("failed to scope new hands: %w", err)
	}
	if len(handIDs) == 0 {
		j.log.Info().Msg("No new hands to process")
		return nil
	}

	players, err := j.hands.ActivePlayers(handIDs, cfg.MinActionsPerPlayer)
	if err != nil {
		return fmt.Errorf("failed to find active players: %w", err)
	}

	j.log.Info().
		Int("new_hands", len(handIDs)).
		Int("players", len(players)).
		Int("min_actions", cfg.MinActionsPerPlayer).
		Msg("Starting temporal analysis pass")

	results := make([]PlayerResult, 0, len(players))
	for _, playerID := range players {
		results = append(results, j.analyzePlayer(playerID, cfg))
	}

	summary := j.summarize(startedAt, len(handIDs), results)
	if err := j.runs.Record(summary); err != nil {
		return fmt.Errorf("failed to record run summary: %w", err)
	}

	j.log.Info().
		Str("run_id", summary.ID).
		Int("analyzed", summary.PlayersAnalyzed).
		Int("skipped", summary.PlayersSkipped).
		Int("failed", summary.PlayersFailed).
		Dur("elapsed", summary.FinishedAt.Sub(summary.StartedAt)).
		Msg("Temporal analysis pass complete")

	return nil
}

// analyzePlayer wraps one player's analysis with timing and failure isolation
func (j *AnalyzeTimePatternsJob) analyzePlayer(playerID string, cfg temporal.Config) PlayerResult {
	start := time.Now()
	status, err := j.analyzer.AnalyzePlayer(playerID, cfg)
	elapsed := time.Since(start)

	if err != nil {
		j.log.Warn().
			Err(err).
			Str("player_id", playerID).
			Msg("Player analysis failed, continuing with next player")
		return PlayerResult{PlayerID: playerID, Err: err, Elapsed: elapsed}
	}

	if cfg.PerformanceAlerts && elapsed > cfg.SlowPlayerWarning {
		j.log.Warn().
			Str("player_id", playerID).
			Dur("elapsed", elapsed).
			Msg("Player analysis was slow")
	}

	return PlayerResult{PlayerID: playerID, Status: status, Elapsed: elapsed}
}

func (j *AnalyzeTimePatternsJob) summarize(startedAt time.Time, handsSeen int, results []PlayerResult) temporal.RunSummary {
	summary := temporal.RunSummary{
		ID:           uuid.NewString(),
		StartedAt:    startedAt,
		FinishedAt:   time.Now().UTC(),
		HandsSeen:    handsSeen,
		PlayersTotal: len(results),
	}

	for _, res := range results {
		switch {
		case res.Err != nil:
			summary.PlayersFailed++
		case res.Status == temporal.StatusSkipped:
			summary.PlayersSkipped++
		default:
			summary.PlayersAnalyzed++
		}
	}

	return summary
}
