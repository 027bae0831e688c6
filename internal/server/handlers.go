package server

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/feltlab/timepatterns/internal/database"
)

// writeJSON writes a JSON response with the given status code
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes a JSON error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// handleHealth reports database and process health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.startupTime).Round(time.Second).String(),
	}

	databases := map[string]string{}
	healthy := true
	for name, db := range map[string]*database.DB{
		"poker":     s.pokerDB,
		"analytics": s.analyticsDB,
	} {
		if err := db.QuickCheck(r.Context()); err != nil {
			databases[name] = "unhealthy: " + err.Error()
			healthy = false
		} else {
			databases[name] = "healthy"
		}
	}
	health["databases"] = databases

	if vm, err := mem.VirtualMemory(); err == nil {
		health["system_memory_percent"] = vm.UsedPercent
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if memInfo, err := proc.MemoryInfo(); err == nil {
			health["process_memory_mb"] = float64(memInfo.RSS) / 1024 / 1024
		}
	}

	if !healthy {
		health["status"] = "unhealthy"
		s.writeJSON(w, http.StatusServiceUnavailable, health)
		return
	}

	s.writeJSON(w, http.StatusOK, health)
}

// handleTriggerAnalysis runs the analysis job immediately in the background
func (s *Server) handleTriggerAnalysis(w http.ResponseWriter, r *http.Request) {
	go func() {
		if err := s.analysisJob.Run(); err != nil {
			s.log.Error().Err(err).Msg("Triggered analysis run failed")
		}
	}()

	s.writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "started",
		"job":    s.analysisJob.Name(),
	})
}

// handleRecentRuns returns recent analysis run summaries, newest first
func (s *Server) handleRecentRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 200 {
			s.writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and 200")
			return
		}
		limit = parsed
	}

	runs, err := s.runsRepo.Recent(limit)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load recent runs")
		s.writeError(w, http.StatusInternalServerError, "failed to load recent runs")
		return
	}

	type runView struct {
		ID              string `json:"id"`
		StartedAt       string `json:"started_at"`
		FinishedAt      string `json:"finished_at"`
		HandsSeen       int    `json:"hands_seen"`
		PlayersTotal    int    `json:"players_total"`
		PlayersAnalyzed int    `json:"players_analyzed"`
		PlayersSkipped  int    `json:"players_skipped"`
		PlayersFailed   int    `json:"players_failed"`
	}

	views := make([]runView, 0, len(runs))
	for _, run := range runs {
		views = append(views, runView{
			ID:              run.ID,
			StartedAt:       run.StartedAt.Format(time.RFC3339),
			FinishedAt:      run.FinishedAt.Format(time.RFC3339),
			HandsSeen:       run.HandsSeen,
			PlayersTotal:    run.PlayersTotal,
			PlayersAnalyzed: run.PlayersAnalyzed,
			PlayersSkipped:  run.PlayersSkipped,
			PlayersFailed:   run.PlayersFailed,
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  views,
		"count": len(views),
	})
}
