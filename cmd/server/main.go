// Command server runs the poker time-pattern analytics daemon: a cron-driven
// analysis pipeline over the poker action store plus a small HTTP API for
// health checks and operator controls.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/feltlab/timepatterns/internal/config"
	"github.com/feltlab/timepatterns/internal/database"
	"github.com/feltlab/timepatterns/internal/modules/actions"
	"github.com/feltlab/timepatterns/internal/modules/settings"
	"github.com/feltlab/timepatterns/internal/modules/temporal"
	"github.com/feltlab/timepatterns/internal/scheduler"
	"github.com/feltlab/timepatterns/internal/server"
	"github.com/feltlab/timepatterns/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().
		Str("data_dir", cfg.DataDir).
		Int("port", cfg.Port).
		Str("schedule", cfg.AnalysisSchedule).
		Msg("Starting time patterns service")

	// Databases
	pokerDB, err := database.New(database.Config{
		Path:    cfg.PokerDBPath,
		Profile: database.ProfileSource,
		Name:    "poker",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open poker database")
	}
	defer pokerDB.Close()

	analyticsDB, err := database.New(database.Config{
		Path:    cfg.AnalyticsDBPath,
		Profile: database.ProfileAnalytics,
		Name:    "analytics",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open analytics database")
	}
	defer analyticsDB.Close()

	if err := pokerDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate poker database")
	}
	if err := analyticsDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate analytics database")
	}

	// Repositories and services
	settingsRepo := settings.NewRepository(analyticsDB.Conn(), log)
	actionsRepo := actions.NewRepository(pokerDB.Conn(), log)
	temporalRepo := temporal.NewRepository(analyticsDB.Conn(), log)
	runsRepo := temporal.NewRunRepository(analyticsDB.Conn(), log)
	analysisService := temporal.NewService(actionsRepo, temporalRepo, log)

	analysisJob := scheduler.NewAnalyzeTimePatternsJob(
		actionsRepo,
		analysisService,
		runsRepo,
		func() (temporal.Config, error) { return temporal.LoadConfig(settingsRepo) },
	)
	analysisJob.SetLogger(log)

	// Scheduler
	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.AnalysisSchedule, analysisJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register analysis job")
	}
	sched.Start()

	// HTTP server
	srv := server.New(server.Config{
		Config:      cfg,
		Log:         log,
		PokerDB:     pokerDB,
		AnalyticsDB: analyticsDB,
		RunsRepo:    runsRepo,
		AnalysisJob: analysisJob,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	// Wait for shutdown signal or server failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("HTTP server failed")
		}
	}

	// Graceful shutdown: stop scheduling first, let running jobs drain,
	// then close the HTTP listener.
	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	if err := analyticsDB.WALCheckpoint("TRUNCATE"); err != nil {
		log.Warn().Err(err).Msg("Final WAL checkpoint failed")
	}

	log.Info().Msg("Service stopped")
}
