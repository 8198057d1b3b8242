package worker

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"firewatch/internal/database"
	"firewatch/internal/metrics"
)

// Worker runs the scheduled maintenance jobs. Currently one job: the
// midnight daily-stats rollover.
type Worker struct {
	db     *database.DB
	logger *slog.Logger
	cron   *cron.Cron
}

// NewWorker creates a new maintenance worker
func NewWorker(db *database.DB) *Worker {
	return &Worker{
		db:     db,
		logger: slog.Default(),
		cron:   cron.New(),
	}
}

// Start schedules the maintenance jobs and blocks until the context is
// cancelled
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting maintenance worker")
	metrics.WorkerActive.Set(1)
	defer metrics.WorkerActive.Set(0)

	// Daily stats rollover at midnight
	if _, err := w.cron.AddFunc("0 0 * * *", w.runStatsRollover); err != nil {
		return err
	}

	w.cron.Start()
	<-ctx.Done()

	w.logger.Info("Stopping maintenance worker")
	stopCtx := w.cron.Stop()
	<-stopCtx.Done()

	return ctx.Err()
}

// runStatsRollover is the scheduled wrapper around RunStatsRollover
func (w *Worker) runStatsRollover() {
	if err := w.RunStatsRollover(); err != nil {
		w.logger.Error("Stats rollover failed", "error", err)
	}
}

// RunStatsRollover starts a fresh stats row for the current date. Also
// invoked directly by the -reset-stats flag and the CLI.
func (w *Worker) RunStatsRollover() error {
	err := w.db.RolloverStats()
	if err != nil {
		metrics.WorkerJobRunsTotal.WithLabelValues(metrics.JobStatsRollover, metrics.ResultFailure).Inc()
		return err
	}

	metrics.WorkerJobRunsTotal.WithLabelValues(metrics.JobStatsRollover, metrics.ResultSuccess).Inc()
	w.logger.Info("Daily stats rolled over")
	return nil
}
