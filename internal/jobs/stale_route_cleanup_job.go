package jobs

import (
	"context"
	"log/slog"
	"time"

	"routesync/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// StaleRouteCleanupJob periodically removes route snapshots older than the
// staleness horizon. Stale snapshots are already invisible to reads, so the
// job is purely about reclaiming space in the route store.
type StaleRouteCleanupJob struct {
	routeStore ports.RouteStore
	maxAge     time.Duration
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewStaleRouteCleanupJob creates a new cleanup job for the route store.
func NewStaleRouteCleanupJob(routeStore ports.RouteStore, maxAge time.Duration, logger *slog.Logger) *StaleRouteCleanupJob {
	return &StaleRouteCleanupJob{
		routeStore: routeStore,
		maxAge:     maxAge,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "stale_route_cleanup_job"),
	}
}

// Start schedules the cleanup to run at the top of every hour and performs
// one immediate sweep so restarts don't wait an hour to reclaim space.
func (j *StaleRouteCleanupJob) Start() error {
	_, err := j.cron.AddFunc("0 0 * * * *", j.run)
	if err != nil {
		return err
	}

	j.run()
	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale route cleanup job started (running hourly)")
	return nil
}

// Stop stops the cleanup job.
func (j *StaleRouteCleanupJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale route cleanup job stopped")
}

func (j *StaleRouteCleanupJob) run() {
	ctx := context.Background()

	removed, err := j.routeStore.CleanupStale(ctx, j.maxAge)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stale route cleanup failed", "error", err)
		return
	}

	if removed > 0 {
		j.logger.InfoContext(ctx, "Removed stale route snapshots", "count", removed)
	}
}
