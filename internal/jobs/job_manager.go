package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"routesync/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	staleRouteCleanupJob *StaleRouteCleanupJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(routeStore ports.RouteStore, routeMaxAge time.Duration, logger *slog.Logger) *JobManager {
	return &JobManager{
		staleRouteCleanupJob: NewStaleRouteCleanupJob(routeStore, routeMaxAge, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.staleRouteCleanupJob.Start(); err != nil {
		return fmt.Errorf("failed to start stale route cleanup job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs.
func (jm *JobManager) StopAll() {
	jm.staleRouteCleanupJob.Stop()
}
