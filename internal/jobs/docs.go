// Package jobs provides scheduled background tasks for the route
// synchronization service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic maintenance operations.
//
// # Available Jobs
//
// 1. StaleRouteCleanupJob - Runs hourly to delete route snapshots past the
// staleness horizon, keeping the embedded route store from accumulating
// abandoned plans.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(routeStore, maxAge, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
package jobs
