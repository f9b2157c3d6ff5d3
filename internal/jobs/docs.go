// Package jobs provides scheduled background tasks for the dispatch service.
//
// Jobs are built on github.com/robfig/cron/v3 with second-precision
// schedules and only call application command handlers; the core never
// schedules anything itself.
//
// # Available Jobs
//
// 1. DispatchPlanningJob - daily (18:00 by default) zones tomorrow's orders and drafts one run per zone
// 2. GeocodingJob - every ten minutes by default, geocodes orders that have no coordinates
//
// # Usage
//
//	jobManager := jobs.NewJobManager(planningJob, geocodingJob)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - A date without active zones is logged and counted as skipped
// - Other failures are logged and counted in dispatch_job_runs_total
// - Failed job starts stop any already running jobs
package jobs
