// Package jobs provides scheduled background tasks built on github.com/robfig/cron/v3.
//
// # Available Jobs
//
//  1. RealtimeHeartbeatJob pings staff sessions and closes those whose socket is dead
//  2. OrderBacklogJob counts stored orders per status and exports the counts as gauges
//  3. RateLimiterPruneJob forgets idle entries of the login rate limiter
//
// # Usage
//
//	jobManager := jobs.NewJobManager(logger)
//	jobManager.Register("realtime heartbeat", jobs.NewRealtimeHeartbeatJob(hub, "", metrics, logger))
//	jobManager.Register("order backlog", jobs.NewOrderBacklogJob(counter, metrics, "", metrics, logger))
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules use the six-field cron syntax with seconds. An empty schedule selects
// the job's default. StopAll waits for executions in flight.
package jobs
