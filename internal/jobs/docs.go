// Package jobs provides scheduled background tasks for the fulfillment system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the fulfillment service.
//
// # Available Jobs
//
// 1. OutboxDispatchJob - Runs every second to drain pending outbox tasks
// (emails, portal notifications, internal alerts, Shopify sync, pick lists,
// box assignment, usage recording)
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(dispatchOutboxHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The dispatch job uses the cron expression "* * * * * *" which means it
// runs every second. This frequency keeps the lag between a committed
// business change and its side effects small without letting dispatch run
// inside the business transaction.
//
// # Error Handling
//
// A failing collaborator call affects only its own task: the task retries
// on later passes and parks as failed after exhausting its attempts. The
// job itself only logs an error when the outbox storage cannot be read or
// written.
package jobs
