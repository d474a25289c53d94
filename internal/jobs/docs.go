// Package jobs provides scheduled background tasks for the delivery simulation.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to report on the fleet while couriers drain their backlogs.
//
// # Available Jobs
//
// 1. FleetReportJob - Logs pending orders, busy flag and state of every courier
// 2. DeliveryTallyJob - Logs how many deliveries each courier has recorded in the journal
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager("*/5 * * * * *", getCouriersHandler, journal, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules use the six-field cron syntax with a leading seconds field.
//
// # Error Handling
//
// - A failed tick is logged and the next tick runs as scheduled
// - Failed job starts will stop any already running jobs
package jobs
