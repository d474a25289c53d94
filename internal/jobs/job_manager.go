package jobs

import (
	"fmt"
	"log/slog"

	"fooddelivery/internal/core/application/usecases/queries"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	fleetReportJob   *FleetReportJob
	deliveryTallyJob *DeliveryTallyJob
}

// NewJobManager creates a job manager. The tally job is only created when
// counter is not nil (no journal configured means nothing to tally).
func NewJobManager(
	schedule string,
	getCouriersHandler queries.GetCouriersQueryHandler,
	counter DeliveryCounter,
	logger *slog.Logger,
) *JobManager {
	jm := &JobManager{
		fleetReportJob: NewFleetReportJob(getCouriersHandler, schedule, logger),
	}
	if counter != nil {
		jm.deliveryTallyJob = NewDeliveryTallyJob(counter, schedule, logger)
	}
	return jm
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.fleetReportJob.Start(); err != nil {
		return fmt.Errorf("failed to start fleet report job: %w", err)
	}

	if jm.deliveryTallyJob != nil {
		if err := jm.deliveryTallyJob.Start(); err != nil {
			// Stop already started jobs if this one fails
			jm.fleetReportJob.Stop()
			return fmt.Errorf("failed to start delivery tally job: %w", err)
		}
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	if jm.deliveryTallyJob != nil {
		jm.deliveryTallyJob.Stop()
	}
	jm.fleetReportJob.Stop()
}
