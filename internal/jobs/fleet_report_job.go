package jobs

import (
	"context"
	"log/slog"

	"fooddelivery/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// FleetReportJob periodically logs the state of every courier.
type FleetReportJob struct {
	handler  queries.GetCouriersQueryHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewFleetReportJob creates a report job running on the given six-field schedule.
func NewFleetReportJob(handler queries.GetCouriersQueryHandler, schedule string, logger *slog.Logger) *FleetReportJob {
	return &FleetReportJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "fleet_report_job"),
	}
}

// Start registers the report and starts the scheduler.
func (j *FleetReportJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Fleet report job started", "schedule", j.schedule)
	return nil
}

// Run logs one line per courier.
func (j *FleetReportJob) Run(ctx context.Context) {
	couriers, err := j.handler.Handle(ctx, queries.NewGetCouriersQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "Fleet report job failed", "error", err)
		return
	}

	for _, c := range couriers {
		j.logger.InfoContext(ctx, "courier status",
			"courier", c.Name,
			"pending", c.Pending,
			"busy", c.Busy,
			"state", c.State,
		)
	}
}

// Stop stops the scheduler and waits for a running report to finish.
func (j *FleetReportJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Fleet report job stopped")
}
