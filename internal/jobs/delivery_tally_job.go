package jobs

import (
	"context"
	"log/slog"
	"sort"

	"github.com/robfig/cron/v3"
)

// DeliveryCounter reports per-courier delivery totals.
// Both journal adapters implement it.
type DeliveryCounter interface {
	CountByCourier(ctx context.Context) (map[string]int, error)
}

// DeliveryTallyJob periodically logs journal totals per courier.
type DeliveryTallyJob struct {
	counter  DeliveryCounter
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewDeliveryTallyJob(counter DeliveryCounter, schedule string, logger *slog.Logger) *DeliveryTallyJob {
	return &DeliveryTallyJob{
		counter:  counter,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "delivery_tally_job"),
	}
}

func (j *DeliveryTallyJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Delivery tally job started", "schedule", j.schedule)
	return nil
}

// Run logs the totals sorted by courier name.
func (j *DeliveryTallyJob) Run(ctx context.Context) {
	counts, err := j.counter.CountByCourier(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Delivery tally job failed", "error", err)
		return
	}

	names := make([]string, 0, len(counts))
	total := 0
	for name, n := range counts {
		names = append(names, name)
		total += n
	}
	sort.Strings(names)

	for _, name := range names {
		j.logger.InfoContext(ctx, "deliveries recorded", "courier", name, "count", counts[name])
	}
	j.logger.InfoContext(ctx, "deliveries recorded in total", "count", total)
}

func (j *DeliveryTallyJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Delivery tally job stopped")
}
