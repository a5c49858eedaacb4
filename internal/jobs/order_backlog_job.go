package jobs

import (
	"context"
	"log/slog"
	"time"

	"qrcafe/internal/core/application/usecases/queries"
	"qrcafe/internal/core/domain/model/order"

	"github.com/robfig/cron/v3"
)

const (
	// DefaultBacklogSchedule refreshes the order gauges every 15 seconds.
	DefaultBacklogSchedule = "*/15 * * * * *"
	backlogQueryTimeout    = 5 * time.Second
)

// StatusCounter counts stored orders per status.
type StatusCounter interface {
	Handle(ctx context.Context, query queries.CountOrdersByStatusQuery) (map[order.Status]int, error)
}

// BacklogGauge publishes the latest counts.
type BacklogGauge interface {
	SetOrderBacklog(counts map[order.Status]int)
}

// OrderBacklogJob exports how many orders wait in each status.
type OrderBacklogJob struct {
	counter  StatusCounter
	gauge    BacklogGauge
	schedule string
	recorder RunRecorder
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewOrderBacklogJob(
	counter StatusCounter,
	gauge BacklogGauge,
	schedule string,
	recorder RunRecorder,
	logger *slog.Logger,
) *OrderBacklogJob {
	if schedule == "" {
		schedule = DefaultBacklogSchedule
	}
	return &OrderBacklogJob{
		counter:  counter,
		gauge:    gauge,
		schedule: schedule,
		recorder: recorderOrNoop(recorder),
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "order_backlog_job"),
	}
}

// Run refreshes the gauges once. A failed count leaves the previous values in place.
func (j *OrderBacklogJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, backlogQueryTimeout)
	defer cancel()

	start := time.Now()
	counts, err := j.counter.Handle(ctx, queries.NewCountOrdersByStatusQuery())
	j.recorder.RecordJobRun("order_backlog", time.Since(start), err == nil)
	if err != nil {
		return err
	}

	j.gauge.SetOrderBacklog(counts)
	return nil
}

func (j *OrderBacklogJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if err := j.Run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Order backlog job failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order backlog job started", "schedule", j.schedule)
	return nil
}

func (j *OrderBacklogJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Order backlog job stopped")
}
