package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultHeartbeatSchedule pings staff sessions every 30 seconds.
const DefaultHeartbeatSchedule = "*/30 * * * * *"

// Heartbeater pings realtime sessions and reports how many it closed.
type Heartbeater interface {
	Heartbeat(ctx context.Context) int
}

// RealtimeHeartbeatJob prunes staff sessions whose socket no longer accepts writes.
type RealtimeHeartbeatJob struct {
	hub      Heartbeater
	schedule string
	recorder RunRecorder
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewRealtimeHeartbeatJob(hub Heartbeater, schedule string, recorder RunRecorder, logger *slog.Logger) *RealtimeHeartbeatJob {
	if schedule == "" {
		schedule = DefaultHeartbeatSchedule
	}
	return &RealtimeHeartbeatJob{
		hub:      hub,
		schedule: schedule,
		recorder: recorderOrNoop(recorder),
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "realtime_heartbeat_job"),
	}
}

// Run performs one heartbeat round.
func (j *RealtimeHeartbeatJob) Run(ctx context.Context) {
	start := time.Now()
	pruned := j.hub.Heartbeat(ctx)
	j.recorder.RecordJobRun("realtime_heartbeat", time.Since(start), true)

	if pruned > 0 {
		j.logger.InfoContext(ctx, "pruned realtime sessions", "count", pruned)
	}
}

func (j *RealtimeHeartbeatJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Realtime heartbeat job started", "schedule", j.schedule)
	return nil
}

func (j *RealtimeHeartbeatJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Realtime heartbeat job stopped")
}
