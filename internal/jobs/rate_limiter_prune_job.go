package jobs

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const rateLimiterPruneSchedule = "0 */5 * * * *"

// Pruner forgets idle rate limiter entries.
type Pruner interface {
	Prune(now time.Time) int
}

// RateLimiterPruneJob keeps the per-client login limiter from growing without bound.
type RateLimiterPruneJob struct {
	pruner Pruner
	cron   *cron.Cron
	logger *slog.Logger
}

func NewRateLimiterPruneJob(pruner Pruner, logger *slog.Logger) *RateLimiterPruneJob {
	return &RateLimiterPruneJob{
		pruner: pruner,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With("component", "rate_limiter_prune_job"),
	}
}

func (j *RateLimiterPruneJob) Start() error {
	_, err := j.cron.AddFunc(rateLimiterPruneSchedule, func() {
		if removed := j.pruner.Prune(time.Now()); removed > 0 {
			j.logger.Debug("pruned idle login limiters", "count", removed)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	return nil
}

func (j *RateLimiterPruneJob) Stop() {
	<-j.cron.Stop().Done()
}
