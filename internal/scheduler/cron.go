package scheduler

import (
	"context"

	"crm_backend/platform/config"
	"crm_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Monday 08:00 server time.
const weeklyDigestCron = "0 8 * * 1"

// Cron registers the recurring jobs on an asynq scheduler.
type Cron struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

func NewCron(cfg config.SchedulerConfig, log *logger.Logger) (*Cron, error) {
	opt, queue, err := connectionSettings(cfg)
	if err != nil {
		return nil, err
	}

	scheduler := asynq.NewScheduler(opt, nil)

	task, err := NewWeeklyDigestTask(WeeklyDigestPayload{Period: "this_week"})
	if err != nil {
		return nil, err
	}
	if _, err := scheduler.Register(weeklyDigestCron, task, asynq.Queue(queue)); err != nil {
		return nil, err
	}

	return &Cron{scheduler: scheduler, log: log}, nil
}

func (c *Cron) Run(ctx context.Context) {
	if c == nil || c.scheduler == nil {
		return
	}

	go func() {
		<-ctx.Done()
		c.scheduler.Shutdown()
	}()

	if err := c.scheduler.Run(); err != nil {
		c.log.Error("cron scheduler stopped", "error", err)
	}
}
