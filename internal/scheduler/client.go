package scheduler

import (
	"fmt"
	"time"

	"estate_crm_backend/platform/config"
	"estate_crm_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}

// NewPeriodic builds the asynq scheduler that enqueues the recurring
// rescore and auto-match tasks on the configured intervals.
func NewPeriodic(cfg config.SchedulerConfig, log *logger.Logger) (*asynq.Scheduler, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	sched := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		EnqueueErrorHandler: func(task *asynq.Task, opts []asynq.Option, err error) {
			log.Error("periodic enqueue failed", "task", task.Type(), "error", err)
		},
	})

	if _, err := sched.Register(everySpec(cfg.GetRescoreInterval()), NewLeadRescoreTask(), asynq.Queue(queue)); err != nil {
		return nil, err
	}
	if _, err := sched.Register(everySpec(cfg.GetAutoMatchInterval()), NewAutoMatchTask(), asynq.Queue(queue)); err != nil {
		return nil, err
	}

	return sched, nil
}

func everySpec(interval time.Duration) string {
	if interval <= 0 {
		interval = time.Hour
	}
	return fmt.Sprintf("@every %s", interval)
}
