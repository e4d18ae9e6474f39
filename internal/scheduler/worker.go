// Package scheduler runs the background work the HTTP API does not:
// periodic lead rescoring and batch property matching, delivered through
// asynq over Redis.
package scheduler

import (
	"context"
	"fmt"

	"estate_crm_backend/internal/leads/service"
	"estate_crm_backend/internal/matching"
	"estate_crm_backend/platform/config"
	"estate_crm_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker consumes the recurring decisioning tasks.
type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	leads    *service.Service
	matching *matching.Service
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, leads *service.Service, matchingSvc *matching.Service, log *logger.Logger) (*Worker, error) {
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

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		leads:    leads,
		matching: matchingSvc,
		log:      log,
	}

	mux.HandleFunc(TaskLeadRescore, w.handleLeadRescore)
	mux.HandleFunc(TaskAutoMatch, w.handleAutoMatch)

	return w, nil
}

func (w *Worker) handleLeadRescore(ctx context.Context, _ *asynq.Task) error {
	changed, err := w.leads.RescoreAll(ctx)
	if err != nil {
		return err
	}
	w.log.Info("lead rescore completed", "changed", changed)
	return nil
}

func (w *Worker) handleAutoMatch(ctx context.Context, _ *asynq.Task) error {
	created, err := w.matching.AutoMatch(ctx)
	if err != nil {
		return err
	}
	w.log.Info("auto match completed", "suggestions", created)
	return nil
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
