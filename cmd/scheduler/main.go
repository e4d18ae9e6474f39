package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estate_crm_backend/internal/events"
	"estate_crm_backend/internal/leads"
	"estate_crm_backend/internal/matching"
	"estate_crm_backend/internal/properties"
	"estate_crm_backend/internal/scheduler"
	"estate_crm_backend/internal/tasks"
	"estate_crm_backend/internal/users"
	"estate_crm_backend/platform/config"
	"estate_crm_backend/platform/db"
	"estate_crm_backend/platform/logger"
	"estate_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	// Same composition as the API binary, minus the HTTP layer. The worker
	// needs fully wired services so rescoring and matching behave identically
	// to their on-demand counterparts.
	usersModule := users.NewModule(pool, val)
	leadsModule := leads.NewModule(pool, usersModule.Repository(), eventBus, val, log)
	propertiesModule := properties.NewModule(pool, val)
	matchingModule := matching.NewModule(pool, leadsModule.Repository(), propertiesModule.Repository(), eventBus, val, log)
	tasksModule := tasks.NewModule(pool, leadsModule.Reader(), val, log)
	leadsModule.BindFollowUpScheduler(tasksModule.Service())

	periodic, err := scheduler.NewPeriodic(cfg, log)
	if err != nil {
		log.Error("failed to initialize periodic scheduler", "error", err)
		panic("failed to initialize periodic scheduler: " + err.Error())
	}

	schedErr := make(chan error, 1)
	go func() {
		log.Info("periodic scheduler started",
			"rescoreInterval", cfg.GetRescoreInterval(),
			"autoMatchInterval", cfg.GetAutoMatchInterval())
		schedErr <- periodic.Run()
	}()

	worker, err := scheduler.NewWorker(cfg, leadsModule.Service(), matchingModule.Service(), log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	go func() {
		select {
		case <-ctx.Done():
			periodic.Shutdown()
		case err := <-schedErr:
			if err != nil {
				log.Error("periodic scheduler stopped", "error", err)
			}
		}
	}()

	log.Info("scheduler worker running")
	worker.Run(ctx)
	log.Info("scheduler shut down")
}

// withRetry runs fn up to attempts times with quadratic backoff, respecting
// context cancellation between attempts.
func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
