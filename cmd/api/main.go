package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estate_crm_backend/internal/email"
	"estate_crm_backend/internal/events"
	apphttp "estate_crm_backend/internal/http"
	"estate_crm_backend/internal/http/router"
	"estate_crm_backend/internal/leads"
	"estate_crm_backend/internal/matching"
	"estate_crm_backend/internal/notification"
	"estate_crm_backend/internal/properties"
	"estate_crm_backend/internal/tasks"
	"estate_crm_backend/internal/users"
	"estate_crm_backend/migrations"
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

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS, ".")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	var sender email.Sender = email.NoopSender{}
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
		log.Info("smtp email sender initialized", "host", cfg.GetSMTPHost())
	} else {
		log.Warn("email disabled; lead assignment notifications will be dropped")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notification.New(eventBus, sender, log)

	usersModule := users.NewModule(pool, val)
	leadsModule := leads.NewModule(pool, usersModule.Repository(), eventBus, val, log)
	propertiesModule := properties.NewModule(pool, val)
	matchingModule := matching.NewModule(pool, leadsModule.Repository(), propertiesModule.Repository(), eventBus, val, log)
	tasksModule := tasks.NewModule(pool, leadsModule.Reader(), val, log)

	// Follow-up tasks are scheduled on intake; bound late to break the
	// leads <-> tasks construction cycle.
	leadsModule.BindFollowUpScheduler(tasksModule.Service())

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			usersModule,
			leadsModule,
			propertiesModule,
			matchingModule,
			tasksModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
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
