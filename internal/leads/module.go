// Package leads provides the lead management bounded context module.
// This file defines the module that encapsulates all leads setup and route
// registration.
package leads

import (
	"context"
	"math/rand"
	"time"

	"estate_crm_backend/internal/events"
	apphttp "estate_crm_backend/internal/http"
	"estate_crm_backend/internal/leads/handler"
	"estate_crm_backend/internal/leads/repository"
	"estate_crm_backend/internal/leads/service"
	"estate_crm_backend/platform/logger"
	"estate_crm_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	repo    *repository.Repository
	svc     *service.Service
	handler *handler.Handler
}

// NewModule creates and initializes the leads module with its dependencies.
// agents supplies assignment candidates. The follow-up scheduler is bound
// afterwards via BindFollowUpScheduler because the tasks module is built
// on top of this one.
func NewModule(pool *pgxpool.Pool, agents service.AgentDirectory, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	svc := service.New(repo, agents, nil, eventBus, log, rng, time.Now)

	return &Module{
		repo:    repo,
		svc:     svc,
		handler: handler.New(svc, val),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service exposes the lead service for the scheduler worker.
func (m *Module) Service() *service.Service {
	return m.svc
}

// BindFollowUpScheduler completes wiring once the tasks module exists.
func (m *Module) BindFollowUpScheduler(scheduler service.FollowUpScheduler) {
	m.svc.SetFollowUpScheduler(scheduler)
}

// Repository exposes the lead repository; it implements the matching
// module's LeadSource and the readiness probe's HealthChecker.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes registers all lead routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/leads"))
}

// Reader returns the cross-domain read view of leads.
func (m *Module) Reader() Reader {
	return readerAdapter{repo: m.repo}
}

type readerAdapter struct {
	repo *repository.Repository
}

func (a readerAdapter) GetLeadByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	l, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return Lead{}, err
	}
	return Lead{
		ID:              l.ID,
		FullName:        l.FullName,
		FunnelStage:     string(l.FunnelStage),
		Temperature:     string(l.Temperature),
		AssignedAgentID: l.AssignedAgentID,
	}, nil
}

var _ apphttp.Module = (*Module)(nil)
