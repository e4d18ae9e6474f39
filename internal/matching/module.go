// Package matching provides the lead-property matching bounded context.
// This file wires the module and registers its routes.
package matching

import (
	"estate_crm_backend/internal/events"
	apphttp "estate_crm_backend/internal/http"
	"estate_crm_backend/platform/logger"
	"estate_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the matching bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates and initializes the matching module. Lead and property
// snapshots come from the owning modules through the narrow source
// interfaces.
func NewModule(pool *pgxpool.Pool, leads LeadSource, properties PropertySource, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, leads, properties, eventBus, log)

	return &Module{
		handler: NewHandler(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "matching"
}

// Service returns the matching service for use by other modules and the
// scheduler worker.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts matching routes on the provided router context. The
// per-lead suggestion view lives under the leads path because that is where
// clients look for it.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/matches"))
	ctx.V1.GET("/leads/:id/matches", m.handler.SuggestForLead)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
