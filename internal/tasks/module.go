package tasks

import (
	"time"

	apphttp "estate_crm_backend/internal/http"
	"estate_crm_backend/internal/leads"
	"estate_crm_backend/platform/logger"
	"estate_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the tasks module implementing http.Module.
type Module struct {
	svc     *Service
	handler *Handler
}

func NewModule(pool *pgxpool.Pool, leadReader leads.Reader, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, leadReader, log, time.Now)
	return &Module{
		svc:     svc,
		handler: NewHandler(svc, val),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "tasks"
}

// Service exposes the task service; it implements the lead service's
// FollowUpScheduler.
func (m *Module) Service() *Service {
	return m.svc
}

// RegisterRoutes registers all task routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/tasks"))
}

var _ apphttp.Module = (*Module)(nil)
