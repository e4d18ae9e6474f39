package users

import (
	apphttp "estate_crm_backend/internal/http"
	"estate_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the user directory module implementing http.Module.
type Module struct {
	repo    *Repository
	handler *Handler
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := NewRepository(pool)
	return &Module{
		repo:    repo,
		handler: NewHandler(repo, val),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "users"
}

// Repository exposes the directory; it implements the lead service's
// AgentDirectory.
func (m *Module) Repository() *Repository {
	return m.repo
}

// RegisterRoutes registers all user routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/users"))
}

var _ apphttp.Module = (*Module)(nil)
