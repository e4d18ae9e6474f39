package properties

import (
	apphttp "estate_crm_backend/internal/http"
	"estate_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the properties bounded context module implementing http.Module.
type Module struct {
	repo    *Repository
	svc     *Service
	handler *Handler
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo)
	return &Module{
		repo:    repo,
		svc:     svc,
		handler: NewHandler(svc, val),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "properties"
}

// Repository exposes the listing store; it implements the matching
// module's PropertySource.
func (m *Module) Repository() *Repository {
	return m.repo
}

// RegisterRoutes registers all property routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/properties"))
}

var _ apphttp.Module = (*Module)(nil)
