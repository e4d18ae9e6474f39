// Package properties manages the listing inventory the matcher ranks
// against.
package properties

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"estate_crm_backend/internal/properties/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a listing does not exist.
var ErrNotFound = errors.New("property not found")

const propertyColumns = `id, title, city, area, property_type, configuration, price, status, created_at, updated_at`

// Repository persists property listings.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreatePropertyParams carries the fields for a new listing.
type CreatePropertyParams struct {
	Title         string
	City          string
	Area          string
	PropertyType  domain.PropertyType
	Configuration string
	Price         int64
	Status        domain.PropertyStatus
}

// UpdatePropertyParams carries optional field updates; nil means unchanged.
type UpdatePropertyParams struct {
	Title         *string
	City          *string
	Area          *string
	PropertyType  *domain.PropertyType
	Configuration *string
	Price         *int64
	Status        *domain.PropertyStatus
}

// ListPropertiesFilter narrows List results.
type ListPropertiesFilter struct {
	Status domain.PropertyStatus
	City   string
	Type   domain.PropertyType
}

func (r *Repository) Create(ctx context.Context, params CreatePropertyParams) (domain.Property, error) {
	status := params.Status
	if status == "" {
		status = domain.StatusAvailable
	}
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO properties (title, city, area, property_type, configuration, price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s
	`, propertyColumns),
		params.Title, params.City, params.Area, string(params.PropertyType),
		params.Configuration, params.Price, string(status))
	return scanProperty(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Property, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM properties WHERE id = $1`, propertyColumns), id)
	property, err := scanProperty(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Property{}, ErrNotFound
	}
	return property, err
}

func (r *Repository) List(ctx context.Context, filter ListPropertiesFilter) ([]domain.Property, error) {
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.City != "" {
		args = append(args, filter.City)
		conditions = append(conditions, fmt.Sprintf("LOWER(city) = LOWER($%d)", len(args)))
	}
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		conditions = append(conditions, fmt.Sprintf("property_type = $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM properties`, propertyColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProperties(rows)
}

// ListSellable returns listings the matcher may suggest: available and
// under-negotiation, sold and blocked excluded. It backs the matching
// module's PropertySource.
func (r *Repository) ListSellable(ctx context.Context) ([]domain.Property, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM properties
		WHERE status IN ('available', 'under_negotiation')
		ORDER BY created_at DESC
	`, propertyColumns))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProperties(rows)
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdatePropertyParams) (domain.Property, error) {
	set := []string{"updated_at = now()"}
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Title != nil {
		add("title", *params.Title)
	}
	if params.City != nil {
		add("city", *params.City)
	}
	if params.Area != nil {
		add("area", *params.Area)
	}
	if params.PropertyType != nil {
		add("property_type", string(*params.PropertyType))
	}
	if params.Configuration != nil {
		add("configuration", *params.Configuration)
	}
	if params.Price != nil {
		add("price", *params.Price)
	}
	if params.Status != nil {
		add("status", string(*params.Status))
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE properties SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args), propertyColumns)

	property, err := scanProperty(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Property{}, ErrNotFound
	}
	return property, err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProperty(row rowScanner) (domain.Property, error) {
	var p domain.Property
	var propertyType, status string
	err := row.Scan(&p.ID, &p.Title, &p.City, &p.Area, &propertyType,
		&p.Configuration, &p.Price, &status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Property{}, err
	}
	p.PropertyType = domain.PropertyType(propertyType)
	p.Status = domain.PropertyStatus(status)
	return p, nil
}

func scanProperties(rows pgx.Rows) ([]domain.Property, error) {
	properties := make([]domain.Property, 0)
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, property)
	}
	return properties, rows.Err()
}
