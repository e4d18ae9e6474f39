// Package users manages the agent directory. Assignment candidates come
// from here, sorted by creation time then id so the load-balance
// tie-break stays stable across runs.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"estate_crm_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a user does not exist.
var ErrNotFound = errors.New("user not found")

const userColumns = `id, full_name, email, role, is_active, created_at, updated_at`

// User is an internal CRM user.
type User struct {
	ID        uuid.UUID
	FullName  string
	Email     string
	Role      domain.AgentRole
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository persists the user directory.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateUserParams carries the fields for a new user.
type CreateUserParams struct {
	FullName string
	Email    string
	Role     domain.AgentRole
}

// UpdateUserParams carries optional field updates; nil means unchanged.
type UpdateUserParams struct {
	FullName *string
	Email    *string
	Role     *domain.AgentRole
	IsActive *bool
}

func (r *Repository) Create(ctx context.Context, params CreateUserParams) (User, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO users (full_name, email, role)
		VALUES ($1, $2, $3)
		RETURNING %s
	`, userColumns), params.FullName, strings.ToLower(params.Email), string(params.Role))
	return scanUser(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns), id)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

// List returns every user in directory order.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM users ORDER BY created_at ASC, id ASC
	`, userColumns))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

// ListActiveAgents returns the active users as assignment candidates in
// deterministic order. It backs the lead service's AgentDirectory.
func (r *Repository) ListActiveAgents(ctx context.Context) ([]domain.Agent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, full_name, email, role FROM users
		WHERE is_active
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	agents := make([]domain.Agent, 0)
	for rows.Next() {
		var a domain.Agent
		var role string
		if err := rows.Scan(&a.ID, &a.FullName, &a.Email, &role); err != nil {
			return nil, err
		}
		a.Role = domain.AgentRole(role)
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateUserParams) (User, error) {
	set := []string{"updated_at = now()"}
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.FullName != nil {
		add("full_name", *params.FullName)
	}
	if params.Email != nil {
		add("email", strings.ToLower(*params.Email))
	}
	if params.Role != nil {
		add("role", string(*params.Role))
	}
	if params.IsActive != nil {
		add("is_active", *params.IsActive)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args), userColumns)

	user, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (User, error) {
	var u User
	var role string
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	u.Role = domain.AgentRole(role)
	return u, nil
}

func scanUsers(rows pgx.Rows) ([]User, error) {
	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
