package matching

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrMatchNotFound is returned when a match record does not exist.
var ErrMatchNotFound = errors.New("match not found")

// MatchStatus tracks how an agent handled a suggestion.
type MatchStatus string

const (
	MatchSuggested MatchStatus = "suggested"
	MatchAccepted  MatchStatus = "accepted"
	MatchRejected  MatchStatus = "rejected"
)

// Match is a persisted lead-property pairing. At most one exists per
// (lead, property); the unique index backs the service's idempotency check.
type Match struct {
	ID            uuid.UUID
	LeadID        uuid.UUID
	PropertyID    uuid.UUID
	MatchScore    int
	Status        MatchStatus
	LeadName      string
	PropertyTitle string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateMatchParams carries the fields for a new match record.
type CreateMatchParams struct {
	LeadID        uuid.UUID
	PropertyID    uuid.UUID
	MatchScore    int
	LeadName      string
	PropertyTitle string
}

const matchColumns = `id, lead_id, property_id, match_score, status, lead_name, property_title, created_at, updated_at`

// Repository persists lead-property match records.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a match repository over the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Exists reports whether a match record already exists for the pair.
func (r *Repository) Exists(ctx context.Context, leadID, propertyID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM lead_property_matches WHERE lead_id = $1 AND property_id = $2
		)
	`, leadID, propertyID).Scan(&exists)
	return exists, err
}

// Create inserts a new suggested match. The (lead_id, property_id) unique
// index makes concurrent duplicate inserts fail rather than double up;
// callers treat that conflict as "already suggested".
func (r *Repository) Create(ctx context.Context, params CreateMatchParams) (Match, error) {
	var m Match
	err := r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO lead_property_matches (lead_id, property_id, match_score, status, lead_name, property_title)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s
	`, matchColumns), params.LeadID, params.PropertyID, params.MatchScore, MatchSuggested, params.LeadName, params.PropertyTitle).Scan(
		&m.ID, &m.LeadID, &m.PropertyID, &m.MatchScore, &m.Status, &m.LeadName, &m.PropertyTitle, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return Match{}, err
	}
	return m, nil
}

// ListByLead returns all match records for a lead, best score first.
func (r *Repository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]Match, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM lead_property_matches
		WHERE lead_id = $1
		ORDER BY match_score DESC, created_at ASC
	`, matchColumns), leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]Match, 0)
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.LeadID, &m.PropertyID, &m.MatchScore, &m.Status, &m.LeadName, &m.PropertyTitle, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// UpdateStatus moves a match between suggested/accepted/rejected.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status MatchStatus) (Match, error) {
	var m Match
	err := r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE lead_property_matches
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, matchColumns), id, status).Scan(
		&m.ID, &m.LeadID, &m.PropertyID, &m.MatchScore, &m.Status, &m.LeadName, &m.PropertyTitle, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Match{}, ErrMatchNotFound
	}
	if err != nil {
		return Match{}, err
	}
	return m, nil
}
