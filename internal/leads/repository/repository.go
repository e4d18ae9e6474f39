package repository

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

// ErrNotFound is returned when a lead does not exist.
var ErrNotFound = errors.New("lead not found")

const leadColumns = `id, full_name, primary_phone, email, whatsapp_number,
	preferred_city, preferred_area, property_type, bedrooms, budget_min, budget_max,
	purpose, timeline, financing_status, source_type, funnel_stage, temperature, score,
	assigned_agent_id, last_contacted_at, last_inbound_activity_at, last_stage_changed_at,
	merged_into_lead_id, created_at, updated_at`

// Repository persists leads and their activity timelines.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a lead repository over the given pool.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateLeadParams carries the fields for a new lead.
type CreateLeadParams struct {
	FullName        string
	PrimaryPhone    string
	Email           *string
	WhatsAppNumber  *string
	PreferredCity   *string
	PreferredArea   *string
	PropertyType    *string
	Bedrooms        *int
	BudgetMin       *int64
	BudgetMax       *int64
	Purpose         *string
	Timeline        domain.Timeline
	FinancingStatus domain.FinancingStatus
	SourceType      domain.SourceType
}

// UpdateLeadParams carries optional field updates; nil means unchanged.
type UpdateLeadParams struct {
	FullName        *string
	PrimaryPhone    *string
	Email           *string
	WhatsAppNumber  *string
	PreferredCity   *string
	PreferredArea   *string
	PropertyType    *string
	Bedrooms        *int
	BudgetMin       *int64
	BudgetMax       *int64
	Purpose         *string
	Timeline        *domain.Timeline
	FinancingStatus *domain.FinancingStatus
	SourceType      *domain.SourceType
}

// ListFilter narrows List results. Zero values mean no filtering.
type ListFilter struct {
	Stage           domain.FunnelStage
	City            string
	AssignedAgentID *uuid.UUID
	Temperature     domain.Temperature
	IncludeMerged   bool
	Limit           int
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO leads (
			full_name, primary_phone, email, whatsapp_number,
			preferred_city, preferred_area, property_type, bedrooms, budget_min, budget_max,
			purpose, timeline, financing_status, source_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING %s
	`, leadColumns),
		params.FullName, params.PrimaryPhone, params.Email, params.WhatsAppNumber,
		params.PreferredCity, params.PreferredArea, params.PropertyType, params.Bedrooms,
		params.BudgetMin, params.BudgetMax, params.Purpose,
		nullIfEmpty(string(params.Timeline)), nullIfEmpty(string(params.FinancingStatus)), string(params.SourceType),
	)
	return scanLead(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM leads WHERE id = $1`, leadColumns), id)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

// List returns leads matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]domain.Lead, error) {
	var conditions []string
	var args []interface{}

	if !filter.IncludeMerged {
		conditions = append(conditions, "merged_into_lead_id IS NULL")
	}
	if filter.Stage != "" {
		args = append(args, string(filter.Stage))
		conditions = append(conditions, fmt.Sprintf("funnel_stage = $%d", len(args)))
	}
	if filter.City != "" {
		args = append(args, filter.City)
		conditions = append(conditions, fmt.Sprintf("LOWER(preferred_city) = LOWER($%d)", len(args)))
	}
	if filter.AssignedAgentID != nil {
		args = append(args, *filter.AssignedAgentID)
		conditions = append(conditions, fmt.Sprintf("assigned_agent_id = $%d", len(args)))
	}
	if filter.Temperature != "" {
		args = append(args, string(filter.Temperature))
		conditions = append(conditions, fmt.Sprintf("temperature = $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM leads`, leadColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeads(rows)
}

// Snapshot returns every lead, merged ones included; the decisioning
// engines filter merged records themselves.
func (r *Repository) Snapshot(ctx context.Context) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`SELECT %s FROM leads ORDER BY created_at ASC`, leadColumns))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeads(rows)
}

// ListByStages returns non-merged leads in any of the given stages. It
// backs the batch matcher's LeadSource.
func (r *Repository) ListByStages(ctx context.Context, stages []domain.FunnelStage) ([]domain.Lead, error) {
	stageStrings := make([]string, len(stages))
	for i, s := range stages {
		stageStrings[i] = string(s)
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM leads
		WHERE funnel_stage = ANY($1) AND merged_into_lead_id IS NULL
		ORDER BY created_at ASC
	`, leadColumns), stageStrings)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeads(rows)
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (domain.Lead, error) {
	set := []string{"updated_at = now()"}
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.FullName != nil {
		add("full_name", *params.FullName)
	}
	if params.PrimaryPhone != nil {
		add("primary_phone", *params.PrimaryPhone)
	}
	if params.Email != nil {
		add("email", nullIfEmpty(*params.Email))
	}
	if params.WhatsAppNumber != nil {
		add("whatsapp_number", nullIfEmpty(*params.WhatsAppNumber))
	}
	if params.PreferredCity != nil {
		add("preferred_city", nullIfEmpty(*params.PreferredCity))
	}
	if params.PreferredArea != nil {
		add("preferred_area", nullIfEmpty(*params.PreferredArea))
	}
	if params.PropertyType != nil {
		add("property_type", nullIfEmpty(*params.PropertyType))
	}
	if params.Bedrooms != nil {
		add("bedrooms", *params.Bedrooms)
	}
	if params.BudgetMin != nil {
		add("budget_min", *params.BudgetMin)
	}
	if params.BudgetMax != nil {
		add("budget_max", *params.BudgetMax)
	}
	if params.Purpose != nil {
		add("purpose", nullIfEmpty(*params.Purpose))
	}
	if params.Timeline != nil {
		add("timeline", nullIfEmpty(string(*params.Timeline)))
	}
	if params.FinancingStatus != nil {
		add("financing_status", nullIfEmpty(string(*params.FinancingStatus)))
	}
	if params.SourceType != nil {
		add("source_type", string(*params.SourceType))
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE leads SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args), leadColumns)

	lead, err := scanLead(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

// UpdateScore persists a recomputed score and temperature.
func (r *Repository) UpdateScore(ctx context.Context, id uuid.UUID, score int, temperature domain.Temperature) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET score = $2, temperature = $3, updated_at = now() WHERE id = $1
	`, id, score, string(temperature))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Assign sets the lead's owner and appends the audit activity in one
// transaction. onlyIfUnassigned makes auto-assignment race-safe: the
// write is skipped when another writer got there first.
func (r *Repository) Assign(ctx context.Context, id uuid.UUID, agentID uuid.UUID, note string, onlyIfUnassigned bool) (domain.Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Lead{}, err
	}
	defer tx.Rollback(ctx)

	query := `UPDATE leads SET assigned_agent_id = $2, updated_at = now() WHERE id = $1`
	if onlyIfUnassigned {
		query += " AND assigned_agent_id IS NULL"
	}
	query += fmt.Sprintf(" RETURNING %s", leadColumns)

	lead, err := scanLead(tx.QueryRow(ctx, query, id, agentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	if err != nil {
		return domain.Lead{}, err
	}

	if _, err := insertActivity(ctx, tx, id, domain.ActivityDraft{
		Type:      domain.ActivitySystem,
		Direction: domain.DirectionSystem,
		Note:      note,
	}, nil); err != nil {
		return domain.Lead{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Lead{}, err
	}
	return lead, nil
}

// SetStage applies a funnel transition: the stage fields and the paired
// status-change activity are written in one transaction.
func (r *Repository) SetStage(ctx context.Context, id uuid.UUID, change domain.StageChange) (domain.Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Lead{}, err
	}
	defer tx.Rollback(ctx)

	lead, err := scanLead(tx.QueryRow(ctx, fmt.Sprintf(`
		UPDATE leads
		SET funnel_stage = $2, last_stage_changed_at = $3, updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, leadColumns), id, string(change.To), change.ChangedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	if err != nil {
		return domain.Lead{}, err
	}

	if _, err := insertActivity(ctx, tx, id, change.Activity, nil); err != nil {
		return domain.Lead{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Lead{}, err
	}
	return lead, nil
}

// Merge marks a lead as absorbed into the survivor and logs the merge on
// both timelines.
func (r *Repository) Merge(ctx context.Context, mergedID, survivorID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE leads SET merged_into_lead_id = $2, updated_at = now() WHERE id = $1
	`, mergedID, survivorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	mergedNote := fmt.Sprintf("Merged into lead %s", survivorID)
	if _, err := insertActivity(ctx, tx, mergedID, domain.ActivityDraft{
		Type:      domain.ActivitySystem,
		Direction: domain.DirectionSystem,
		Note:      mergedNote,
	}, nil); err != nil {
		return err
	}

	survivorNote := fmt.Sprintf("Absorbed duplicate lead %s", mergedID)
	if _, err := insertActivity(ctx, tx, survivorID, domain.ActivityDraft{
		Type:      domain.ActivitySystem,
		Direction: domain.DirectionSystem,
		Note:      survivorNote,
	}, nil); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Delete removes a lead. Activities, tasks, and match records go with it
// via ON DELETE CASCADE.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// StageCount is one row of the pipeline stats aggregate.
type StageCount struct {
	Stage domain.FunnelStage
	Count int
}

// TemperatureCount is one row of the temperature stats aggregate.
type TemperatureCount struct {
	Temperature domain.Temperature
	Count       int
}

// Stats aggregates non-merged leads per stage and per temperature.
func (r *Repository) Stats(ctx context.Context) ([]StageCount, []TemperatureCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT funnel_stage, COUNT(*) FROM leads
		WHERE merged_into_lead_id IS NULL
		GROUP BY funnel_stage
	`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var stages []StageCount
	for rows.Next() {
		var sc StageCount
		if err := rows.Scan(&sc.Stage, &sc.Count); err != nil {
			return nil, nil, err
		}
		stages = append(stages, sc)
	}
	if rows.Err() != nil {
		return nil, nil, rows.Err()
	}

	tempRows, err := r.pool.Query(ctx, `
		SELECT temperature, COUNT(*) FROM leads
		WHERE merged_into_lead_id IS NULL
		GROUP BY temperature
	`)
	if err != nil {
		return nil, nil, err
	}
	defer tempRows.Close()

	var temperatures []TemperatureCount
	for tempRows.Next() {
		var tc TemperatureCount
		if err := tempRows.Scan(&tc.Temperature, &tc.Count); err != nil {
			return nil, nil, err
		}
		temperatures = append(temperatures, tc)
	}
	if tempRows.Err() != nil {
		return nil, nil, tempRows.Err()
	}
	return stages, temperatures, nil
}

// Ping checks database connectivity for readiness probes.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func nullIfEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (domain.Lead, error) {
	var l domain.Lead
	var timeline, financing, sourceType, stage, temperature *string
	var lastContacted, lastInbound, lastStageChanged *time.Time

	err := row.Scan(
		&l.ID, &l.FullName, &l.PrimaryPhone, &l.Email, &l.WhatsAppNumber,
		&l.PreferredCity, &l.PreferredArea, &l.PropertyType, &l.Bedrooms, &l.BudgetMin, &l.BudgetMax,
		&l.Purpose, &timeline, &financing, &sourceType, &stage, &temperature, &l.Score,
		&l.AssignedAgentID, &lastContacted, &lastInbound, &lastStageChanged,
		&l.MergedIntoLeadID, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return domain.Lead{}, err
	}

	if timeline != nil {
		l.Timeline = domain.Timeline(*timeline)
	}
	if financing != nil {
		l.FinancingStatus = domain.FinancingStatus(*financing)
	}
	if sourceType != nil {
		l.SourceType = domain.SourceType(*sourceType)
	}
	if stage != nil {
		l.FunnelStage = domain.FunnelStage(*stage)
	}
	if temperature != nil {
		l.Temperature = domain.Temperature(*temperature)
	}
	l.LastContactedAt = lastContacted
	l.LastInboundActivityAt = lastInbound
	l.LastStageChangedAt = lastStageChanged

	return l, nil
}

func scanLeads(rows pgx.Rows) ([]domain.Lead, error) {
	leads := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}
