package repository

import (
	"context"

	"estate_crm_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AppendActivity records a timeline entry and advances the lead's
// contact timestamps: outbound touches last_contacted_at, inbound
// touches last_inbound_activity_at. Both writes share a transaction so
// the timeline and the recency fields never drift apart.
func (r *Repository) AppendActivity(ctx context.Context, leadID uuid.UUID, draft domain.ActivityDraft, agentID *uuid.UUID) (domain.Activity, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Activity{}, err
	}
	defer tx.Rollback(ctx)

	activity, err := insertActivity(ctx, tx, leadID, draft, agentID)
	if err != nil {
		return domain.Activity{}, err
	}

	switch draft.Direction {
	case domain.DirectionOutbound:
		_, err = tx.Exec(ctx, `
			UPDATE leads SET last_contacted_at = $2, updated_at = now() WHERE id = $1
		`, leadID, activity.CreatedAt)
	case domain.DirectionInbound:
		_, err = tx.Exec(ctx, `
			UPDATE leads SET last_inbound_activity_at = $2, updated_at = now() WHERE id = $1
		`, leadID, activity.CreatedAt)
	}
	if err != nil {
		return domain.Activity{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Activity{}, err
	}
	return activity, nil
}

// ListActivities returns a lead's timeline, newest first.
func (r *Repository) ListActivities(ctx context.Context, leadID uuid.UUID) ([]domain.Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, actor_id, type, direction, note, old_value, new_value, created_at
		FROM lead_activities
		WHERE lead_id = $1
		ORDER BY created_at DESC, id DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]domain.Activity, 0)
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}

func insertActivity(ctx context.Context, tx pgx.Tx, leadID uuid.UUID, draft domain.ActivityDraft, actorID *uuid.UUID) (domain.Activity, error) {
	row := tx.QueryRow(ctx, `
		INSERT INTO lead_activities (lead_id, actor_id, type, direction, note, old_value, new_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, lead_id, actor_id, type, direction, note, old_value, new_value, created_at
	`, leadID, actorID, string(draft.Type), string(draft.Direction),
		nullIfEmpty(draft.Note), draft.OldValue, draft.NewValue)
	return scanActivity(row)
}

func scanActivity(row rowScanner) (domain.Activity, error) {
	var a domain.Activity
	var actType, direction string
	var note *string

	err := row.Scan(&a.ID, &a.LeadID, &a.ActorID, &actType, &direction,
		&note, &a.OldValue, &a.NewValue, &a.CreatedAt)
	if err != nil {
		return domain.Activity{}, err
	}

	a.Type = domain.ActivityType(actType)
	a.Direction = domain.ActivityDirection(direction)
	if note != nil {
		a.Note = *note
	}
	return a, nil
}
