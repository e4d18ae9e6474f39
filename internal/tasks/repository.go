// Package tasks manages follow-up tasks on leads. Intake schedules the
// first one automatically; agents manage the rest.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a task does not exist.
var ErrNotFound = errors.New("task not found")

// TaskStatus is the lifecycle state of a follow-up task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
	StatusCancelled TaskStatus = "cancelled"
)

// TaskPriority orders an agent's follow-up queue.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

const taskColumns = `id, lead_id, assigned_agent_id, title, due_at, status, priority, completed_at, created_at, updated_at`

// Task is a follow-up item tied to a lead.
type Task struct {
	ID              uuid.UUID
	LeadID          uuid.UUID
	AssignedAgentID *uuid.UUID
	Title           string
	DueAt           time.Time
	Status          TaskStatus
	Priority        TaskPriority
	CompletedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Repository persists follow-up tasks.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateTaskParams carries the fields for a new task.
type CreateTaskParams struct {
	LeadID          uuid.UUID
	AssignedAgentID *uuid.UUID
	Title           string
	DueAt           time.Time
	Priority        TaskPriority
}

// ListTasksFilter narrows List results.
type ListTasksFilter struct {
	LeadID          *uuid.UUID
	AssignedAgentID *uuid.UUID
	Status          TaskStatus
	DueBefore       *time.Time
}

func (r *Repository) Create(ctx context.Context, params CreateTaskParams) (Task, error) {
	priority := params.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO tasks (lead_id, assigned_agent_id, title, due_at, priority)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s
	`, taskColumns), params.LeadID, params.AssignedAgentID, params.Title, params.DueAt, string(priority))
	return scanTask(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Task, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1`, taskColumns), id)
	task, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return task, err
}

func (r *Repository) List(ctx context.Context, filter ListTasksFilter) ([]Task, error) {
	var conditions []string
	var args []interface{}

	if filter.LeadID != nil {
		args = append(args, *filter.LeadID)
		conditions = append(conditions, fmt.Sprintf("lead_id = $%d", len(args)))
	}
	if filter.AssignedAgentID != nil {
		args = append(args, *filter.AssignedAgentID)
		conditions = append(conditions, fmt.Sprintf("assigned_agent_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.DueBefore != nil {
		args = append(args, *filter.DueBefore)
		conditions = append(conditions, fmt.Sprintf("due_at < $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM tasks`, taskColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY due_at ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// SetStatus moves a task to completed or cancelled, stamping completed_at
// on completion.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status TaskStatus) (Task, error) {
	var completedAt *time.Time
	if status == StatusCompleted {
		now := time.Now()
		completedAt = &now
	}

	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE tasks SET status = $2, completed_at = $3, updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, taskColumns), id, string(status), completedAt)

	task, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return task, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (Task, error) {
	var t Task
	var status, priority string
	err := row.Scan(&t.ID, &t.LeadID, &t.AssignedAgentID, &t.Title, &t.DueAt,
		&status, &priority, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return Task{}, err
	}
	t.Status = TaskStatus(status)
	t.Priority = TaskPriority(priority)
	return t, nil
}
