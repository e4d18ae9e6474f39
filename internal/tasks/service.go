package tasks

import (
	"context"
	"errors"
	"time"

	"estate_crm_backend/internal/leads"
	leaddomain "estate_crm_backend/internal/leads/domain"
	"estate_crm_backend/platform/apperr"
	"estate_crm_backend/platform/logger"

	"github.com/google/uuid"
)

// intakeFollowUpDelay is how long after intake the first call is due.
const intakeFollowUpDelay = 24 * time.Hour

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, params CreateTaskParams) (Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (Task, error)
	List(ctx context.Context, filter ListTasksFilter) ([]Task, error)
	SetStatus(ctx context.Context, id uuid.UUID, status TaskStatus) (Task, error)
}

// Service wraps the store with lead validation and the intake hook.
type Service struct {
	repo  Store
	leads leads.Reader
	log   *logger.Logger
	now   func() time.Time
}

func NewService(repo Store, leadReader leads.Reader, log *logger.Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, leads: leadReader, log: log, now: now}
}

// ScheduleIntakeFollowUp creates the first follow-up task for a freshly
// captured lead, owned by whoever the lead was assigned to.
func (s *Service) ScheduleIntakeFollowUp(ctx context.Context, lead leaddomain.Lead) error {
	_, err := s.repo.Create(ctx, CreateTaskParams{
		LeadID:          lead.ID,
		AssignedAgentID: lead.AssignedAgentID,
		Title:           "First follow-up call",
		DueAt:           s.now().Add(intakeFollowUpDelay),
		Priority:        PriorityHigh,
	})
	return err
}

func (s *Service) Create(ctx context.Context, req CreateTaskRequest) (Task, error) {
	if _, err := s.leads.GetLeadByID(ctx, req.LeadID); err != nil {
		return Task{}, apperr.NotFound("lead not found")
	}

	return s.repo.Create(ctx, CreateTaskParams{
		LeadID:          req.LeadID,
		AssignedAgentID: req.AssignedAgentID,
		Title:           req.Title,
		DueAt:           req.DueAt,
		Priority:        TaskPriority(req.Priority),
	})
}

func (s *Service) List(ctx context.Context, filter ListTasksFilter) ([]Task, error) {
	return s.repo.List(ctx, filter)
}

// Overdue returns pending tasks whose due time has passed.
func (s *Service) Overdue(ctx context.Context) ([]Task, error) {
	now := s.now()
	return s.repo.List(ctx, ListTasksFilter{Status: StatusPending, DueBefore: &now})
}

func (s *Service) Complete(ctx context.Context, id uuid.UUID) (Task, error) {
	return s.setStatus(ctx, id, StatusCompleted)
}

func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (Task, error) {
	return s.setStatus(ctx, id, StatusCancelled)
}

func (s *Service) setStatus(ctx context.Context, id uuid.UUID, status TaskStatus) (Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Task{}, mapNotFound(err)
	}
	if task.Status != StatusPending {
		return Task{}, apperr.Conflict("task is not pending")
	}

	updated, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return Task{}, mapNotFound(err)
	}
	return updated, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("task not found")
	}
	return err
}
