// Package service orchestrates the lead lifecycle: intake with duplicate
// detection and auto-assignment, scoring recomputes, funnel transitions,
// merges, and the activity timeline. The decisioning itself lives in the
// pure engine packages; this layer loads snapshots, runs the engines, and
// persists their outcomes.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"estate_crm_backend/internal/events"
	"estate_crm_backend/internal/leads/assignment"
	"estate_crm_backend/internal/leads/dedupe"
	"estate_crm_backend/internal/leads/domain"
	"estate_crm_backend/internal/leads/repository"
	"estate_crm_backend/internal/leads/scoring"
	"estate_crm_backend/internal/leads/transport"
	"estate_crm_backend/platform/apperr"
	"estate_crm_backend/platform/logger"
	"estate_crm_backend/platform/phone"

	"github.com/google/uuid"
)

// Store is the persistence surface the service needs from the repository.
type Store interface {
	Create(ctx context.Context, params repository.CreateLeadParams) (domain.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	List(ctx context.Context, filter repository.ListFilter) ([]domain.Lead, error)
	Snapshot(ctx context.Context) ([]domain.Lead, error)
	Update(ctx context.Context, id uuid.UUID, params repository.UpdateLeadParams) (domain.Lead, error)
	UpdateScore(ctx context.Context, id uuid.UUID, score int, temperature domain.Temperature) error
	Assign(ctx context.Context, id uuid.UUID, agentID uuid.UUID, note string, onlyIfUnassigned bool) (domain.Lead, error)
	SetStage(ctx context.Context, id uuid.UUID, change domain.StageChange) (domain.Lead, error)
	Merge(ctx context.Context, mergedID, survivorID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) ([]repository.StageCount, []repository.TemperatureCount, error)
	AppendActivity(ctx context.Context, leadID uuid.UUID, draft domain.ActivityDraft, actorID *uuid.UUID) (domain.Activity, error)
	ListActivities(ctx context.Context, leadID uuid.UUID) ([]domain.Activity, error)
}

// AgentDirectory supplies assignment candidates, sorted by creation time
// then id so the load-balance tie-break stays deterministic.
type AgentDirectory interface {
	ListActiveAgents(ctx context.Context) ([]domain.Agent, error)
}

// FollowUpScheduler creates the intake follow-up task for a new lead.
// A nil scheduler disables the step.
type FollowUpScheduler interface {
	ScheduleIntakeFollowUp(ctx context.Context, lead domain.Lead) error
}

// Service coordinates lead operations.
type Service struct {
	store     Store
	agents    AgentDirectory
	scheduler FollowUpScheduler
	bus       events.Bus
	log       *logger.Logger
	rng       *rand.Rand
	now       func() time.Time
}

// New builds the lead service. rng seeds the assignment fallback; now
// injects the clock. Tests pass fixed values, production passes
// rand.New(...) and time.Now.
func New(store Store, agents AgentDirectory, scheduler FollowUpScheduler, bus events.Bus, log *logger.Logger, rng *rand.Rand, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		store:     store,
		agents:    agents,
		scheduler: scheduler,
		bus:       bus,
		log:       log,
		rng:       rng,
		now:       now,
	}
}

// SetFollowUpScheduler late-binds the scheduler. The tasks module needs
// the leads module to exist before it can be built, so wiring happens in
// two phases during startup, before the server accepts traffic.
func (s *Service) SetFollowUpScheduler(scheduler FollowUpScheduler) {
	s.scheduler = scheduler
}

// Create runs the full intake pipeline: phone normalization, duplicate
// detection, persistence, auto-assignment, initial scoring, the intake
// activity, and the follow-up task.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	req.PrimaryPhone = phone.NormalizeE164(req.PrimaryPhone)
	if req.WhatsAppNumber != "" {
		req.WhatsAppNumber = phone.NormalizeE164(req.WhatsAppNumber)
	}

	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	verdict := dedupe.Detect(candidateFromIntake(req), snapshot)
	if verdict.IsDuplicate && !req.AllowDuplicate {
		return transport.LeadResponse{}, apperr.Conflict("duplicate lead").WithDetails(transport.DuplicateCheckResponse{
			IsDuplicate:    true,
			MatchType:      string(verdict.MatchType),
			ExistingLeadID: &verdict.ExistingLead.ID,
		})
	}

	lead, err := s.store.Create(ctx, createParamsFromRequest(req))
	if err != nil {
		return transport.LeadResponse{}, err
	}

	lead = s.autoAssign(ctx, lead, snapshot)
	lead = s.rescore(ctx, lead, nil)

	if _, err := s.store.AppendActivity(ctx, lead.ID, domain.ActivityDraft{
		Type:      domain.ActivitySystem,
		Direction: domain.DirectionSystem,
		Note:      fmt.Sprintf("Lead captured via %s", lead.SourceType),
	}, nil); err != nil {
		s.log.DatabaseError("leads.intake_activity", err)
	}

	if s.scheduler != nil {
		if err := s.scheduler.ScheduleIntakeFollowUp(ctx, lead); err != nil {
			s.log.Error("schedule intake follow-up failed", "lead_id", lead.ID, "error", err)
		}
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:       events.NewBaseEvent(),
		LeadID:          lead.ID,
		FullName:        lead.FullName,
		SourceType:      string(lead.SourceType),
		Score:           lead.Score,
		Temperature:     string(lead.Temperature),
		AssignedAgentID: lead.AssignedAgentID,
	})

	return transport.ToLeadResponse(lead), nil
}

// DuplicateProbe carries the identity fields of an explicit duplicate
// check.
type DuplicateProbe struct {
	FullName string
	Phone    string
	Email    string
	City     string
}

// CheckDuplicate runs the detection rules without creating anything.
func (s *Service) CheckDuplicate(ctx context.Context, probe DuplicateProbe) (transport.DuplicateCheckResponse, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return transport.DuplicateCheckResponse{}, err
	}

	candidate := domain.Lead{
		FullName:     probe.FullName,
		PrimaryPhone: phone.NormalizeE164(probe.Phone),
	}
	if probe.Email != "" {
		candidate.Email = &probe.Email
	}
	if probe.City != "" {
		candidate.PreferredCity = &probe.City
	}

	verdict := dedupe.Detect(candidate, snapshot)
	resp := transport.DuplicateCheckResponse{IsDuplicate: verdict.IsDuplicate}
	if verdict.IsDuplicate {
		resp.MatchType = string(verdict.MatchType)
		resp.ExistingLeadID = &verdict.ExistingLead.ID
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.getLead(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return transport.ToLeadResponse(lead), nil
}

// ListQuery narrows the lead listing.
type ListQuery struct {
	Stage       string
	City        string
	AgentID     *uuid.UUID
	Temperature string
	Limit       int
}

func (s *Service) List(ctx context.Context, query ListQuery) ([]transport.LeadResponse, error) {
	leads, err := s.store.List(ctx, repository.ListFilter{
		Stage:           domain.FunnelStage(query.Stage),
		City:            query.City,
		AssignedAgentID: query.AgentID,
		Temperature:     domain.Temperature(query.Temperature),
		Limit:           query.Limit,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]transport.LeadResponse, len(leads))
	for i, lead := range leads {
		responses[i] = transport.ToLeadResponse(lead)
	}
	return responses, nil
}

// Update applies a partial edit and recomputes the score, since any of
// the qualification fields may have moved it.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	if req.PrimaryPhone != nil {
		normalized := phone.NormalizeE164(*req.PrimaryPhone)
		req.PrimaryPhone = &normalized
	}
	if req.WhatsAppNumber != nil && *req.WhatsAppNumber != "" {
		normalized := phone.NormalizeE164(*req.WhatsAppNumber)
		req.WhatsAppNumber = &normalized
	}

	lead, err := s.store.Update(ctx, id, updateParamsFromRequest(req))
	if err != nil {
		return transport.LeadResponse{}, mapNotFound(err)
	}

	activities, err := s.store.ListActivities(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	lead = s.rescore(ctx, lead, activities)

	return transport.ToLeadResponse(lead), nil
}

// ChangeStage moves a lead through the funnel. The stage fields and the
// status-change activity are persisted atomically by the repository.
func (s *Service) ChangeStage(ctx context.Context, id uuid.UUID, req transport.ChangeStageRequest) (transport.LeadResponse, error) {
	lead, err := s.getLead(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if lead.IsMerged() {
		return transport.LeadResponse{}, apperr.Conflict("lead has been merged")
	}

	change, err := domain.TransitionStage(lead, domain.FunnelStage(req.Stage), s.now())
	if err != nil {
		return transport.LeadResponse{}, apperr.Validation(err.Error())
	}

	updated, err := s.store.SetStage(ctx, id, change)
	if err != nil {
		return transport.LeadResponse{}, mapNotFound(err)
	}

	s.bus.Publish(ctx, events.LeadStageChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    updated.ID,
		FromStage: string(change.From),
		ToStage:   string(change.To),
	})

	return transport.ToLeadResponse(updated), nil
}

// Assign manually hands a lead to an agent, overriding any current owner.
func (s *Service) Assign(ctx context.Context, id uuid.UUID, req transport.AssignRequest) (transport.LeadResponse, error) {
	lead, err := s.getLead(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if lead.IsMerged() {
		return transport.LeadResponse{}, apperr.Conflict("lead has been merged")
	}

	agent, err := s.findAgent(ctx, req.AgentID)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	note := fmt.Sprintf("Assigned to %s", agent.FullName)
	updated, err := s.store.Assign(ctx, id, agent.ID, note, false)
	if err != nil {
		return transport.LeadResponse{}, mapNotFound(err)
	}

	s.publishAssigned(ctx, updated, agent, "manual")
	return transport.ToLeadResponse(updated), nil
}

// AutoAssign runs the assignment engine for one lead. Already-assigned
// and merged leads come back unchanged.
func (s *Service) AutoAssign(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.getLead(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	lead = s.autoAssign(ctx, lead, snapshot)
	return transport.ToLeadResponse(lead), nil
}

// AddActivity appends a timeline entry and recomputes the score, since
// engagement and recency both feed on activities.
func (s *Service) AddActivity(ctx context.Context, id uuid.UUID, req transport.AddActivityRequest) (transport.ActivityResponse, error) {
	lead, err := s.getLead(ctx, id)
	if err != nil {
		return transport.ActivityResponse{}, err
	}
	if lead.IsMerged() {
		return transport.ActivityResponse{}, apperr.Conflict("lead has been merged")
	}

	activity, err := s.store.AppendActivity(ctx, id, domain.ActivityDraft{
		Type:      domain.ActivityType(req.Type),
		Direction: domain.ActivityDirection(req.Direction),
		Note:      req.Note,
	}, nil)
	if err != nil {
		return transport.ActivityResponse{}, err
	}

	// Reload so the refreshed contact timestamps feed the recency factor.
	lead, err = s.store.GetByID(ctx, id)
	if err != nil {
		return transport.ActivityResponse{}, mapNotFound(err)
	}
	activities, err := s.store.ListActivities(ctx, id)
	if err != nil {
		return transport.ActivityResponse{}, err
	}
	s.rescore(ctx, lead, activities)

	return transport.ToActivityResponse(activity), nil
}

// Timeline returns a lead's activities, newest first.
func (s *Service) Timeline(ctx context.Context, id uuid.UUID) ([]transport.ActivityResponse, error) {
	if _, err := s.getLead(ctx, id); err != nil {
		return nil, err
	}

	activities, err := s.store.ListActivities(ctx, id)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.ActivityResponse, len(activities))
	for i, a := range activities {
		responses[i] = transport.ToActivityResponse(a)
	}
	return responses, nil
}

// Score returns the current factor breakdown for a lead.
func (s *Service) Score(ctx context.Context, id uuid.UUID) (transport.ScoreResponse, error) {
	lead, err := s.getLead(ctx, id)
	if err != nil {
		return transport.ScoreResponse{}, err
	}
	activities, err := s.store.ListActivities(ctx, id)
	if err != nil {
		return transport.ScoreResponse{}, err
	}

	b := scoring.ScoreBreakdown(lead, activities, s.now())
	return transport.ScoreResponse{
		LeadID:      lead.ID,
		Score:       b.Total,
		Temperature: string(scoring.Classify(b.Total)),
		Budget:      b.Budget,
		Timeline:    b.Timeline,
		Financing:   b.Financing,
		Source:      b.Source,
		Engagement:  b.Engagement,
		Recency:     b.Recency,
	}, nil
}

// SuggestNextAction returns the follow-up directive for a lead.
func (s *Service) SuggestNextAction(ctx context.Context, id uuid.UUID) (transport.NextActionResponse, error) {
	lead, err := s.getLead(ctx, id)
	if err != nil {
		return transport.NextActionResponse{}, err
	}
	activities, err := s.store.ListActivities(ctx, id)
	if err != nil {
		return transport.NextActionResponse{}, err
	}

	now := s.now()
	score := scoring.Score(lead, activities, now)
	return transport.NextActionResponse{
		LeadID:      lead.ID,
		Action:      scoring.SuggestNextAction(lead, activities, now),
		Score:       score,
		Temperature: string(scoring.Classify(score)),
	}, nil
}

// Merge absorbs a duplicate lead into a surviving record. The merged
// lead keeps its data but drops out of every decisioning snapshot.
func (s *Service) Merge(ctx context.Context, mergedID uuid.UUID, req transport.MergeRequest) error {
	if mergedID == req.SurvivorID {
		return apperr.Validation("a lead cannot be merged into itself")
	}

	merged, err := s.getLead(ctx, mergedID)
	if err != nil {
		return err
	}
	if merged.IsMerged() {
		return apperr.Conflict("lead is already merged")
	}

	survivor, err := s.getLead(ctx, req.SurvivorID)
	if err != nil {
		return err
	}
	if survivor.IsMerged() {
		return apperr.Conflict("survivor lead is itself merged")
	}

	if err := s.store.Merge(ctx, mergedID, req.SurvivorID); err != nil {
		return mapNotFound(err)
	}

	s.log.LeadDecision("dedupe", mergedID.String(), fmt.Sprintf("merged into %s", req.SurvivorID))
	s.bus.Publish(ctx, events.LeadsMerged{
		BaseEvent:  events.NewBaseEvent(),
		SurvivorID: req.SurvivorID,
		MergedID:   mergedID,
	})
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return mapNotFound(err)
	}
	return nil
}

// Stats aggregates the active pipeline per stage and temperature.
func (s *Service) Stats(ctx context.Context) (transport.StatsResponse, error) {
	stages, temperatures, err := s.store.Stats(ctx)
	if err != nil {
		return transport.StatsResponse{}, err
	}

	resp := transport.StatsResponse{
		ByStage:       make(map[string]int, len(stages)),
		ByTemperature: make(map[string]int, len(temperatures)),
	}
	for _, sc := range stages {
		resp.ByStage[string(sc.Stage)] = sc.Count
		resp.Total += sc.Count
	}
	for _, tc := range temperatures {
		resp.ByTemperature[string(tc.Temperature)] = tc.Count
	}
	return resp, nil
}

// RescoreAll recomputes every non-merged lead's score. The scheduler
// runs it periodically so recency decay shows up without waiting for a
// mutation. Returns the number of leads whose score or temperature moved.
func (s *Service) RescoreAll(ctx context.Context) (int, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, lead := range snapshot {
		if lead.IsMerged() {
			continue
		}
		activities, err := s.store.ListActivities(ctx, lead.ID)
		if err != nil {
			return changed, err
		}
		before := lead.Score
		updated := s.rescore(ctx, lead, activities)
		if updated.Score != before || updated.Temperature != lead.Temperature {
			changed++
		}
	}
	return changed, nil
}

// Import runs each row through the intake pipeline with the csv_import
// source. Duplicate rows are counted as skipped; other failures are
// reported per row without aborting the batch.
func (s *Service) Import(ctx context.Context, req transport.ImportLeadsRequest) (transport.ImportResult, error) {
	var result transport.ImportResult
	for i, row := range req.Leads {
		_, err := s.Create(ctx, intakeFromImportRow(row))
		switch {
		case err == nil:
			result.Created++
		case apperr.Is(err, apperr.KindConflict):
			result.Skipped++
		default:
			result.Errors = append(result.Errors, transport.ImportRowError{
				Row:    i,
				Reason: err.Error(),
			})
		}
	}
	return result, nil
}

// autoAssign runs the assignment engine and persists a positive decision.
// The write is conditional on the lead still being unassigned, so a
// concurrent manual assign wins.
func (s *Service) autoAssign(ctx context.Context, lead domain.Lead, snapshot []domain.Lead) domain.Lead {
	agents, err := s.agents.ListActiveAgents(ctx)
	if err != nil {
		s.log.DatabaseError("leads.list_agents", err)
		return lead
	}

	decision := assignment.AutoAssign(lead, agents, snapshot, s.rng)
	if !decision.Assigned {
		s.log.LeadDecision("assignment", lead.ID.String(), "unassigned")
		return lead
	}

	note := fmt.Sprintf("Auto-assigned to %s (%s)", decision.Agent.FullName, decision.Strategy)
	updated, err := s.store.Assign(ctx, lead.ID, decision.Agent.ID, note, true)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.DatabaseError("leads.auto_assign", err)
		}
		return lead
	}

	s.log.LeadDecision("assignment", lead.ID.String(), fmt.Sprintf("assigned to %s via %s", decision.Agent.ID, decision.Strategy))
	s.publishAssigned(ctx, updated, decision.Agent, string(decision.Strategy))
	return updated
}

// rescore recomputes and persists the score, publishing an event when it
// moved. Returns the lead with the fresh score applied.
func (s *Service) rescore(ctx context.Context, lead domain.Lead, activities []domain.Activity) domain.Lead {
	score := scoring.Score(lead, activities, s.now())
	temperature := scoring.Classify(score)
	if score == lead.Score && temperature == lead.Temperature {
		return lead
	}

	if err := s.store.UpdateScore(ctx, lead.ID, score, temperature); err != nil {
		s.log.DatabaseError("leads.update_score", err)
		return lead
	}

	lead.Score = score
	lead.Temperature = temperature
	s.bus.Publish(ctx, events.LeadScoreUpdated{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      lead.ID,
		Score:       score,
		Temperature: string(temperature),
	})
	return lead
}

func (s *Service) publishAssigned(ctx context.Context, lead domain.Lead, agent domain.Agent, strategy string) {
	s.bus.Publish(ctx, events.LeadAssigned{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		LeadName:   lead.FullName,
		AgentID:    agent.ID,
		AgentName:  agent.FullName,
		AgentEmail: agent.Email,
		Strategy:   strategy,
	})
}

func (s *Service) getLead(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, err := s.store.GetByID(ctx, id)
	if err != nil {
		return domain.Lead{}, mapNotFound(err)
	}
	return lead, nil
}

func (s *Service) findAgent(ctx context.Context, id uuid.UUID) (domain.Agent, error) {
	agents, err := s.agents.ListActiveAgents(ctx)
	if err != nil {
		return domain.Agent{}, err
	}
	for _, agent := range agents {
		if agent.ID == id {
			return agent, nil
		}
	}
	return domain.Agent{}, apperr.NotFound("agent not found")
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("lead not found")
	}
	return err
}

func candidateFromIntake(req transport.CreateLeadRequest) domain.Lead {
	candidate := domain.Lead{
		FullName:     req.FullName,
		PrimaryPhone: req.PrimaryPhone,
	}
	if req.Email != "" {
		candidate.Email = &req.Email
	}
	if req.PreferredCity != "" {
		candidate.PreferredCity = &req.PreferredCity
	}
	return candidate
}

func createParamsFromRequest(req transport.CreateLeadRequest) repository.CreateLeadParams {
	params := repository.CreateLeadParams{
		FullName:        req.FullName,
		PrimaryPhone:    req.PrimaryPhone,
		Bedrooms:        req.Bedrooms,
		BudgetMin:       req.BudgetMin,
		BudgetMax:       req.BudgetMax,
		Timeline:        domain.Timeline(req.Timeline),
		FinancingStatus: domain.FinancingStatus(req.FinancingStatus),
		SourceType:      domain.SourceType(req.SourceType),
	}
	params.Email = optional(req.Email)
	params.WhatsAppNumber = optional(req.WhatsAppNumber)
	params.PreferredCity = optional(req.PreferredCity)
	params.PreferredArea = optional(req.PreferredArea)
	params.PropertyType = optional(req.PropertyType)
	params.Purpose = optional(req.Purpose)
	return params
}

func updateParamsFromRequest(req transport.UpdateLeadRequest) repository.UpdateLeadParams {
	var timeline *domain.Timeline
	if req.Timeline != nil {
		t := domain.Timeline(*req.Timeline)
		timeline = &t
	}
	var financing *domain.FinancingStatus
	if req.FinancingStatus != nil {
		f := domain.FinancingStatus(*req.FinancingStatus)
		financing = &f
	}
	var source *domain.SourceType
	if req.SourceType != nil {
		st := domain.SourceType(*req.SourceType)
		source = &st
	}

	return repository.UpdateLeadParams{
		FullName:        req.FullName,
		PrimaryPhone:    req.PrimaryPhone,
		Email:           req.Email,
		WhatsAppNumber:  req.WhatsAppNumber,
		PreferredCity:   req.PreferredCity,
		PreferredArea:   req.PreferredArea,
		PropertyType:    req.PropertyType,
		Bedrooms:        req.Bedrooms,
		BudgetMin:       req.BudgetMin,
		BudgetMax:       req.BudgetMax,
		Purpose:         req.Purpose,
		Timeline:        timeline,
		FinancingStatus: financing,
		SourceType:      source,
	}
}

func intakeFromImportRow(row transport.ImportLeadRow) transport.CreateLeadRequest {
	return transport.CreateLeadRequest{
		FullName:        row.FullName,
		PrimaryPhone:    row.PrimaryPhone,
		Email:           row.Email,
		PreferredCity:   row.PreferredCity,
		PreferredArea:   row.PreferredArea,
		PropertyType:    row.PropertyType,
		Bedrooms:        row.Bedrooms,
		BudgetMin:       row.BudgetMin,
		BudgetMax:       row.BudgetMax,
		Timeline:        row.Timeline,
		FinancingStatus: row.FinancingStatus,
		SourceType:      string(domain.SourceCSVImport),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
