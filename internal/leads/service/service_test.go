package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"estate_crm_backend/internal/events"
	"estate_crm_backend/internal/leads/domain"
	"estate_crm_backend/internal/leads/repository"
	"estate_crm_backend/internal/leads/transport"
	"estate_crm_backend/platform/apperr"
	"estate_crm_backend/platform/logger"

	"github.com/google/uuid"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeStore struct {
	mu         sync.Mutex
	leads      map[uuid.UUID]domain.Lead
	activities map[uuid.UUID][]domain.Activity
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		leads:      make(map[uuid.UUID]domain.Lead),
		activities: make(map[uuid.UUID][]domain.Activity),
	}
}

func (f *fakeStore) put(lead domain.Lead) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leads[lead.ID] = lead
}

func (f *fakeStore) Create(_ context.Context, params repository.CreateLeadParams) (domain.Lead, error) {
	lead := domain.Lead{
		ID:              uuid.New(),
		FullName:        params.FullName,
		PrimaryPhone:    params.PrimaryPhone,
		Email:           params.Email,
		WhatsAppNumber:  params.WhatsAppNumber,
		PreferredCity:   params.PreferredCity,
		PreferredArea:   params.PreferredArea,
		PropertyType:    params.PropertyType,
		Bedrooms:        params.Bedrooms,
		BudgetMin:       params.BudgetMin,
		BudgetMax:       params.BudgetMax,
		Purpose:         params.Purpose,
		Timeline:        params.Timeline,
		FinancingStatus: params.FinancingStatus,
		SourceType:      params.SourceType,
		FunnelStage:     domain.StageNew,
		Temperature:     domain.TemperatureCold,
		CreatedAt:       testNow,
		UpdatedAt:       testNow,
	}
	f.put(lead)
	return lead, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lead, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeStore) List(_ context.Context, filter repository.ListFilter) ([]domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Lead
	for _, lead := range f.leads {
		if !filter.IncludeMerged && lead.IsMerged() {
			continue
		}
		if filter.Stage != "" && lead.FunnelStage != filter.Stage {
			continue
		}
		out = append(out, lead)
	}
	return out, nil
}

func (f *fakeStore) Snapshot(_ context.Context) ([]domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Lead, 0, len(f.leads))
	for _, lead := range f.leads {
		out = append(out, lead)
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, id uuid.UUID, params repository.UpdateLeadParams) (domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lead, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	if params.FullName != nil {
		lead.FullName = *params.FullName
	}
	if params.BudgetMax != nil {
		lead.BudgetMax = params.BudgetMax
	}
	if params.Timeline != nil {
		lead.Timeline = *params.Timeline
	}
	if params.FinancingStatus != nil {
		lead.FinancingStatus = *params.FinancingStatus
	}
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeStore) UpdateScore(_ context.Context, id uuid.UUID, score int, temperature domain.Temperature) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	lead, ok := f.leads[id]
	if !ok {
		return repository.ErrNotFound
	}
	lead.Score = score
	lead.Temperature = temperature
	f.leads[id] = lead
	return nil
}

func (f *fakeStore) Assign(_ context.Context, id uuid.UUID, agentID uuid.UUID, note string, onlyIfUnassigned bool) (domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lead, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	if onlyIfUnassigned && lead.AssignedAgentID != nil {
		return domain.Lead{}, repository.ErrNotFound
	}
	lead.AssignedAgentID = &agentID
	f.leads[id] = lead
	f.activities[id] = append(f.activities[id], domain.Activity{
		ID: uuid.New(), LeadID: id,
		Type: domain.ActivitySystem, Direction: domain.DirectionSystem,
		Note: note, CreatedAt: testNow,
	})
	return lead, nil
}

func (f *fakeStore) SetStage(_ context.Context, id uuid.UUID, change domain.StageChange) (domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lead, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	lead.FunnelStage = change.To
	changedAt := change.ChangedAt
	lead.LastStageChangedAt = &changedAt
	f.leads[id] = lead
	f.activities[id] = append(f.activities[id], domain.Activity{
		ID: uuid.New(), LeadID: id,
		Type: change.Activity.Type, Direction: change.Activity.Direction,
		Note: change.Activity.Note, OldValue: change.Activity.OldValue, NewValue: change.Activity.NewValue,
		CreatedAt: changedAt,
	})
	return lead, nil
}

func (f *fakeStore) Merge(_ context.Context, mergedID, survivorID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	lead, ok := f.leads[mergedID]
	if !ok {
		return repository.ErrNotFound
	}
	lead.MergedIntoLeadID = &survivorID
	f.leads[mergedID] = lead
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.leads[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.leads, id)
	return nil
}

func (f *fakeStore) Stats(_ context.Context) ([]repository.StageCount, []repository.TemperatureCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stages := make(map[domain.FunnelStage]int)
	temps := make(map[domain.Temperature]int)
	for _, lead := range f.leads {
		if lead.IsMerged() {
			continue
		}
		stages[lead.FunnelStage]++
		temps[lead.Temperature]++
	}
	var sc []repository.StageCount
	for stage, n := range stages {
		sc = append(sc, repository.StageCount{Stage: stage, Count: n})
	}
	var tc []repository.TemperatureCount
	for temp, n := range temps {
		tc = append(tc, repository.TemperatureCount{Temperature: temp, Count: n})
	}
	return sc, tc, nil
}

func (f *fakeStore) AppendActivity(_ context.Context, leadID uuid.UUID, draft domain.ActivityDraft, actorID *uuid.UUID) (domain.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	activity := domain.Activity{
		ID: uuid.New(), LeadID: leadID,
		Type: draft.Type, Direction: draft.Direction,
		Note: draft.Note, OldValue: draft.OldValue, NewValue: draft.NewValue,
		ActorID: actorID, CreatedAt: testNow,
	}
	f.activities[leadID] = append(f.activities[leadID], activity)

	lead := f.leads[leadID]
	switch draft.Direction {
	case domain.DirectionOutbound:
		t := activity.CreatedAt
		lead.LastContactedAt = &t
	case domain.DirectionInbound:
		t := activity.CreatedAt
		lead.LastInboundActivityAt = &t
	}
	f.leads[leadID] = lead
	return activity, nil
}

func (f *fakeStore) ListActivities(_ context.Context, leadID uuid.UUID) ([]domain.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Activity(nil), f.activities[leadID]...), nil
}

type fakeDirectory struct{ agents []domain.Agent }

func (f fakeDirectory) ListActiveAgents(context.Context) ([]domain.Agent, error) {
	return f.agents, nil
}

type fakeScheduler struct {
	mu        sync.Mutex
	scheduled []uuid.UUID
}

func (f *fakeScheduler) ScheduleIntakeFollowUp(_ context.Context, lead domain.Lead) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled = append(f.scheduled, lead.ID)
	return nil
}

func (f *fakeScheduler) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.scheduled)
}

// recordingBus captures published events synchronously.
type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) named(name string) []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []events.Event
	for _, e := range b.events {
		if e.EventName() == name {
			out = append(out, e)
		}
	}
	return out
}

func newTestService(store *fakeStore, agents []domain.Agent, scheduler FollowUpScheduler, bus events.Bus) *Service {
	return New(store, fakeDirectory{agents: agents}, scheduler, bus, logger.New("development"),
		rand.New(rand.NewSource(1)), func() time.Time { return testNow })
}

func intakeRequest() transport.CreateLeadRequest {
	city := "Pune"
	return transport.CreateLeadRequest{
		FullName:        "Rahul Sharma",
		PrimaryPhone:    "9876543210",
		Email:           "rahul@example.com",
		PreferredCity:   city,
		BudgetMax:       i64(32_000_000),
		Timeline:        string(domain.TimelineImmediate),
		FinancingStatus: string(domain.FinancingPreapproved),
		SourceType:      string(domain.SourceReferral),
	}
}

func i64(v int64) *int64 { return &v }

func TestCreateRunsFullIntakePipeline(t *testing.T) {
	store := newFakeStore()
	bus := &recordingBus{}
	scheduler := &fakeScheduler{}
	agent := domain.Agent{ID: uuid.New(), FullName: "Priya", Email: "priya@example.com", Role: domain.RoleAgent}
	svc := newTestService(store, []domain.Agent{agent}, scheduler, bus)

	// Give the agent an open lead in the city so geo balancing has data.
	if _, err := store.Create(context.Background(), repository.CreateLeadParams{
		FullName: "Existing", PrimaryPhone: "+911111111111", PreferredCity: strp("Pune"),
		SourceType: domain.SourceWebsite,
	}); err != nil {
		t.Fatalf("seed lead: %v", err)
	}

	resp, err := svc.Create(context.Background(), intakeRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if resp.PrimaryPhone != "+919876543210" {
		t.Fatalf("phone not normalized: %q", resp.PrimaryPhone)
	}
	if resp.AssignedAgentID == nil || *resp.AssignedAgentID != agent.ID {
		t.Fatalf("expected auto-assignment to %s, got %v", agent.ID, resp.AssignedAgentID)
	}
	// budget 20 + timeline 20 + financing 12 + source 10 = 62 with no
	// activities yet.
	if resp.Score != 62 {
		t.Fatalf("score = %d, want 62", resp.Score)
	}
	if resp.Temperature != string(domain.TemperatureWarm) {
		t.Fatalf("temperature = %s, want warm", resp.Temperature)
	}

	if scheduler.count() != 1 {
		t.Fatalf("follow-up tasks = %d, want 1", scheduler.count())
	}
	if len(bus.named(events.LeadCreated{}.EventName())) != 1 {
		t.Fatalf("expected one LeadCreated event")
	}
	if len(bus.named(events.LeadAssigned{}.EventName())) == 0 {
		t.Fatalf("expected a LeadAssigned event")
	}

	acts, _ := store.ListActivities(context.Background(), resp.ID)
	if len(acts) == 0 {
		t.Fatalf("expected intake activities on the timeline")
	}
}

func TestCreateRejectsDuplicateUnlessOverridden(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, nil, &recordingBus{})

	first, err := svc.Create(context.Background(), intakeRequest())
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}

	_, err = svc.Create(context.Background(), intakeRequest())
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperr.Error, got %T", err)
	}
	details, ok := appErr.Details.(transport.DuplicateCheckResponse)
	if !ok {
		t.Fatalf("expected duplicate details, got %T", appErr.Details)
	}
	if details.MatchType != "phone" || *details.ExistingLeadID != first.ID {
		t.Fatalf("unexpected verdict: %+v", details)
	}

	req := intakeRequest()
	req.AllowDuplicate = true
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("override Create: %v", err)
	}
}

func TestCreateWithoutAgentsStaysUnassigned(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, nil, &recordingBus{})

	resp, err := svc.Create(context.Background(), intakeRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.AssignedAgentID != nil {
		t.Fatalf("expected unassigned lead, got %v", resp.AssignedAgentID)
	}
}

func TestCheckDuplicateProbeNormalizesPhone(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, nil, &recordingBus{})

	created, err := svc.Create(context.Background(), intakeRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	verdict, err := svc.CheckDuplicate(context.Background(), DuplicateProbe{Phone: "098 7654 3210"})
	if err != nil {
		t.Fatalf("CheckDuplicate: %v", err)
	}
	if !verdict.IsDuplicate || verdict.MatchType != "phone" || *verdict.ExistingLeadID != created.ID {
		t.Fatalf("unexpected verdict: %+v", verdict)
	}
}

func TestChangeStagePersistsPairedActivity(t *testing.T) {
	store := newFakeStore()
	bus := &recordingBus{}
	svc := newTestService(store, nil, nil, bus)

	created, err := svc.Create(context.Background(), intakeRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	resp, err := svc.ChangeStage(context.Background(), created.ID, transport.ChangeStageRequest{Stage: "contacted"})
	if err != nil {
		t.Fatalf("ChangeStage: %v", err)
	}
	if resp.FunnelStage != "contacted" {
		t.Fatalf("stage = %s, want contacted", resp.FunnelStage)
	}
	if resp.LastStageChangedAt == nil || !resp.LastStageChangedAt.Equal(testNow) {
		t.Fatalf("last stage change not stamped: %v", resp.LastStageChangedAt)
	}

	acts, _ := store.ListActivities(context.Background(), created.ID)
	var found bool
	for _, a := range acts {
		if a.Type == domain.ActivityStatusChange && *a.OldValue == "new" && *a.NewValue == "contacted" {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing paired status_change activity: %+v", acts)
	}
	if len(bus.named(events.LeadStageChanged{}.EventName())) != 1 {
		t.Fatalf("expected one LeadStageChanged event")
	}
}

func TestChangeStageRejectsSameAndUnknownStage(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, nil, &recordingBus{})

	created, err := svc.Create(context.Background(), intakeRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.ChangeStage(context.Background(), created.ID, transport.ChangeStageRequest{Stage: "new"}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("same stage: expected validation error, got %v", err)
	}
	if _, err := svc.ChangeStage(context.Background(), created.ID, transport.ChangeStageRequest{Stage: "bogus"}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("unknown stage: expected validation error, got %v", err)
	}
}

func TestAddActivityRescoresLead(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, nil, &recordingBus{})

	created, err := svc.Create(context.Background(), intakeRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.AddActivity(context.Background(), created.ID, transport.AddActivityRequest{
		Type: "call", Direction: "outbound", Note: "Spoke about budget",
	})
	if err != nil {
		t.Fatalf("AddActivity: %v", err)
	}

	lead, _ := store.GetByID(context.Background(), created.ID)
	// Base 62, plus 1 outbound engagement point and 10 recency points for
	// same-day contact.
	if lead.Score != 73 {
		t.Fatalf("score after activity = %d, want 73", lead.Score)
	}
	if lead.Temperature != domain.TemperatureHot {
		t.Fatalf("temperature = %s, want hot", lead.Temperature)
	}
}

func TestMergeValidations(t *testing.T) {
	store := newFakeStore()
	bus := &recordingBus{}
	svc := newTestService(store, nil, nil, bus)

	a, err := svc.Create(context.Background(), intakeRequest())
	if err != nil {
		t.Fatalf("Create a: %v", err)
	}
	reqB := intakeRequest()
	reqB.PrimaryPhone = "9812345678"
	reqB.Email = "other@example.com"
	reqB.FullName = "Someone Else"
	b, err := svc.Create(context.Background(), reqB)
	if err != nil {
		t.Fatalf("Create b: %v", err)
	}

	if err := svc.Merge(context.Background(), a.ID, transport.MergeRequest{SurvivorID: a.ID}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("self merge: expected validation error, got %v", err)
	}

	if err := svc.Merge(context.Background(), b.ID, transport.MergeRequest{SurvivorID: a.ID}); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if err := svc.Merge(context.Background(), b.ID, transport.MergeRequest{SurvivorID: a.ID}); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("double merge: expected conflict, got %v", err)
	}
	if len(bus.named(events.LeadsMerged{}.EventName())) != 1 {
		t.Fatalf("expected one LeadsMerged event")
	}

	// The merged lead no longer blocks re-intake of the same phone.
	merged, _ := store.GetByID(context.Background(), b.ID)
	if !merged.IsMerged() {
		t.Fatalf("lead b should be merged")
	}
}

func TestImportSkipsDuplicatesAndReportsErrors(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, nil, &recordingBus{})

	req := transport.ImportLeadsRequest{Leads: []transport.ImportLeadRow{
		{FullName: "Amit Verma", PrimaryPhone: "9811111111"},
		{FullName: "Amit Verma", PrimaryPhone: "9811111111"},
		{FullName: "Neha Gupta", PrimaryPhone: "9822222222"},
	}}

	result, err := svc.Import(context.Background(), req)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Created != 2 || result.Skipped != 1 || len(result.Errors) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	leads, _ := svc.List(context.Background(), ListQuery{})
	for _, l := range leads {
		if l.SourceType != string(domain.SourceCSVImport) {
			t.Fatalf("imported lead has source %s", l.SourceType)
		}
	}
}

func TestRescoreAllCountsChangedLeads(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, nil, &recordingBus{})

	created, err := svc.Create(context.Background(), intakeRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Nothing changed since intake, so the first run is a no-op.
	changed, err := svc.RescoreAll(context.Background())
	if err != nil {
		t.Fatalf("RescoreAll: %v", err)
	}
	if changed != 0 {
		t.Fatalf("changed = %d, want 0", changed)
	}

	// Tamper with the stored score to force a recompute delta.
	lead, _ := store.GetByID(context.Background(), created.ID)
	lead.Score = 1
	store.put(lead)

	changed, err = svc.RescoreAll(context.Background())
	if err != nil {
		t.Fatalf("RescoreAll: %v", err)
	}
	if changed != 1 {
		t.Fatalf("changed = %d, want 1", changed)
	}
}

func TestStatsAggregatesActivePipeline(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, nil, &recordingBus{})

	if _, err := svc.Create(context.Background(), intakeRequest()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	req := intakeRequest()
	req.PrimaryPhone = "9833333333"
	req.Email = "second@example.com"
	req.FullName = "Second Lead"
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("Create second: %v", err)
	}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 2 || stats.ByStage["new"] != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func strp(s string) *string { return &s }
