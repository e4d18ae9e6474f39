package matching

import (
	"context"
	"sync"
	"testing"

	"estate_crm_backend/internal/events"
	leaddomain "estate_crm_backend/internal/leads/domain"
	leadrepo "estate_crm_backend/internal/leads/repository"
	propdomain "estate_crm_backend/internal/properties/domain"
	"estate_crm_backend/platform/apperr"
	"estate_crm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeStore struct {
	mu      sync.Mutex
	matches map[[2]uuid.UUID]Match
	created int
}

func newFakeStore() *fakeStore {
	return &fakeStore{matches: make(map[[2]uuid.UUID]Match)}
}

func (f *fakeStore) Exists(_ context.Context, leadID, propertyID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.matches[[2]uuid.UUID{leadID, propertyID}]
	return ok, nil
}

func (f *fakeStore) Create(_ context.Context, params CreateMatchParams) (Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := Match{
		ID:         uuid.New(),
		LeadID:     params.LeadID,
		PropertyID: params.PropertyID,
		MatchScore: params.MatchScore,
		Status:     MatchSuggested,
	}
	f.matches[[2]uuid.UUID{params.LeadID, params.PropertyID}] = m
	f.created++
	return m, nil
}

func (f *fakeStore) ListByLead(_ context.Context, leadID uuid.UUID) ([]Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Match
	for _, m := range f.matches {
		if m.LeadID == leadID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id uuid.UUID, status MatchStatus) (Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, m := range f.matches {
		if m.ID == id {
			m.Status = status
			f.matches[key] = m
			return m, nil
		}
	}
	return Match{}, ErrMatchNotFound
}

type fakeLeadSource struct{ leads []leaddomain.Lead }

func (f fakeLeadSource) GetByID(_ context.Context, id uuid.UUID) (leaddomain.Lead, error) {
	for _, l := range f.leads {
		if l.ID == id {
			return l, nil
		}
	}
	return leaddomain.Lead{}, leadrepo.ErrNotFound
}

func (f fakeLeadSource) ListByStages(_ context.Context, stages []leaddomain.FunnelStage) ([]leaddomain.Lead, error) {
	eligible := make(map[leaddomain.FunnelStage]bool)
	for _, s := range stages {
		eligible[s] = true
	}
	var out []leaddomain.Lead
	for _, l := range f.leads {
		if eligible[l.FunnelStage] {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakePropertySource struct{ properties []propdomain.Property }

func (f fakePropertySource) ListSellable(context.Context) ([]propdomain.Property, error) {
	var out []propdomain.Property
	for _, p := range f.properties {
		if p.Status == propdomain.StatusAvailable || p.Status == propdomain.StatusUnderNegotiation {
			out = append(out, p)
		}
	}
	return out, nil
}

func strongLead(stage leaddomain.FunnelStage) leaddomain.Lead {
	city := "Bengaluru"
	propType := "apartment"
	bedrooms := 2
	budgetMin := int64(8_000_000)
	budgetMax := int64(12_000_000)
	return leaddomain.Lead{
		ID:            uuid.New(),
		FullName:      "Ravi Kumar",
		FunnelStage:   stage,
		PreferredCity: &city,
		PropertyType:  &propType,
		Bedrooms:      &bedrooms,
		BudgetMin:     &budgetMin,
		BudgetMax:     &budgetMax,
	}
}

func sellableListing() propdomain.Property {
	return propdomain.Property{
		ID:            uuid.New(),
		Title:         "2BHK in Whitefield",
		City:          "Bengaluru",
		PropertyType:  propdomain.TypeApartment,
		Configuration: "2BHK",
		Price:         10_000_000,
		Status:        propdomain.StatusAvailable,
	}
}

func newTestService(store MatchStore, leads []leaddomain.Lead, properties []propdomain.Property) *Service {
	log := logger.New("development")
	return NewService(store, fakeLeadSource{leads}, fakePropertySource{properties}, events.NewInMemoryBus(log), log)
}

func TestAutoMatchCreatesSuggestionsForEligibleLeads(t *testing.T) {
	store := newFakeStore()
	lead := strongLead(leaddomain.StageNew)
	svc := newTestService(store, []leaddomain.Lead{lead}, []propdomain.Property{sellableListing()})

	created, err := svc.AutoMatch(context.Background())
	if err != nil {
		t.Fatalf("AutoMatch returned error: %v", err)
	}
	if created != 1 {
		t.Fatalf("expected 1 match created, got %d", created)
	}
}

func TestAutoMatchIsIdempotent(t *testing.T) {
	store := newFakeStore()
	lead := strongLead(leaddomain.StageContacted)
	svc := newTestService(store, []leaddomain.Lead{lead}, []propdomain.Property{sellableListing()})

	if _, err := svc.AutoMatch(context.Background()); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	created, err := svc.AutoMatch(context.Background())
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if created != 0 {
		t.Fatalf("second pass created %d matches, want 0", created)
	}
	if store.created != 1 {
		t.Fatalf("store holds %d creations, want 1", store.created)
	}
}

func TestAutoMatchSkipsIneligibleStagesAndMergedLeads(t *testing.T) {
	store := newFakeStore()
	negotiating := strongLead(leaddomain.StageNegotiation)

	merged := strongLead(leaddomain.StageNew)
	other := uuid.New()
	merged.MergedIntoLeadID = &other

	svc := newTestService(store, []leaddomain.Lead{negotiating, merged}, []propdomain.Property{sellableListing()})

	created, err := svc.AutoMatch(context.Background())
	if err != nil {
		t.Fatalf("AutoMatch returned error: %v", err)
	}
	if created != 0 {
		t.Fatalf("expected no matches, got %d", created)
	}
}

func TestAutoMatchSkipsScoresBelowThreshold(t *testing.T) {
	store := newFakeStore()
	lead := strongLead(leaddomain.StageNew)

	// Same city but wrong type, wrong configuration: 20+0+30+0+5 = 55 < 60.
	weak := sellableListing()
	weak.PropertyType = propdomain.TypeVilla
	weak.Configuration = "Plot"

	svc := newTestService(store, []leaddomain.Lead{lead}, []propdomain.Property{weak})

	created, err := svc.AutoMatch(context.Background())
	if err != nil {
		t.Fatalf("AutoMatch returned error: %v", err)
	}
	if created != 0 {
		t.Fatalf("expected below-threshold score to be skipped, got %d created", created)
	}
}

func TestAutoMatchCapsPerLeadSuggestions(t *testing.T) {
	store := newFakeStore()
	lead := strongLead(leaddomain.StageQualified)

	properties := make([]propdomain.Property, 0, 5)
	for i := 0; i < 5; i++ {
		properties = append(properties, sellableListing())
	}

	svc := newTestService(store, []leaddomain.Lead{lead}, properties)

	created, err := svc.AutoMatch(context.Background())
	if err != nil {
		t.Fatalf("AutoMatch returned error: %v", err)
	}
	if created != autoMatchTopN {
		t.Fatalf("expected %d matches (top-N cap), got %d", autoMatchTopN, created)
	}
}

func TestSetMatchStatus(t *testing.T) {
	store := newFakeStore()
	lead := strongLead(leaddomain.StageNew)
	svc := newTestService(store, []leaddomain.Lead{lead}, []propdomain.Property{sellableListing()})

	if _, err := svc.AutoMatch(context.Background()); err != nil {
		t.Fatalf("AutoMatch: %v", err)
	}
	matches, err := svc.MatchesForLead(context.Background(), lead.ID)
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d (err %v)", len(matches), err)
	}

	updated, err := svc.SetMatchStatus(context.Background(), matches[0].ID, MatchAccepted)
	if err != nil {
		t.Fatalf("SetMatchStatus: %v", err)
	}
	if updated.Status != MatchAccepted {
		t.Fatalf("expected accepted, got %s", updated.Status)
	}

	if _, err := svc.SetMatchStatus(context.Background(), matches[0].ID, MatchStatus("archived")); err == nil {
		t.Fatal("expected validation error for unknown status")
	}

	if _, err := svc.SetMatchStatus(context.Background(), uuid.New(), MatchRejected); err == nil {
		t.Fatal("expected not found error for unknown match id")
	}
}

func TestSuggestForLead(t *testing.T) {
	store := newFakeStore()
	lead := strongLead(leaddomain.StageNew)

	listings := []propdomain.Property{sellableListing(), sellableListing(), sellableListing()}
	svc := newTestService(store, []leaddomain.Lead{lead}, listings)

	ranked, err := svc.SuggestForLead(context.Background(), lead.ID, 2)
	if err != nil {
		t.Fatalf("SuggestForLead: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected limit to cap suggestions at 2, got %d", len(ranked))
	}
	if store.created != 0 {
		t.Fatalf("on-demand suggestions persisted %d records, want 0", store.created)
	}

	if _, err := svc.SuggestForLead(context.Background(), uuid.New(), 5); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for unknown lead, got %v", err)
	}

	merged := strongLead(leaddomain.StageNew)
	other := uuid.New()
	merged.MergedIntoLeadID = &other
	svc = newTestService(store, []leaddomain.Lead{merged}, listings)
	if _, err := svc.SuggestForLead(context.Background(), merged.ID, 5); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for merged lead, got %v", err)
	}
}

type conflictingStore struct{ *fakeStore }

func (c conflictingStore) Create(context.Context, CreateMatchParams) (Match, error) {
	return Match{}, &pgconn.PgError{Code: "23505"}
}

func TestAutoMatchSkipsConcurrentDuplicateInserts(t *testing.T) {
	lead := strongLead(leaddomain.StageNew)
	svc := newTestService(conflictingStore{newFakeStore()}, []leaddomain.Lead{lead}, []propdomain.Property{sellableListing()})

	created, err := svc.AutoMatch(context.Background())
	if err != nil {
		t.Fatalf("AutoMatch returned error: %v", err)
	}
	if created != 0 {
		t.Fatalf("expected duplicate insert to be counted as existing, got %d created", created)
	}
}
