package assignment

import (
	"math/rand"
	"testing"

	"estate_crm_backend/internal/leads/domain"

	"github.com/google/uuid"
)

func str(s string) *string { return &s }

func testRand() *rand.Rand { return rand.New(rand.NewSource(1)) }

func agent(name string, role domain.AgentRole) domain.Agent {
	return domain.Agent{ID: uuid.New(), FullName: name, Role: role}
}

func openLead(agentID uuid.UUID, city string, stage domain.FunnelStage) domain.Lead {
	return domain.Lead{
		ID:              uuid.New(),
		AssignedAgentID: &agentID,
		PreferredCity:   &city,
		FunnelStage:     stage,
	}
}

func TestAutoAssignPicksLeastLoadedAgentInCity(t *testing.T) {
	busy := agent("Busy Agent", domain.RoleAgent)
	idle := agent("Idle Agent", domain.RoleAgent)

	existing := []domain.Lead{
		openLead(busy.ID, "Mumbai", domain.StageNew),
		openLead(busy.ID, "Mumbai", domain.StageContacted),
	}

	lead := domain.Lead{ID: uuid.New(), PreferredCity: str("Mumbai"), FunnelStage: domain.StageNew}

	got := AutoAssign(lead, []domain.Agent{busy, idle}, existing, testRand())
	if !got.Assigned {
		t.Fatal("expected an assignment")
	}
	if got.Strategy != StrategyGeoLoadBalance {
		t.Fatalf("expected geo strategy, got %s", got.Strategy)
	}
	if got.Agent.ID != idle.ID {
		t.Fatalf("expected least-loaded agent %s, got %s", idle.FullName, got.Agent.FullName)
	}
}

func TestAutoAssignTieBreaksOnProvidedOrder(t *testing.T) {
	first := agent("First", domain.RoleAgent)
	second := agent("Second", domain.RoleAgent)

	lead := domain.Lead{ID: uuid.New(), PreferredCity: str("Pune")}

	got := AutoAssign(lead, []domain.Agent{first, second}, nil, testRand())
	if !got.Assigned || got.Agent.ID != first.ID {
		t.Fatalf("expected first-listed agent to win the tie, got %+v", got)
	}
}

func TestAutoAssignExcludedLoadCounts(t *testing.T) {
	a := agent("A", domain.RoleAgent)
	b := agent("B", domain.RoleAgent)

	merged := uuid.New()
	mergedLead := openLead(a.ID, "Pune", domain.StageNew)
	mergedLead.MergedIntoLeadID = &merged

	existing := []domain.Lead{
		openLead(a.ID, "Pune", domain.StageClosedWon), // terminal, not counted
		openLead(a.ID, "Delhi", domain.StageNew),      // other city, not counted
		mergedLead,                                    // merged, not counted
		openLead(b.ID, "Pune", domain.StageNew),       // b carries one open Pune lead
	}

	lead := domain.Lead{ID: uuid.New(), PreferredCity: str("Pune")}

	got := AutoAssign(lead, []domain.Agent{a, b}, existing, testRand())
	if !got.Assigned || got.Agent.ID != a.ID {
		t.Fatalf("expected agent A (zero countable load), got %+v", got)
	}
}

func TestAutoAssignSkipsNonAgentRoles(t *testing.T) {
	admin := agent("Admin", domain.RoleAdmin)
	viewer := agent("Viewer", domain.RoleViewer)
	telecaller := agent("Telecaller", domain.RoleTelecaller)

	lead := domain.Lead{ID: uuid.New(), PreferredCity: str("Mumbai")}

	got := AutoAssign(lead, []domain.Agent{admin, viewer, telecaller}, nil, testRand())
	if got.Assigned {
		t.Fatalf("expected no assignment when no agent/team_lead candidates, got %+v", got)
	}
}

func TestAutoAssignSourceFallbackToTeamLead(t *testing.T) {
	tl := agent("Team Lead", domain.RoleTeamLead)
	regular := agent("Regular", domain.RoleAgent)

	// No preferred city, so geo balancing does not apply.
	lead := domain.Lead{ID: uuid.New(), SourceType: domain.SourceReferral}

	got := AutoAssign(lead, []domain.Agent{regular, tl}, nil, testRand())
	if !got.Assigned {
		t.Fatal("expected source fallback assignment")
	}
	if got.Strategy != StrategySourceFallback {
		t.Fatalf("expected source_fallback strategy, got %s", got.Strategy)
	}
	if got.Agent.ID != tl.ID {
		t.Fatalf("expected team lead, got %s (%s)", got.Agent.FullName, got.Agent.Role)
	}
}

func TestAutoAssignSourceFallbackIsDeterministicWithSeed(t *testing.T) {
	leadsPool := []domain.Agent{
		agent("TL One", domain.RoleTeamLead),
		agent("TL Two", domain.RoleTeamLead),
		agent("TL Three", domain.RoleTeamLead),
	}
	lead := domain.Lead{ID: uuid.New(), SourceType: domain.SourceWalkIn}

	first := AutoAssign(lead, leadsPool, nil, rand.New(rand.NewSource(42)))
	second := AutoAssign(lead, leadsPool, nil, rand.New(rand.NewSource(42)))

	if first.Agent.ID != second.Agent.ID {
		t.Fatalf("same seed produced different picks: %s vs %s", first.Agent.FullName, second.Agent.FullName)
	}
}

func TestAutoAssignLowValueSourceWithoutCityStaysUnassigned(t *testing.T) {
	tl := agent("Team Lead", domain.RoleTeamLead)

	lead := domain.Lead{ID: uuid.New(), SourceType: domain.SourceCSVImport}

	got := AutoAssign(lead, []domain.Agent{tl}, nil, testRand())
	if got.Assigned || got.Strategy != StrategyNone {
		t.Fatalf("expected unassigned, got %+v", got)
	}
}

func TestAutoAssignNeverOverwritesExistingAssignment(t *testing.T) {
	current := uuid.New()
	available := agent("Available", domain.RoleAgent)

	lead := domain.Lead{
		ID:              uuid.New(),
		PreferredCity:   str("Mumbai"),
		AssignedAgentID: &current,
	}

	got := AutoAssign(lead, []domain.Agent{available}, nil, testRand())
	if got.Assigned {
		t.Fatalf("assignment must be a no-op for assigned leads, got %+v", got)
	}
}

func TestAutoAssignSkipsMergedLead(t *testing.T) {
	mergedInto := uuid.New()
	available := agent("Available", domain.RoleAgent)

	lead := domain.Lead{
		ID:               uuid.New(),
		PreferredCity:    str("Mumbai"),
		MergedIntoLeadID: &mergedInto,
	}

	if got := AutoAssign(lead, []domain.Agent{available}, nil, testRand()); got.Assigned {
		t.Fatalf("merged lead must not be assigned, got %+v", got)
	}
}
