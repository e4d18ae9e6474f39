// Package assignment decides which agent should own an unassigned lead.
// Strategies are evaluated in order; the first applicable one wins. The
// engine only produces a decision, it never persists.
package assignment

import (
	"math/rand"
	"strings"

	"estate_crm_backend/internal/leads/domain"
)

// Strategy identifies which rule produced an assignment decision.
type Strategy string

const (
	// StrategyGeoLoadBalance picks the least-loaded agent in the lead's city.
	StrategyGeoLoadBalance Strategy = "geo_load_balance"
	// StrategySourceFallback routes high-value sources to a random team lead.
	StrategySourceFallback Strategy = "source_fallback"
	// StrategyNone means the lead stays unassigned.
	StrategyNone Strategy = "none"
)

// highValueSources route to senior agents when geo balancing cannot apply.
var highValueSources = map[domain.SourceType]bool{
	domain.SourceReferral: true,
	domain.SourceWalkIn:   true,
}

// Decision is the assignment outcome for a lead.
type Decision struct {
	Assigned bool
	Agent    domain.Agent
	Strategy Strategy
}

// AutoAssign picks an owner for an unassigned lead. Already-assigned and
// merged leads produce a no-decision, keeping the operation idempotent.
//
// Geo load balancing counts each candidate's open leads (funnel stage not
// terminal, not merged) in the lead's preferred city and picks the minimum.
// Ties go to the first candidate in the provided agent ordering; the
// repository supplies agents sorted by creation time then id, which makes
// the tie-break deterministic.
//
// rng drives the random team-lead pick in the source fallback; injecting it
// keeps the strategy seedable in tests.
func AutoAssign(lead domain.Lead, agents []domain.Agent, existing []domain.Lead, rng *rand.Rand) Decision {
	if lead.AssignedAgentID != nil || lead.IsMerged() {
		return Decision{Strategy: StrategyNone}
	}

	// Strategy 1: geo load balancing.
	if lead.PreferredCity != nil && *lead.PreferredCity != "" {
		if best, ok := leastLoadedIn(*lead.PreferredCity, agents, existing); ok {
			return Decision{Assigned: true, Agent: best, Strategy: StrategyGeoLoadBalance}
		}
	}

	// Strategy 2: high-value sources go to a random team lead.
	if highValueSources[lead.SourceType] {
		teamLeads := filterByRole(agents, domain.RoleTeamLead)
		if len(teamLeads) > 0 {
			pick := teamLeads[rng.Intn(len(teamLeads))]
			return Decision{Assigned: true, Agent: pick, Strategy: StrategySourceFallback}
		}
	}

	return Decision{Strategy: StrategyNone}
}

func leastLoadedIn(city string, agents []domain.Agent, existing []domain.Lead) (domain.Agent, bool) {
	var best domain.Agent
	bestCount := -1

	for _, agent := range agents {
		if agent.Role != domain.RoleAgent && agent.Role != domain.RoleTeamLead {
			continue
		}
		count := openLeadCount(agent, city, existing)
		if bestCount < 0 || count < bestCount {
			best = agent
			bestCount = count
		}
	}

	return best, bestCount >= 0
}

func openLeadCount(agent domain.Agent, city string, existing []domain.Lead) int {
	count := 0
	for _, l := range existing {
		if l.IsMerged() || l.AssignedAgentID == nil || *l.AssignedAgentID != agent.ID {
			continue
		}
		if l.PreferredCity == nil || !strings.EqualFold(*l.PreferredCity, city) {
			continue
		}
		if domain.IsTerminalStage(l.FunnelStage) {
			continue
		}
		count++
	}
	return count
}

func filterByRole(agents []domain.Agent, role domain.AgentRole) []domain.Agent {
	var out []domain.Agent
	for _, a := range agents {
		if a.Role == role {
			out = append(out, a)
		}
	}
	return out
}
