// Package matching scores property-to-lead compatibility and ranks property
// sets for a lead. Scoring is an additive sum of independent, capped
// factors; missing lead preferences contribute zero instead of failing.
package matching

import (
	"math"
	"sort"
	"strings"

	leaddomain "estate_crm_backend/internal/leads/domain"
	propdomain "estate_crm_backend/internal/properties/domain"
)

// RankFloor is the minimum score a property must reach to appear in
// ranked results.
const RankFloor = 40

// AutoMatchThreshold is the minimum score for a match record to be created
// automatically.
const AutoMatchThreshold = 60

// RankedProperty pairs a property with its compatibility score.
type RankedProperty struct {
	Property propdomain.Property
	Score    int
}

// MatchScore computes a 0-100 compatibility score between one property and
// one lead.
func MatchScore(property propdomain.Property, lead leaddomain.Lead) int {
	score := locationScore(property, lead) +
		typeScore(property, lead) +
		budgetScore(property, lead) +
		configurationScore(property, lead) +
		availabilityScore(property)

	// Factor caps bound the sum at 100 already.
	if score > 100 {
		score = 100
	}
	return score
}

// Rank filters to sellable properties (available or under negotiation),
// scores them against the lead, drops anything under RankFloor, and returns
// at most limit entries sorted by score descending. Ties keep input order.
func Rank(properties []propdomain.Property, lead leaddomain.Lead, limit int) []RankedProperty {
	ranked := make([]RankedProperty, 0, len(properties))
	for _, p := range properties {
		if p.Status != propdomain.StatusAvailable && p.Status != propdomain.StatusUnderNegotiation {
			continue
		}
		score := MatchScore(p, lead)
		if score < RankFloor {
			continue
		}
		ranked = append(ranked, RankedProperty{Property: p, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// locationScore awards 20 for a city match and a further 10 when either
// area string contains the other.
func locationScore(property propdomain.Property, lead leaddomain.Lead) int {
	if property.City == "" || lead.PreferredCity == nil || *lead.PreferredCity == "" {
		return 0
	}
	if !strings.EqualFold(property.City, *lead.PreferredCity) {
		return 0
	}

	score := 20
	if property.Area != "" && lead.PreferredArea != nil && *lead.PreferredArea != "" {
		propArea := strings.ToLower(property.Area)
		leadArea := strings.ToLower(*lead.PreferredArea)
		if strings.Contains(propArea, leadArea) || strings.Contains(leadArea, propArea) {
			score += 10
		}
	}
	return score
}

func typeScore(property propdomain.Property, lead leaddomain.Lead) int {
	if lead.PropertyType == nil || *lead.PropertyType == "" {
		return 0
	}
	if string(property.PropertyType) == *lead.PropertyType {
		return 20
	}
	return 0
}

// budgetScore treats a missing budgetMin as 0 and a missing budgetMax as
// unbounded. Near-miss bands soften the cliff just outside the range.
func budgetScore(property propdomain.Property, lead leaddomain.Lead) int {
	if property.Price <= 0 {
		return 0
	}

	price := float64(property.Price)
	budgetMin := 0.0
	if lead.BudgetMin != nil {
		budgetMin = float64(*lead.BudgetMin)
	}
	budgetMax := math.Inf(1)
	if lead.BudgetMax != nil {
		budgetMax = float64(*lead.BudgetMax)
	}

	switch {
	case price >= budgetMin && price <= budgetMax:
		return 30
	case price <= budgetMax*1.1:
		return 20
	case price >= budgetMin*0.9:
		return 15
	case price <= budgetMax*1.2:
		return 10
	default:
		return 0
	}
}

func configurationScore(property propdomain.Property, lead leaddomain.Lead) int {
	if lead.Bedrooms == nil || *lead.Bedrooms == 0 {
		return 0
	}
	propBedrooms := property.Bedrooms()
	if propBedrooms == 0 {
		return 0
	}

	diff := propBedrooms - *lead.Bedrooms
	if diff < 0 {
		diff = -diff
	}
	switch diff {
	case 0:
		return 15
	case 1:
		return 8
	default:
		return 0
	}
}

func availabilityScore(property propdomain.Property) int {
	switch property.Status {
	case propdomain.StatusAvailable:
		return 5
	case propdomain.StatusUnderNegotiation:
		return 2
	default:
		return 0
	}
}
