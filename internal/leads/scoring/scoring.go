// Package scoring computes lead quality scores, temperature classifications,
// and next-action suggestions. All functions are pure over their snapshot
// inputs; callers re-run them whenever a scoring-relevant field changes or a
// new activity is appended.
package scoring

import (
	"time"

	"estate_crm_backend/internal/leads/domain"
)

// Factor caps. The six factors sum to at most 100 by construction.
const (
	maxBudgetPoints     = 25
	maxTimelinePoints   = 20
	maxFinancingPoints  = 15
	maxSourcePoints     = 10
	maxEngagementPoints = 20
	maxRecencyPoints    = 10
)

// Classification thresholds.
const (
	hotThreshold  = 70
	warmThreshold = 40
)

var timelinePoints = map[domain.Timeline]int{
	domain.TimelineImmediate:     20,
	domain.TimelineShort:         15,
	domain.TimelineMid:           10,
	domain.TimelineLong:          5,
	domain.TimelineJustExploring: 2,
}

var financingPoints = map[domain.FinancingStatus]int{
	domain.FinancingCash:         15,
	domain.FinancingPreapproved:  12,
	domain.FinancingLoanRequired: 8,
	domain.FinancingUnsure:       3,
}

var sourcePoints = map[domain.SourceType]int{
	domain.SourceReferral:     10,
	domain.SourceWalkIn:       9,
	domain.SourceGoogleAds:    7,
	domain.SourceWebsite:      7,
	domain.SourceFacebookAds:  6,
	domain.SourceInstagramAds: 6,
	domain.Source99Acres:      6,
	domain.SourceMagicBricks:  6,
	domain.SourceYouTubeAds:   5,
	domain.SourceCSVImport:    3,
	domain.SourceOther:        3,
}

// Breakdown itemises a score by factor. Each value is already capped.
type Breakdown struct {
	Budget     int `json:"budget"`
	Timeline   int `json:"timeline"`
	Financing  int `json:"financing"`
	Source     int `json:"source"`
	Engagement int `json:"engagement"`
	Recency    int `json:"recency"`
	Total      int `json:"total"`
}

// Score computes a 0-100 quality score for a lead. Missing or unrecognised
// inputs contribute zero points; the function is total over its input
// domain.
func Score(lead domain.Lead, activities []domain.Activity, now time.Time) int {
	return ScoreBreakdown(lead, activities, now).Total
}

// ScoreBreakdown computes the score along with its per-factor contributions.
func ScoreBreakdown(lead domain.Lead, activities []domain.Activity, now time.Time) Breakdown {
	b := Breakdown{
		Budget:     budgetScore(lead),
		Timeline:   timelinePoints[lead.Timeline],
		Financing:  financingPoints[lead.FinancingStatus],
		Source:     sourcePoints[lead.SourceType],
		Engagement: engagementScore(activities),
		Recency:    recencyScore(lead, now),
	}

	total := b.Budget + b.Timeline + b.Financing + b.Source + b.Engagement + b.Recency
	// The factor caps already bound the sum at 100.
	if total > 100 {
		total = 100
	}
	b.Total = total
	return b
}

// Classify maps a score to a temperature band.
func Classify(score int) domain.Temperature {
	switch {
	case score >= hotThreshold:
		return domain.TemperatureHot
	case score >= warmThreshold:
		return domain.TemperatureWarm
	default:
		return domain.TemperatureCold
	}
}

func budgetScore(lead domain.Lead) int {
	budget := int64(0)
	if lead.BudgetMax != nil {
		budget = *lead.BudgetMax
	}
	if lead.BudgetMin != nil && *lead.BudgetMin > budget {
		budget = *lead.BudgetMin
	}

	switch {
	case budget <= 0:
		return 0
	case budget >= 50_000_000:
		return 25
	case budget >= 30_000_000:
		return 20
	case budget >= 15_000_000:
		return 15
	case budget >= 5_000_000:
		return 10
	default:
		return 5
	}
}

func engagementScore(activities []domain.Activity) int {
	var inbound, outbound, siteVisits int
	for _, a := range activities {
		switch a.Direction {
		case domain.DirectionInbound:
			inbound++
		case domain.DirectionOutbound:
			outbound++
		}
		if a.Type == domain.ActivitySiteVisit {
			siteVisits++
		}
	}

	return min(inbound*3, 10) + min(siteVisits*5, 5) + min(outbound*1, 5)
}

func recencyScore(lead domain.Lead, now time.Time) int {
	last := latestContact(lead)
	if last == nil {
		return 0
	}

	daysSince := now.Sub(*last).Hours() / 24
	switch {
	case daysSince <= 1:
		return 10
	case daysSince <= 3:
		return 7
	case daysSince <= 7:
		return 5
	case daysSince <= 14:
		return 3
	default:
		return 1
	}
}

// latestContact returns the later of lastContactedAt and
// lastInboundActivityAt, or nil when the lead was never contacted.
func latestContact(lead domain.Lead) *time.Time {
	last := lead.LastContactedAt
	if lead.LastInboundActivityAt != nil && (last == nil || lead.LastInboundActivityAt.After(*last)) {
		last = lead.LastInboundActivityAt
	}
	return last
}
