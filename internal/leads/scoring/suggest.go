package scoring

import (
	"time"

	"estate_crm_backend/internal/leads/domain"
)

// neverContacted stands in for days-since-contact when a lead has no
// contact timestamps, so the "stale" branches fire.
const neverContacted = 999

// SuggestNextAction returns a human-readable next step for a lead, keyed on
// temperature band, funnel stage, and days since last contact. The output
// is advisory only.
func SuggestNextAction(lead domain.Lead, activities []domain.Activity, now time.Time) string {
	score := Score(lead, activities, now)

	daysSinceContact := float64(neverContacted)
	if lead.LastContactedAt != nil {
		daysSinceContact = now.Sub(*lead.LastContactedAt).Hours() / 24
	}

	if score >= hotThreshold {
		switch lead.FunnelStage {
		case domain.StageNew, domain.StageContacted:
			return "Schedule site visit immediately"
		case domain.StageQualified:
			return "Send property matches and schedule consultation"
		case domain.StageConsultationScheduled:
			return "Confirm site visit and prepare property presentation"
		case domain.StageSiteVisitDone:
			return "Follow up within 24 hours to discuss feedback"
		case domain.StageNegotiation:
			return "Close the deal - send final offer"
		}
	}

	if score >= warmThreshold {
		if daysSinceContact > 3 {
			return "Follow-up call or WhatsApp message needed"
		}
		switch lead.FunnelStage {
		case domain.StageNew:
			return "Initial call to qualify the lead"
		case domain.StageContacted:
			return "Share property options matching their budget"
		case domain.StageQualified:
			return "Schedule consultation call"
		}
	}

	if daysSinceContact > 7 {
		return "Nurture campaign - send market updates"
	}
	return "Continue nurturing with valuable content"
}
