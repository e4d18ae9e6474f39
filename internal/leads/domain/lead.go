// Package domain provides core business rules and snapshot types for the
// leads bounded context. The decisioning engines (scoring, dedupe,
// assignment, matching) operate on these read-only snapshots; persistence is
// the calling service's concern.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// FunnelStage is a lead's lifecycle position in the sales pipeline.
type FunnelStage string

const (
	StageNew                   FunnelStage = "new"
	StageContacted             FunnelStage = "contacted"
	StageQualified             FunnelStage = "qualified"
	StageConsultationScheduled FunnelStage = "consultation_scheduled"
	StageSiteVisitDone         FunnelStage = "site_visit_done"
	StageNegotiation           FunnelStage = "negotiation"
	StageUnderContract         FunnelStage = "under_contract"
	StageClosedWon             FunnelStage = "closed_won"
	StageClosedLost            FunnelStage = "closed_lost"
	StageOnHold                FunnelStage = "on_hold"
	StageJunk                  FunnelStage = "junk"
)

// Temperature is the coarse urgency classification derived from the score.
type Temperature string

const (
	TemperatureHot  Temperature = "hot"
	TemperatureWarm Temperature = "warm"
	TemperatureCold Temperature = "cold"
)

// Timeline buckets express how soon the lead intends to buy.
type Timeline string

const (
	TimelineImmediate     Timeline = "immediate_0_30"
	TimelineShort         Timeline = "short_30_90"
	TimelineMid           Timeline = "mid_3_6_months"
	TimelineLong          Timeline = "long_6plus"
	TimelineJustExploring Timeline = "just_exploring"
)

// FinancingStatus expresses how ready the lead is to pay.
type FinancingStatus string

const (
	FinancingCash         FinancingStatus = "cash"
	FinancingPreapproved  FinancingStatus = "preapproved_loan"
	FinancingLoanRequired FinancingStatus = "loan_required"
	FinancingUnsure       FinancingStatus = "unsure"
)

// SourceType is the acquisition channel of a lead.
type SourceType string

const (
	SourceFacebookAds  SourceType = "facebook_ads"
	SourceInstagramAds SourceType = "instagram_ads"
	SourceGoogleAds    SourceType = "google_ads"
	SourceYouTubeAds   SourceType = "youtube_ads"
	Source99Acres      SourceType = "portal_99acres"
	SourceMagicBricks  SourceType = "portal_magicbricks"
	SourceWebsite      SourceType = "website_landing_page"
	SourceWalkIn       SourceType = "walkin"
	SourceReferral     SourceType = "referral"
	SourceCSVImport    SourceType = "csv_import"
	SourceOther        SourceType = "other"
)

// ActivityType categorises timeline entries on a lead.
type ActivityType string

const (
	ActivityCall         ActivityType = "call"
	ActivityWhatsApp     ActivityType = "whatsapp"
	ActivityEmail        ActivityType = "email"
	ActivityMeeting      ActivityType = "meeting"
	ActivitySiteVisit    ActivityType = "site_visit"
	ActivityNote         ActivityType = "note"
	ActivityStatusChange ActivityType = "status_change"
	ActivityTask         ActivityType = "task"
	ActivitySystem       ActivityType = "system_automation"
	ActivityImport       ActivityType = "import"
)

// ActivityDirection records who initiated an activity.
type ActivityDirection string

const (
	DirectionOutbound ActivityDirection = "outbound"
	DirectionInbound  ActivityDirection = "inbound"
	DirectionSystem   ActivityDirection = "system"
)

// AgentRole is a user's role in the agent directory.
type AgentRole string

const (
	RoleAdmin      AgentRole = "admin"
	RoleTeamLead   AgentRole = "team_lead"
	RoleAgent      AgentRole = "agent"
	RoleTelecaller AgentRole = "telecaller"
	RoleViewer     AgentRole = "viewer"
)

// Lead is a read snapshot of a prospective customer record. Optional fields
// are pointers; the engines treat nil as "no signal", never as an error.
type Lead struct {
	ID                    uuid.UUID
	FullName              string
	PrimaryPhone          string
	Email                 *string
	WhatsAppNumber        *string
	PreferredCity         *string
	PreferredArea         *string
	PropertyType          *string
	Bedrooms              *int
	BudgetMin             *int64
	BudgetMax             *int64
	Purpose               *string
	Timeline              Timeline
	FinancingStatus       FinancingStatus
	SourceType            SourceType
	FunnelStage           FunnelStage
	Temperature           Temperature
	Score                 int
	AssignedAgentID       *uuid.UUID
	LastContactedAt       *time.Time
	LastInboundActivityAt *time.Time
	LastStageChangedAt    *time.Time
	MergedIntoLeadID      *uuid.UUID
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsMerged reports whether this lead has been absorbed into another record.
// Merged leads are excluded from duplicate checks, scoring recomputes,
// assignment, matching, and load counts.
func (l Lead) IsMerged() bool {
	return l.MergedIntoLeadID != nil
}

// Activity is an immutable, append-only timeline entry on a lead.
type Activity struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	Type      ActivityType
	Direction ActivityDirection
	Note      string
	OldValue  *string
	NewValue  *string
	ActorID   *uuid.UUID
	CreatedAt time.Time
}

// Agent is a read snapshot of a user in the agent directory.
type Agent struct {
	ID       uuid.UUID
	FullName string
	Email    string
	Role     AgentRole
}

var knownFunnelStages = map[FunnelStage]struct{}{
	StageNew:                   {},
	StageContacted:             {},
	StageQualified:             {},
	StageConsultationScheduled: {},
	StageSiteVisitDone:         {},
	StageNegotiation:           {},
	StageUnderContract:         {},
	StageClosedWon:             {},
	StageClosedLost:            {},
	StageOnHold:                {},
	StageJunk:                  {},
}

// IsKnownFunnelStage reports whether stage is a recognised lifecycle stage.
func IsKnownFunnelStage(stage FunnelStage) bool {
	_, ok := knownFunnelStages[stage]
	return ok
}

// terminalStages are conventionally excluded from active-pipeline views and
// from load-balancing counts. The state machine itself does not forbid
// leaving a terminal stage.
var terminalStages = map[FunnelStage]bool{
	StageClosedWon:  true,
	StageClosedLost: true,
	StageJunk:       true,
}

// IsTerminalStage reports whether the stage closes the lead out of the
// active pipeline.
func IsTerminalStage(stage FunnelStage) bool {
	return terminalStages[stage]
}
