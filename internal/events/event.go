// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"estate_crm_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is taken in.
type LeadCreated struct {
	BaseEvent
	LeadID          uuid.UUID  `json:"leadId"`
	FullName        string     `json:"fullName"`
	SourceType      string     `json:"sourceType"`
	Score           int        `json:"score"`
	Temperature     string     `json:"temperature"`
	AssignedAgentID *uuid.UUID `json:"assignedAgentId,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadStageChanged is published after a funnel transition is persisted.
type LeadStageChanged struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	FromStage string    `json:"fromStage"`
	ToStage   string    `json:"toStage"`
}

func (e LeadStageChanged) EventName() string { return "leads.lead.stage_changed" }

// LeadAssigned is published when a lead gains an owner, whether by
// auto-assignment or a manual assign.
type LeadAssigned struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	LeadName   string    `json:"leadName"`
	AgentID    uuid.UUID `json:"agentId"`
	AgentName  string    `json:"agentName"`
	AgentEmail string    `json:"agentEmail"`
	Strategy   string    `json:"strategy"`
}

func (e LeadAssigned) EventName() string { return "leads.lead.assigned" }

// LeadScoreUpdated is published when a recompute changed a lead's score or
// temperature.
type LeadScoreUpdated struct {
	BaseEvent
	LeadID      uuid.UUID `json:"leadId"`
	Score       int       `json:"score"`
	Temperature string    `json:"temperature"`
}

func (e LeadScoreUpdated) EventName() string { return "leads.lead.score_updated" }

// LeadsMerged is published when a duplicate lead is absorbed into a
// surviving record.
type LeadsMerged struct {
	BaseEvent
	SurvivorID uuid.UUID `json:"survivorId"`
	MergedID   uuid.UUID `json:"mergedId"`
}

func (e LeadsMerged) EventName() string { return "leads.lead.merged" }

// =============================================================================
// Matching Domain Events
// =============================================================================

// PropertyMatchSuggested is published when the batch matcher creates a new
// suggested lead-property pairing.
type PropertyMatchSuggested struct {
	BaseEvent
	MatchID    uuid.UUID `json:"matchId"`
	LeadID     uuid.UUID `json:"leadId"`
	PropertyID uuid.UUID `json:"propertyId"`
	MatchScore int       `json:"matchScore"`
}

func (e PropertyMatchSuggested) EventName() string { return "matching.match.suggested" }
