// Package transport defines the request and response shapes of the leads
// HTTP API.
package transport

import (
	"time"

	"estate_crm_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// CreateLeadRequest is the intake payload. Only the name, phone, and
// source are required; every qualification field may arrive later.
type CreateLeadRequest struct {
	FullName        string `json:"fullName" validate:"required,min=2,max=200"`
	PrimaryPhone    string `json:"primaryPhone" validate:"required,min=6,max=20"`
	Email           string `json:"email" validate:"omitempty,email"`
	WhatsAppNumber  string `json:"whatsappNumber" validate:"omitempty,min=6,max=20"`
	PreferredCity   string `json:"preferredCity" validate:"omitempty,max=100"`
	PreferredArea   string `json:"preferredArea" validate:"omitempty,max=200"`
	PropertyType    string `json:"propertyType" validate:"omitempty,oneof=apartment villa plot commercial other"`
	Bedrooms        *int   `json:"bedrooms" validate:"omitempty,min=0,max=20"`
	BudgetMin       *int64 `json:"budgetMin" validate:"omitempty,min=0"`
	BudgetMax       *int64 `json:"budgetMax" validate:"omitempty,min=0"`
	Purpose         string `json:"purpose" validate:"omitempty,oneof=self_use investment"`
	Timeline        string `json:"timeline" validate:"omitempty,oneof=immediate_0_30 short_30_90 mid_3_6_months long_6plus just_exploring"`
	FinancingStatus string `json:"financingStatus" validate:"omitempty,oneof=cash preapproved_loan loan_required unsure"`
	SourceType      string `json:"sourceType" validate:"required,oneof=facebook_ads instagram_ads google_ads youtube_ads portal_99acres portal_magicbricks website_landing_page walkin referral csv_import other"`

	// AllowDuplicate forces creation past a duplicate verdict.
	AllowDuplicate bool `json:"allowDuplicate"`
}

// UpdateLeadRequest carries partial updates; absent fields stay untouched.
type UpdateLeadRequest struct {
	FullName        *string `json:"fullName" validate:"omitempty,min=2,max=200"`
	PrimaryPhone    *string `json:"primaryPhone" validate:"omitempty,min=6,max=20"`
	Email           *string `json:"email" validate:"omitempty,email"`
	WhatsAppNumber  *string `json:"whatsappNumber"`
	PreferredCity   *string `json:"preferredCity" validate:"omitempty,max=100"`
	PreferredArea   *string `json:"preferredArea" validate:"omitempty,max=200"`
	PropertyType    *string `json:"propertyType" validate:"omitempty,oneof=apartment villa plot commercial other"`
	Bedrooms        *int    `json:"bedrooms" validate:"omitempty,min=0,max=20"`
	BudgetMin       *int64  `json:"budgetMin" validate:"omitempty,min=0"`
	BudgetMax       *int64  `json:"budgetMax" validate:"omitempty,min=0"`
	Purpose         *string `json:"purpose" validate:"omitempty,oneof=self_use investment"`
	Timeline        *string `json:"timeline" validate:"omitempty,oneof=immediate_0_30 short_30_90 mid_3_6_months long_6plus just_exploring"`
	FinancingStatus *string `json:"financingStatus" validate:"omitempty,oneof=cash preapproved_loan loan_required unsure"`
	SourceType      *string `json:"sourceType" validate:"omitempty,oneof=facebook_ads instagram_ads google_ads youtube_ads portal_99acres portal_magicbricks website_landing_page walkin referral csv_import other"`
}

// ChangeStageRequest moves a lead through the funnel.
type ChangeStageRequest struct {
	Stage string `json:"stage" validate:"required"`
}

// AssignRequest manually hands a lead to an agent.
type AssignRequest struct {
	AgentID uuid.UUID `json:"agentId" validate:"required"`
}

// MergeRequest absorbs this lead into a surviving record.
type MergeRequest struct {
	SurvivorID uuid.UUID `json:"survivorId" validate:"required"`
}

// AddActivityRequest appends a timeline entry.
type AddActivityRequest struct {
	Type      string `json:"type" validate:"required,oneof=call whatsapp email meeting site_visit note"`
	Direction string `json:"direction" validate:"required,oneof=outbound inbound"`
	Note      string `json:"note" validate:"omitempty,max=2000"`
}

// ImportLeadsRequest carries rows for a bulk import. Each row runs the
// standard intake pipeline; duplicates are skipped, not rejected.
type ImportLeadsRequest struct {
	Leads []ImportLeadRow `json:"leads" validate:"required,min=1,max=500,dive"`
}

// ImportLeadRow is one record of a bulk import.
type ImportLeadRow struct {
	FullName        string `json:"fullName" validate:"required,min=2,max=200"`
	PrimaryPhone    string `json:"primaryPhone" validate:"required,min=6,max=20"`
	Email           string `json:"email" validate:"omitempty,email"`
	PreferredCity   string `json:"preferredCity" validate:"omitempty,max=100"`
	PreferredArea   string `json:"preferredArea" validate:"omitempty,max=200"`
	PropertyType    string `json:"propertyType" validate:"omitempty,oneof=apartment villa plot commercial other"`
	Bedrooms        *int   `json:"bedrooms" validate:"omitempty,min=0,max=20"`
	BudgetMin       *int64 `json:"budgetMin" validate:"omitempty,min=0"`
	BudgetMax       *int64 `json:"budgetMax" validate:"omitempty,min=0"`
	Timeline        string `json:"timeline" validate:"omitempty,oneof=immediate_0_30 short_30_90 mid_3_6_months long_6plus just_exploring"`
	FinancingStatus string `json:"financingStatus" validate:"omitempty,oneof=cash preapproved_loan loan_required unsure"`
}

// ImportResult summarises a bulk import run.
type ImportResult struct {
	Created int              `json:"created"`
	Skipped int              `json:"skipped"`
	Errors  []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError reports why a single row was not imported.
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// LeadResponse is the API view of a lead.
type LeadResponse struct {
	ID                    uuid.UUID  `json:"id"`
	FullName              string     `json:"fullName"`
	PrimaryPhone          string     `json:"primaryPhone"`
	Email                 *string    `json:"email,omitempty"`
	WhatsAppNumber        *string    `json:"whatsappNumber,omitempty"`
	PreferredCity         *string    `json:"preferredCity,omitempty"`
	PreferredArea         *string    `json:"preferredArea,omitempty"`
	PropertyType          *string    `json:"propertyType,omitempty"`
	Bedrooms              *int       `json:"bedrooms,omitempty"`
	BudgetMin             *int64     `json:"budgetMin,omitempty"`
	BudgetMax             *int64     `json:"budgetMax,omitempty"`
	Purpose               *string    `json:"purpose,omitempty"`
	Timeline              string     `json:"timeline,omitempty"`
	FinancingStatus       string     `json:"financingStatus,omitempty"`
	SourceType            string     `json:"sourceType"`
	FunnelStage           string     `json:"funnelStage"`
	Temperature           string     `json:"temperature"`
	Score                 int        `json:"score"`
	AssignedAgentID       *uuid.UUID `json:"assignedAgentId,omitempty"`
	LastContactedAt       *time.Time `json:"lastContactedAt,omitempty"`
	LastInboundActivityAt *time.Time `json:"lastInboundActivityAt,omitempty"`
	LastStageChangedAt    *time.Time `json:"lastStageChangedAt,omitempty"`
	MergedIntoLeadID      *uuid.UUID `json:"mergedIntoLeadId,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// ActivityResponse is the API view of a timeline entry.
type ActivityResponse struct {
	ID        uuid.UUID  `json:"id"`
	LeadID    uuid.UUID  `json:"leadId"`
	Type      string     `json:"type"`
	Direction string     `json:"direction"`
	Note      string     `json:"note,omitempty"`
	OldValue  *string    `json:"oldValue,omitempty"`
	NewValue  *string    `json:"newValue,omitempty"`
	ActorID   *uuid.UUID `json:"actorId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// DuplicateCheckResponse is the verdict of an explicit duplicate probe.
type DuplicateCheckResponse struct {
	IsDuplicate    bool       `json:"isDuplicate"`
	MatchType      string     `json:"matchType,omitempty"`
	ExistingLeadID *uuid.UUID `json:"existingLeadId,omitempty"`
}

// ScoreResponse exposes a lead's score with its factor breakdown.
type ScoreResponse struct {
	LeadID      uuid.UUID `json:"leadId"`
	Score       int       `json:"score"`
	Temperature string    `json:"temperature"`
	Budget      int       `json:"budget"`
	Timeline    int       `json:"timeline"`
	Financing   int       `json:"financing"`
	Source      int       `json:"source"`
	Engagement  int       `json:"engagement"`
	Recency     int       `json:"recency"`
}

// NextActionResponse is the follow-up directive for a lead.
type NextActionResponse struct {
	LeadID      uuid.UUID `json:"leadId"`
	Action      string    `json:"action"`
	Score       int       `json:"score"`
	Temperature string    `json:"temperature"`
}

// StatsResponse aggregates the active pipeline.
type StatsResponse struct {
	Total         int            `json:"total"`
	ByStage       map[string]int `json:"byStage"`
	ByTemperature map[string]int `json:"byTemperature"`
}

// ToLeadResponse maps a domain snapshot to its API view.
func ToLeadResponse(l domain.Lead) LeadResponse {
	return LeadResponse{
		ID:                    l.ID,
		FullName:              l.FullName,
		PrimaryPhone:          l.PrimaryPhone,
		Email:                 l.Email,
		WhatsAppNumber:        l.WhatsAppNumber,
		PreferredCity:         l.PreferredCity,
		PreferredArea:         l.PreferredArea,
		PropertyType:          l.PropertyType,
		Bedrooms:              l.Bedrooms,
		BudgetMin:             l.BudgetMin,
		BudgetMax:             l.BudgetMax,
		Purpose:               l.Purpose,
		Timeline:              string(l.Timeline),
		FinancingStatus:       string(l.FinancingStatus),
		SourceType:            string(l.SourceType),
		FunnelStage:           string(l.FunnelStage),
		Temperature:           string(l.Temperature),
		Score:                 l.Score,
		AssignedAgentID:       l.AssignedAgentID,
		LastContactedAt:       l.LastContactedAt,
		LastInboundActivityAt: l.LastInboundActivityAt,
		LastStageChangedAt:    l.LastStageChangedAt,
		MergedIntoLeadID:      l.MergedIntoLeadID,
		CreatedAt:             l.CreatedAt,
		UpdatedAt:             l.UpdatedAt,
	}
}

// ToActivityResponse maps a timeline entry to its API view.
func ToActivityResponse(a domain.Activity) ActivityResponse {
	return ActivityResponse{
		ID:        a.ID,
		LeadID:    a.LeadID,
		Type:      string(a.Type),
		Direction: string(a.Direction),
		Note:      a.Note,
		OldValue:  a.OldValue,
		NewValue:  a.NewValue,
		ActorID:   a.ActorID,
		CreatedAt: a.CreatedAt,
	}
}
