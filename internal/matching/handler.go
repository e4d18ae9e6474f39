package matching

import (
	"net/http"
	"strconv"

	"estate_crm_backend/platform/httpkit"
	"estate_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidRequest = "invalid request"

const (
	defaultSuggestionLimit = 5
	maxSuggestionLimit     = 50
)

// UpdateMatchStatusRequest is the body for the status endpoint.
type UpdateMatchStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=suggested accepted rejected"`
}

// SuggestedPropertyResponse is one entry of the on-demand ranking for a
// lead. Nothing is persisted for these.
type SuggestedPropertyResponse struct {
	PropertyID    uuid.UUID `json:"propertyId"`
	Title         string    `json:"title"`
	City          string    `json:"city"`
	Area          string    `json:"area,omitempty"`
	PropertyType  string    `json:"propertyType"`
	Configuration string    `json:"configuration"`
	Price         int64     `json:"price"`
	Status        string    `json:"status"`
	MatchScore    int       `json:"matchScore"`
}

// MatchResponse is the wire representation of a match record.
type MatchResponse struct {
	ID            uuid.UUID `json:"id"`
	LeadID        uuid.UUID `json:"leadId"`
	PropertyID    uuid.UUID `json:"propertyId"`
	MatchScore    int       `json:"matchScore"`
	Status        string    `json:"status"`
	LeadName      string    `json:"leadName"`
	PropertyTitle string    `json:"propertyTitle"`
}

// Handler exposes match records over HTTP.
type Handler struct {
	svc *Service
	val *validator.Validator
}

// NewHandler creates the matching handler.
func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the matching routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListByLead)
	rg.POST("/run", h.Run)
	rg.PATCH("/:id/status", h.UpdateStatus)
}

// Run triggers one batch auto-match pass. The scheduler runs the same pass
// periodically; this endpoint exists for operators.
func (h *Handler) Run(c *gin.Context) {
	created, err := h.svc.AutoMatch(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"created": created})
}

// ListByLead returns the persisted match records for the lead given by the
// required leadId query parameter.
func (h *Handler) ListByLead(c *gin.Context) {
	leadID, err := uuid.Parse(c.Query("leadId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "leadId query parameter is required", nil)
		return
	}

	matches, err := h.svc.MatchesForLead(c.Request.Context(), leadID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	out := make([]MatchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, toMatchResponse(m))
	}
	httpkit.OK(c, out)
}

// SuggestForLead ranks the sellable inventory against one lead on demand.
func (h *Handler) SuggestForLead(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	limit := defaultSuggestionLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxSuggestionLimit {
			httpkit.Error(c, http.StatusBadRequest, "invalid limit", nil)
			return
		}
		limit = parsed
	}

	ranked, err := h.svc.SuggestForLead(c.Request.Context(), leadID, limit)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	out := make([]SuggestedPropertyResponse, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, SuggestedPropertyResponse{
			PropertyID:    r.Property.ID,
			Title:         r.Property.Title,
			City:          r.Property.City,
			Area:          r.Property.Area,
			PropertyType:  string(r.Property.PropertyType),
			Configuration: r.Property.Configuration,
			Price:         r.Property.Price,
			Status:        string(r.Property.Status),
			MatchScore:    r.Score,
		})
	}
	httpkit.OK(c, out)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req UpdateMatchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	match, err := h.svc.SetMatchStatus(c.Request.Context(), id, MatchStatus(req.Status))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, toMatchResponse(match))
}

func toMatchResponse(m Match) MatchResponse {
	return MatchResponse{
		ID:            m.ID,
		LeadID:        m.LeadID,
		PropertyID:    m.PropertyID,
		MatchScore:    m.MatchScore,
		Status:        string(m.Status),
		LeadName:      m.LeadName,
		PropertyTitle: m.PropertyTitle,
	}
}
