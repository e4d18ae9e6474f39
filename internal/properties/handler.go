package properties

import (
	"net/http"
	"time"

	"estate_crm_backend/internal/properties/domain"
	"estate_crm_backend/platform/httpkit"
	"estate_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidRequest = "invalid request"

// CreatePropertyRequest is the payload for a new listing.
type CreatePropertyRequest struct {
	Title         string `json:"title" validate:"required,min=2,max=300"`
	City          string `json:"city" validate:"required,max=100"`
	Area          string `json:"area" validate:"omitempty,max=200"`
	PropertyType  string `json:"propertyType" validate:"required,oneof=apartment villa plot commercial other"`
	Configuration string `json:"configuration" validate:"omitempty,max=20"`
	Price         int64  `json:"price" validate:"required,min=1"`
	Status        string `json:"status" validate:"omitempty,oneof=available under_negotiation sold blocked"`
}

// UpdatePropertyRequest carries partial listing updates.
type UpdatePropertyRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=2,max=300"`
	City          *string `json:"city" validate:"omitempty,max=100"`
	Area          *string `json:"area" validate:"omitempty,max=200"`
	PropertyType  *string `json:"propertyType" validate:"omitempty,oneof=apartment villa plot commercial other"`
	Configuration *string `json:"configuration" validate:"omitempty,max=20"`
	Price         *int64  `json:"price" validate:"omitempty,min=1"`
	Status        *string `json:"status" validate:"omitempty,oneof=available under_negotiation sold blocked"`
}

// PropertyResponse is the API view of a listing.
type PropertyResponse struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	City          string    `json:"city"`
	Area          string    `json:"area,omitempty"`
	PropertyType  string    `json:"propertyType"`
	Configuration string    `json:"configuration,omitempty"`
	Price         int64     `json:"price"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toPropertyResponse(p domain.Property) PropertyResponse {
	return PropertyResponse{
		ID:            p.ID,
		Title:         p.Title,
		City:          p.City,
		Area:          p.Area,
		PropertyType:  string(p.PropertyType),
		Configuration: p.Configuration,
		Price:         p.Price,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// Handler exposes the properties HTTP API.
type Handler struct {
	svc *Service
	val *validator.Validator
}

func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

func (h *Handler) List(c *gin.Context) {
	filter := ListPropertiesFilter{
		Status: domain.PropertyStatus(c.Query("status")),
		City:   c.Query("city"),
		Type:   domain.PropertyType(c.Query("type")),
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := h.propertyID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := h.propertyID(c)
	if !ok {
		return
	}

	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := h.propertyID(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) propertyID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid property id", nil)
		return uuid.Nil, false
	}
	return id, true
}
