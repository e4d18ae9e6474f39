package users

import (
	"errors"
	"net/http"
	"time"

	"estate_crm_backend/internal/leads/domain"
	"estate_crm_backend/platform/apperr"
	"estate_crm_backend/platform/httpkit"
	"estate_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidRequest = "invalid request"

// CreateUserRequest is the payload for a new directory entry.
type CreateUserRequest struct {
	FullName string `json:"fullName" validate:"required,min=2,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required,oneof=admin team_lead agent telecaller viewer"`
}

// UpdateUserRequest carries partial directory updates.
type UpdateUserRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,min=2,max=200"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin team_lead agent telecaller viewer"`
	IsActive *bool   `json:"isActive"`
}

// UserResponse is the API view of a directory entry.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResponse(u User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Handler exposes the user directory HTTP API.
type Handler struct {
	repo *Repository
	val  *validator.Validator
}

func NewHandler(repo *Repository, val *validator.Validator) *Handler {
	return &Handler{repo: repo, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	user, err := h.repo.Create(c.Request.Context(), CreateUserParams{
		FullName: req.FullName,
		Email:    req.Email,
		Role:     domain.AgentRole(req.Role),
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) List(c *gin.Context) {
	users, err := h.repo.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	responses := make([]UserResponse, len(users))
	for i, u := range users {
		responses[i] = toUserResponse(u)
	}
	httpkit.OK(c, responses)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	user, err := h.repo.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, mapNotFound(err)) {
		return
	}
	httpkit.OK(c, toUserResponse(user))
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	params := UpdateUserParams{
		FullName: req.FullName,
		Email:    req.Email,
		IsActive: req.IsActive,
	}
	if req.Role != nil {
		role := domain.AgentRole(*req.Role)
		params.Role = &role
	}

	user, err := h.repo.Update(c.Request.Context(), id, params)
	if httpkit.HandleError(c, mapNotFound(err)) {
		return
	}
	httpkit.OK(c, toUserResponse(user))
}

func (h *Handler) userID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid user id", nil)
		return uuid.Nil, false
	}
	return id, true
}

func mapNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("user not found")
	}
	return err
}
