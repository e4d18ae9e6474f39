package tasks

import (
	"net/http"
	"time"

	"estate_crm_backend/platform/httpkit"
	"estate_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidRequest = "invalid request"

// CreateTaskRequest is the payload for a manually created task.
type CreateTaskRequest struct {
	LeadID          uuid.UUID  `json:"leadId" validate:"required"`
	AssignedAgentID *uuid.UUID `json:"assignedAgentId"`
	Title           string     `json:"title" validate:"required,min=2,max=300"`
	DueAt           time.Time  `json:"dueAt" validate:"required"`
	Priority        string     `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// TaskResponse is the API view of a task.
type TaskResponse struct {
	ID              uuid.UUID  `json:"id"`
	LeadID          uuid.UUID  `json:"leadId"`
	AssignedAgentID *uuid.UUID `json:"assignedAgentId,omitempty"`
	Title           string     `json:"title"`
	DueAt           time.Time  `json:"dueAt"`
	Status          string     `json:"status"`
	Priority        string     `json:"priority"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func toTaskResponse(t Task) TaskResponse {
	return TaskResponse{
		ID:              t.ID,
		LeadID:          t.LeadID,
		AssignedAgentID: t.AssignedAgentID,
		Title:           t.Title,
		DueAt:           t.DueAt,
		Status:          string(t.Status),
		Priority:        string(t.Priority),
		CompletedAt:     t.CompletedAt,
		CreatedAt:       t.CreatedAt,
	}
}

// Handler exposes the tasks HTTP API.
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
	rg.GET("/overdue", h.Overdue)
	rg.POST("/:id/complete", h.Complete)
	rg.POST("/:id/cancel", h.Cancel)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	task, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, toTaskResponse(task))
}

func (h *Handler) List(c *gin.Context) {
	filter := ListTasksFilter{Status: TaskStatus(c.Query("status"))}
	if raw := c.Query("leadId"); raw != "" {
		leadID, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
			return
		}
		filter.LeadID = &leadID
	}
	if raw := c.Query("assignedAgentId"); raw != "" {
		agentID, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid agent id", nil)
			return
		}
		filter.AssignedAgentID = &agentID
	}

	tasks, err := h.svc.List(c.Request.Context(), filter)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toTaskResponses(tasks))
}

func (h *Handler) Overdue(c *gin.Context) {
	tasks, err := h.svc.Overdue(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toTaskResponses(tasks))
}

func (h *Handler) Complete(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}
	task, err := h.svc.Complete(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toTaskResponse(task))
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}
	task, err := h.svc.Cancel(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toTaskResponse(task))
}

func (h *Handler) taskID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid task id", nil)
		return uuid.Nil, false
	}
	return id, true
}

func toTaskResponses(tasks []Task) []TaskResponse {
	responses := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		responses[i] = toTaskResponse(t)
	}
	return responses
}
