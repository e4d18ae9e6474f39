// Package handler exposes the leads HTTP API.
package handler

import (
	"net/http"
	"strconv"

	"estate_crm_backend/internal/leads/service"
	"estate_crm_backend/internal/leads/transport"
	"estate_crm_backend/platform/httpkit"
	"estate_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidRequest = "invalid request"

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.POST("/import", h.Import)
	rg.GET("/check-duplicate", h.CheckDuplicate)
	rg.GET("/stats", h.Stats)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/stage", h.ChangeStage)
	rg.POST("/:id/assign", h.Assign)
	rg.POST("/:id/auto-assign", h.AutoAssign)
	rg.POST("/:id/merge", h.Merge)
	rg.POST("/:id/activities", h.AddActivity)
	rg.GET("/:id/activities", h.Timeline)
	rg.GET("/:id/score", h.Score)
	rg.GET("/:id/next-action", h.NextAction)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
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
	query := service.ListQuery{
		Stage:       c.Query("stage"),
		City:        c.Query("city"),
		Temperature: c.Query("temperature"),
	}
	if raw := c.Query("assignedAgentId"); raw != "" {
		agentID, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid agent id", nil)
			return
		}
		query.AgentID = &agentID
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			httpkit.Error(c, http.StatusBadRequest, "invalid limit", nil)
			return
		}
		query.Limit = limit
	}

	resp, err := h.svc.List(c.Request.Context(), query)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Import(c *gin.Context) {
	var req transport.ImportLeadsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	result, err := h.svc.Import(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) CheckDuplicate(c *gin.Context) {
	probe := service.DuplicateProbe{
		FullName: c.Query("fullName"),
		Phone:    c.Query("phone"),
		Email:    c.Query("email"),
		City:     c.Query("city"),
	}
	if probe.FullName == "" && probe.Phone == "" && probe.Email == "" {
		httpkit.Error(c, http.StatusBadRequest, "at least one of fullName, phone, email is required", nil)
		return
	}

	resp, err := h.svc.CheckDuplicate(c.Request.Context(), probe)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Stats(c *gin.Context) {
	resp, err := h.svc.Stats(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := h.leadID(c)
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
	id, ok := h.leadID(c)
	if !ok {
		return
	}

	var req transport.UpdateLeadRequest
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
	id, ok := h.leadID(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ChangeStage(c *gin.Context) {
	id, ok := h.leadID(c)
	if !ok {
		return
	}

	var req transport.ChangeStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	resp, err := h.svc.ChangeStage(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Assign(c *gin.Context) {
	id, ok := h.leadID(c)
	if !ok {
		return
	}

	var req transport.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	resp, err := h.svc.Assign(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) AutoAssign(c *gin.Context) {
	id, ok := h.leadID(c)
	if !ok {
		return
	}
	resp, err := h.svc.AutoAssign(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Merge(c *gin.Context) {
	id, ok := h.leadID(c)
	if !ok {
		return
	}

	var req transport.MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	if httpkit.HandleError(c, h.svc.Merge(c.Request.Context(), id, req)) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) AddActivity(c *gin.Context) {
	id, ok := h.leadID(c)
	if !ok {
		return
	}

	var req transport.AddActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	resp, err := h.svc.AddActivity(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

func (h *Handler) Timeline(c *gin.Context) {
	id, ok := h.leadID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Timeline(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Score(c *gin.Context) {
	id, ok := h.leadID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Score(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) NextAction(c *gin.Context) {
	id, ok := h.leadID(c)
	if !ok {
		return
	}
	resp, err := h.svc.SuggestNextAction(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) leadID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return uuid.Nil, false
	}
	return id, true
}
