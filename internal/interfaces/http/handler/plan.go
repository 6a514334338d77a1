package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/occtelecom/backend/internal/application/catalog"
)

// PlanHandler serves the back-office plan catalog
type PlanHandler struct {
	BaseHandler
	planService *catalogapp.PlanService
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(planService *catalogapp.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// RegisterRoutes registers plan routes
func (h *PlanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	plans := rg.Group("/plans")
	plans.POST("", h.Create)
	plans.GET("", h.List)
	plans.GET("/:id", h.GetByID)
	plans.PUT("/:id", h.Update)
	plans.POST("/:id/activate", h.Activate)
	plans.POST("/:id/deactivate", h.Deactivate)
}

// Create adds a plan to the catalog
func (h *PlanHandler) Create(c *gin.Context) {
	var req catalogapp.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.planService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List lists catalog plans with pagination
func (h *PlanHandler) List(c *gin.Context) {
	var filter catalogapp.PlanListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.planService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetByID returns a plan
func (h *PlanHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid plan ID")
		return
	}

	resp, err := h.planService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update changes a plan's details and pricing
func (h *PlanHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid plan ID")
		return
	}

	var req catalogapp.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.planService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Activate puts a plan on sale
func (h *PlanHandler) Activate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid plan ID")
		return
	}

	resp, err := h.planService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Deactivate withdraws a plan from sale
func (h *PlanHandler) Deactivate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid plan ID")
		return
	}

	resp, err := h.planService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
