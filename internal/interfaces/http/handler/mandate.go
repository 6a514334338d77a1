package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	directdebitapp "github.com/occtelecom/backend/internal/application/directdebit"
)

// MandateHandler serves the back-office Direct Debit workflow
type MandateHandler struct {
	BaseHandler
	mandateService *directdebitapp.MandateService
}

// NewMandateHandler creates a new MandateHandler
func NewMandateHandler(mandateService *directdebitapp.MandateService) *MandateHandler {
	return &MandateHandler{mandateService: mandateService}
}

// RegisterRoutes registers mandate routes
func (h *MandateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	mandates := rg.Group("/mandates")
	mandates.GET("", h.List)
	mandates.GET("/:id", h.GetByID)
	mandates.POST("/:id/verify", h.Verify)
	mandates.POST("/:id/submit", h.Submit)
	mandates.POST("/:id/activate", h.Activate)
	mandates.POST("/:id/fail", h.MarkFailed)
	mandates.POST("/:id/cancel", h.Cancel)

	rg.GET("/customers/:id/mandates", h.ListByCustomer)
}

// List lists mandates across all customers
func (h *MandateHandler) List(c *gin.Context) {
	var filter directdebitapp.MandateListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	mandates, err := h.mandateService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, mandates)
}

// ListByCustomer lists a customer's mandates
func (h *MandateHandler) ListByCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	mandates, err := h.mandateService.ListByCustomer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, mandates)
}

// GetByID returns a mandate
func (h *MandateHandler) GetByID(c *gin.Context) {
	h.transition(c, h.mandateService.GetByID)
}

// Verify records that the bank details passed validation
func (h *MandateHandler) Verify(c *gin.Context) {
	h.transition(c, h.mandateService.Verify)
}

// Submit records the scheme reference returned by the provider
func (h *MandateHandler) Submit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid mandate ID")
		return
	}

	var req directdebitapp.SubmitMandateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.mandateService.SubmitToProvider(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Activate marks the mandate live with the scheme
func (h *MandateHandler) Activate(c *gin.Context) {
	h.transition(c, h.mandateService.Activate)
}

// MarkFailed records a scheme rejection
func (h *MandateHandler) MarkFailed(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid mandate ID")
		return
	}

	var req directdebitapp.FailMandateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.mandateService.MarkFailed(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel cancels a mandate
func (h *MandateHandler) Cancel(c *gin.Context) {
	h.transition(c, h.mandateService.Cancel)
}

func (h *MandateHandler) transition(c *gin.Context, op func(context.Context, uuid.UUID) (*directdebitapp.MandateResponse, error)) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid mandate ID")
		return
	}

	resp, err := op(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
