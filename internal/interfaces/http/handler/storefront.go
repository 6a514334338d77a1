package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/occtelecom/backend/internal/application/catalog"
	orderingapp "github.com/occtelecom/backend/internal/application/ordering"
)

// StorefrontHandler serves the public shop: the plan catalog, bundle
// quoting and guest checkout. No authentication.
type StorefrontHandler struct {
	BaseHandler
	planService       *catalogapp.PlanService
	guestOrderService *orderingapp.GuestOrderService
	installService    *orderingapp.InstallationService
}

// NewStorefrontHandler creates a new StorefrontHandler
func NewStorefrontHandler(
	planService *catalogapp.PlanService,
	guestOrderService *orderingapp.GuestOrderService,
	installService *orderingapp.InstallationService,
) *StorefrontHandler {
	return &StorefrontHandler{
		planService:       planService,
		guestOrderService: guestOrderService,
		installService:    installService,
	}
}

// RegisterRoutes registers storefront routes
func (h *StorefrontHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sf := rg.Group("/storefront")
	sf.GET("/catalog", h.Catalog)
	sf.POST("/quote", h.Quote)
	sf.POST("/guest-orders", h.SubmitGuestOrder)
	sf.GET("/slots", h.AvailableSlots)
}

// Catalog returns all sellable plans grouped by service type
func (h *StorefrontHandler) Catalog(c *gin.Context) {
	resp, err := h.planService.Storefront(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Quote prices a selection of plans, applying the bundle discount
func (h *StorefrontHandler) Quote(c *gin.Context) {
	var req catalogapp.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.planService.Quote(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SubmitGuestOrder takes a checkout from a visitor without an account
func (h *StorefrontHandler) SubmitGuestOrder(c *gin.Context) {
	var req orderingapp.SubmitGuestOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.guestOrderService.Submit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// AvailableSlots lists open installation slots for the checkout flow
func (h *StorefrontHandler) AvailableSlots(c *gin.Context) {
	var req orderingapp.SlotListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	slots, err := h.installService.ListAvailableSlots(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, slots)
}
