package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderingapp "github.com/occtelecom/backend/internal/application/ordering"
)

// OrderHandler serves the back-office order workflow, including the
// guest checkout queue.
type OrderHandler struct {
	BaseHandler
	orderService      *orderingapp.OrderService
	guestOrderService *orderingapp.GuestOrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderingapp.OrderService, guestOrderService *orderingapp.GuestOrderService) *OrderHandler {
	return &OrderHandler{
		orderService:      orderService,
		guestOrderService: guestOrderService,
	}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.POST("", h.Place)
	orders.GET("", h.List)
	orders.GET("/:id", h.GetByID)
	orders.POST("/:id/confirm", h.Confirm)
	orders.POST("/:id/installed", h.MarkInstalled)
	orders.POST("/:id/activate", h.Activate)
	orders.POST("/:id/cancel", h.Cancel)

	guest := rg.Group("/guest-orders")
	guest.GET("", h.ListGuestOrders)
	guest.GET("/:id", h.GetGuestOrder)
	guest.POST("/:id/convert", h.ConvertGuestOrder)
	guest.POST("/:id/reject", h.RejectGuestOrder)
}

// Place places an order on behalf of a customer
func (h *OrderHandler) Place(c *gin.Context) {
	var req orderingapp.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.orderService.Place(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List lists orders with pagination
func (h *OrderHandler) List(c *gin.Context) {
	var filter orderingapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetByID returns an order
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Confirm confirms a pending order
func (h *OrderHandler) Confirm(c *gin.Context) {
	h.transition(c, h.orderService.Confirm)
}

// MarkInstalled records that the engineer visit completed
func (h *OrderHandler) MarkInstalled(c *gin.Context) {
	h.transition(c, h.orderService.MarkInstalled)
}

// Activate turns the ordered services live
func (h *OrderHandler) Activate(c *gin.Context) {
	h.transition(c, h.orderService.Activate)
}

// Cancel cancels an order
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderingapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.orderService.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListGuestOrders lists guest checkouts awaiting review
func (h *OrderHandler) ListGuestOrders(c *gin.Context) {
	var filter orderingapp.GuestOrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.guestOrderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetGuestOrder returns a guest checkout
func (h *OrderHandler) GetGuestOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid guest order ID")
		return
	}

	resp, err := h.guestOrderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ConvertGuestOrder turns a guest checkout into a customer and order
func (h *OrderHandler) ConvertGuestOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid guest order ID")
		return
	}

	resp, err := h.guestOrderService.Convert(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// RejectGuestOrder rejects a guest checkout
func (h *OrderHandler) RejectGuestOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid guest order ID")
		return
	}

	var req orderingapp.RejectGuestOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.guestOrderService.Reject(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *OrderHandler) transition(c *gin.Context, op func(context.Context, uuid.UUID) (*orderingapp.OrderResponse, error)) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := op(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
