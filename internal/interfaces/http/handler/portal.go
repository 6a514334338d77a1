package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	customerapp "github.com/occtelecom/backend/internal/application/customer"
	orderingapp "github.com/occtelecom/backend/internal/application/ordering"
	"github.com/occtelecom/backend/internal/interfaces/http/middleware"
)

// PortalHandler serves the self-service customer portal: profile,
// orders and installation bookings. Every route is scoped to the
// customer carried in the JWT.
type PortalHandler struct {
	BaseHandler
	customerService *customerapp.CustomerService
	orderService    *orderingapp.OrderService
	installService  *orderingapp.InstallationService
}

// NewPortalHandler creates a new PortalHandler
func NewPortalHandler(
	customerService *customerapp.CustomerService,
	orderService *orderingapp.OrderService,
	installService *orderingapp.InstallationService,
) *PortalHandler {
	return &PortalHandler{
		customerService: customerService,
		orderService:    orderService,
		installService:  installService,
	}
}

// RegisterRoutes registers portal routes
func (h *PortalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.GetProfile)
	rg.PUT("/profile", h.UpdateProfile)

	rg.GET("/orders", h.ListOrders)
	rg.POST("/orders", h.PlaceOrder)
	rg.GET("/orders/:id", h.GetOrder)
	rg.POST("/orders/:id/cancel", h.CancelOrder)
	rg.GET("/orders/:id/booking", h.GetBooking)
	rg.POST("/orders/:id/booking", h.BookSlot)
}

// GetProfile returns the customer's account details
func (h *PortalHandler) GetProfile(c *gin.Context) {
	resp, err := h.customerService.GetByID(c.Request.Context(), middleware.GetCustomerID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateProfile updates the customer's contact details
func (h *PortalHandler) UpdateProfile(c *gin.Context) {
	var req customerapp.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.customerService.Update(c.Request.Context(), middleware.GetCustomerID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListOrders lists the customer's own orders
func (h *PortalHandler) ListOrders(c *gin.Context) {
	var filter orderingapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.orderService.ListByCustomer(c.Request.Context(), middleware.GetCustomerID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

type portalPlaceOrderRequest struct {
	PlanIDs []uuid.UUID `json:"plan_ids" binding:"required,min=1,max=3"`
}

// PlaceOrder places a new order on the customer's own account
func (h *PortalHandler) PlaceOrder(c *gin.Context) {
	var req portalPlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.orderService.Place(c.Request.Context(), orderingapp.PlaceOrderRequest{
		CustomerID: middleware.GetCustomerID(c),
		PlanIDs:    req.PlanIDs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetOrder returns one of the customer's own orders
func (h *PortalHandler) GetOrder(c *gin.Context) {
	resp, ok := h.ownOrder(c)
	if !ok {
		return
	}
	h.Success(c, resp)
}

// CancelOrder cancels one of the customer's own orders
func (h *PortalHandler) CancelOrder(c *gin.Context) {
	order, ok := h.ownOrder(c)
	if !ok {
		return
	}

	var req orderingapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.orderService.Cancel(c.Request.Context(), order.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetBooking returns the installation booking for an order
func (h *PortalHandler) GetBooking(c *gin.Context) {
	order, ok := h.ownOrder(c)
	if !ok {
		return
	}

	resp, err := h.installService.GetBookingForOrder(c.Request.Context(), order.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// BookSlot reserves an installation slot for an order
func (h *PortalHandler) BookSlot(c *gin.Context) {
	order, ok := h.ownOrder(c)
	if !ok {
		return
	}

	var req orderingapp.BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.installService.BookSlot(c.Request.Context(), order.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ownOrder loads the :id order and verifies it belongs to the caller.
// Orders of other customers are reported as not found, not forbidden.
func (h *PortalHandler) ownOrder(c *gin.Context) (*orderingapp.OrderResponse, bool) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return nil, false
	}

	resp, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	if resp.CustomerID != middleware.GetCustomerID(c) {
		h.NotFound(c, "Order not found")
		return nil, false
	}
	return resp, true
}
