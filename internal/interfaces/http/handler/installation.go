package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderingapp "github.com/occtelecom/backend/internal/application/ordering"
)

// InstallationHandler serves the back-office installation planner:
// slots, bookings and the technician roster.
type InstallationHandler struct {
	BaseHandler
	installService *orderingapp.InstallationService
}

// NewInstallationHandler creates a new InstallationHandler
func NewInstallationHandler(installService *orderingapp.InstallationService) *InstallationHandler {
	return &InstallationHandler{installService: installService}
}

// RegisterRoutes registers installation routes
func (h *InstallationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	slots := rg.Group("/installation/slots")
	slots.POST("", h.CreateSlot)
	slots.GET("", h.ListSlots)

	bookings := rg.Group("/installation/bookings")
	bookings.POST("/:id/assign", h.AssignTechnician)
	bookings.POST("/:id/complete", h.CompleteBooking)
	bookings.POST("/:id/cancel", h.CancelBooking)

	technicians := rg.Group("/installation/technicians")
	technicians.POST("", h.CreateTechnician)
	technicians.GET("", h.ListTechnicians)

	rg.GET("/orders/:id/booking", h.GetBookingForOrder)
	rg.POST("/orders/:id/booking", h.BookSlot)
}

// CreateSlot opens a new engineer visit window
func (h *InstallationHandler) CreateSlot(c *gin.Context) {
	var req orderingapp.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.installService.CreateSlot(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListSlots lists slots with availability for a region and date range
func (h *InstallationHandler) ListSlots(c *gin.Context) {
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

// GetBookingForOrder returns the booking attached to an order
func (h *InstallationHandler) GetBookingForOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.installService.GetBookingForOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// BookSlot books an installation slot for an order on behalf of a
// customer who called in.
func (h *InstallationHandler) BookSlot(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderingapp.BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.installService.BookSlot(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// AssignTechnician puts an engineer on a booking
func (h *InstallationHandler) AssignTechnician(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid booking ID")
		return
	}

	var req orderingapp.AssignTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.installService.AssignTechnician(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CompleteBooking marks the visit done and the order installed
func (h *InstallationHandler) CompleteBooking(c *gin.Context) {
	h.bookingTransition(c, h.installService.CompleteBooking)
}

// CancelBooking cancels the visit and releases the slot
func (h *InstallationHandler) CancelBooking(c *gin.Context) {
	h.bookingTransition(c, h.installService.CancelBooking)
}

// CreateTechnician adds an engineer to the roster
func (h *InstallationHandler) CreateTechnician(c *gin.Context) {
	var req orderingapp.CreateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.installService.CreateTechnician(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListTechnicians lists the engineer roster
func (h *InstallationHandler) ListTechnicians(c *gin.Context) {
	technicians, err := h.installService.ListTechnicians(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, technicians)
}

func (h *InstallationHandler) bookingTransition(c *gin.Context, op func(context.Context, uuid.UUID) (*orderingapp.BookingResponse, error)) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid booking ID")
		return
	}

	resp, err := op(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
