package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	supportapp "github.com/occtelecom/backend/internal/application/support"
	"github.com/occtelecom/backend/internal/infrastructure/realtime"
	"github.com/occtelecom/backend/internal/interfaces/http/middleware"
)

// TicketHandler serves the back-office support queue
type TicketHandler struct {
	BaseHandler
	ticketService *supportapp.TicketService
	broker        realtime.Broker
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(ticketService *supportapp.TicketService, broker realtime.Broker) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
		broker:        broker,
	}
}

// RegisterRoutes registers ticket routes
func (h *TicketHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tickets := rg.Group("/tickets")
	tickets.GET("", h.List)
	tickets.GET("/:id", h.GetByID)
	tickets.POST("/:id/messages", h.AddMessage)
	tickets.GET("/:id/stream", h.StreamMessages)
	tickets.POST("/:id/assign", h.Assign)
	tickets.POST("/:id/priority", h.SetPriority)
	tickets.POST("/:id/resolve", h.Resolve)
	tickets.POST("/:id/close", h.Close)

	rg.GET("/customers/:id/tickets", h.ListByCustomer)
}

// List lists the ticket queue with filters and pagination
func (h *TicketHandler) List(c *gin.Context) {
	var filter supportapp.TicketListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.ticketService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListByCustomer lists a customer's tickets
func (h *TicketHandler) ListByCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	tickets, err := h.ticketService.ListByCustomer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tickets)
}

// GetByID returns a ticket with its message thread
func (h *TicketHandler) GetByID(c *gin.Context) {
	h.transition(c, h.ticketService.GetByID)
}

// AddMessage appends a staff reply to the ticket thread
func (h *TicketHandler) AddMessage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	var req supportapp.AddMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	msg, err := h.ticketService.AddStaffMessage(c.Request.Context(), id, middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, msg)
}

// StreamMessages pushes new ticket messages to the agent's view over SSE
func (h *TicketHandler) StreamMessages(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	// confirm the ticket exists before holding the connection open
	if _, err := h.ticketService.GetByID(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	streamTicketMessages(c, h.broker, id, func(err error) {
		h.HandleError(c, err)
	})
}

// Assign hands the ticket to a staff member
func (h *TicketHandler) Assign(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	var req supportapp.AssignTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.ticketService.Assign(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetPriority changes the ticket priority
func (h *TicketHandler) SetPriority(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	var req supportapp.SetPriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.ticketService.SetPriority(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Resolve marks the ticket resolved
func (h *TicketHandler) Resolve(c *gin.Context) {
	h.transition(c, h.ticketService.Resolve)
}

// Close closes the ticket
func (h *TicketHandler) Close(c *gin.Context) {
	h.transition(c, h.ticketService.Close)
}

func (h *TicketHandler) transition(c *gin.Context, op func(context.Context, uuid.UUID) (*supportapp.TicketResponse, error)) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	resp, err := op(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
