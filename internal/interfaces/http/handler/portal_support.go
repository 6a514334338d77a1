package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	supportapp "github.com/occtelecom/backend/internal/application/support"
	"github.com/occtelecom/backend/internal/infrastructure/realtime"
	"github.com/occtelecom/backend/internal/interfaces/http/middleware"
)

// PortalSupportHandler serves the customer's own support tickets,
// including a live message stream over SSE.
type PortalSupportHandler struct {
	BaseHandler
	ticketService *supportapp.TicketService
	broker        realtime.Broker
}

// NewPortalSupportHandler creates a new PortalSupportHandler
func NewPortalSupportHandler(ticketService *supportapp.TicketService, broker realtime.Broker) *PortalSupportHandler {
	return &PortalSupportHandler{
		ticketService: ticketService,
		broker:        broker,
	}
}

// RegisterRoutes registers portal support routes
func (h *PortalSupportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tickets", h.ListTickets)
	rg.POST("/tickets", h.OpenTicket)
	rg.GET("/tickets/:id", h.GetTicket)
	rg.POST("/tickets/:id/messages", h.AddMessage)
	rg.GET("/tickets/:id/stream", h.StreamMessages)
}

// ListTickets lists the customer's own tickets
func (h *PortalSupportHandler) ListTickets(c *gin.Context) {
	tickets, err := h.ticketService.ListByCustomer(c.Request.Context(), middleware.GetCustomerID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tickets)
}

// OpenTicket opens a new support ticket
func (h *PortalSupportHandler) OpenTicket(c *gin.Context) {
	var req supportapp.OpenTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	ticket, err := h.ticketService.Open(c.Request.Context(), middleware.GetCustomerID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ticket)
}

// GetTicket returns one of the customer's own tickets with its thread
func (h *PortalSupportHandler) GetTicket(c *gin.Context) {
	ticket, ok := h.ownTicket(c)
	if !ok {
		return
	}
	h.Success(c, ticket)
}

// AddMessage appends a customer message to the ticket thread
func (h *PortalSupportHandler) AddMessage(c *gin.Context) {
	ticket, ok := h.ownTicket(c)
	if !ok {
		return
	}

	var req supportapp.AddMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	msg, err := h.ticketService.AddCustomerMessage(c.Request.Context(), ticket.ID, middleware.GetCustomerID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, msg)
}

// StreamMessages pushes new ticket messages to the client over SSE.
// The subscription is cancelled when the client disconnects.
func (h *PortalSupportHandler) StreamMessages(c *gin.Context) {
	ticket, ok := h.ownTicket(c)
	if !ok {
		return
	}

	streamTicketMessages(c, h.broker, ticket.ID, func(err error) {
		h.HandleError(c, err)
	})
}

// streamTicketMessages is shared between the portal and back-office
// ticket views.
func streamTicketMessages(c *gin.Context, broker realtime.Broker, ticketID uuid.UUID, onError func(error)) {
	msgs, cancel, err := broker.Subscribe(c.Request.Context(), realtime.TicketChannel(ticketID))
	if err != nil {
		onError(err)
		return
	}
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case payload, open := <-msgs:
			if !open {
				return false
			}
			c.SSEvent("message", string(payload))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *PortalSupportHandler) ownTicket(c *gin.Context) (*supportapp.TicketResponse, bool) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid ticket ID")
		return nil, false
	}

	ticket, err := h.ticketService.GetForCustomer(c.Request.Context(), id, middleware.GetCustomerID(c))
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return ticket, true
}
