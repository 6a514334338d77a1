package support

import (
	"time"

	"github.com/google/uuid"

	"github.com/occtelecom/backend/internal/domain/support"
)

// OpenTicketRequest opens a ticket with the customer's first message
type OpenTicketRequest struct {
	Subject string `json:"subject" binding:"required,max=300"`
	Body    string `json:"body" binding:"required,max=5000"`
}

// AddMessageRequest appends a message to the ticket thread
type AddMessageRequest struct {
	Body string `json:"body" binding:"required,max=5000"`
}

// AssignTicketRequest hands the ticket to a staff member
type AssignTicketRequest struct {
	AssigneeID uuid.UUID `json:"assignee_id" binding:"required"`
}

// SetPriorityRequest changes the ticket urgency
type SetPriorityRequest struct {
	Priority string `json:"priority" binding:"required,oneof=low normal high"`
}

// TicketListFilter represents filter options for the ticket queue
type TicketListFilter struct {
	Status     string `form:"status" binding:"omitempty,oneof=open pending resolved closed"`
	Priority   string `form:"priority" binding:"omitempty,oneof=low normal high"`
	AssigneeID string `form:"assignee_id" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// TicketMessageResponse represents one message on a ticket thread
type TicketMessageResponse struct {
	ID         uuid.UUID `json:"id"`
	TicketID   uuid.UUID `json:"ticket_id"`
	AuthorType string    `json:"author_type"`
	AuthorID   uuid.UUID `json:"author_id"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// TicketResponse represents a ticket in API responses
type TicketResponse struct {
	ID           uuid.UUID               `json:"id"`
	TicketNumber string                  `json:"ticket_number"`
	CustomerID   uuid.UUID               `json:"customer_id"`
	Subject      string                  `json:"subject"`
	Status       string                  `json:"status"`
	Priority     string                  `json:"priority"`
	AssigneeID   *uuid.UUID              `json:"assignee_id,omitempty"`
	Messages     []TicketMessageResponse `json:"messages,omitempty"`
	ResolvedAt   *time.Time              `json:"resolved_at,omitempty"`
	ClosedAt     *time.Time              `json:"closed_at,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// ToTicketMessageResponse maps a domain message to its API representation
func ToTicketMessageResponse(m *support.TicketMessage) TicketMessageResponse {
	return TicketMessageResponse{
		ID:         m.ID,
		TicketID:   m.TicketID,
		AuthorType: string(m.AuthorType),
		AuthorID:   m.AuthorID,
		Body:       m.Body,
		CreatedAt:  m.CreatedAt,
	}
}

// ToTicketResponse maps a domain ticket to its API representation
func ToTicketResponse(t *support.Ticket) TicketResponse {
	messages := make([]TicketMessageResponse, 0, len(t.Messages))
	for i := range t.Messages {
		messages = append(messages, ToTicketMessageResponse(&t.Messages[i]))
	}
	return TicketResponse{
		ID:           t.ID,
		TicketNumber: t.TicketNumber,
		CustomerID:   t.CustomerID,
		Subject:      t.Subject,
		Status:       string(t.Status),
		Priority:     string(t.Priority),
		AssigneeID:   t.AssigneeID,
		Messages:     messages,
		ResolvedAt:   t.ResolvedAt,
		ClosedAt:     t.ClosedAt,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// toTicketSummaries maps tickets without their message threads, for lists
func toTicketSummaries(tickets []support.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		resp := ToTicketResponse(&tickets[i])
		resp.Messages = nil
		items = append(items, resp)
	}
	return items
}
