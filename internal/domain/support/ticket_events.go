package support

import (
	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
)

const (
	EventTypeTicketOpened  = "support.ticket.opened"
	EventTypeMessageAdded  = "support.ticket.message_added"
)

// TicketOpenedEvent is published when a customer opens a ticket
type TicketOpenedEvent struct {
	shared.BaseDomainEvent
	TicketID     uuid.UUID `json:"ticket_id"`
	TicketNumber string    `json:"ticket_number"`
	CustomerID   uuid.UUID `json:"customer_id"`
	Subject      string    `json:"subject"`
}

// NewTicketOpenedEvent creates a new ticket opened event
func NewTicketOpenedEvent(t *Ticket) *TicketOpenedEvent {
	return &TicketOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTicketOpened, "Ticket", t.ID),
		TicketID:        t.ID,
		TicketNumber:    t.TicketNumber,
		CustomerID:      t.CustomerID,
		Subject:         t.Subject,
	}
}

// MessageAddedEvent is published for every new message on a ticket.
// It feeds the realtime stream, so it carries the full message body.
type MessageAddedEvent struct {
	shared.BaseDomainEvent
	TicketID   uuid.UUID  `json:"ticket_id"`
	MessageID  uuid.UUID  `json:"message_id"`
	AuthorType AuthorType `json:"author_type"`
	AuthorID   uuid.UUID  `json:"author_id"`
	Body       string     `json:"body"`
}

// NewMessageAddedEvent creates a new message added event
func NewMessageAddedEvent(t *Ticket, msg *TicketMessage) *MessageAddedEvent {
	return &MessageAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMessageAdded, "Ticket", t.ID),
		TicketID:        t.ID,
		MessageID:       msg.ID,
		AuthorType:      msg.AuthorType,
		AuthorID:        msg.AuthorID,
		Body:            msg.Body,
	}
}
