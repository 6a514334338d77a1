package support

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// TicketStatus represents the lifecycle status of a support ticket
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusPending  TicketStatus = "pending" // waiting on the customer
	TicketStatusResolved TicketStatus = "resolved"
	TicketStatusClosed   TicketStatus = "closed"
)

// TicketPriority represents the urgency of a ticket
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityNormal TicketPriority = "normal"
	TicketPriorityHigh   TicketPriority = "high"
)

// AuthorType identifies who wrote a ticket message
type AuthorType string

const (
	AuthorTypeCustomer AuthorType = "customer"
	AuthorTypeStaff    AuthorType = "staff"
)

// TicketMessage is one message on a ticket thread
type TicketMessage struct {
	shared.BaseEntity
	TicketID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	AuthorType AuthorType `gorm:"type:varchar(20);not null"`
	AuthorID   uuid.UUID  `gorm:"type:uuid;not null"`
	Body       string     `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (TicketMessage) TableName() string {
	return "ticket_messages"
}

// Ticket is a customer support conversation
type Ticket struct {
	shared.BaseAggregateRoot
	TicketNumber string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	CustomerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Subject      string          `gorm:"type:varchar(300);not null"`
	Status       TicketStatus    `gorm:"type:varchar(20);not null;default:'open'"`
	Priority     TicketPriority  `gorm:"type:varchar(20);not null;default:'normal'"`
	AssigneeID   *uuid.UUID      `gorm:"type:uuid;index"` // staff user
	Messages     []TicketMessage `gorm:"foreignKey:TicketID"`
	ResolvedAt   *time.Time
	ClosedAt     *time.Time
}

// TableName returns the table name for GORM
func (Ticket) TableName() string {
	return "support_tickets"
}

// FormatTicketNumber builds a ticket number from a numeric sequence value
func FormatTicketNumber(seq int64) string {
	return fmt.Sprintf("TKT-%08d", seq)
}

// NewTicket opens a ticket with the customer's first message
func NewTicket(ticketNumber string, customerID uuid.UUID, subject, body string) (*Ticket, error) {
	if ticketNumber == "" {
		return nil, shared.NewDomainError("INVALID_TICKET_NUMBER", "Ticket number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if strings.TrimSpace(subject) == "" {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Ticket subject cannot be empty")
	}
	if strings.TrimSpace(body) == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Ticket message cannot be empty")
	}

	t := &Ticket{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TicketNumber:      ticketNumber,
		CustomerID:        customerID,
		Subject:           subject,
		Status:            TicketStatusOpen,
		Priority:          TicketPriorityNormal,
	}
	t.Messages = append(t.Messages, TicketMessage{
		BaseEntity: shared.NewBaseEntity(),
		TicketID:   t.ID,
		AuthorType: AuthorTypeCustomer,
		AuthorID:   customerID,
		Body:       body,
	})

	t.AddDomainEvent(NewTicketOpenedEvent(t))

	return t, nil
}

// AddMessage appends a message to the thread. A staff reply moves the
// ticket to pending; a customer reply reopens a pending or resolved one.
func (t *Ticket) AddMessage(authorType AuthorType, authorID uuid.UUID, body string) (*TicketMessage, error) {
	if t.Status == TicketStatusClosed {
		return nil, shared.NewDomainError("TICKET_CLOSED", "Closed tickets cannot receive messages")
	}
	if strings.TrimSpace(body) == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Ticket message cannot be empty")
	}
	if authorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUTHOR", "Message author is required")
	}

	msg := TicketMessage{
		BaseEntity: shared.NewBaseEntity(),
		TicketID:   t.ID,
		AuthorType: authorType,
		AuthorID:   authorID,
		Body:       body,
	}
	t.Messages = append(t.Messages, msg)

	switch authorType {
	case AuthorTypeStaff:
		if t.Status == TicketStatusOpen {
			t.Status = TicketStatusPending
		}
	case AuthorTypeCustomer:
		if t.Status == TicketStatusPending || t.Status == TicketStatusResolved {
			t.Status = TicketStatusOpen
			t.ResolvedAt = nil
		}
	}

	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewMessageAddedEvent(t, &msg))

	return &msg, nil
}

// Assign hands the ticket to a staff member
func (t *Ticket) Assign(staffID uuid.UUID) error {
	if t.Status == TicketStatusClosed {
		return shared.NewDomainError("TICKET_CLOSED", "Closed tickets cannot be assigned")
	}
	t.AssigneeID = &staffID
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// SetPriority changes the ticket urgency
func (t *Ticket) SetPriority(p TicketPriority) error {
	switch p {
	case TicketPriorityLow, TicketPriorityNormal, TicketPriorityHigh:
	default:
		return shared.NewDomainError("INVALID_PRIORITY", "Unknown ticket priority")
	}
	t.Priority = p
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// Resolve marks the ticket as answered
func (t *Ticket) Resolve() error {
	if t.Status != TicketStatusOpen && t.Status != TicketStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only open or pending tickets can be resolved")
	}
	now := time.Now()
	t.Status = TicketStatusResolved
	t.ResolvedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()
	return nil
}

// Close closes the ticket for good
func (t *Ticket) Close() error {
	if t.Status == TicketStatusClosed {
		return shared.NewDomainError("INVALID_STATE", "Ticket is already closed")
	}
	now := time.Now()
	t.Status = TicketStatusClosed
	t.ClosedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()
	return nil
}
