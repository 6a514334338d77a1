package customer

import (
	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeCustomer = "Customer"

// Event type constants
const (
	EventTypeCustomerCreated       = "CustomerCreated"
	EventTypeCustomerUpdated       = "CustomerUpdated"
	EventTypeCustomerStatusChanged = "CustomerStatusChanged"
	EventTypeCustomerDeleted       = "CustomerDeleted"
)

// CustomerCreatedEvent is published when a new customer account is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID    uuid.UUID `json:"customer_id"`
	AccountNumber string    `json:"account_number"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, c.ID),
		CustomerID:      c.ID,
		AccountNumber:   c.AccountNumber,
		FullName:        c.FullName,
		Email:           c.Email,
	}
}

// CustomerUpdatedEvent is published when a customer's profile changes
type CustomerUpdatedEvent struct {
	shared.BaseDomainEvent
	CustomerID    uuid.UUID `json:"customer_id"`
	AccountNumber string    `json:"account_number"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
}

// NewCustomerUpdatedEvent creates a new CustomerUpdatedEvent
func NewCustomerUpdatedEvent(c *Customer) *CustomerUpdatedEvent {
	return &CustomerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerUpdated, AggregateTypeCustomer, c.ID),
		CustomerID:      c.ID,
		AccountNumber:   c.AccountNumber,
		FullName:        c.FullName,
		Email:           c.Email,
		Phone:           c.Phone,
	}
}

// CustomerStatusChangedEvent is published when an account's status changes
type CustomerStatusChangedEvent struct {
	shared.BaseDomainEvent
	CustomerID    uuid.UUID `json:"customer_id"`
	AccountNumber string    `json:"account_number"`
	OldStatus     Status    `json:"old_status"`
	NewStatus     Status    `json:"new_status"`
}

// NewCustomerStatusChangedEvent creates a new CustomerStatusChangedEvent
func NewCustomerStatusChangedEvent(c *Customer, oldStatus, newStatus Status) *CustomerStatusChangedEvent {
	return &CustomerStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerStatusChanged, AggregateTypeCustomer, c.ID),
		CustomerID:      c.ID,
		AccountNumber:   c.AccountNumber,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// CustomerDeletedEvent is published when an account is deleted
type CustomerDeletedEvent struct {
	shared.BaseDomainEvent
	CustomerID    uuid.UUID `json:"customer_id"`
	AccountNumber string    `json:"account_number"`
}

// NewCustomerDeletedEvent creates a new CustomerDeletedEvent
func NewCustomerDeletedEvent(c *Customer) *CustomerDeletedEvent {
	return &CustomerDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerDeleted, AggregateTypeCustomer, c.ID),
		CustomerID:      c.ID,
		AccountNumber:   c.AccountNumber,
	}
}
