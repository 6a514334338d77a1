package directdebit

import (
	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
)

const (
	EventTypeMandateCreated   = "directdebit.mandate.created"
	EventTypeMandateActivated = "directdebit.mandate.activated"
	EventTypeMandateFailed    = "directdebit.mandate.failed"
	EventTypeMandateCancelled = "directdebit.mandate.cancelled"
)

// MandateCreatedEvent is published when a mandate is set up
type MandateCreatedEvent struct {
	shared.BaseDomainEvent
	MandateID  uuid.UUID `json:"mandate_id"`
	CustomerID uuid.UUID `json:"customer_id"`
}

// NewMandateCreatedEvent creates a new mandate created event
func NewMandateCreatedEvent(m *Mandate) *MandateCreatedEvent {
	return &MandateCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMandateCreated, "Mandate", m.ID),
		MandateID:       m.ID,
		CustomerID:      m.CustomerID,
	}
}

// MandateActivatedEvent is published when the provider confirms the mandate
type MandateActivatedEvent struct {
	shared.BaseDomainEvent
	MandateID  uuid.UUID `json:"mandate_id"`
	CustomerID uuid.UUID `json:"customer_id"`
}

// NewMandateActivatedEvent creates a new mandate activated event
func NewMandateActivatedEvent(m *Mandate) *MandateActivatedEvent {
	return &MandateActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMandateActivated, "Mandate", m.ID),
		MandateID:       m.ID,
		CustomerID:      m.CustomerID,
	}
}

// MandateFailedEvent is published when the provider rejects the mandate
type MandateFailedEvent struct {
	shared.BaseDomainEvent
	MandateID  uuid.UUID `json:"mandate_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Reason     string    `json:"reason"`
}

// NewMandateFailedEvent creates a new mandate failed event
func NewMandateFailedEvent(m *Mandate) *MandateFailedEvent {
	return &MandateFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMandateFailed, "Mandate", m.ID),
		MandateID:       m.ID,
		CustomerID:      m.CustomerID,
		Reason:          m.FailureReason,
	}
}

// MandateCancelledEvent is published when the customer cancels the mandate
type MandateCancelledEvent struct {
	shared.BaseDomainEvent
	MandateID  uuid.UUID `json:"mandate_id"`
	CustomerID uuid.UUID `json:"customer_id"`
}

// NewMandateCancelledEvent creates a new mandate cancelled event
func NewMandateCancelledEvent(m *Mandate) *MandateCancelledEvent {
	return &MandateCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMandateCancelled, "Mandate", m.ID),
		MandateID:       m.ID,
		CustomerID:      m.CustomerID,
	}
}
