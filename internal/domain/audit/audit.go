package audit

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// Action identifies what a staff member or the system did
type Action string

const (
	ActionCustomerCreated  Action = "customer.created"
	ActionCustomerUpdated  Action = "customer.updated"
	ActionCustomerDeleted  Action = "customer.deleted"
	ActionOrderConverted   Action = "order.converted_from_guest"
	ActionOrderCancelled   Action = "order.cancelled"
	ActionPaymentRecorded  Action = "payment.recorded"
	ActionLateFeeApplied   Action = "billing.late_fee_applied"
	ActionMandateVerified  Action = "directdebit.mandate_verified"
	ActionMandateCancelled Action = "directdebit.mandate_cancelled"
	ActionLogin            Action = "auth.login"
	ActionLoginFailed      Action = "auth.login_failed"
)

// Entry is one immutable audit log row. Entries are append-only; there
// are no update or delete operations on them.
type Entry struct {
	shared.BaseEntity
	ActorID    *uuid.UUID `gorm:"type:uuid;index"` // nil for system actions
	ActorName  string     `gorm:"type:varchar(200)"`
	Action     Action     `gorm:"type:varchar(60);not null;index"`
	EntityType string     `gorm:"type:varchar(60);not null;index"`
	EntityID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Detail     string     `gorm:"type:text"`
	IPAddress  string     `gorm:"type:varchar(45)"`
}

// TableName returns the table name for GORM
func (Entry) TableName() string {
	return "audit_entries"
}

// NewEntry creates an audit entry for a staff action
func NewEntry(actorID uuid.UUID, actorName string, action Action, entityType string, entityID uuid.UUID, detail string) (*Entry, error) {
	if action == "" || entityType == "" {
		return nil, shared.NewDomainError("INVALID_AUDIT_ENTRY", "Action and entity type are required")
	}

	e := &Entry{
		BaseEntity: shared.NewBaseEntity(),
		Action:     action,
		ActorName:  actorName,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	}
	if actorID != uuid.Nil {
		e.ActorID = &actorID
	}
	return e, nil
}

// NewSystemEntry creates an audit entry for an automated action
func NewSystemEntry(action Action, entityType string, entityID uuid.UUID, detail string) (*Entry, error) {
	e, err := NewEntry(uuid.Nil, "system", action, entityType, entityID, detail)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// MarshalDetail renders arbitrary structured detail as the entry's
// detail text
func MarshalDetail(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
