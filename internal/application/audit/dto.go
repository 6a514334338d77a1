package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/occtelecom/backend/internal/domain/audit"
)

// RecordEntryRequest captures a staff or system action for the audit log
type RecordEntryRequest struct {
	ActorID    uuid.UUID
	ActorName  string
	Action     audit.Action
	EntityType string
	EntityID   uuid.UUID
	Detail     any
}

// EntryListFilter represents filter options for the audit log
type EntryListFilter struct {
	Action     string `form:"action" binding:"omitempty,max=60"`
	EntityType string `form:"entity_type" binding:"omitempty,max=60"`
	EntityID   string `form:"entity_id" binding:"omitempty,uuid"`
	ActorID    string `form:"actor_id" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// EntryResponse represents one audit log row
type EntryResponse struct {
	ID         uuid.UUID  `json:"id"`
	ActorID    *uuid.UUID `json:"actor_id,omitempty"`
	ActorName  string     `json:"actor_name"`
	Action     string     `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   uuid.UUID       `json:"entity_id"`
	Detail     json.RawMessage `json:"detail,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// CommunicationResponse represents one row in the communications log
type CommunicationResponse struct {
	ID         uuid.UUID  `json:"id"`
	CustomerID uuid.UUID  `json:"customer_id"`
	Kind       string          `json:"kind"`
	Status     string          `json:"status"`
	Metadata   json.RawMessage `json:"metadata"`
	Error      string          `json:"error,omitempty"`
	SentAt     *time.Time `json:"sent_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ToEntryResponse maps a domain entry to its API representation
func ToEntryResponse(e *audit.Entry) EntryResponse {
	return EntryResponse{
		ID:         e.ID,
		ActorID:    e.ActorID,
		ActorName:  e.ActorName,
		Action:     string(e.Action),
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Detail:     json.RawMessage(e.Detail),
		CreatedAt:  e.CreatedAt,
	}
}

// ToCommunicationResponse maps a domain communication to its API representation
func ToCommunicationResponse(c *audit.Communication) CommunicationResponse {
	return CommunicationResponse{
		ID:         c.ID,
		CustomerID: c.CustomerID,
		Kind:       string(c.Kind),
		Status:     string(c.Status),
		Metadata:   json.RawMessage(c.Metadata),
		Error:      c.Error,
		SentAt:     c.SentAt,
		CreatedAt:  c.CreatedAt,
	}
}
