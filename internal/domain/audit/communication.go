package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// CommunicationKind tags the channel a communication went out on.
// Each kind carries its own metadata shape.
type CommunicationKind string

const (
	CommunicationKindEmail CommunicationKind = "email"
	CommunicationKindSMS   CommunicationKind = "sms"
	CommunicationKindPost  CommunicationKind = "post"
)

// CommunicationStatus represents delivery progress
type CommunicationStatus string

const (
	CommunicationStatusQueued CommunicationStatus = "queued"
	CommunicationStatusSent   CommunicationStatus = "sent"
	CommunicationStatusFailed CommunicationStatus = "failed"
)

// EmailMetadata is the payload recorded for an email communication
type EmailMetadata struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Template string `json:"template"`
}

// SMSMetadata is the payload recorded for an SMS communication
type SMSMetadata struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// PostMetadata is the payload recorded for a posted letter
type PostMetadata struct {
	AddressLine1 string `json:"address_line1"`
	Postcode     string `json:"postcode"`
	DocumentKey  string `json:"document_key"` // object storage key of the rendered PDF
}

// Communication is one row in the outbound communications log
type Communication struct {
	shared.BaseEntity
	CustomerID uuid.UUID           `gorm:"type:uuid;not null;index"`
	Kind       CommunicationKind   `gorm:"type:varchar(20);not null;index"`
	Status     CommunicationStatus `gorm:"type:varchar(20);not null;default:'queued'"`
	Metadata   string              `gorm:"type:jsonb;not null"` // shape depends on Kind
	Error      string              `gorm:"type:text"`
	SentAt     *time.Time
}

// TableName returns the table name for GORM
func (Communication) TableName() string {
	return "communications"
}

func newCommunication(customerID uuid.UUID, kind CommunicationKind, metadata any) (*Communication, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_METADATA", "Communication metadata is not serializable")
	}
	return &Communication{
		BaseEntity: shared.NewBaseEntity(),
		CustomerID: customerID,
		Kind:       kind,
		Status:     CommunicationStatusQueued,
		Metadata:   string(raw),
	}, nil
}

// NewEmailCommunication records a queued email
func NewEmailCommunication(customerID uuid.UUID, meta EmailMetadata) (*Communication, error) {
	if meta.To == "" {
		return nil, shared.NewDomainError("INVALID_METADATA", "Email recipient is required")
	}
	return newCommunication(customerID, CommunicationKindEmail, meta)
}

// NewSMSCommunication records a queued SMS
func NewSMSCommunication(customerID uuid.UUID, meta SMSMetadata) (*Communication, error) {
	if meta.To == "" {
		return nil, shared.NewDomainError("INVALID_METADATA", "SMS recipient is required")
	}
	return newCommunication(customerID, CommunicationKindSMS, meta)
}

// NewPostCommunication records a queued letter
func NewPostCommunication(customerID uuid.UUID, meta PostMetadata) (*Communication, error) {
	if meta.AddressLine1 == "" || meta.Postcode == "" {
		return nil, shared.NewDomainError("INVALID_METADATA", "Postal address is required")
	}
	return newCommunication(customerID, CommunicationKindPost, meta)
}

// MarkSent records successful delivery
func (c *Communication) MarkSent() error {
	if c.Status != CommunicationStatusQueued {
		return shared.NewDomainError("INVALID_STATE", "Communication has already completed")
	}
	now := time.Now()
	c.Status = CommunicationStatusSent
	c.SentAt = &now
	c.UpdatedAt = now
	return nil
}

// MarkFailed records a delivery failure
func (c *Communication) MarkFailed(reason string) error {
	if c.Status != CommunicationStatusQueued {
		return shared.NewDomainError("INVALID_STATE", "Communication has already completed")
	}
	c.Status = CommunicationStatusFailed
	c.Error = reason
	c.UpdatedAt = time.Now()
	return nil
}

// EmailMetadata decodes the metadata payload for an email communication
func (c *Communication) EmailMetadata() (EmailMetadata, error) {
	var meta EmailMetadata
	if c.Kind != CommunicationKindEmail {
		return meta, shared.NewDomainError("WRONG_KIND", "Communication is not an email")
	}
	err := json.Unmarshal([]byte(c.Metadata), &meta)
	return meta, err
}

// SMSMetadata decodes the metadata payload for an SMS communication
func (c *Communication) SMSMetadata() (SMSMetadata, error) {
	var meta SMSMetadata
	if c.Kind != CommunicationKindSMS {
		return meta, shared.NewDomainError("WRONG_KIND", "Communication is not an SMS")
	}
	err := json.Unmarshal([]byte(c.Metadata), &meta)
	return meta, err
}

// PostMetadata decodes the metadata payload for a posted letter
func (c *Communication) PostMetadata() (PostMetadata, error) {
	var meta PostMetadata
	if c.Kind != CommunicationKindPost {
		return meta, shared.NewDomainError("WRONG_KIND", "Communication is not a letter")
	}
	err := json.Unmarshal([]byte(c.Metadata), &meta)
	return meta, err
}
