package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentAttemptStatus represents the outcome of a gateway charge attempt
type PaymentAttemptStatus string

const (
	PaymentAttemptStatusPending   PaymentAttemptStatus = "pending"
	PaymentAttemptStatusSucceeded PaymentAttemptStatus = "succeeded"
	PaymentAttemptStatusFailed    PaymentAttemptStatus = "failed"
)

// PaymentAttempt is one try at collecting an invoice through the card
// gateway. Every gateway call gets its own attempt row so retries leave
// an audit trail.
type PaymentAttempt struct {
	shared.BaseAggregateRoot
	InvoiceID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	CustomerID   uuid.UUID            `gorm:"type:uuid;not null;index"`
	Amount       decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Status       PaymentAttemptStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	GatewayRef   string               `gorm:"type:varchar(100);index"`
	FailureCode  string               `gorm:"type:varchar(50)"`
	FailureNote  string               `gorm:"type:text"`
	AttemptedAt  time.Time            `gorm:"not null"`
	CompletedAt  *time.Time
}

// TableName returns the table name for GORM
func (PaymentAttempt) TableName() string {
	return "payment_attempts"
}

// NewPaymentAttempt opens a pending attempt before calling the gateway
func NewPaymentAttempt(invoiceID, customerID uuid.UUID, amount decimal.Decimal) (*PaymentAttempt, error) {
	if invoiceID == uuid.Nil || customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ATTEMPT", "Invoice and customer are required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Attempt amount must be positive")
	}

	return &PaymentAttempt{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceID:         invoiceID,
		CustomerID:        customerID,
		Amount:            amount,
		Status:            PaymentAttemptStatusPending,
		AttemptedAt:       time.Now(),
	}, nil
}

// Succeed records a successful gateway charge
func (a *PaymentAttempt) Succeed(gatewayRef string) error {
	if a.Status != PaymentAttemptStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Attempt has already completed")
	}

	now := time.Now()
	a.Status = PaymentAttemptStatusSucceeded
	a.GatewayRef = gatewayRef
	a.CompletedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()

	return nil
}

// Fail records a declined or errored gateway charge
func (a *PaymentAttempt) Fail(code, note string) error {
	if a.Status != PaymentAttemptStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Attempt has already completed")
	}

	now := time.Now()
	a.Status = PaymentAttemptStatusFailed
	a.FailureCode = code
	a.FailureNote = note
	a.CompletedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()

	return nil
}
