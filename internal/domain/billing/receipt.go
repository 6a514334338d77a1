package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentMethod identifies how a payment was taken
type PaymentMethod string

const (
	PaymentMethodCardOnline  PaymentMethod = "card_online"
	PaymentMethodCardPhone   PaymentMethod = "card_phone" // agent-keyed payment
	PaymentMethodDirectDebit PaymentMethod = "direct_debit"
)

// Receipt records a successful payment against an invoice
type Receipt struct {
	shared.BaseAggregateRoot
	ReceiptNumber string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	InvoiceID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method        PaymentMethod   `gorm:"type:varchar(20);not null"`
	GatewayRef    string          `gorm:"type:varchar(100)"` // empty for manual methods
	TakenBy       *uuid.UUID      `gorm:"type:uuid"`         // staff user for phone payments
	PaidAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Receipt) TableName() string {
	return "receipts"
}

// FormatReceiptNumber builds a receipt number from a numeric sequence value
func FormatReceiptNumber(seq int64) string {
	return fmt.Sprintf("RCP-%08d", seq)
}

// NewReceipt creates a receipt for a settled payment
func NewReceipt(receiptNumber string, invoiceID, customerID uuid.UUID, amount decimal.Decimal, method PaymentMethod, gatewayRef string) (*Receipt, error) {
	if receiptNumber == "" {
		return nil, shared.NewDomainError("INVALID_RECEIPT_NUMBER", "Receipt number cannot be empty")
	}
	if invoiceID == uuid.Nil || customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECEIPT", "Invoice and customer are required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Receipt amount must be positive")
	}

	r := &Receipt{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReceiptNumber:     receiptNumber,
		InvoiceID:         invoiceID,
		CustomerID:        customerID,
		Amount:            amount,
		Method:            method,
		GatewayRef:        gatewayRef,
		PaidAt:            time.Now(),
	}

	r.AddDomainEvent(NewReceiptCreatedEvent(r))

	return r, nil
}

// RecordTakenBy notes the staff member who keyed a phone payment
func (r *Receipt) RecordTakenBy(userID uuid.UUID) {
	r.TakenBy = &userID
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}
