package billing

import (
	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	EventTypeInvoiceIssued  = "billing.invoice.issued"
	EventTypeInvoicePaid    = "billing.invoice.paid"
	EventTypeLateFeeApplied = "billing.invoice.late_fee_applied"
	EventTypeReceiptCreated = "billing.receipt.created"
)

// InvoiceIssuedEvent is published when an invoice is issued to a customer
type InvoiceIssuedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Total         decimal.Decimal `json:"total"`
}

// NewInvoiceIssuedEvent creates a new invoice issued event
func NewInvoiceIssuedEvent(i *Invoice) *InvoiceIssuedEvent {
	return &InvoiceIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceIssued, "Invoice", i.ID),
		InvoiceID:       i.ID,
		InvoiceNumber:   i.InvoiceNumber,
		CustomerID:      i.CustomerID,
		Total:           i.Total,
	}
}

// InvoicePaidEvent is published when an invoice is settled
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Total         decimal.Decimal `json:"total"`
}

// NewInvoicePaidEvent creates a new invoice paid event
func NewInvoicePaidEvent(i *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, "Invoice", i.ID),
		InvoiceID:       i.ID,
		InvoiceNumber:   i.InvoiceNumber,
		CustomerID:      i.CustomerID,
		Total:           i.Total,
	}
}

// LateFeeAppliedEvent is published when a late fee is added to an invoice
type LateFeeAppliedEvent struct {
	shared.BaseDomainEvent
	InvoiceID  uuid.UUID       `json:"invoice_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	Fee        decimal.Decimal `json:"fee"`
}

// NewLateFeeAppliedEvent creates a new late fee applied event
func NewLateFeeAppliedEvent(i *Invoice) *LateFeeAppliedEvent {
	return &LateFeeAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLateFeeApplied, "Invoice", i.ID),
		InvoiceID:       i.ID,
		CustomerID:      i.CustomerID,
		Fee:             LateFeeAmount,
	}
}

// ReceiptCreatedEvent is published when a payment receipt is recorded
type ReceiptCreatedEvent struct {
	shared.BaseDomainEvent
	ReceiptID     uuid.UUID       `json:"receipt_id"`
	ReceiptNumber string          `json:"receipt_number"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewReceiptCreatedEvent creates a new receipt created event
func NewReceiptCreatedEvent(r *Receipt) *ReceiptCreatedEvent {
	return &ReceiptCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptCreated, "Receipt", r.ID),
		ReceiptID:       r.ID,
		ReceiptNumber:   r.ReceiptNumber,
		InvoiceID:       r.InvoiceID,
		Amount:          r.Amount,
	}
}
