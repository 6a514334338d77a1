package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusIssued  InvoiceStatus = "issued"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
	InvoiceStatusVoid    InvoiceStatus = "void"
)

// LateFeeAmount is the flat fee applied once to an overdue invoice
var LateFeeAmount = decimal.RequireFromString("10.00")

// InvoiceLine is one charge on an invoice
type InvoiceLine struct {
	shared.BaseEntity
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(300);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	IsLateFee   bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (InvoiceLine) TableName() string {
	return "invoice_lines"
}

// Invoice represents a bill raised against a customer account.
// It is the aggregate root for billing documents; lines are owned.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;default:'draft'"`
	Lines         []InvoiceLine   `gorm:"foreignKey:InvoiceID"`
	Total         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IssuedAt      *time.Time
	DueDate       time.Time `gorm:"not null;index"`
	PaidAt        *time.Time
	LateFeeApplied bool     `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// FormatInvoiceNumber builds an invoice number from a numeric sequence value
func FormatInvoiceNumber(seq int64) string {
	return fmt.Sprintf("INV-%08d", seq)
}

// NewInvoice creates a draft invoice
func NewInvoice(invoiceNumber string, customerID uuid.UUID, dueDate time.Time) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}

	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		CustomerID:        customerID,
		Status:            InvoiceStatusDraft,
		Total:             decimal.Zero,
		DueDate:           dueDate,
	}, nil
}

// AddLine appends a charge to a draft invoice
func (i *Invoice) AddLine(description string, amount decimal.Decimal) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be added to draft invoices")
	}
	if description == "" {
		return shared.NewDomainError("INVALID_LINE", "Line description cannot be empty")
	}

	i.Lines = append(i.Lines, InvoiceLine{
		BaseEntity:  shared.NewBaseEntity(),
		InvoiceID:   i.ID,
		Description: description,
		Amount:      amount,
	})
	i.Total = i.Total.Add(amount)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// Issue issues the invoice to the customer
func (i *Invoice) Issue() error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be issued")
	}
	if len(i.Lines) == 0 {
		return shared.NewDomainError("EMPTY_INVOICE", "An invoice needs at least one line")
	}

	now := time.Now()
	i.Status = InvoiceStatusIssued
	i.IssuedAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceIssuedEvent(i))

	return nil
}

// MarkPaid settles the invoice
func (i *Invoice) MarkPaid(at time.Time) error {
	if i.Status != InvoiceStatusIssued && i.Status != InvoiceStatusOverdue {
		return shared.NewDomainError("INVALID_STATE", "Only issued or overdue invoices can be paid")
	}

	i.Status = InvoiceStatusPaid
	i.PaidAt = &at
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoicePaidEvent(i))

	return nil
}

// Void voids an unpaid invoice
func (i *Invoice) Void() error {
	if i.Status == InvoiceStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Paid invoices cannot be voided")
	}
	if i.Status == InvoiceStatusVoid {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already void")
	}

	i.Status = InvoiceStatusVoid
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// IsUnpaid reports whether the invoice still demands payment
func (i *Invoice) IsUnpaid() bool {
	return i.Status == InvoiceStatusIssued || i.Status == InvoiceStatusOverdue
}

// IsPastDue reports whether an unpaid invoice has passed its due date
func (i *Invoice) IsPastDue(now time.Time) bool {
	return i.IsUnpaid() && now.After(i.DueDate)
}

// ApplyLateFee marks the invoice overdue and appends the flat late-fee
// charge exactly once. Called by the scheduled late-fee job for invoices
// past their due date plus the grace period.
func (i *Invoice) ApplyLateFee(now time.Time) error {
	if !i.IsPastDue(now) {
		return shared.NewDomainError("INVALID_STATE", "Invoice is not past due")
	}
	if i.LateFeeApplied {
		return shared.NewDomainError("LATE_FEE_APPLIED", "Late fee has already been applied")
	}

	i.Lines = append(i.Lines, InvoiceLine{
		BaseEntity:  shared.NewBaseEntity(),
		InvoiceID:   i.ID,
		Description: "Late payment fee",
		Amount:      LateFeeAmount,
		IsLateFee:   true,
	})
	i.Total = i.Total.Add(LateFeeAmount)
	i.Status = InvoiceStatusOverdue
	i.LateFeeApplied = true
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewLateFeeAppliedEvent(i))

	return nil
}
