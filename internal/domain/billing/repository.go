package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// InvoiceRepository defines persistence operations for invoices
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Invoice, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)
	// FindOverdueCandidates returns issued invoices past the given cutoff
	// that have not had a late fee applied.
	FindOverdueCandidates(ctx context.Context, cutoff time.Time) ([]Invoice, error)
	CountUnpaidByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
	NextInvoiceSequence(ctx context.Context) (int64, error)
	Save(ctx context.Context, i *Invoice) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// ReceiptRepository defines persistence operations for receipts
type ReceiptRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Receipt, error)
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]Receipt, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Receipt, error)
	NextReceiptSequence(ctx context.Context) (int64, error)
	Save(ctx context.Context, r *Receipt) error
}

// PaymentAttemptRepository defines persistence operations for payment attempts
type PaymentAttemptRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentAttempt, error)
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]PaymentAttempt, error)
	Save(ctx context.Context, a *PaymentAttempt) error
}

// SettingsRepository defines persistence operations for billing settings
type SettingsRepository interface {
	FindByCustomer(ctx context.Context, customerID uuid.UUID) (*BillingSettings, error)
	// FindDue returns settings whose next invoice date is on or before today.
	FindDue(ctx context.Context, now time.Time) ([]BillingSettings, error)
	Save(ctx context.Context, s *BillingSettings) error
}
