package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// BillingMode selects how the next invoice date is derived
type BillingMode string

const (
	// BillingModeFixedDay bills on a fixed day of each month
	BillingModeFixedDay BillingMode = "fixed_day"
	// BillingModeAnniversary bills one calendar month after the previous run
	BillingModeAnniversary BillingMode = "anniversary"
)

const (
	minBillingDay = 1
	maxBillingDay = 28 // keeps the date valid in every month
)

// BillingSettings holds the per-customer billing cycle configuration
type BillingSettings struct {
	shared.BaseAggregateRoot
	CustomerID      uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex"`
	Mode            BillingMode `gorm:"type:varchar(20);not null;default:'anniversary'"`
	BillingDay      int         `gorm:"not null;default:1"` // only used by fixed_day
	NextInvoiceDate time.Time   `gorm:"type:date;not null;index"`
}

// TableName returns the table name for GORM
func (BillingSettings) TableName() string {
	return "billing_settings"
}

// NewBillingSettings creates billing settings for a customer
func NewBillingSettings(customerID uuid.UUID, mode BillingMode, billingDay int, now time.Time) (*BillingSettings, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if mode != BillingModeFixedDay && mode != BillingModeAnniversary {
		return nil, shared.NewDomainError("INVALID_BILLING_MODE", "Unknown billing mode")
	}

	s := &BillingSettings{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Mode:              mode,
		BillingDay:        ClampBillingDay(billingDay),
	}
	s.NextInvoiceDate = NextInvoiceDate(mode, s.BillingDay, now)

	return s, nil
}

// ClampBillingDay forces the billing day into the 1..28 range so the
// resulting date exists in every month
func ClampBillingDay(day int) int {
	if day < minBillingDay {
		return minBillingDay
	}
	if day > maxBillingDay {
		return maxBillingDay
	}
	return day
}

// NextInvoiceDate computes the next billing date from today.
//
// fixed_day picks this month's instance of the configured day; when that
// lands on or before today it advances one calendar month, so the result
// is always strictly in the future. anniversary is exactly one calendar
// month from today.
func NextInvoiceDate(mode BillingMode, billingDay int, now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if mode == BillingModeAnniversary {
		return today.AddDate(0, 1, 0)
	}

	day := ClampBillingDay(billingDay)
	candidate := time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, time.UTC)
	if !candidate.After(today) {
		candidate = candidate.AddDate(0, 1, 0)
	}
	return candidate
}

// ChangeMode switches the billing mode and recomputes the next date
func (s *BillingSettings) ChangeMode(mode BillingMode, billingDay int, now time.Time) error {
	if mode != BillingModeFixedDay && mode != BillingModeAnniversary {
		return shared.NewDomainError("INVALID_BILLING_MODE", "Unknown billing mode")
	}

	s.Mode = mode
	s.BillingDay = ClampBillingDay(billingDay)
	s.NextInvoiceDate = NextInvoiceDate(mode, s.BillingDay, now)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Advance rolls the next invoice date forward after a billing run
func (s *BillingSettings) Advance(now time.Time) {
	s.NextInvoiceDate = NextInvoiceDate(s.Mode, s.BillingDay, now)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// IsDue reports whether a billing run should raise an invoice today
func (s *BillingSettings) IsDue(now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !s.NextInvoiceDate.After(today)
}
