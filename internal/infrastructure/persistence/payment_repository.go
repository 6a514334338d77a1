package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/billing"
	"github.com/occtelecom/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormReceiptRepository implements billing.ReceiptRepository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// FindByID finds a receipt by its ID
func (r *GormReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Receipt, error) {
	var rec billing.Receipt
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// FindByInvoice finds the receipts for an invoice
func (r *GormReceiptRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]billing.Receipt, error) {
	var receipts []billing.Receipt
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("paid_at ASC").
		Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// FindByCustomer finds a customer's receipts
func (r *GormReceiptRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]billing.Receipt, error) {
	var receipts []billing.Receipt
	query := r.db.WithContext(ctx).Model(&billing.Receipt{}).
		Where("customer_id = ?", customerID)
	query = applyFilter(query, filter, map[string]bool{"paid_at": true, "created_at": true}, "paid_at DESC")

	if err := query.Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// NextReceiptSequence returns the next receipt number sequence value
func (r *GormReceiptRepository) NextReceiptSequence(ctx context.Context) (int64, error) {
	return nextSequence(ctx, r.db, sequenceReceiptNumber)
}

// Save creates or updates a receipt
func (r *GormReceiptRepository) Save(ctx context.Context, rec *billing.Receipt) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

var _ billing.ReceiptRepository = (*GormReceiptRepository)(nil)

// GormPaymentAttemptRepository implements billing.PaymentAttemptRepository using GORM
type GormPaymentAttemptRepository struct {
	db *gorm.DB
}

// NewGormPaymentAttemptRepository creates a new GormPaymentAttemptRepository
func NewGormPaymentAttemptRepository(db *gorm.DB) *GormPaymentAttemptRepository {
	return &GormPaymentAttemptRepository{db: db}
}

// FindByID finds a payment attempt by its ID
func (r *GormPaymentAttemptRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PaymentAttempt, error) {
	var a billing.PaymentAttempt
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByInvoice finds the payment attempts for an invoice, oldest first
func (r *GormPaymentAttemptRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]billing.PaymentAttempt, error) {
	var attempts []billing.PaymentAttempt
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

// Save creates or updates a payment attempt
func (r *GormPaymentAttemptRepository) Save(ctx context.Context, a *billing.PaymentAttempt) error {
	return r.db.WithContext(ctx).Save(a).Error
}

var _ billing.PaymentAttemptRepository = (*GormPaymentAttemptRepository)(nil)

// GormBillingSettingsRepository implements billing.SettingsRepository using GORM
type GormBillingSettingsRepository struct {
	db *gorm.DB
}

// NewGormBillingSettingsRepository creates a new GormBillingSettingsRepository
func NewGormBillingSettingsRepository(db *gorm.DB) *GormBillingSettingsRepository {
	return &GormBillingSettingsRepository{db: db}
}

// FindByCustomer finds a customer's billing settings
func (r *GormBillingSettingsRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) (*billing.BillingSettings, error) {
	var s billing.BillingSettings
	if err := r.db.WithContext(ctx).First(&s, "customer_id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindDue returns settings whose next invoice date has been reached
func (r *GormBillingSettingsRepository) FindDue(ctx context.Context, now time.Time) ([]billing.BillingSettings, error) {
	var settings []billing.BillingSettings
	if err := r.db.WithContext(ctx).
		Where("next_invoice_date <= ?", now).
		Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// Save creates or updates billing settings
func (r *GormBillingSettingsRepository) Save(ctx context.Context, s *billing.BillingSettings) error {
	return r.db.WithContext(ctx).Save(s).Error
}

var _ billing.SettingsRepository = (*GormBillingSettingsRepository)(nil)
