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

var invoiceOrderColumns = map[string]bool{
	"created_at":     true,
	"invoice_number": true,
	"due_date":       true,
	"status":         true,
}

// unpaidInvoiceStatuses are the statuses blocking customer closure
var unpaidInvoiceStatuses = []billing.InvoiceStatus{
	billing.InvoiceStatusIssued,
	billing.InvoiceStatusOverdue,
}

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice with its lines
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var inv billing.Invoice
	if err := r.db.WithContext(ctx).Preload("Lines").First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindByInvoiceNumber finds an invoice by its number
func (r *GormInvoiceRepository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*billing.Invoice, error) {
	var inv billing.Invoice
	if err := r.db.WithContext(ctx).Preload("Lines").
		First(&inv, "invoice_number = ?", invoiceNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindByCustomer finds a customer's invoices
func (r *GormInvoiceRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := r.db.WithContext(ctx).Model(&billing.Invoice{}).
		Preload("Lines").
		Where("customer_id = ?", customerID)
	query = applyFilter(query, filter, invoiceOrderColumns, "created_at DESC")

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindAll finds invoices matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := r.db.WithContext(ctx).Model(&billing.Invoice{}).Preload("Lines")
	query = r.applyDomainFilters(query, filter)
	query = applyFilter(query, filter, invoiceOrderColumns, "created_at DESC")

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindOverdueCandidates returns issued invoices whose due date is past
// the cutoff and that have not had a late fee applied yet.
func (r *GormInvoiceRepository) FindOverdueCandidates(ctx context.Context, cutoff time.Time) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("status IN ?", unpaidInvoiceStatuses).
		Where("due_date < ?", cutoff).
		Where("late_fee_applied = ?", false).
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// CountUnpaidByCustomer counts a customer's issued and overdue invoices
func (r *GormInvoiceRepository) CountUnpaidByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("customer_id = ? AND status IN ?", customerID, unpaidInvoiceStatuses).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextInvoiceSequence returns the next invoice number sequence value
func (r *GormInvoiceRepository) NextInvoiceSequence(ctx context.Context) (int64, error) {
	return nextSequence(ctx, r.db, sequenceInvoiceNumber)
}

// Save creates or updates an invoice together with its lines
func (r *GormInvoiceRepository) Save(ctx context.Context, i *billing.Invoice) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(i).Error
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&billing.Invoice{})
	query = r.applyDomainFilters(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormInvoiceRepository) applyDomainFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if customerID, ok := filter.Filters["customer_id"]; ok {
		query = query.Where("customer_id = ?", customerID)
	}
	return query
}

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
