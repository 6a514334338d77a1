package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/directdebit"
	"github.com/occtelecom/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var mandateOrderColumns = map[string]bool{
	"created_at": true,
	"status":     true,
}

// GormMandateRepository implements directdebit.MandateRepository using GORM
type GormMandateRepository struct {
	db *gorm.DB
}

// NewGormMandateRepository creates a new GormMandateRepository
func NewGormMandateRepository(db *gorm.DB) *GormMandateRepository {
	return &GormMandateRepository{db: db}
}

// FindByID finds a mandate by its ID
func (r *GormMandateRepository) FindByID(ctx context.Context, id uuid.UUID) (*directdebit.Mandate, error) {
	var m directdebit.Mandate
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindByCustomer finds all of a customer's mandates, newest first
func (r *GormMandateRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]directdebit.Mandate, error) {
	var mandates []directdebit.Mandate
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&mandates).Error; err != nil {
		return nil, err
	}
	return mandates, nil
}

// FindActiveByCustomer returns the customer's live mandate
func (r *GormMandateRepository) FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*directdebit.Mandate, error) {
	var m directdebit.Mandate
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status = ?", customerID, directdebit.MandateStatusActive).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindAll finds mandates matching the filter
func (r *GormMandateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]directdebit.Mandate, error) {
	var mandates []directdebit.Mandate
	query := r.db.WithContext(ctx).Model(&directdebit.Mandate{})
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	query = applyFilter(query, filter, mandateOrderColumns, "created_at DESC")

	if err := query.Find(&mandates).Error; err != nil {
		return nil, err
	}
	return mandates, nil
}

// Save creates or updates a mandate
func (r *GormMandateRepository) Save(ctx context.Context, m *directdebit.Mandate) error {
	return r.db.WithContext(ctx).Save(m).Error
}

var _ directdebit.MandateRepository = (*GormMandateRepository)(nil)
