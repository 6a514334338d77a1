package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/catalog"
	"github.com/occtelecom/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var planOrderColumns = map[string]bool{
	"created_at":    true,
	"name":          true,
	"monthly_price": true,
	"sort_order":    true,
}

// GormPlanRepository implements catalog.Repository using GORM
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new GormPlanRepository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// FindByID finds a plan by its ID
func (r *GormPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Plan, error) {
	var p catalog.Plan
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByIDs finds multiple plans by their IDs
func (r *GormPlanRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Plan, error) {
	if len(ids) == 0 {
		return []catalog.Plan{}, nil
	}
	var plans []catalog.Plan
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// FindAll finds all plans matching the filter
func (r *GormPlanRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Plan, error) {
	var plans []catalog.Plan
	query := r.db.WithContext(ctx).Model(&catalog.Plan{})
	query = r.applyDomainFilters(query, filter)
	query = applyFilter(query, filter, planOrderColumns, "sort_order ASC, name ASC")

	if err := query.Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// FindActiveByServiceType finds active plans for a storefront section
func (r *GormPlanRepository) FindActiveByServiceType(ctx context.Context, serviceType catalog.ServiceType) ([]catalog.Plan, error) {
	var plans []catalog.Plan
	if err := r.db.WithContext(ctx).
		Where("service_type = ? AND active = ?", serviceType, true).
		Order("sort_order ASC, monthly_price ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// Save creates or updates a plan
func (r *GormPlanRepository) Save(ctx context.Context, p *catalog.Plan) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete removes a plan
func (r *GormPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Plan{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts plans matching the filter
func (r *GormPlanRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.Plan{})
	query = r.applyDomainFilters(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPlanRepository) applyDomainFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if serviceType, ok := filter.Filters["service_type"]; ok {
		query = query.Where("service_type = ?", serviceType)
	}
	if active, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", active)
	}
	return query
}

var _ catalog.Repository = (*GormPlanRepository)(nil)
