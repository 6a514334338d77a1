package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/ordering"
	"github.com/occtelecom/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var guestOrderOrderColumns = map[string]bool{
	"created_at": true,
	"status":     true,
	"email":      true,
}

// GormGuestOrderRepository implements ordering.GuestOrderRepository using GORM
type GormGuestOrderRepository struct {
	db *gorm.DB
}

// NewGormGuestOrderRepository creates a new GormGuestOrderRepository
func NewGormGuestOrderRepository(db *gorm.DB) *GormGuestOrderRepository {
	return &GormGuestOrderRepository{db: db}
}

// FindByID finds a guest order by its ID
func (r *GormGuestOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.GuestOrder, error) {
	var g ordering.GuestOrder
	if err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// FindAll finds guest orders matching the filter
func (r *GormGuestOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ordering.GuestOrder, error) {
	var orders []ordering.GuestOrder
	query := r.db.WithContext(ctx).Model(&ordering.GuestOrder{})
	query = r.applyStatusFilter(query, filter)
	query = applyFilter(query, filter, guestOrderOrderColumns, "created_at DESC")

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates a guest order
func (r *GormGuestOrderRepository) Save(ctx context.Context, g *ordering.GuestOrder) error {
	return r.db.WithContext(ctx).Save(g).Error
}

// Count counts guest orders matching the filter
func (r *GormGuestOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&ordering.GuestOrder{})
	query = r.applyStatusFilter(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormGuestOrderRepository) applyStatusFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}

var _ ordering.GuestOrderRepository = (*GormGuestOrderRepository)(nil)
