package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/ordering"
	"github.com/occtelecom/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var orderOrderColumns = map[string]bool{
	"created_at":   true,
	"order_number": true,
	"status":       true,
}

// openOrderStatuses are statuses that count as live services for the
// customer closure precondition.
var openOrderStatuses = []ordering.OrderStatus{
	ordering.OrderStatusPending,
	ordering.OrderStatusConfirmed,
	ordering.OrderStatusScheduled,
	ordering.OrderStatusInstalled,
	ordering.OrderStatusActive,
}

// GormOrderRepository implements ordering.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its lines
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	var o ordering.Order
	if err := r.db.WithContext(ctx).Preload("Lines").First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByOrderNumber finds an order by its number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*ordering.Order, error) {
	var o ordering.Order
	if err := r.db.WithContext(ctx).Preload("Lines").
		First(&o, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByCustomer finds a customer's orders
func (r *GormOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]ordering.Order, error) {
	var orders []ordering.Order
	query := r.db.WithContext(ctx).Model(&ordering.Order{}).
		Preload("Lines").
		Where("customer_id = ?", customerID)
	query = applyFilter(query, filter, orderOrderColumns, "created_at DESC")

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindAll finds all orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ordering.Order, error) {
	var orders []ordering.Order
	query := r.db.WithContext(ctx).Model(&ordering.Order{}).Preload("Lines")
	query = r.applyStatusFilter(query, filter)
	query = applyFilter(query, filter, orderOrderColumns, "created_at DESC")

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CountOpenByCustomer counts a customer's non-cancelled orders
func (r *GormOrderRepository) CountOpenByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&ordering.Order{}).
		Where("customer_id = ? AND status IN ?", customerID, openOrderStatuses).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextOrderSequence returns the next order number sequence value
func (r *GormOrderRepository) NextOrderSequence(ctx context.Context) (int64, error) {
	return nextSequence(ctx, r.db, sequenceOrderNumber)
}

// Save creates or updates an order together with its lines
func (r *GormOrderRepository) Save(ctx context.Context, o *ordering.Order) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(o).Error
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&ordering.Order{})
	query = r.applyStatusFilter(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormOrderRepository) applyStatusFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if customerID, ok := filter.Filters["customer_id"]; ok {
		query = query.Where("customer_id = ?", customerID)
	}
	return query
}

var _ ordering.OrderRepository = (*GormOrderRepository)(nil)
