package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/audit"
	"github.com/occtelecom/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var auditOrderColumns = map[string]bool{
	"created_at": true,
	"action":     true,
}

// GormAuditRepository implements audit.EntryRepository using GORM.
// Entries are append-only; there is no update or delete path.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// FindByEntity finds the audit trail of one entity
func (r *GormAuditRepository) FindByEntity(ctx context.Context, entityType string, entityID uuid.UUID, filter shared.Filter) ([]audit.Entry, error) {
	var entries []audit.Entry
	query := r.db.WithContext(ctx).Model(&audit.Entry{}).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID)
	query = applyFilter(query, filter, auditOrderColumns, "created_at DESC")

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByActor finds the actions performed by one staff user
func (r *GormAuditRepository) FindByActor(ctx context.Context, actorID uuid.UUID, filter shared.Filter) ([]audit.Entry, error) {
	var entries []audit.Entry
	query := r.db.WithContext(ctx).Model(&audit.Entry{}).
		Where("actor_id = ?", actorID)
	query = applyFilter(query, filter, auditOrderColumns, "created_at DESC")

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindAll finds audit entries matching the filter
func (r *GormAuditRepository) FindAll(ctx context.Context, filter shared.Filter) ([]audit.Entry, error) {
	var entries []audit.Entry
	query := r.db.WithContext(ctx).Model(&audit.Entry{})
	query = r.applyDomainFilters(query, filter)
	query = applyFilter(query, filter, auditOrderColumns, "created_at DESC")

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Save inserts a new audit entry
func (r *GormAuditRepository) Save(ctx context.Context, e *audit.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// Count counts audit entries matching the filter
func (r *GormAuditRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&audit.Entry{})
	query = r.applyDomainFilters(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormAuditRepository) applyDomainFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if action, ok := filter.Filters["action"]; ok {
		query = query.Where("action = ?", action)
	}
	if entityType, ok := filter.Filters["entity_type"]; ok {
		query = query.Where("entity_type = ?", entityType)
	}
	return query
}

var _ audit.EntryRepository = (*GormAuditRepository)(nil)

// GormCommunicationRepository implements audit.CommunicationRepository using GORM
type GormCommunicationRepository struct {
	db *gorm.DB
}

// NewGormCommunicationRepository creates a new GormCommunicationRepository
func NewGormCommunicationRepository(db *gorm.DB) *GormCommunicationRepository {
	return &GormCommunicationRepository{db: db}
}

// FindByID finds a communication by its ID
func (r *GormCommunicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*audit.Communication, error) {
	var c audit.Communication
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByCustomer finds a customer's communications log
func (r *GormCommunicationRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]audit.Communication, error) {
	var comms []audit.Communication
	query := r.db.WithContext(ctx).Model(&audit.Communication{}).
		Where("customer_id = ?", customerID)
	query = r.applyDomainFilters(query, filter)
	query = applyFilter(query, filter, auditOrderColumns, "created_at DESC")

	if err := query.Find(&comms).Error; err != nil {
		return nil, err
	}
	return comms, nil
}

// FindAll finds communications matching the filter
func (r *GormCommunicationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]audit.Communication, error) {
	var comms []audit.Communication
	query := r.db.WithContext(ctx).Model(&audit.Communication{})
	query = r.applyDomainFilters(query, filter)
	query = applyFilter(query, filter, auditOrderColumns, "created_at DESC")

	if err := query.Find(&comms).Error; err != nil {
		return nil, err
	}
	return comms, nil
}

// Save creates or updates a communication row
func (r *GormCommunicationRepository) Save(ctx context.Context, c *audit.Communication) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *GormCommunicationRepository) applyDomainFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if kind, ok := filter.Filters["kind"]; ok {
		query = query.Where("kind = ?", kind)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}

var _ audit.CommunicationRepository = (*GormCommunicationRepository)(nil)
