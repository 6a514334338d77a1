package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
	"github.com/occtelecom/backend/internal/domain/support"
	"gorm.io/gorm"
)

var ticketOrderColumns = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"ticket_number": true,
	"status":        true,
	"priority":      true,
}

// GormTicketRepository implements support.TicketRepository using GORM
type GormTicketRepository struct {
	db *gorm.DB
}

// NewGormTicketRepository creates a new GormTicketRepository
func NewGormTicketRepository(db *gorm.DB) *GormTicketRepository {
	return &GormTicketRepository{db: db}
}

// FindByID finds a ticket with its message thread
func (r *GormTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*support.Ticket, error) {
	var t support.Ticket
	if err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("ticket_messages.created_at ASC")
		}).
		First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByTicketNumber finds a ticket by its number
func (r *GormTicketRepository) FindByTicketNumber(ctx context.Context, ticketNumber string) (*support.Ticket, error) {
	var t support.Ticket
	if err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("ticket_messages.created_at ASC")
		}).
		First(&t, "ticket_number = ?", ticketNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByCustomer finds a customer's tickets
func (r *GormTicketRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]support.Ticket, error) {
	var tickets []support.Ticket
	query := r.db.WithContext(ctx).Model(&support.Ticket{}).
		Where("customer_id = ?", customerID)
	query = applyFilter(query, filter, ticketOrderColumns, "updated_at DESC")

	if err := query.Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

// FindAll finds tickets matching the filter
func (r *GormTicketRepository) FindAll(ctx context.Context, filter shared.Filter) ([]support.Ticket, error) {
	var tickets []support.Ticket
	query := r.db.WithContext(ctx).Model(&support.Ticket{})
	query = r.applyDomainFilters(query, filter)
	query = applyFilter(query, filter, ticketOrderColumns, "updated_at DESC")

	if err := query.Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

// NextTicketSequence returns the next ticket number sequence value
func (r *GormTicketRepository) NextTicketSequence(ctx context.Context) (int64, error) {
	return nextSequence(ctx, r.db, sequenceTicketNumber)
}

// Save creates or updates a ticket together with its messages
func (r *GormTicketRepository) Save(ctx context.Context, t *support.Ticket) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(t).Error
}

// Count counts tickets matching the filter
func (r *GormTicketRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&support.Ticket{})
	query = r.applyDomainFilters(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormTicketRepository) applyDomainFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if priority, ok := filter.Filters["priority"]; ok {
		query = query.Where("priority = ?", priority)
	}
	if assigneeID, ok := filter.Filters["assignee_id"]; ok {
		query = query.Where("assignee_id = ?", assigneeID)
	}
	return query
}

var _ support.TicketRepository = (*GormTicketRepository)(nil)
