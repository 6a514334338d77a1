package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/ordering"
	"github.com/occtelecom/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSlotRepository implements ordering.SlotRepository using GORM
type GormSlotRepository struct {
	db *gorm.DB
}

// NewGormSlotRepository creates a new GormSlotRepository
func NewGormSlotRepository(db *gorm.DB) *GormSlotRepository {
	return &GormSlotRepository{db: db}
}

// FindByID finds a slot by its ID
func (r *GormSlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.InstallationSlot, error) {
	var s ordering.InstallationSlot
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindAvailable returns slots with free capacity in the window
func (r *GormSlotRepository) FindAvailable(ctx context.Context, region string, from, to time.Time) ([]ordering.InstallationSlot, error) {
	var slots []ordering.InstallationSlot
	query := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ? AND booked < capacity", from, to)
	if region != "" {
		query = query.Where("region = ?", region)
	}
	if err := query.Order("date ASC, start_hour ASC").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// Save creates or updates a slot
func (r *GormSlotRepository) Save(ctx context.Context, s *ordering.InstallationSlot) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// ReserveAndBook takes one unit of slot capacity and inserts the booking
// in a single transaction. The guarded UPDATE makes the capacity check
// atomic, so two bookings can never both take the last unit.
func (r *GormSlotRepository) ReserveAndBook(ctx context.Context, slotID uuid.UUID, booking *ordering.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&ordering.InstallationSlot{}).
			Where("id = ? AND booked < capacity", slotID).
			UpdateColumn("booked", gorm.Expr("booked + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&ordering.InstallationSlot{}).
				Where("id = ?", slotID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return shared.ErrNotFound
			}
			return shared.ErrSlotFull
		}
		return tx.Create(booking).Error
	})
}

var _ ordering.SlotRepository = (*GormSlotRepository)(nil)

// GormBookingRepository implements ordering.BookingRepository using GORM
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID finds a booking by its ID
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Booking, error) {
	var b ordering.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindByOrder finds the bookings for an order
func (r *GormBookingRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]ordering.Booking, error) {
	var bookings []ordering.Booking
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindDueReminders returns open bookings whose slot date falls inside the
// window and that have not been reminded yet.
func (r *GormBookingRepository) FindDueReminders(ctx context.Context, from, to time.Time) ([]ordering.Booking, error) {
	var bookings []ordering.Booking
	if err := r.db.WithContext(ctx).
		Joins("JOIN installation_slots ON installation_slots.id = installation_bookings.slot_id").
		Where("installation_bookings.status = ?", ordering.BookingStatusBooked).
		Where("installation_bookings.reminder_sent = ?", false).
		Where("installation_slots.date >= ? AND installation_slots.date <= ?", from, to).
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// Save creates or updates a booking
func (r *GormBookingRepository) Save(ctx context.Context, b *ordering.Booking) error {
	return r.db.WithContext(ctx).Save(b).Error
}

var _ ordering.BookingRepository = (*GormBookingRepository)(nil)

// GormTechnicianRepository implements ordering.TechnicianRepository using GORM
type GormTechnicianRepository struct {
	db *gorm.DB
}

// NewGormTechnicianRepository creates a new GormTechnicianRepository
func NewGormTechnicianRepository(db *gorm.DB) *GormTechnicianRepository {
	return &GormTechnicianRepository{db: db}
}

// FindByID finds a technician by ID
func (r *GormTechnicianRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Technician, error) {
	var t ordering.Technician
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindAll finds technicians matching the filter
func (r *GormTechnicianRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ordering.Technician, error) {
	var technicians []ordering.Technician
	query := r.db.WithContext(ctx).Model(&ordering.Technician{})
	if region, ok := filter.Filters["region"]; ok {
		query = query.Where("region = ?", region)
	}
	query = applyFilter(query, filter, map[string]bool{"name": true, "created_at": true}, "name ASC")

	if err := query.Find(&technicians).Error; err != nil {
		return nil, err
	}
	return technicians, nil
}

// Save creates or updates a technician
func (r *GormTechnicianRepository) Save(ctx context.Context, t *ordering.Technician) error {
	return r.db.WithContext(ctx).Save(t).Error
}

var _ ordering.TechnicianRepository = (*GormTechnicianRepository)(nil)
