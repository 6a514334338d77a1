package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// Technician is an installation engineer
type Technician struct {
	shared.BaseAggregateRoot
	Name   string `gorm:"type:varchar(200);not null"`
	Email  string `gorm:"type:varchar(200)"`
	Phone  string `gorm:"type:varchar(50)"`
	Region string `gorm:"type:varchar(100);index"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Technician) TableName() string {
	return "technicians"
}

// NewTechnician creates a new technician
func NewTechnician(name, region string) (*Technician, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Technician name cannot be empty")
	}
	return &Technician{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Region:            region,
		Active:            true,
	}, nil
}

// InstallationSlot is a bookable window of engineer capacity
type InstallationSlot struct {
	shared.BaseAggregateRoot
	Date      time.Time `gorm:"type:date;not null;index"`
	StartHour int       `gorm:"not null"` // 24h clock
	EndHour   int       `gorm:"not null"`
	Region    string    `gorm:"type:varchar(100);index"`
	Capacity  int       `gorm:"not null"`
	Booked    int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (InstallationSlot) TableName() string {
	return "installation_slots"
}

// NewInstallationSlot creates a bookable slot
func NewInstallationSlot(date time.Time, startHour, endHour int, region string, capacity int) (*InstallationSlot, error) {
	if startHour < 0 || startHour > 23 || endHour <= startHour || endHour > 24 {
		return nil, shared.NewDomainError("INVALID_SLOT_WINDOW", "Slot window hours are out of range")
	}
	if capacity <= 0 {
		return nil, shared.NewDomainError("INVALID_CAPACITY", "Slot capacity must be positive")
	}
	return &InstallationSlot{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Date:              date,
		StartHour:         startHour,
		EndHour:           endHour,
		Region:            region,
		Capacity:          capacity,
	}, nil
}

// Remaining returns the unbooked capacity
func (s *InstallationSlot) Remaining() int {
	return s.Capacity - s.Booked
}

// Reserve takes one unit of capacity. The surrounding repository call runs
// inside a transaction so two bookings cannot both take the last unit.
func (s *InstallationSlot) Reserve() error {
	if s.Remaining() <= 0 {
		return shared.ErrSlotFull
	}
	s.Booked++
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Release returns one unit of capacity after a cancellation
func (s *InstallationSlot) Release() {
	if s.Booked > 0 {
		s.Booked--
		s.UpdatedAt = time.Now()
		s.IncrementVersion()
	}
}

// BookingStatus represents the status of an installation booking
type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "booked"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking ties an order to a slot and, optionally, a technician
type Booking struct {
	shared.BaseAggregateRoot
	OrderID      uuid.UUID     `gorm:"type:uuid;not null;index"`
	SlotID       uuid.UUID     `gorm:"type:uuid;not null;index"`
	TechnicianID *uuid.UUID    `gorm:"type:uuid;index"`
	Status       BookingStatus `gorm:"type:varchar(20);not null;default:'booked'"`
	ReminderSent bool          `gorm:"not null;default:false"`
	Notes        string        `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Booking) TableName() string {
	return "installation_bookings"
}

// NewBooking creates a booking for an order in a slot
func NewBooking(orderID, slotID uuid.UUID) (*Booking, error) {
	if orderID == uuid.Nil || slotID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BOOKING", "Order and slot are required")
	}
	b := &Booking{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		SlotID:            slotID,
		Status:            BookingStatusBooked,
	}
	b.AddDomainEvent(&BookingCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookingCreated, "Booking", b.ID),
		BookingID:       b.ID,
		OrderID:         orderID,
		SlotID:          slotID,
	})
	return b, nil
}

// AssignTechnician assigns an engineer to the visit
func (b *Booking) AssignTechnician(technicianID uuid.UUID) error {
	if b.Status != BookingStatusBooked {
		return shared.NewDomainError("INVALID_STATE", "Only open bookings can be assigned")
	}
	b.TechnicianID = &technicianID
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// MarkReminderSent records that the reminder email went out, so the
// scheduled job does not send it twice.
func (b *Booking) MarkReminderSent() {
	b.ReminderSent = true
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// Complete marks the visit as done
func (b *Booking) Complete() error {
	if b.Status != BookingStatusBooked {
		return shared.NewDomainError("INVALID_STATE", "Only open bookings can be completed")
	}
	b.Status = BookingStatusCompleted
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// Cancel cancels the booking
func (b *Booking) Cancel() error {
	if b.Status != BookingStatusBooked {
		return shared.NewDomainError("INVALID_STATE", "Only open bookings can be cancelled")
	}
	b.Status = BookingStatusCancelled
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// BookingCreatedEvent is published when an installation is booked
type BookingCreatedEvent struct {
	shared.BaseDomainEvent
	BookingID uuid.UUID `json:"booking_id"`
	OrderID   uuid.UUID `json:"order_id"`
	SlotID    uuid.UUID `json:"slot_id"`
}
