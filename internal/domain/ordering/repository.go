package ordering

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// OrderRepository defines persistence operations for orders
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	CountOpenByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
	NextOrderSequence(ctx context.Context) (int64, error)
	Save(ctx context.Context, o *Order) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// GuestOrderRepository defines persistence operations for guest orders
type GuestOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*GuestOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]GuestOrder, error)
	Save(ctx context.Context, g *GuestOrder) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// SlotRepository defines persistence operations for installation slots
type SlotRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InstallationSlot, error)
	FindAvailable(ctx context.Context, region string, from, to time.Time) ([]InstallationSlot, error)
	Save(ctx context.Context, s *InstallationSlot) error
	// ReserveAndBook decrements the slot capacity and inserts the booking
	// in a single transaction.
	ReserveAndBook(ctx context.Context, slotID uuid.UUID, booking *Booking) error
}

// BookingRepository defines persistence operations for installation bookings
type BookingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]Booking, error)
	// FindDueReminders returns open bookings whose slot starts inside the
	// window and that have not had a reminder sent yet.
	FindDueReminders(ctx context.Context, from, to time.Time) ([]Booking, error)
	Save(ctx context.Context, b *Booking) error
}

// TechnicianRepository defines persistence operations for technicians
type TechnicianRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Technician, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Technician, error)
	Save(ctx context.Context, t *Technician) error
}
