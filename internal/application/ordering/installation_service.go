package ordering

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/occtelecom/backend/internal/domain/ordering"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// defaultAvailabilityWindow is how far ahead slot availability is shown
// when the caller gives no date range
const defaultAvailabilityWindow = 14 * 24 * time.Hour

// InstallationService handles slot availability, bookings and technicians
type InstallationService struct {
	slotRepo       ordering.SlotRepository
	bookingRepo    ordering.BookingRepository
	technicianRepo ordering.TechnicianRepository
	orderRepo      ordering.OrderRepository
	publisher      shared.EventPublisher
}

// NewInstallationService creates a new InstallationService
func NewInstallationService(
	slotRepo ordering.SlotRepository,
	bookingRepo ordering.BookingRepository,
	technicianRepo ordering.TechnicianRepository,
	orderRepo ordering.OrderRepository,
	publisher shared.EventPublisher,
) *InstallationService {
	return &InstallationService{
		slotRepo:       slotRepo,
		bookingRepo:    bookingRepo,
		technicianRepo: technicianRepo,
		orderRepo:      orderRepo,
		publisher:      publisher,
	}
}

// ListAvailableSlots returns slots with remaining capacity in the window
func (s *InstallationService) ListAvailableSlots(ctx context.Context, req SlotListRequest) ([]SlotResponse, error) {
	from := req.From
	if from.IsZero() {
		from = time.Now()
	}
	to := req.To
	if to.IsZero() {
		to = from.Add(defaultAvailabilityWindow)
	}
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_RANGE", "End of the availability window is before its start")
	}

	slots, err := s.slotRepo.FindAvailable(ctx, req.Region, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]SlotResponse, 0, len(slots))
	for i := range slots {
		out = append(out, ToSlotResponse(&slots[i]))
	}
	return out, nil
}

// CreateSlot adds engineer capacity for a date
func (s *InstallationService) CreateSlot(ctx context.Context, req CreateSlotRequest) (*SlotResponse, error) {
	slot, err := ordering.NewInstallationSlot(req.Date, req.StartHour, req.EndHour, req.Region, req.Capacity)
	if err != nil {
		return nil, err
	}
	if err := s.slotRepo.Save(ctx, slot); err != nil {
		return nil, err
	}
	resp := ToSlotResponse(slot)
	return &resp, nil
}

// BookSlot books an installation visit for a confirmed order. The slot
// reservation and the booking insert run in one transaction; a full slot
// surfaces as shared.ErrSlotFull without touching the order.
func (s *InstallationService) BookSlot(ctx context.Context, orderID uuid.UUID, req BookSlotRequest) (*BookingResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.NeedsInstallation() {
		return nil, shared.NewDomainError("NO_INSTALLATION_NEEDED", "SIM-only orders do not need an engineer visit")
	}
	if order.Status != ordering.OrderStatusConfirmed {
		return nil, shared.NewDomainError("INVALID_STATE", "Only confirmed orders can book an installation")
	}

	booking, err := ordering.NewBooking(orderID, req.SlotID)
	if err != nil {
		return nil, err
	}
	booking.Notes = req.Notes

	if err := s.slotRepo.ReserveAndBook(ctx, req.SlotID, booking); err != nil {
		return nil, err
	}

	if err := order.Schedule(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, booking.GetDomainEvents()...)
		booking.ClearDomainEvents()
		_ = s.publisher.Publish(ctx, order.GetDomainEvents()...)
		order.ClearDomainEvents()
	}

	resp := ToBookingResponse(booking)
	return &resp, nil
}

// GetBookingForOrder returns the open booking attached to an order
func (s *InstallationService) GetBookingForOrder(ctx context.Context, orderID uuid.UUID) (*BookingResponse, error) {
	bookings, err := s.bookingRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		if bookings[i].Status == ordering.BookingStatusBooked {
			resp := ToBookingResponse(&bookings[i])
			return &resp, nil
		}
	}
	return nil, shared.ErrNotFound
}

// AssignTechnician assigns an engineer to a booking
func (s *InstallationService) AssignTechnician(ctx context.Context, bookingID uuid.UUID, req AssignTechnicianRequest) (*BookingResponse, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	tech, err := s.technicianRepo.FindByID(ctx, req.TechnicianID)
	if err != nil {
		return nil, err
	}
	if !tech.Active {
		return nil, shared.NewDomainError("TECHNICIAN_INACTIVE", "Technician is not active")
	}

	if err := booking.AssignTechnician(tech.ID); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Save(ctx, booking); err != nil {
		return nil, err
	}

	resp := ToBookingResponse(booking)
	return &resp, nil
}

// CompleteBooking marks the engineer visit done and moves the order on
func (s *InstallationService) CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*BookingResponse, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := booking.Complete(); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Save(ctx, booking); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, booking.OrderID)
	if err != nil {
		return nil, err
	}
	if err := order.MarkInstalled(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	resp := ToBookingResponse(booking)
	return &resp, nil
}

// CancelBooking cancels the visit and releases the slot capacity
func (s *InstallationService) CancelBooking(ctx context.Context, bookingID uuid.UUID) (*BookingResponse, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := booking.Cancel(); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Save(ctx, booking); err != nil {
		return nil, err
	}

	slot, err := s.slotRepo.FindByID(ctx, booking.SlotID)
	if err != nil {
		return nil, err
	}
	slot.Release()
	if err := s.slotRepo.Save(ctx, slot); err != nil {
		return nil, err
	}

	resp := ToBookingResponse(booking)
	return &resp, nil
}

// CreateTechnician adds an installation engineer
func (s *InstallationService) CreateTechnician(ctx context.Context, req CreateTechnicianRequest) (*TechnicianResponse, error) {
	tech, err := ordering.NewTechnician(req.Name, req.Region)
	if err != nil {
		return nil, err
	}
	tech.Email = req.Email
	tech.Phone = req.Phone

	if err := s.technicianRepo.Save(ctx, tech); err != nil {
		return nil, err
	}
	resp := ToTechnicianResponse(tech)
	return &resp, nil
}

// ListTechnicians returns all technicians
func (s *InstallationService) ListTechnicians(ctx context.Context) ([]TechnicianResponse, error) {
	techs, err := s.technicianRepo.FindAll(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	out := make([]TechnicianResponse, 0, len(techs))
	for i := range techs {
		out = append(out, ToTechnicianResponse(&techs[i]))
	}
	return out, nil
}
