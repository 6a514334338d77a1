package ordering

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/occtelecom/backend/internal/domain/catalog"
	"github.com/occtelecom/backend/internal/domain/customer"
	"github.com/occtelecom/backend/internal/domain/ordering"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// MockOrderRepository is a mock implementation of ordering.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*ordering.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]ordering.Order, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ordering.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) CountOpenByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) NextOrderSequence(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *ordering.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockGuestOrderRepository is a mock implementation of ordering.GuestOrderRepository
type MockGuestOrderRepository struct {
	mock.Mock
}

func (m *MockGuestOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.GuestOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.GuestOrder), args.Error(1)
}

func (m *MockGuestOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ordering.GuestOrder, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ordering.GuestOrder), args.Error(1)
}

func (m *MockGuestOrderRepository) Save(ctx context.Context, g *ordering.GuestOrder) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGuestOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockSlotRepository is a mock implementation of ordering.SlotRepository
type MockSlotRepository struct {
	mock.Mock
}

func (m *MockSlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.InstallationSlot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.InstallationSlot), args.Error(1)
}

func (m *MockSlotRepository) FindAvailable(ctx context.Context, region string, from, to time.Time) ([]ordering.InstallationSlot, error) {
	args := m.Called(ctx, region, from, to)
	return args.Get(0).([]ordering.InstallationSlot), args.Error(1)
}

func (m *MockSlotRepository) Save(ctx context.Context, s *ordering.InstallationSlot) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSlotRepository) ReserveAndBook(ctx context.Context, slotID uuid.UUID, booking *ordering.Booking) error {
	args := m.Called(ctx, slotID, booking)
	return args.Error(0)
}

// MockBookingRepository is a mock implementation of ordering.BookingRepository
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]ordering.Booking, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]ordering.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindDueReminders(ctx context.Context, from, to time.Time) ([]ordering.Booking, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]ordering.Booking), args.Error(1)
}

func (m *MockBookingRepository) Save(ctx context.Context, b *ordering.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

// MockTechnicianRepository is a mock implementation of ordering.TechnicianRepository
type MockTechnicianRepository struct {
	mock.Mock
}

func (m *MockTechnicianRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Technician, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Technician), args.Error(1)
}

func (m *MockTechnicianRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ordering.Technician, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ordering.Technician), args.Error(1)
}

func (m *MockTechnicianRepository) Save(ctx context.Context, t *ordering.Technician) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

// MockCustomerRepository is a mock implementation of customer.Repository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByAccountNumber(ctx context.Context, accountNumber string) (*customer.Customer, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]customer.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) NextAccountSequence(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockPlanResolver is a mock implementation of PlanResolver
type MockPlanResolver struct {
	mock.Mock
}

func (m *MockPlanResolver) ResolveSellablePlans(ctx context.Context, planIDs []uuid.UUID) ([]catalog.Plan, *catalog.BundleQuote, error) {
	args := m.Called(ctx, planIDs)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]catalog.Plan), args.Get(1).(*catalog.BundleQuote), args.Error(2)
}
