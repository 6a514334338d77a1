package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/occtelecom/backend/internal/domain/audit"
	"github.com/occtelecom/backend/internal/domain/catalog"
	"github.com/occtelecom/backend/internal/domain/customer"
	"github.com/occtelecom/backend/internal/domain/ordering"
	"github.com/occtelecom/backend/internal/domain/shared"
	"github.com/occtelecom/backend/internal/infrastructure/email"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordering.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindDueReminders(ctx context.Context, from, to time.Time) ([]ordering.Booking, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordering.Booking), args.Error(1)
}

func (m *MockBookingRepository) Save(ctx context.Context, b *ordering.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ordering.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

// stubMailer captures sent messages
type stubMailer struct {
	sent []*email.Message
	err  error
}

func (s *stubMailer) Send(ctx context.Context, msg *email.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

// stubCommunicationLog records the calls made against it
type stubCommunicationLog struct {
	recorded []*audit.Communication
	sentIDs  []uuid.UUID
	failed   map[uuid.UUID]string
}

func newStubCommunicationLog() *stubCommunicationLog {
	return &stubCommunicationLog{failed: make(map[uuid.UUID]string)}
}

func (s *stubCommunicationLog) RecordEmail(ctx context.Context, customerID uuid.UUID, meta audit.EmailMetadata) (*audit.Communication, error) {
	c, err := audit.NewEmailCommunication(customerID, meta)
	if err != nil {
		return nil, err
	}
	s.recorded = append(s.recorded, c)
	return c, nil
}

func (s *stubCommunicationLog) MarkSent(ctx context.Context, id uuid.UUID) error {
	s.sentIDs = append(s.sentIDs, id)
	return nil
}

func (s *stubCommunicationLog) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	s.failed[id] = reason
	return nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func installedOrder(t *testing.T, customerID uuid.UUID) *ordering.Order {
	t.Helper()
	broadband, err := catalog.NewPlan(catalog.ServiceTypeBroadband, "Fibre 100", decimal.RequireFromString("30.00"))
	require.NoError(t, err)
	plans := []catalog.Plan{*broadband}
	quote, err := catalog.QuoteBundle(plans)
	require.NoError(t, err)

	order, err := ordering.NewOrder("ORD-00000007", customerID, plans, quote)
	require.NoError(t, err)
	require.NoError(t, order.Confirm())
	require.NoError(t, order.Schedule())
	return order
}

type reminderFixture struct {
	bookings  *MockBookingRepository
	slots     *MockSlotRepository
	orders    *MockOrderRepository
	customers *MockCustomerRepository
	mailer    *stubMailer
	comms     *stubCommunicationLog
	reminder  *InstallationReminder
}

func newReminderFixture(window time.Duration) *reminderFixture {
	f := &reminderFixture{
		bookings:  new(MockBookingRepository),
		slots:     new(MockSlotRepository),
		orders:    new(MockOrderRepository),
		customers: new(MockCustomerRepository),
		mailer:    &stubMailer{},
		comms:     newStubCommunicationLog(),
	}
	f.reminder = NewInstallationReminder(
		f.bookings, f.slots, f.orders, f.customers,
		f.mailer, f.comms, window, newTestLogger(),
	)
	return f
}

// ---------------------------------------------------------------------------
// InstallationReminder Tests
// ---------------------------------------------------------------------------

func TestReminderRun_SendsAndMarksBooking(t *testing.T) {
	f := newReminderFixture(48 * time.Hour)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)

	cust, err := customer.NewCustomer("OCC000123", "Jane Smith", "jane@example.com")
	require.NoError(t, err)
	order := installedOrder(t, cust.ID)
	slot, err := ordering.NewInstallationSlot(time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), 8, 12, "north", 4)
	require.NoError(t, err)
	booking, err := ordering.NewBooking(order.ID, slot.ID)
	require.NoError(t, err)

	f.bookings.On("FindDueReminders", ctx, now, now.Add(48*time.Hour)).Return([]ordering.Booking{*booking}, nil)
	f.slots.On("FindByID", ctx, slot.ID).Return(slot, nil)
	f.orders.On("FindByID", ctx, order.ID).Return(order, nil)
	f.customers.On("FindByID", ctx, cust.ID).Return(cust, nil)
	f.bookings.On("Save", ctx, mock.MatchedBy(func(b *ordering.Booking) bool {
		return b.ID == booking.ID && b.ReminderSent
	})).Return(nil)

	result, err := f.reminder.Run(ctx, now)

	require.NoError(t, err)
	assert.Equal(t, 1, result.RemindersSent)
	assert.Equal(t, 0, result.Failures)

	require.Len(t, f.mailer.sent, 1)
	msg := f.mailer.sent[0]
	assert.Equal(t, "jane@example.com", msg.To)
	assert.Contains(t, msg.Subject, "Tuesday 3 March")
	assert.Contains(t, msg.TextBody, "between 08:00 and 12:00")
	assert.Contains(t, msg.TextBody, "ORD-00000007")

	require.Len(t, f.comms.recorded, 1)
	assert.Equal(t, f.comms.recorded[0].ID, f.comms.sentIDs[0])
	f.bookings.AssertExpectations(t)
}

func TestReminderRun_MailerFailureLeavesBookingUnreminded(t *testing.T) {
	f := newReminderFixture(48 * time.Hour)
	f.mailer.err = errors.New("smtp unreachable")
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)

	cust, err := customer.NewCustomer("OCC000123", "Jane Smith", "jane@example.com")
	require.NoError(t, err)
	order := installedOrder(t, cust.ID)
	slot, err := ordering.NewInstallationSlot(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), 13, 17, "north", 4)
	require.NoError(t, err)
	booking, err := ordering.NewBooking(order.ID, slot.ID)
	require.NoError(t, err)

	f.bookings.On("FindDueReminders", ctx, now, now.Add(48*time.Hour)).Return([]ordering.Booking{*booking}, nil)
	f.slots.On("FindByID", ctx, slot.ID).Return(slot, nil)
	f.orders.On("FindByID", ctx, order.ID).Return(order, nil)
	f.customers.On("FindByID", ctx, cust.ID).Return(cust, nil)

	result, err := f.reminder.Run(ctx, now)

	require.NoError(t, err)
	assert.Equal(t, 0, result.RemindersSent)
	assert.Equal(t, 1, result.Failures)

	// The failure is on the communication log, not the booking
	require.Len(t, f.comms.recorded, 1)
	assert.Equal(t, "smtp unreachable", f.comms.failed[f.comms.recorded[0].ID])
	f.bookings.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestReminderRun_NothingDue(t *testing.T) {
	f := newReminderFixture(48 * time.Hour)
	ctx := context.Background()
	now := time.Now()

	f.bookings.On("FindDueReminders", ctx, now, now.Add(48*time.Hour)).Return([]ordering.Booking{}, nil)

	result, err := f.reminder.Run(ctx, now)

	require.NoError(t, err)
	assert.Equal(t, 0, result.RemindersSent)
	assert.Empty(t, f.mailer.sent)
}
