package support

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/occtelecom/backend/internal/domain/shared"
	"github.com/occtelecom/backend/internal/domain/support"
	"github.com/occtelecom/backend/internal/infrastructure/realtime"
)

// MockTicketRepository is a mock implementation of support.TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*support.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*support.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindByTicketNumber(ctx context.Context, ticketNumber string) (*support.Ticket, error) {
	args := m.Called(ctx, ticketNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*support.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]support.Ticket, error) {
	args := m.Called(ctx, customerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]support.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindAll(ctx context.Context, filter shared.Filter) ([]support.Ticket, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]support.Ticket), args.Error(1)
}

func (m *MockTicketRepository) NextTicketSequence(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) Save(ctx context.Context, t *support.Ticket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTicketRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func newTicketService() (*TicketService, *MockTicketRepository, *realtime.InMemoryBroker) {
	repo := new(MockTicketRepository)
	broker := realtime.NewInMemoryBroker()
	svc := NewTicketService(repo, broker, nil, zap.NewNop())
	return svc, repo, broker
}

func openTicket(t *testing.T) *support.Ticket {
	t.Helper()
	ticket, err := support.NewTicket("TKT-00000001", uuid.New(), "No broadband sync", "Router has been flashing red since this morning")
	require.NoError(t, err)
	return ticket
}

func TestOpenTicket(t *testing.T) {
	svc, repo, _ := newTicketService()
	ctx := context.Background()

	customerID := uuid.New()
	repo.On("NextTicketSequence", ctx).Return(int64(12), nil)
	repo.On("Save", ctx, mock.AnythingOfType("*support.Ticket")).Return(nil)

	resp, err := svc.Open(ctx, customerID, OpenTicketRequest{
		Subject: "No broadband sync",
		Body:    "Router has been flashing red since this morning",
	})

	require.NoError(t, err)
	assert.Equal(t, "TKT-00000012", resp.TicketNumber)
	assert.Equal(t, "open", resp.Status)
	assert.Equal(t, "normal", resp.Priority)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "customer", resp.Messages[0].AuthorType)
}

func TestStaffReplyMovesTicketToPending(t *testing.T) {
	svc, repo, _ := newTicketService()
	ctx := context.Background()

	ticket := openTicket(t)
	staffID := uuid.New()
	repo.On("FindByID", ctx, ticket.ID).Return(ticket, nil)
	repo.On("Save", ctx, ticket).Return(nil)

	resp, err := svc.AddStaffMessage(ctx, ticket.ID, staffID, AddMessageRequest{Body: "Please reboot the router"})

	require.NoError(t, err)
	assert.Equal(t, "staff", resp.AuthorType)
	assert.Equal(t, support.TicketStatusPending, ticket.Status)
}

func TestCustomerReplyReopensPendingTicket(t *testing.T) {
	svc, repo, _ := newTicketService()
	ctx := context.Background()

	ticket := openTicket(t)
	_, err := ticket.AddMessage(support.AuthorTypeStaff, uuid.New(), "Please reboot the router")
	require.NoError(t, err)
	require.Equal(t, support.TicketStatusPending, ticket.Status)

	repo.On("FindByID", ctx, ticket.ID).Return(ticket, nil)
	repo.On("Save", ctx, ticket).Return(nil)

	_, err = svc.AddCustomerMessage(ctx, ticket.ID, ticket.CustomerID, AddMessageRequest{Body: "Still not working"})

	require.NoError(t, err)
	assert.Equal(t, support.TicketStatusOpen, ticket.Status)
}

func TestCustomerCannotReplyToAnotherCustomersTicket(t *testing.T) {
	svc, repo, _ := newTicketService()
	ctx := context.Background()

	ticket := openTicket(t)
	repo.On("FindByID", ctx, ticket.ID).Return(ticket, nil)

	_, err := svc.AddCustomerMessage(ctx, ticket.ID, uuid.New(), AddMessageRequest{Body: "hello"})

	assert.ErrorIs(t, err, shared.ErrNotFound)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAddMessageBroadcastsToLiveViewers(t *testing.T) {
	svc, repo, broker := newTicketService()
	ctx := context.Background()

	ticket := openTicket(t)
	repo.On("FindByID", ctx, ticket.ID).Return(ticket, nil)
	repo.On("Save", ctx, ticket).Return(nil)

	msgs, cancel, err := broker.Subscribe(ctx, realtime.TicketChannel(ticket.ID))
	require.NoError(t, err)
	defer cancel()

	resp, err := svc.AddStaffMessage(ctx, ticket.ID, uuid.New(), AddMessageRequest{Body: "Looking into this now"})
	require.NoError(t, err)

	select {
	case payload := <-msgs:
		var pushed TicketMessageResponse
		require.NoError(t, json.Unmarshal(payload, &pushed))
		assert.Equal(t, resp.ID, pushed.ID)
		assert.Equal(t, "Looking into this now", pushed.Body)
	case <-time.After(time.Second):
		t.Fatal("no realtime message received")
	}
}

func TestReplyToClosedTicket(t *testing.T) {
	svc, repo, _ := newTicketService()
	ctx := context.Background()

	ticket := openTicket(t)
	require.NoError(t, ticket.Close())
	repo.On("FindByID", ctx, ticket.ID).Return(ticket, nil)

	_, err := svc.AddStaffMessage(ctx, ticket.ID, uuid.New(), AddMessageRequest{Body: "hello"})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "TICKET_CLOSED", domainErr.Code)
}

func TestResolveAndCloseTicket(t *testing.T) {
	svc, repo, _ := newTicketService()
	ctx := context.Background()

	ticket := openTicket(t)
	repo.On("FindByID", ctx, ticket.ID).Return(ticket, nil)
	repo.On("Save", ctx, ticket).Return(nil)

	resp, err := svc.Resolve(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "resolved", resp.Status)
	assert.NotNil(t, resp.ResolvedAt)

	resp, err = svc.Close(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "closed", resp.Status)
	assert.NotNil(t, resp.ClosedAt)
}

func TestSetPriority(t *testing.T) {
	svc, repo, _ := newTicketService()
	ctx := context.Background()

	ticket := openTicket(t)
	repo.On("FindByID", ctx, ticket.ID).Return(ticket, nil)
	repo.On("Save", ctx, ticket).Return(nil)

	resp, err := svc.SetPriority(ctx, ticket.ID, SetPriorityRequest{Priority: "high"})

	require.NoError(t, err)
	assert.Equal(t, "high", resp.Priority)
}
