package customer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/occtelecom/backend/internal/domain/billing"
	"github.com/occtelecom/backend/internal/domain/customer"
	"github.com/occtelecom/backend/internal/domain/ordering"
	"github.com/occtelecom/backend/internal/domain/shared"
)

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

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*billing.Invoice, error) {
	args := m.Called(ctx, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOverdueCandidates(ctx context.Context, cutoff time.Time) ([]billing.Invoice, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) CountUnpaidByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) NextInvoiceSequence(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, i *billing.Invoice) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func newTestService() (*CustomerService, *MockCustomerRepository, *MockOrderRepository, *MockInvoiceRepository) {
	customerRepo := new(MockCustomerRepository)
	orderRepo := new(MockOrderRepository)
	invoiceRepo := new(MockInvoiceRepository)
	svc := NewCustomerService(customerRepo, orderRepo, invoiceRepo, nil)
	return svc, customerRepo, orderRepo, invoiceRepo
}

func TestCreateCustomer(t *testing.T) {
	svc, customerRepo, _, _ := newTestService()
	ctx := context.Background()

	customerRepo.On("ExistsByEmail", ctx, "jane@example.com").Return(false, nil)
	customerRepo.On("NextAccountSequence", ctx).Return(int64(42), nil)
	customerRepo.On("Save", ctx, mock.AnythingOfType("*customer.Customer")).Return(nil)

	resp, err := svc.Create(ctx, CreateCustomerRequest{
		FullName: "Jane Smith",
		Email:    "jane@example.com",
		Phone:    "07700 900123",
		Postcode: "s1 2ab",
	})

	require.NoError(t, err)
	assert.Equal(t, "OCC000042", resp.AccountNumber)
	assert.Equal(t, "jane@example.com", resp.Email)
	assert.Equal(t, "S12AB", resp.Postcode)
	assert.Equal(t, "active", resp.Status)
	customerRepo.AssertExpectations(t)
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	svc, customerRepo, _, _ := newTestService()
	ctx := context.Background()

	customerRepo.On("ExistsByEmail", ctx, "jane@example.com").Return(true, nil)

	_, err := svc.Create(ctx, CreateCustomerRequest{
		FullName: "Jane Smith",
		Email:    "jane@example.com",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	customerRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUpdateCustomerPartial(t *testing.T) {
	svc, customerRepo, _, _ := newTestService()
	ctx := context.Background()

	existing, err := customer.NewCustomer("OCC000001", "Jane Smith", "jane@example.com")
	require.NoError(t, err)

	customerRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
	customerRepo.On("Save", ctx, existing).Return(nil)

	phone := "0114 123 4567"
	resp, err := svc.Update(ctx, existing.ID, UpdateCustomerRequest{Phone: &phone})

	require.NoError(t, err)
	assert.Equal(t, "0114 123 4567", resp.Phone)
	assert.Equal(t, "Jane Smith", resp.FullName)
	customerRepo.AssertExpectations(t)
}

func TestDeleteCustomerWithOpenOrders(t *testing.T) {
	svc, customerRepo, orderRepo, _ := newTestService()
	ctx := context.Background()

	existing, err := customer.NewCustomer("OCC000001", "Jane Smith", "jane@example.com")
	require.NoError(t, err)

	customerRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
	orderRepo.On("CountOpenByCustomer", ctx, existing.ID).Return(int64(2), nil)

	err = svc.Delete(ctx, existing.ID)

	assert.ErrorIs(t, err, shared.ErrActiveServices)
	customerRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteCustomerWithUnpaidInvoices(t *testing.T) {
	svc, customerRepo, orderRepo, invoiceRepo := newTestService()
	ctx := context.Background()

	existing, err := customer.NewCustomer("OCC000001", "Jane Smith", "jane@example.com")
	require.NoError(t, err)

	customerRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
	orderRepo.On("CountOpenByCustomer", ctx, existing.ID).Return(int64(0), nil)
	invoiceRepo.On("CountUnpaidByCustomer", ctx, existing.ID).Return(int64(1), nil)

	err = svc.Delete(ctx, existing.ID)

	assert.ErrorIs(t, err, shared.ErrUnpaidInvoices)
	customerRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteCustomer(t *testing.T) {
	svc, customerRepo, orderRepo, invoiceRepo := newTestService()
	ctx := context.Background()

	existing, err := customer.NewCustomer("OCC000001", "Jane Smith", "jane@example.com")
	require.NoError(t, err)

	customerRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
	orderRepo.On("CountOpenByCustomer", ctx, existing.ID).Return(int64(0), nil)
	invoiceRepo.On("CountUnpaidByCustomer", ctx, existing.ID).Return(int64(0), nil)
	customerRepo.On("Delete", ctx, existing.ID).Return(nil)

	err = svc.Delete(ctx, existing.ID)

	require.NoError(t, err)
	assert.Equal(t, customer.StatusClosed, existing.Status)
	customerRepo.AssertExpectations(t)
}

func TestDeleteCustomerNotFound(t *testing.T) {
	svc, customerRepo, _, _ := newTestService()
	ctx := context.Background()
	id := uuid.New()

	customerRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	err := svc.Delete(ctx, id)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListCustomersAppliesStatusFilter(t *testing.T) {
	svc, customerRepo, _, _ := newTestService()
	ctx := context.Background()

	expected := shared.DefaultFilter()
	expected.Filters["status"] = "suspended"

	customerRepo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == "suspended"
	})).Return([]customer.Customer{}, nil)
	customerRepo.On("Count", ctx, mock.Anything).Return(int64(0), nil)

	page, err := svc.List(ctx, CustomerListFilter{Status: "suspended"})

	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
	assert.Empty(t, page.Items)
}

func TestListCustomersRepoError(t *testing.T) {
	svc, customerRepo, _, _ := newTestService()
	ctx := context.Background()

	repoErr := errors.New("db down")
	customerRepo.On("FindAll", ctx, mock.Anything).Return([]customer.Customer{}, repoErr)

	_, err := svc.List(ctx, CustomerListFilter{})

	assert.ErrorIs(t, err, repoErr)
}
