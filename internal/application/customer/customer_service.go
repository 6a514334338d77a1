package customer

import (
	"context"

	"github.com/google/uuid"

	"github.com/occtelecom/backend/internal/domain/billing"
	"github.com/occtelecom/backend/internal/domain/customer"
	"github.com/occtelecom/backend/internal/domain/ordering"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// CustomerService handles customer account operations
type CustomerService struct {
	customerRepo customer.Repository
	orderRepo    ordering.OrderRepository
	invoiceRepo  billing.InvoiceRepository
	publisher    shared.EventPublisher
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customerRepo customer.Repository,
	orderRepo ordering.OrderRepository,
	invoiceRepo billing.InvoiceRepository,
	publisher shared.EventPublisher,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		invoiceRepo:  invoiceRepo,
		publisher:    publisher,
	}
}

// Create creates a new customer account with a generated account number
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	exists, err := s.customerRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A customer with this email already exists")
	}

	seq, err := s.customerRepo.NextAccountSequence(ctx)
	if err != nil {
		return nil, err
	}

	c, err := customer.NewCustomer(customer.FormatAccountNumber(seq), req.FullName, req.Email)
	if err != nil {
		return nil, err
	}

	if req.Phone != "" {
		if err := c.UpdateProfile(req.FullName, req.Phone); err != nil {
			return nil, err
		}
	}
	if req.AddressLine1 != "" || req.Postcode != "" {
		if err := c.SetAddress(req.AddressLine1, req.AddressLine2, req.City, req.Postcode); err != nil {
			return nil, err
		}
	}
	c.SetMarketingOptIn(req.MarketingOptIn)
	if req.Notes != "" {
		c.SetNotes(req.Notes)
	}

	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, c)

	resp := ToCustomerResponse(c)
	return &resp, nil
}

// GetByID retrieves a customer account by ID
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// GetByAccountNumber retrieves a customer account by account number
func (s *CustomerService) GetByAccountNumber(ctx context.Context, accountNumber string) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByAccountNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// List returns a page of customer accounts
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) (*shared.Paginated[CustomerResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.customerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, ToCustomerResponse(&customers[i]))
	}

	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Update applies a partial profile update
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil || req.Phone != nil {
		name := c.FullName
		if req.FullName != nil {
			name = *req.FullName
		}
		phone := c.Phone
		if req.Phone != nil {
			phone = *req.Phone
		}
		if err := c.UpdateProfile(name, phone); err != nil {
			return nil, err
		}
	}

	if req.Email != nil && *req.Email != c.Email {
		exists, err := s.customerRepo.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A customer with this email already exists")
		}
		if err := c.UpdateEmail(*req.Email); err != nil {
			return nil, err
		}
	}

	if req.AddressLine1 != nil || req.AddressLine2 != nil || req.City != nil || req.Postcode != nil {
		line1, line2, city, postcode := c.AddressLine1, c.AddressLine2, c.City, c.Postcode
		if req.AddressLine1 != nil {
			line1 = *req.AddressLine1
		}
		if req.AddressLine2 != nil {
			line2 = *req.AddressLine2
		}
		if req.City != nil {
			city = *req.City
		}
		if req.Postcode != nil {
			postcode = *req.Postcode
		}
		if err := c.SetAddress(line1, line2, city, postcode); err != nil {
			return nil, err
		}
	}

	if req.MarketingOptIn != nil {
		c.SetMarketingOptIn(*req.MarketingOptIn)
	}
	if req.Notes != nil {
		c.SetNotes(*req.Notes)
	}

	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, c)

	resp := ToCustomerResponse(c)
	return &resp, nil
}

// Suspend suspends a customer account for non-payment
func (s *CustomerService) Suspend(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	return s.changeStatus(ctx, id, (*customer.Customer).Suspend)
}

// Reactivate reactivates a suspended customer account
func (s *CustomerService) Reactivate(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	return s.changeStatus(ctx, id, (*customer.Customer).Reactivate)
}

func (s *CustomerService) changeStatus(ctx context.Context, id uuid.UUID, op func(*customer.Customer) error) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := op(c); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, c)

	resp := ToCustomerResponse(c)
	return &resp, nil
}

// Delete removes a customer account. An account with open orders or
// unpaid invoices cannot be deleted; the open-order check runs first so
// its error wins when both conditions hold.
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	openOrders, err := s.orderRepo.CountOpenByCustomer(ctx, c.ID)
	if err != nil {
		return err
	}
	if openOrders > 0 {
		return shared.ErrActiveServices
	}

	unpaid, err := s.invoiceRepo.CountUnpaidByCustomer(ctx, c.ID)
	if err != nil {
		return err
	}
	if unpaid > 0 {
		return shared.ErrUnpaidInvoices
	}

	if err := c.Close(); err != nil {
		return err
	}
	s.publishEvents(ctx, c)

	return s.customerRepo.Delete(ctx, id)
}

func (s *CustomerService) publishEvents(ctx context.Context, c *customer.Customer) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(ctx, c.GetDomainEvents()...)
	c.ClearDomainEvents()
}
