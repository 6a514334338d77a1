package ordering

import (
	"context"

	"github.com/google/uuid"

	"github.com/occtelecom/backend/internal/domain/customer"
	"github.com/occtelecom/backend/internal/domain/ordering"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// GuestOrderService handles storefront guest checkouts and their
// back-office conversion into real customers and orders
type GuestOrderService struct {
	guestRepo    ordering.GuestOrderRepository
	customerRepo customer.Repository
	orders       *OrderService
	plans        PlanResolver
	publisher    shared.EventPublisher
}

// NewGuestOrderService creates a new GuestOrderService
func NewGuestOrderService(
	guestRepo ordering.GuestOrderRepository,
	customerRepo customer.Repository,
	orders *OrderService,
	plans PlanResolver,
	publisher shared.EventPublisher,
) *GuestOrderService {
	return &GuestOrderService{
		guestRepo:    guestRepo,
		customerRepo: customerRepo,
		orders:       orders,
		plans:        plans,
		publisher:    publisher,
	}
}

// Submit records a storefront checkout made without an account. The
// selection is priced at submission time so the quoted total survives
// later catalog edits.
func (s *GuestOrderService) Submit(ctx context.Context, req SubmitGuestOrderRequest) (*GuestOrderResponse, error) {
	_, quote, err := s.plans.ResolveSellablePlans(ctx, req.PlanIDs)
	if err != nil {
		return nil, err
	}

	g, err := ordering.NewGuestOrder(req.FullName, req.Email, req.Phone, req.Postcode,
		encodePlanIDs(req.PlanIDs), quote.DiscountedTotal)
	if err != nil {
		return nil, err
	}

	if err := s.guestRepo.Save(ctx, g); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, g)

	resp := ToGuestOrderResponse(g)
	return &resp, nil
}

// GetByID retrieves a guest order by ID
func (s *GuestOrderService) GetByID(ctx context.Context, id uuid.UUID) (*GuestOrderResponse, error) {
	g, err := s.guestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToGuestOrderResponse(g)
	return &resp, nil
}

// List returns a page of guest orders for the back-office
func (s *GuestOrderService) List(ctx context.Context, filter GuestOrderListFilter) (*shared.Paginated[GuestOrderResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	guests, err := s.guestRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.guestRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]GuestOrderResponse, 0, len(guests))
	for i := range guests {
		items = append(items, ToGuestOrderResponse(&guests[i]))
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Convert turns a submitted guest order into a customer account plus a
// pending order. When a customer with the guest's email already exists
// the order is attached to that account instead of creating a duplicate.
func (s *GuestOrderService) Convert(ctx context.Context, id uuid.UUID) (*ConvertGuestOrderResponse, error) {
	g, err := s.guestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.Status != ordering.GuestOrderStatusSubmitted {
		return nil, shared.NewDomainError("INVALID_STATE", "Only submitted guest orders can be converted")
	}

	c, err := s.resolveCustomer(ctx, g)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.createOrder(ctx, c.ID, decodePlanIDs(g.PlanIDs))
	if err != nil {
		return nil, err
	}

	if err := g.MarkConverted(order.ID); err != nil {
		return nil, err
	}
	if err := s.guestRepo.Save(ctx, g); err != nil {
		return nil, err
	}

	return &ConvertGuestOrderResponse{
		CustomerID:    c.ID,
		AccountNumber: c.AccountNumber,
		Order:         ToOrderResponse(order),
	}, nil
}

// Reject rejects a submitted guest order
func (s *GuestOrderService) Reject(ctx context.Context, id uuid.UUID, req RejectGuestOrderRequest) (*GuestOrderResponse, error) {
	g, err := s.guestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := g.Reject(req.Reason); err != nil {
		return nil, err
	}
	if err := s.guestRepo.Save(ctx, g); err != nil {
		return nil, err
	}
	resp := ToGuestOrderResponse(g)
	return &resp, nil
}

func (s *GuestOrderService) resolveCustomer(ctx context.Context, g *ordering.GuestOrder) (*customer.Customer, error) {
	existing, err := s.customerRepo.FindByEmail(ctx, g.Email)
	if err == nil {
		return existing, nil
	}
	if err != shared.ErrNotFound {
		return nil, err
	}

	seq, err := s.customerRepo.NextAccountSequence(ctx)
	if err != nil {
		return nil, err
	}
	c, err := customer.NewCustomer(customer.FormatAccountNumber(seq), g.FullName, g.Email)
	if err != nil {
		return nil, err
	}
	if g.Phone != "" {
		if err := c.UpdateProfile(g.FullName, g.Phone); err != nil {
			return nil, err
		}
	}
	if g.Postcode != "" {
		if err := c.SetAddress("", "", "", g.Postcode); err != nil {
			return nil, err
		}
	}
	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, c.GetDomainEvents()...)
		c.ClearDomainEvents()
	}
	return c, nil
}

func (s *GuestOrderService) publishEvents(ctx context.Context, g *ordering.GuestOrder) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(ctx, g.GetDomainEvents()...)
	g.ClearDomainEvents()
}
