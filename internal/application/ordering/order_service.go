package ordering

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/occtelecom/backend/internal/domain/catalog"
	"github.com/occtelecom/backend/internal/domain/customer"
	"github.com/occtelecom/backend/internal/domain/ordering"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// PlanResolver loads and prices a sellable plan selection. Implemented
// by the catalog plan service.
type PlanResolver interface {
	ResolveSellablePlans(ctx context.Context, planIDs []uuid.UUID) ([]catalog.Plan, *catalog.BundleQuote, error)
}

// OrderService handles order placement and lifecycle operations
type OrderService struct {
	orderRepo    ordering.OrderRepository
	customerRepo customer.Repository
	plans        PlanResolver
	publisher    shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo ordering.OrderRepository,
	customerRepo customer.Repository,
	plans PlanResolver,
	publisher shared.EventPublisher,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		plans:        plans,
		publisher:    publisher,
	}
}

// Place creates a pending order for an existing customer
func (s *OrderService) Place(ctx context.Context, req PlaceOrderRequest) (*OrderResponse, error) {
	c, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Orders can only be placed on active accounts")
	}

	order, err := s.createOrder(ctx, c.ID, req.PlanIDs)
	if err != nil {
		return nil, err
	}

	resp := ToOrderResponse(order)
	return &resp, nil
}

// createOrder resolves the plans, allocates an order number and saves the
// pending order. Shared with guest order conversion.
func (s *OrderService) createOrder(ctx context.Context, customerID uuid.UUID, planIDs []uuid.UUID) (*ordering.Order, error) {
	plans, quote, err := s.plans.ResolveSellablePlans(ctx, planIDs)
	if err != nil {
		return nil, err
	}

	seq, err := s.orderRepo.NextOrderSequence(ctx)
	if err != nil {
		return nil, err
	}

	order, err := ordering.NewOrder(ordering.FormatOrderNumber(seq), customerID, plans, quote)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	return order, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// ListByCustomer returns a customer's orders, newest first
func (s *OrderService) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	domainFilter := buildOrderFilter(filter)
	orders, err := s.orderRepo.FindByCustomer(ctx, customerID, domainFilter)
	if err != nil {
		return nil, err
	}
	domainFilter.Filters["customer_id"] = customerID.String()
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(toOrderResponses(orders), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// List returns a page of orders for the back-office
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	domainFilter := buildOrderFilter(filter)
	if filter.CustomerID != "" {
		domainFilter.Filters["customer_id"] = filter.CustomerID
	}
	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(toOrderResponses(orders), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Confirm confirms a pending order
func (s *OrderService) Confirm(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.changeStatus(ctx, id, (*ordering.Order).Confirm)
}

// MarkInstalled records a completed installation visit
func (s *OrderService) MarkInstalled(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.changeStatus(ctx, id, (*ordering.Order).MarkInstalled)
}

// Activate puts the installed services live
func (s *OrderService) Activate(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.changeStatus(ctx, id, (*ordering.Order).Activate)
}

// Cancel cancels an order with a reason
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	return s.changeStatus(ctx, id, func(o *ordering.Order) error {
		return o.Cancel(req.Reason)
	})
}

func (s *OrderService) changeStatus(ctx context.Context, id uuid.UUID, op func(*ordering.Order) error) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := op(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	resp := ToOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) publishEvents(ctx context.Context, o *ordering.Order) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(ctx, o.GetDomainEvents()...)
	o.ClearDomainEvents()
}

func buildOrderFilter(filter OrderListFilter) shared.Filter {
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
	return domainFilter
}

func toOrderResponses(orders []ordering.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToOrderResponse(&orders[i]))
	}
	return out
}

// encodePlanIDs renders a plan selection as the JSON array stored on
// guest orders
func encodePlanIDs(ids []uuid.UUID) string {
	raw, _ := json.Marshal(ids)
	return string(raw)
}

// decodePlanIDs parses the stored JSON array back into IDs
func decodePlanIDs(raw string) []uuid.UUID {
	var ids []uuid.UUID
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return []uuid.UUID{}
	}
	return ids
}
