package ordering

import (
	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeOrder      = "Order"
	AggregateTypeGuestOrder = "GuestOrder"
)

// Event type constants
const (
	EventTypeOrderPlaced         = "OrderPlaced"
	EventTypeOrderStatusChanged  = "OrderStatusChanged"
	EventTypeGuestOrderSubmitted = "GuestOrderSubmitted"
	EventTypeBookingCreated      = "BookingCreated"
)

// OrderPlacedEvent is published when a new order is placed
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID         uuid.UUID       `json:"order_id"`
	OrderNumber     string          `json:"order_number"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	DiscountedTotal decimal.Decimal `json:"discounted_total"`
	LineCount       int             `json:"line_count"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		DiscountedTotal: o.DiscountedTotal,
		LineCount:       len(o.Lines),
	}
}

// OrderStatusChangedEvent is published on every order status transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID   `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	CustomerID  uuid.UUID   `json:"customer_id"`
	OldStatus   OrderStatus `json:"old_status"`
	NewStatus   OrderStatus `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, oldStatus, newStatus OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// GuestOrderSubmittedEvent is published when a storefront visitor submits
// an order without an account
type GuestOrderSubmittedEvent struct {
	shared.BaseDomainEvent
	GuestOrderID uuid.UUID `json:"guest_order_id"`
	Email        string    `json:"email"`
}

// NewGuestOrderSubmittedEvent creates a new GuestOrderSubmittedEvent
func NewGuestOrderSubmittedEvent(g *GuestOrder) *GuestOrderSubmittedEvent {
	return &GuestOrderSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGuestOrderSubmitted, AggregateTypeGuestOrder, g.ID),
		GuestOrderID:    g.ID,
		Email:           g.Email,
	}
}
