package ordering

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/catalog"
	"github.com/occtelecom/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusScheduled OrderStatus = "scheduled"
	OrderStatusInstalled OrderStatus = "installed"
	OrderStatusActive    OrderStatus = "active"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// orderTransitions lists the permitted status moves. Cancellation is
// allowed from any non-terminal status.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusScheduled, OrderStatusCancelled},
	OrderStatusScheduled: {OrderStatusInstalled, OrderStatusCancelled},
	OrderStatusInstalled: {OrderStatusActive},
	OrderStatusActive:    {OrderStatusCancelled},
}

// IsTerminal returns true when no further transition is allowed
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled
}

// canTransition reports whether a move from s to target is permitted
func (s OrderStatus) canTransition(target OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// OrderLine is one selected plan captured at order time. Price and name
// are snapshots so later catalog edits do not rewrite history.
type OrderLine struct {
	shared.BaseEntity
	OrderID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	PlanID       uuid.UUID           `gorm:"type:uuid;not null"`
	ServiceType  catalog.ServiceType `gorm:"type:varchar(20);not null"`
	PlanName     string              `gorm:"type:varchar(200);not null"`
	MonthlyPrice decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (OrderLine) TableName() string {
	return "order_lines"
}

// Order represents a customer's purchase of one or more plans.
// It is the aggregate root for the ordering context; lines are owned.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber        string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	CustomerID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status             OrderStatus     `gorm:"type:varchar(20);not null;default:'pending'"`
	Lines              []OrderLine     `gorm:"foreignKey:OrderID"`
	OriginalTotal      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountedTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CancelReason       string          `gorm:"type:text"`
	ConfirmedAt        *time.Time
	InstalledAt        *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// FormatOrderNumber builds an order number from a numeric sequence value
func FormatOrderNumber(seq int64) string {
	return fmt.Sprintf("ORD-%08d", seq)
}

// NewOrder creates a pending order from a priced bundle selection
func NewOrder(orderNumber string, customerID uuid.UUID, plans []catalog.Plan, quote *catalog.BundleQuote) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if len(plans) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "An order needs at least one plan")
	}
	if quote == nil {
		return nil, shared.NewDomainError("INVALID_QUOTE", "A priced quote is required")
	}

	order := &Order{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		OrderNumber:        orderNumber,
		CustomerID:         customerID,
		Status:             OrderStatusPending,
		OriginalTotal:      quote.OriginalTotal,
		DiscountPercentage: quote.DiscountPercentage,
		DiscountedTotal:    quote.DiscountedTotal,
	}

	for _, p := range plans {
		line := OrderLine{
			BaseEntity:   shared.NewBaseEntity(),
			OrderID:      order.ID,
			PlanID:       p.ID,
			ServiceType:  p.ServiceType,
			PlanName:     p.Name,
			MonthlyPrice: p.MonthlyPrice,
		}
		order.Lines = append(order.Lines, line)
	}

	order.AddDomainEvent(NewOrderPlacedEvent(order))

	return order, nil
}

// transition moves the order to target or fails with a domain error
func (o *Order) transition(target OrderStatus) error {
	if !o.Status.canTransition(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Order cannot move from %s to %s", o.Status, target))
	}
	old := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, old, target))
	return nil
}

// Confirm confirms a pending order
func (o *Order) Confirm() error {
	if err := o.transition(OrderStatusConfirmed); err != nil {
		return err
	}
	now := time.Now()
	o.ConfirmedAt = &now
	return nil
}

// Schedule marks the order as having an installation booked
func (o *Order) Schedule() error {
	return o.transition(OrderStatusScheduled)
}

// MarkInstalled records the completed installation
func (o *Order) MarkInstalled() error {
	if err := o.transition(OrderStatusInstalled); err != nil {
		return err
	}
	now := time.Now()
	o.InstalledAt = &now
	return nil
}

// Activate puts the installed services live
func (o *Order) Activate() error {
	return o.transition(OrderStatusActive)
}

// Cancel cancels the order with a reason
func (o *Order) Cancel(reason string) error {
	if err := o.transition(OrderStatusCancelled); err != nil {
		return err
	}
	o.CancelReason = reason
	return nil
}

// IsOpen returns true while the order still represents a live or
// in-flight service, which blocks account deletion.
func (o *Order) IsOpen() bool {
	return !o.Status.IsTerminal()
}

// HasService reports whether the order includes the given service type
func (o *Order) HasService(serviceType catalog.ServiceType) bool {
	for _, line := range o.Lines {
		if line.ServiceType == serviceType {
			return true
		}
	}
	return false
}

// NeedsInstallation reports whether any line requires an engineer visit.
// Only broadband and landline orders do; SIM-only orders ship in the post.
func (o *Order) NeedsInstallation() bool {
	return o.HasService(catalog.ServiceTypeBroadband) || o.HasService(catalog.ServiceTypeLandline)
}
