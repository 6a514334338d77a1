package ordering

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// GuestOrderStatus represents the status of a guest checkout
type GuestOrderStatus string

const (
	GuestOrderStatusSubmitted GuestOrderStatus = "submitted"
	GuestOrderStatusConverted GuestOrderStatus = "converted" // turned into a customer order
	GuestOrderStatusRejected  GuestOrderStatus = "rejected"
)

// GuestOrder captures a storefront checkout made without an account.
// An admin later converts it into a real customer plus order, or rejects it.
type GuestOrder struct {
	shared.BaseAggregateRoot
	FullName        string           `gorm:"type:varchar(200);not null"`
	Email           string           `gorm:"type:varchar(200);not null;index"`
	Phone           string           `gorm:"type:varchar(50)"`
	Postcode        string           `gorm:"type:varchar(10)"`
	PlanIDs         string           `gorm:"type:jsonb;not null"` // JSON array of selected plan IDs
	QuotedTotal     decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Status          GuestOrderStatus `gorm:"type:varchar(20);not null;default:'submitted'"`
	ConvertedOrder  *uuid.UUID       `gorm:"type:uuid"`
	RejectionReason string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (GuestOrder) TableName() string {
	return "guest_orders"
}

var guestEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// NewGuestOrder creates a new guest order submission
func NewGuestOrder(fullName, email, phone, postcode, planIDs string, quotedTotal decimal.Decimal) (*GuestOrder, error) {
	if strings.TrimSpace(fullName) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Full name cannot be empty")
	}
	if !guestEmailRegex.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if planIDs == "" || !strings.HasPrefix(strings.TrimSpace(planIDs), "[") {
		return nil, shared.NewDomainError("INVALID_PLANS", "Plan selection must be a JSON array")
	}

	g := &GuestOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FullName:          fullName,
		Email:             strings.ToLower(email),
		Phone:             phone,
		Postcode:          postcode,
		PlanIDs:           planIDs,
		QuotedTotal:       quotedTotal,
		Status:            GuestOrderStatusSubmitted,
	}

	g.AddDomainEvent(NewGuestOrderSubmittedEvent(g))

	return g, nil
}

// MarkConverted links the guest order to the customer order created from it
func (g *GuestOrder) MarkConverted(orderID uuid.UUID) error {
	if g.Status != GuestOrderStatusSubmitted {
		return shared.NewDomainError("INVALID_STATE", "Only submitted guest orders can be converted")
	}

	g.Status = GuestOrderStatusConverted
	g.ConvertedOrder = &orderID
	g.UpdatedAt = time.Now()
	g.IncrementVersion()

	return nil
}

// Reject rejects the guest order with a reason
func (g *GuestOrder) Reject(reason string) error {
	if g.Status != GuestOrderStatusSubmitted {
		return shared.NewDomainError("INVALID_STATE", "Only submitted guest orders can be rejected")
	}

	g.Status = GuestOrderStatusRejected
	g.RejectionReason = reason
	g.UpdatedAt = time.Now()
	g.IncrementVersion()

	return nil
}
