package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/occtelecom/backend/internal/domain/ordering"
)

// PlaceOrderRequest represents a dashboard order placement
type PlaceOrderRequest struct {
	CustomerID uuid.UUID   `json:"customer_id" binding:"required"`
	PlanIDs    []uuid.UUID `json:"plan_ids" binding:"required,min=1,max=3"`
}

// CancelOrderRequest represents an order cancellation
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// OrderLineResponse represents one line of an order
type OrderLineResponse struct {
	PlanID       uuid.UUID       `json:"plan_id"`
	ServiceType  string          `json:"service_type"`
	PlanName     string          `json:"plan_name"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                 uuid.UUID           `json:"id"`
	OrderNumber        string              `json:"order_number"`
	CustomerID         uuid.UUID           `json:"customer_id"`
	Status             string              `json:"status"`
	Lines              []OrderLineResponse `json:"lines"`
	OriginalTotal      decimal.Decimal     `json:"original_total"`
	DiscountPercentage decimal.Decimal     `json:"discount_percentage"`
	DiscountedTotal    decimal.Decimal     `json:"discounted_total"`
	NeedsInstallation  bool                `json:"needs_installation"`
	CancelReason       string              `json:"cancel_reason,omitempty"`
	ConfirmedAt        *time.Time          `json:"confirmed_at,omitempty"`
	InstalledAt        *time.Time          `json:"installed_at,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Status     string `form:"status" binding:"omitempty,oneof=pending confirmed scheduled installed active cancelled"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SubmitGuestOrderRequest represents a storefront guest checkout
type SubmitGuestOrderRequest struct {
	FullName string      `json:"full_name" binding:"required,min=1,max=200"`
	Email    string      `json:"email" binding:"required,email,max=200"`
	Phone    string      `json:"phone" binding:"max=50"`
	Postcode string      `json:"postcode" binding:"max=10"`
	PlanIDs  []uuid.UUID `json:"plan_ids" binding:"required,min=1,max=3"`
}

// RejectGuestOrderRequest represents a back-office guest order rejection
type RejectGuestOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// GuestOrderResponse represents a guest order in API responses
type GuestOrderResponse struct {
	ID              uuid.UUID       `json:"id"`
	FullName        string          `json:"full_name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	Postcode        string          `json:"postcode"`
	PlanIDs         []uuid.UUID     `json:"plan_ids"`
	QuotedTotal     decimal.Decimal `json:"quoted_total"`
	Status          string          `json:"status"`
	ConvertedOrder  *uuid.UUID      `json:"converted_order,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ConvertGuestOrderResponse carries both sides of a conversion
type ConvertGuestOrderResponse struct {
	CustomerID    uuid.UUID     `json:"customer_id"`
	AccountNumber string        `json:"account_number"`
	Order         OrderResponse `json:"order"`
}

// GuestOrderListFilter represents filter options for guest orders
type GuestOrderListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=submitted converted rejected"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SlotListRequest represents an availability query
type SlotListRequest struct {
	Region string    `form:"region" binding:"max=100"`
	From   time.Time `form:"from" time_format:"2006-01-02"`
	To     time.Time `form:"to" time_format:"2006-01-02"`
}

// CreateSlotRequest represents a back-office slot creation
type CreateSlotRequest struct {
	Date      time.Time `json:"date" binding:"required" time_format:"2006-01-02"`
	StartHour int       `json:"start_hour" binding:"min=0,max=23"`
	EndHour   int       `json:"end_hour" binding:"required,min=1,max=24"`
	Region    string    `json:"region" binding:"max=100"`
	Capacity  int       `json:"capacity" binding:"required,min=1"`
}

// SlotResponse represents an installation slot
type SlotResponse struct {
	ID        uuid.UUID `json:"id"`
	Date      time.Time `json:"date"`
	StartHour int       `json:"start_hour"`
	EndHour   int       `json:"end_hour"`
	Region    string    `json:"region"`
	Capacity  int       `json:"capacity"`
	Booked    int       `json:"booked"`
	Remaining int       `json:"remaining"`
}

// BookSlotRequest represents an installation booking
type BookSlotRequest struct {
	SlotID uuid.UUID `json:"slot_id" binding:"required"`
	Notes  string    `json:"notes" binding:"max=500"`
}

// AssignTechnicianRequest assigns an engineer to a booking
type AssignTechnicianRequest struct {
	TechnicianID uuid.UUID `json:"technician_id" binding:"required"`
}

// BookingResponse represents an installation booking
type BookingResponse struct {
	ID           uuid.UUID  `json:"id"`
	OrderID      uuid.UUID  `json:"order_id"`
	SlotID       uuid.UUID  `json:"slot_id"`
	TechnicianID *uuid.UUID `json:"technician_id,omitempty"`
	Status       string     `json:"status"`
	ReminderSent bool       `json:"reminder_sent"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CreateTechnicianRequest represents a back-office technician creation
type CreateTechnicianRequest struct {
	Name   string `json:"name" binding:"required,min=1,max=200"`
	Email  string `json:"email" binding:"omitempty,email,max=200"`
	Phone  string `json:"phone" binding:"max=50"`
	Region string `json:"region" binding:"max=100"`
}

// TechnicianResponse represents a technician
type TechnicianResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Phone  string    `json:"phone"`
	Region string    `json:"region"`
	Active bool      `json:"active"`
}

// ToOrderResponse maps a domain order to its API representation
func ToOrderResponse(o *ordering.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLineResponse{
			PlanID:       l.PlanID,
			ServiceType:  string(l.ServiceType),
			PlanName:     l.PlanName,
			MonthlyPrice: l.MonthlyPrice,
		})
	}
	return OrderResponse{
		ID:                 o.ID,
		OrderNumber:        o.OrderNumber,
		CustomerID:         o.CustomerID,
		Status:             string(o.Status),
		Lines:              lines,
		OriginalTotal:      o.OriginalTotal,
		DiscountPercentage: o.DiscountPercentage,
		DiscountedTotal:    o.DiscountedTotal,
		NeedsInstallation:  o.NeedsInstallation(),
		CancelReason:       o.CancelReason,
		ConfirmedAt:        o.ConfirmedAt,
		InstalledAt:        o.InstalledAt,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

// ToGuestOrderResponse maps a domain guest order to its API representation
func ToGuestOrderResponse(g *ordering.GuestOrder) GuestOrderResponse {
	return GuestOrderResponse{
		ID:              g.ID,
		FullName:        g.FullName,
		Email:           g.Email,
		Phone:           g.Phone,
		Postcode:        g.Postcode,
		PlanIDs:         decodePlanIDs(g.PlanIDs),
		QuotedTotal:     g.QuotedTotal,
		Status:          string(g.Status),
		ConvertedOrder:  g.ConvertedOrder,
		RejectionReason: g.RejectionReason,
		CreatedAt:       g.CreatedAt,
	}
}

// ToSlotResponse maps a domain slot to its API representation
func ToSlotResponse(s *ordering.InstallationSlot) SlotResponse {
	return SlotResponse{
		ID:        s.ID,
		Date:      s.Date,
		StartHour: s.StartHour,
		EndHour:   s.EndHour,
		Region:    s.Region,
		Capacity:  s.Capacity,
		Booked:    s.Booked,
		Remaining: s.Remaining(),
	}
}

// ToBookingResponse maps a domain booking to its API representation
func ToBookingResponse(b *ordering.Booking) BookingResponse {
	return BookingResponse{
		ID:           b.ID,
		OrderID:      b.OrderID,
		SlotID:       b.SlotID,
		TechnicianID: b.TechnicianID,
		Status:       string(b.Status),
		ReminderSent: b.ReminderSent,
		Notes:        b.Notes,
		CreatedAt:    b.CreatedAt,
	}
}

// ToTechnicianResponse maps a domain technician to its API representation
func ToTechnicianResponse(t *ordering.Technician) TechnicianResponse {
	return TechnicianResponse{
		ID:     t.ID,
		Name:   t.Name,
		Email:  t.Email,
		Phone:  t.Phone,
		Region: t.Region,
		Active: t.Active,
	}
}
