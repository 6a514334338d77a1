package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/occtelecom/backend/internal/domain/catalog"
)

// CreatePlanRequest represents a request to create a plan
type CreatePlanRequest struct {
	ServiceType  string          `json:"service_type" binding:"required,oneof=broadband sim landline"`
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	Description  string          `json:"description"`
	MonthlyPrice decimal.Decimal `json:"monthly_price" binding:"required"`
	ContractTerm *int            `json:"contract_term" binding:"omitempty,min=1,max=36"`
	SortOrder    *int            `json:"sort_order"`
}

// UpdatePlanRequest represents a request to update a plan
type UpdatePlanRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description  *string          `json:"description"`
	MonthlyPrice *decimal.Decimal `json:"monthly_price"`
	SortOrder    *int             `json:"sort_order"`
}

// PlanResponse represents a plan in API responses
type PlanResponse struct {
	ID           uuid.UUID       `json:"id"`
	ServiceType  string          `json:"service_type"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	ContractTerm int             `json:"contract_term"`
	Active       bool            `json:"active"`
	SortOrder    int             `json:"sort_order"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// PlanListFilter represents filter options for the plan list
type PlanListFilter struct {
	ServiceType string `form:"service_type" binding:"omitempty,oneof=broadband sim landline"`
	Active      *bool  `form:"active"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// QuoteRequest represents a storefront bundle pricing request
type QuoteRequest struct {
	PlanIDs []uuid.UUID `json:"plan_ids" binding:"required,min=1,max=3"`
}

// QuoteResponse represents a priced bundle selection
type QuoteResponse struct {
	Plans              []PlanResponse  `json:"plans"`
	OriginalTotal      decimal.Decimal `json:"original_total"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	Savings            decimal.Decimal `json:"savings"`
	DiscountedTotal    decimal.Decimal `json:"discounted_total"`
}

// StorefrontResponse is the full sellable catalog grouped by service
type StorefrontResponse struct {
	Broadband []PlanResponse `json:"broadband"`
	SIM       []PlanResponse `json:"sim"`
	Landline  []PlanResponse `json:"landline"`
}

// ToPlanResponse maps a domain plan to its API representation
func ToPlanResponse(p *catalog.Plan) PlanResponse {
	return PlanResponse{
		ID:           p.ID,
		ServiceType:  string(p.ServiceType),
		Name:         p.Name,
		Description:  p.Description,
		MonthlyPrice: p.MonthlyPrice,
		ContractTerm: p.ContractTerm,
		Active:       p.Active,
		SortOrder:    p.SortOrder,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toPlanResponses(plans []catalog.Plan) []PlanResponse {
	out := make([]PlanResponse, 0, len(plans))
	for i := range plans {
		out = append(out, ToPlanResponse(&plans[i]))
	}
	return out
}
