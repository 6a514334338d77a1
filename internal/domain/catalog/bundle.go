package catalog

import (
	"github.com/occtelecom/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Bundle discount tiers: two services earn 10%, all three earn 15%.
var (
	discountTwoServices   = decimal.NewFromInt(10)
	discountThreeServices = decimal.NewFromInt(15)
	oneHundred            = decimal.NewFromInt(100)
)

// BundleQuote is the priced result of a plan selection
type BundleQuote struct {
	OriginalTotal      decimal.Decimal `json:"original_total"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	Savings            decimal.Decimal `json:"savings"`
	DiscountedTotal    decimal.Decimal `json:"discounted_total"`
}

// QuoteBundle prices a selection of plans, at most one per service type.
// The discount tier depends only on how many services are selected:
// fewer than two earns nothing, exactly two earns 10%, all three earn 15%.
// The quote always satisfies DiscountedTotal + Savings == OriginalTotal.
func QuoteBundle(plans []Plan) (*BundleQuote, error) {
	seen := make(map[ServiceType]bool, len(plans))
	total := decimal.Zero
	for _, p := range plans {
		if err := validateServiceType(p.ServiceType); err != nil {
			return nil, err
		}
		if seen[p.ServiceType] {
			return nil, shared.NewDomainError("DUPLICATE_SERVICE", "At most one plan per service type may be selected")
		}
		seen[p.ServiceType] = true
		total = total.Add(p.MonthlyPrice)
	}

	var pct decimal.Decimal
	switch len(plans) {
	case 0, 1:
		pct = decimal.Zero
	case 2:
		pct = discountTwoServices
	default:
		pct = discountThreeServices
	}

	savings := total.Mul(pct).Div(oneHundred)

	return &BundleQuote{
		OriginalTotal:      total,
		DiscountPercentage: pct,
		Savings:            savings,
		DiscountedTotal:    total.Sub(savings),
	}, nil
}
