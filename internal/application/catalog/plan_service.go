package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/occtelecom/backend/internal/domain/catalog"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// PlanService handles catalog management and storefront pricing
type PlanService struct {
	planRepo catalog.Repository
}

// NewPlanService creates a new PlanService
func NewPlanService(planRepo catalog.Repository) *PlanService {
	return &PlanService{planRepo: planRepo}
}

// Create creates a new plan
func (s *PlanService) Create(ctx context.Context, req CreatePlanRequest) (*PlanResponse, error) {
	p, err := catalog.NewPlan(catalog.ServiceType(req.ServiceType), req.Name, req.MonthlyPrice)
	if err != nil {
		return nil, err
	}

	p.Description = req.Description
	if req.ContractTerm != nil {
		p.ContractTerm = *req.ContractTerm
	}
	if req.SortOrder != nil {
		p.SortOrder = *req.SortOrder
	}

	if err := s.planRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	resp := ToPlanResponse(p)
	return &resp, nil
}

// GetByID retrieves a plan by ID
func (s *PlanService) GetByID(ctx context.Context, id uuid.UUID) (*PlanResponse, error) {
	p, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPlanResponse(p)
	return &resp, nil
}

// List returns a page of plans for back-office management
func (s *PlanService) List(ctx context.Context, filter PlanListFilter) (*shared.Paginated[PlanResponse], error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "sort_order"
	domainFilter.OrderDir = "asc"
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.ServiceType != "" {
		domainFilter.Filters["service_type"] = filter.ServiceType
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	plans, err := s.planRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.planRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(toPlanResponses(plans), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Update updates a plan's display fields
func (s *PlanService) Update(ctx context.Context, id uuid.UUID, req UpdatePlanRequest) (*PlanResponse, error) {
	p, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := p.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := p.Description
	if req.Description != nil {
		description = *req.Description
	}
	price := p.MonthlyPrice
	if req.MonthlyPrice != nil {
		price = *req.MonthlyPrice
	}
	if err := p.Update(name, description, price); err != nil {
		return nil, err
	}
	if req.SortOrder != nil {
		p.SortOrder = *req.SortOrder
	}

	if err := s.planRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	resp := ToPlanResponse(p)
	return &resp, nil
}

// Activate makes a plan sellable
func (s *PlanService) Activate(ctx context.Context, id uuid.UUID) (*PlanResponse, error) {
	p, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Activate()
	if err := s.planRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToPlanResponse(p)
	return &resp, nil
}

// Deactivate withdraws a plan from sale. Existing orders keep their
// snapshot of the plan, so this never touches order history.
func (s *PlanService) Deactivate(ctx context.Context, id uuid.UUID) (*PlanResponse, error) {
	p, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Deactivate()
	if err := s.planRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToPlanResponse(p)
	return &resp, nil
}

// Storefront returns every sellable plan grouped by service type
func (s *PlanService) Storefront(ctx context.Context) (*StorefrontResponse, error) {
	resp := &StorefrontResponse{}
	targets := map[catalog.ServiceType]*[]PlanResponse{
		catalog.ServiceTypeBroadband: &resp.Broadband,
		catalog.ServiceTypeSIM:       &resp.SIM,
		catalog.ServiceTypeLandline:  &resp.Landline,
	}

	for _, serviceType := range catalog.AllServiceTypes() {
		plans, err := s.planRepo.FindActiveByServiceType(ctx, serviceType)
		if err != nil {
			return nil, err
		}
		*targets[serviceType] = toPlanResponses(plans)
	}

	return resp, nil
}

// Quote prices a storefront bundle selection. Inactive or unknown plans
// are rejected so a stale basket cannot check out.
func (s *PlanService) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	plans, err := s.resolveSellablePlans(ctx, req.PlanIDs)
	if err != nil {
		return nil, err
	}

	quote, err := catalog.QuoteBundle(plans)
	if err != nil {
		return nil, err
	}

	return &QuoteResponse{
		Plans:              toPlanResponses(plans),
		OriginalTotal:      quote.OriginalTotal,
		DiscountPercentage: quote.DiscountPercentage,
		Savings:            quote.Savings,
		DiscountedTotal:    quote.DiscountedTotal,
	}, nil
}

// ResolveSellablePlans loads and validates a plan selection for order
// placement. Shared with the ordering context so checkout and quoting
// agree on what is sellable.
func (s *PlanService) ResolveSellablePlans(ctx context.Context, planIDs []uuid.UUID) ([]catalog.Plan, *catalog.BundleQuote, error) {
	plans, err := s.resolveSellablePlans(ctx, planIDs)
	if err != nil {
		return nil, nil, err
	}
	quote, err := catalog.QuoteBundle(plans)
	if err != nil {
		return nil, nil, err
	}
	return plans, quote, nil
}

func (s *PlanService) resolveSellablePlans(ctx context.Context, planIDs []uuid.UUID) ([]catalog.Plan, error) {
	if len(planIDs) == 0 {
		return nil, shared.NewDomainError("EMPTY_SELECTION", "At least one plan must be selected")
	}

	plans, err := s.planRepo.FindByIDs(ctx, planIDs)
	if err != nil {
		return nil, err
	}
	if len(plans) != len(planIDs) {
		return nil, shared.NewDomainError("UNKNOWN_PLAN", "One or more selected plans do not exist")
	}
	for i := range plans {
		if !plans[i].Active {
			return nil, shared.NewDomainError("PLAN_INACTIVE", "Plan "+plans[i].Name+" is no longer on sale")
		}
	}
	return plans, nil
}
