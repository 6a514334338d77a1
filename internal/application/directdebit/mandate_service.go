package directdebit

import (
	"context"

	"github.com/google/uuid"

	"github.com/occtelecom/backend/internal/domain/customer"
	"github.com/occtelecom/backend/internal/domain/directdebit"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// MandateService walks direct debit mandates through their setup workflow
type MandateService struct {
	mandateRepo  directdebit.MandateRepository
	customerRepo customer.Repository
	publisher    shared.EventPublisher
}

// NewMandateService creates a new MandateService
func NewMandateService(
	mandateRepo directdebit.MandateRepository,
	customerRepo customer.Repository,
	publisher shared.EventPublisher,
) *MandateService {
	return &MandateService{
		mandateRepo:  mandateRepo,
		customerRepo: customerRepo,
		publisher:    publisher,
	}
}

// SetUp creates a pending mandate for a customer. A customer can only
// hold one live mandate at a time.
func (s *MandateService) SetUp(ctx context.Context, customerID uuid.UUID, req SetUpMandateRequest) (*MandateResponse, error) {
	c, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only active accounts can set up a direct debit")
	}

	if _, err := s.mandateRepo.FindActiveByCustomer(ctx, customerID); err == nil {
		return nil, shared.NewDomainError("MANDATE_EXISTS", "Customer already has an active direct debit")
	} else if err != shared.ErrNotFound {
		return nil, err
	}

	m, err := directdebit.NewMandate(customerID, req.AccountHolderName, req.SortCode, req.AccountNumber)
	if err != nil {
		return nil, err
	}
	if err := s.mandateRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, m)

	resp := ToMandateResponse(m)
	return &resp, nil
}

// GetByID retrieves a mandate by ID
func (s *MandateService) GetByID(ctx context.Context, id uuid.UUID) (*MandateResponse, error) {
	m, err := s.mandateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToMandateResponse(m)
	return &resp, nil
}

// ListByCustomer returns all of a customer's mandates, current and past
func (s *MandateService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]MandateResponse, error) {
	mandates, err := s.mandateRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	items := make([]MandateResponse, 0, len(mandates))
	for i := range mandates {
		items = append(items, ToMandateResponse(&mandates[i]))
	}
	return items, nil
}

// List returns a page of mandates for the back-office
func (s *MandateService) List(ctx context.Context, filter MandateListFilter) ([]MandateResponse, error) {
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

	mandates, err := s.mandateRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]MandateResponse, 0, len(mandates))
	for i := range mandates {
		items = append(items, ToMandateResponse(&mandates[i]))
	}
	return items, nil
}

// Verify records that the bank details passed validation
func (s *MandateService) Verify(ctx context.Context, id uuid.UUID) (*MandateResponse, error) {
	return s.transition(ctx, id, func(m *directdebit.Mandate) error {
		return m.Verify()
	})
}

// SubmitToProvider records submission to the direct debit scheme
func (s *MandateService) SubmitToProvider(ctx context.Context, id uuid.UUID, req SubmitMandateRequest) (*MandateResponse, error) {
	return s.transition(ctx, id, func(m *directdebit.Mandate) error {
		return m.SubmitToProvider(req.ProviderRef)
	})
}

// Activate records provider confirmation that the mandate is live
func (s *MandateService) Activate(ctx context.Context, id uuid.UUID) (*MandateResponse, error) {
	return s.transition(ctx, id, func(m *directdebit.Mandate) error {
		return m.Activate()
	})
}

// MarkFailed records a provider rejection
func (s *MandateService) MarkFailed(ctx context.Context, id uuid.UUID, req FailMandateRequest) (*MandateResponse, error) {
	return s.transition(ctx, id, func(m *directdebit.Mandate) error {
		return m.MarkFailed(req.Reason)
	})
}

// Cancel cancels the mandate at the customer's request
func (s *MandateService) Cancel(ctx context.Context, id uuid.UUID) (*MandateResponse, error) {
	return s.transition(ctx, id, func(m *directdebit.Mandate) error {
		return m.Cancel()
	})
}

func (s *MandateService) transition(ctx context.Context, id uuid.UUID, op func(*directdebit.Mandate) error) (*MandateResponse, error) {
	m, err := s.mandateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := op(m); err != nil {
		return nil, err
	}
	if err := s.mandateRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, m)

	resp := ToMandateResponse(m)
	return &resp, nil
}

func (s *MandateService) publishEvents(ctx context.Context, m *directdebit.Mandate) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(ctx, m.GetDomainEvents()...)
	m.ClearDomainEvents()
}
