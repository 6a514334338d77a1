package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/occtelecom/backend/internal/domain/billing"
	"github.com/occtelecom/backend/internal/domain/ordering"
	"github.com/occtelecom/backend/internal/domain/shared"
	"github.com/occtelecom/backend/internal/infrastructure/config"
)

// BillingService issues invoices and manages billing cycles
type BillingService struct {
	invoiceRepo  billing.InvoiceRepository
	settingsRepo billing.SettingsRepository
	orderRepo    ordering.OrderRepository
	cfg          *config.BillingConfig
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// NewBillingService creates a new BillingService
func NewBillingService(
	invoiceRepo billing.InvoiceRepository,
	settingsRepo billing.SettingsRepository,
	orderRepo ordering.OrderRepository,
	cfg *config.BillingConfig,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *BillingService {
	return &BillingService{
		invoiceRepo:  invoiceRepo,
		settingsRepo: settingsRepo,
		orderRepo:    orderRepo,
		cfg:          cfg,
		publisher:    publisher,
		logger:       logger,
	}
}

// GetInvoice retrieves an invoice by ID
func (s *BillingService) GetInvoice(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// ListInvoices returns a page of invoices for the back-office
func (s *BillingService) ListInvoices(ctx context.Context, filter InvoiceListFilter) (*shared.Paginated[InvoiceResponse], error) {
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
	if filter.CustomerID != "" {
		domainFilter.Filters["customer_id"] = filter.CustomerID
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.invoiceRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, ToInvoiceResponse(&invoices[i]))
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// ListCustomerInvoices returns a customer's invoices, newest first
func (s *BillingService) ListCustomerInvoices(ctx context.Context, customerID uuid.UUID) ([]InvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindByCustomer(ctx, customerID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	items := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, ToInvoiceResponse(&invoices[i]))
	}
	return items, nil
}

// IssueMonthlyInvoice raises and issues an invoice covering a customer's
// live services. Orders that are not yet active carry no monthly charge.
func (s *BillingService) IssueMonthlyInvoice(ctx context.Context, customerID uuid.UUID, now time.Time) (*InvoiceResponse, error) {
	filter := shared.DefaultFilter()
	filter.Filters["status"] = string(ordering.OrderStatusActive)
	orders, err := s.orderRepo.FindByCustomer(ctx, customerID, filter)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, shared.NewDomainError("NO_ACTIVE_SERVICES", "Customer has no active services to bill")
	}

	seq, err := s.invoiceRepo.NextInvoiceSequence(ctx)
	if err != nil {
		return nil, err
	}

	dueDate := now.AddDate(0, 0, s.cfg.DueDays)
	inv, err := billing.NewInvoice(billing.FormatInvoiceNumber(seq), customerID, dueDate)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		order := &orders[i]
		for _, line := range order.Lines {
			desc := fmt.Sprintf("%s (%s)", line.PlanName, line.ServiceType)
			if err := inv.AddLine(desc, line.MonthlyPrice); err != nil {
				return nil, err
			}
		}
		if order.DiscountPercentage.IsPositive() {
			desc := fmt.Sprintf("Bundle discount (%s%%)", order.DiscountPercentage.StringFixed(0))
			savings := order.OriginalTotal.Sub(order.DiscountedTotal)
			if err := inv.AddLine(desc, savings.Neg()); err != nil {
				return nil, err
			}
		}
	}

	if err := inv.Issue(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, inv)

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// RunBillingCycle issues invoices for every customer whose billing date
// has arrived, then rolls their next invoice date forward. Failures are
// logged and counted so one bad account cannot stall the whole run.
func (s *BillingService) RunBillingCycle(ctx context.Context, now time.Time) (*BillingRunResult, error) {
	due, err := s.settingsRepo.FindDue(ctx, now)
	if err != nil {
		return nil, err
	}

	result := &BillingRunResult{}
	for i := range due {
		settings := &due[i]
		if _, err := s.IssueMonthlyInvoice(ctx, settings.CustomerID, now); err != nil {
			result.Failures++
			s.logger.Warn("billing run skipped customer",
				zap.String("customer_id", settings.CustomerID.String()),
				zap.Error(err),
			)
			// Customers with nothing to bill still advance, otherwise
			// the run retries them every day forever.
			if _, ok := err.(*shared.DomainError); !ok {
				continue
			}
		} else {
			result.InvoicesIssued++
		}

		settings.Advance(now)
		if err := s.settingsRepo.Save(ctx, settings); err != nil {
			s.logger.Error("failed to advance billing date",
				zap.String("customer_id", settings.CustomerID.String()),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("billing run complete",
		zap.Int("invoices_issued", result.InvoicesIssued),
		zap.Int("failures", result.Failures),
	)
	return result, nil
}

// ApplyLateFees finds unpaid invoices past due date plus grace and
// applies the flat late fee to each, once
func (s *BillingService) ApplyLateFees(ctx context.Context, now time.Time) (*LateFeeRunResult, error) {
	cutoff := now.AddDate(0, 0, -s.cfg.LateFeeGrace)
	candidates, err := s.invoiceRepo.FindOverdueCandidates(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	result := &LateFeeRunResult{}
	for i := range candidates {
		inv := &candidates[i]
		if err := inv.ApplyLateFee(now); err != nil {
			result.Failures++
			s.logger.Warn("late fee not applied",
				zap.String("invoice_number", inv.InvoiceNumber),
				zap.Error(err),
			)
			continue
		}
		if err := s.invoiceRepo.Save(ctx, inv); err != nil {
			result.Failures++
			s.logger.Error("failed to save late fee",
				zap.String("invoice_number", inv.InvoiceNumber),
				zap.Error(err),
			)
			continue
		}
		s.publishEvents(ctx, inv)
		result.FeesApplied++
	}

	s.logger.Info("late fee run complete",
		zap.Int("fees_applied", result.FeesApplied),
		zap.Int("failures", result.Failures),
	)
	return result, nil
}

// VoidInvoice voids an unpaid invoice
func (s *BillingService) VoidInvoice(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := inv.Void(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// GetSettings returns a customer's billing cycle, creating the default
// anniversary cycle on first read
func (s *BillingService) GetSettings(ctx context.Context, customerID uuid.UUID) (*BillingSettingsResponse, error) {
	settings, err := s.settingsRepo.FindByCustomer(ctx, customerID)
	if err == shared.ErrNotFound {
		settings, err = billing.NewBillingSettings(customerID, billing.BillingModeAnniversary, 1, time.Now())
		if err != nil {
			return nil, err
		}
		if err := s.settingsRepo.Save(ctx, settings); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	resp := ToBillingSettingsResponse(settings)
	return &resp, nil
}

// UpdateSettings changes a customer's billing cycle
func (s *BillingService) UpdateSettings(ctx context.Context, customerID uuid.UUID, req UpdateBillingSettingsRequest) (*BillingSettingsResponse, error) {
	now := time.Now()
	settings, err := s.settingsRepo.FindByCustomer(ctx, customerID)
	if err == shared.ErrNotFound {
		settings, err = billing.NewBillingSettings(customerID, billing.BillingMode(req.Mode), req.BillingDay, now)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	} else {
		if err := settings.ChangeMode(billing.BillingMode(req.Mode), req.BillingDay, now); err != nil {
			return nil, err
		}
	}

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	resp := ToBillingSettingsResponse(settings)
	return &resp, nil
}

func (s *BillingService) publishEvents(ctx context.Context, inv *billing.Invoice) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(ctx, inv.GetDomainEvents()...)
	inv.ClearDomainEvents()
}
