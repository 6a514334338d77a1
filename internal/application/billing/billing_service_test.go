package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/occtelecom/backend/internal/domain/billing"
	"github.com/occtelecom/backend/internal/domain/catalog"
	"github.com/occtelecom/backend/internal/domain/ordering"
	"github.com/occtelecom/backend/internal/domain/shared"
	"github.com/occtelecom/backend/internal/infrastructure/config"
)

func testBillingConfig() *config.BillingConfig {
	return &config.BillingConfig{DueDays: 14, LateFeeGrace: 7, RunHour: 2}
}

func newBillingService() (*BillingService, *MockInvoiceRepository, *MockSettingsRepository, *MockOrderRepository) {
	invoiceRepo := new(MockInvoiceRepository)
	settingsRepo := new(MockSettingsRepository)
	orderRepo := new(MockOrderRepository)
	svc := NewBillingService(invoiceRepo, settingsRepo, orderRepo, testBillingConfig(), nil, zap.NewNop())
	return svc, invoiceRepo, settingsRepo, orderRepo
}

// activeBundleOrder builds an order for broadband plus SIM that has been
// taken all the way to active
func activeBundleOrder(t *testing.T, customerID uuid.UUID) *ordering.Order {
	t.Helper()
	broadband, err := catalog.NewPlan(catalog.ServiceTypeBroadband, "Fibre 100", decimal.RequireFromString("30.00"))
	require.NoError(t, err)
	sim, err := catalog.NewPlan(catalog.ServiceTypeSIM, "SIM 20GB", decimal.RequireFromString("10.00"))
	require.NoError(t, err)
	plans := []catalog.Plan{*broadband, *sim}
	quote, err := catalog.QuoteBundle(plans)
	require.NoError(t, err)

	order, err := ordering.NewOrder("ORD-00000001", customerID, plans, quote)
	require.NoError(t, err)
	require.NoError(t, order.Confirm())
	require.NoError(t, order.Schedule())
	require.NoError(t, order.MarkInstalled())
	require.NoError(t, order.Activate())
	return order
}

func TestIssueMonthlyInvoice(t *testing.T) {
	svc, invoiceRepo, _, orderRepo := newBillingService()
	ctx := context.Background()

	customerID := uuid.New()
	order := activeBundleOrder(t, customerID)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	orderRepo.On("FindByCustomer", ctx, customerID, mock.Anything).Return([]ordering.Order{*order}, nil)
	invoiceRepo.On("NextInvoiceSequence", ctx).Return(int64(42), nil)
	invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

	resp, err := svc.IssueMonthlyInvoice(ctx, customerID, now)

	require.NoError(t, err)
	assert.Equal(t, "INV-00000042", resp.InvoiceNumber)
	assert.Equal(t, "issued", resp.Status)
	require.Len(t, resp.Lines, 3)
	assert.Equal(t, "Fibre 100 (broadband)", resp.Lines[0].Description)
	assert.Equal(t, "SIM 20GB (sim)", resp.Lines[1].Description)
	assert.Equal(t, "Bundle discount (10%)", resp.Lines[2].Description)
	assert.True(t, resp.Lines[2].Amount.Equal(decimal.RequireFromString("-4.00")))
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("36.00")))
	assert.Equal(t, now.AddDate(0, 0, 14), resp.DueDate)
}

func TestIssueMonthlyInvoiceNoActiveServices(t *testing.T) {
	svc, invoiceRepo, _, orderRepo := newBillingService()
	ctx := context.Background()

	customerID := uuid.New()
	orderRepo.On("FindByCustomer", ctx, customerID, mock.Anything).Return([]ordering.Order{}, nil)

	_, err := svc.IssueMonthlyInvoice(ctx, customerID, time.Now())

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NO_ACTIVE_SERVICES", domainErr.Code)
	invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRunBillingCycleAdvancesEveryDueCustomer(t *testing.T) {
	svc, invoiceRepo, settingsRepo, orderRepo := newBillingService()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)

	billed := uuid.New()
	idle := uuid.New()
	billedSettings, err := billing.NewBillingSettings(billed, billing.BillingModeAnniversary, 1, now.AddDate(0, -1, 0))
	require.NoError(t, err)
	idleSettings, err := billing.NewBillingSettings(idle, billing.BillingModeAnniversary, 1, now.AddDate(0, -1, 0))
	require.NoError(t, err)

	settingsRepo.On("FindDue", ctx, now).Return([]billing.BillingSettings{*billedSettings, *idleSettings}, nil)

	order := activeBundleOrder(t, billed)
	orderRepo.On("FindByCustomer", ctx, billed, mock.Anything).Return([]ordering.Order{*order}, nil)
	orderRepo.On("FindByCustomer", ctx, idle, mock.Anything).Return([]ordering.Order{}, nil)
	invoiceRepo.On("NextInvoiceSequence", ctx).Return(int64(1), nil)
	invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)
	settingsRepo.On("Save", ctx, mock.MatchedBy(func(s *billing.BillingSettings) bool {
		return s.NextInvoiceDate.After(now)
	})).Return(nil).Twice()

	result, err := svc.RunBillingCycle(ctx, now)

	require.NoError(t, err)
	assert.Equal(t, 1, result.InvoicesIssued)
	assert.Equal(t, 1, result.Failures)
	settingsRepo.AssertExpectations(t)
}

func TestApplyLateFees(t *testing.T) {
	svc, invoiceRepo, _, _ := newBillingService()
	ctx := context.Background()
	now := time.Now()

	overdue, err := billing.NewInvoice("INV-00000001", uuid.New(), now.AddDate(0, 0, -10))
	require.NoError(t, err)
	require.NoError(t, overdue.AddLine("Fibre 100 (broadband)", decimal.RequireFromString("30.00")))
	require.NoError(t, overdue.Issue())

	alreadyFeed, err := billing.NewInvoice("INV-00000002", uuid.New(), now.AddDate(0, 0, -20))
	require.NoError(t, err)
	require.NoError(t, alreadyFeed.AddLine("SIM 20GB (sim)", decimal.RequireFromString("10.00")))
	require.NoError(t, alreadyFeed.Issue())
	require.NoError(t, alreadyFeed.ApplyLateFee(now))

	cutoff := now.AddDate(0, 0, -7)
	invoiceRepo.On("FindOverdueCandidates", ctx, mock.MatchedBy(func(c time.Time) bool {
		return c.Equal(cutoff)
	})).Return([]billing.Invoice{*overdue, *alreadyFeed}, nil)
	invoiceRepo.On("Save", ctx, mock.MatchedBy(func(i *billing.Invoice) bool {
		return i.InvoiceNumber == "INV-00000001" && i.LateFeeApplied &&
			i.Total.Equal(decimal.RequireFromString("40.00"))
	})).Return(nil).Once()

	result, err := svc.ApplyLateFees(ctx, now)

	require.NoError(t, err)
	assert.Equal(t, 1, result.FeesApplied)
	assert.Equal(t, 1, result.Failures)
	invoiceRepo.AssertExpectations(t)
}

func TestUpdateSettingsCreatesOnFirstWrite(t *testing.T) {
	svc, _, settingsRepo, _ := newBillingService()
	ctx := context.Background()
	customerID := uuid.New()

	settingsRepo.On("FindByCustomer", ctx, customerID).Return(nil, shared.ErrNotFound)
	settingsRepo.On("Save", ctx, mock.AnythingOfType("*billing.BillingSettings")).Return(nil)

	resp, err := svc.UpdateSettings(ctx, customerID, UpdateBillingSettingsRequest{Mode: "fixed_day", BillingDay: 15})

	require.NoError(t, err)
	assert.Equal(t, "fixed_day", resp.Mode)
	assert.Equal(t, 15, resp.BillingDay)
	assert.Equal(t, 15, resp.NextInvoiceDate.Day())
}

func TestUpdateSettingsChangesExistingMode(t *testing.T) {
	svc, _, settingsRepo, _ := newBillingService()
	ctx := context.Background()
	customerID := uuid.New()

	existing, err := billing.NewBillingSettings(customerID, billing.BillingModeAnniversary, 1, time.Now())
	require.NoError(t, err)

	settingsRepo.On("FindByCustomer", ctx, customerID).Return(existing, nil)
	settingsRepo.On("Save", ctx, existing).Return(nil)

	resp, err := svc.UpdateSettings(ctx, customerID, UpdateBillingSettingsRequest{Mode: "fixed_day", BillingDay: 5})

	require.NoError(t, err)
	assert.Equal(t, "fixed_day", resp.Mode)
	assert.Equal(t, 5, resp.BillingDay)
}

func TestVoidPaidInvoiceRejected(t *testing.T) {
	svc, invoiceRepo, _, _ := newBillingService()
	ctx := context.Background()

	inv, err := billing.NewInvoice("INV-00000003", uuid.New(), time.Now().AddDate(0, 0, 14))
	require.NoError(t, err)
	require.NoError(t, inv.AddLine("Fibre 100 (broadband)", decimal.RequireFromString("30.00")))
	require.NoError(t, inv.Issue())
	require.NoError(t, inv.MarkPaid(time.Now()))

	invoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)

	_, err = svc.VoidInvoice(ctx, inv.ID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
