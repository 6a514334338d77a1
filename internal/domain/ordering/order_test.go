package ordering

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlans(t *testing.T, types ...catalog.ServiceType) []catalog.Plan {
	t.Helper()
	plans := make([]catalog.Plan, 0, len(types))
	for _, st := range types {
		p, err := catalog.NewPlan(st, string(st)+" plan", decimal.RequireFromString("19.99"))
		require.NoError(t, err)
		plans = append(plans, *p)
	}
	return plans
}

func testOrder(t *testing.T, types ...catalog.ServiceType) *Order {
	t.Helper()
	plans := testPlans(t, types...)
	quote, err := catalog.QuoteBundle(plans)
	require.NoError(t, err)
	o, err := NewOrder(FormatOrderNumber(1), uuid.New(), plans, quote)
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("snapshots quote and lines", func(t *testing.T) {
		plans := testPlans(t, catalog.ServiceTypeBroadband, catalog.ServiceTypeSIM)
		quote, err := catalog.QuoteBundle(plans)
		require.NoError(t, err)

		o, err := NewOrder("ORD-00000001", uuid.New(), plans, quote)

		require.NoError(t, err)
		assert.Equal(t, OrderStatusPending, o.Status)
		assert.Len(t, o.Lines, 2)
		assert.True(t, o.OriginalTotal.Equal(quote.OriginalTotal))
		assert.True(t, o.DiscountedTotal.Equal(quote.DiscountedTotal))
		assert.Len(t, o.GetDomainEvents(), 1)
	})

	t.Run("fails without plans", func(t *testing.T) {
		quote, err := catalog.QuoteBundle(nil)
		require.NoError(t, err)

		_, err = NewOrder("ORD-00000001", uuid.New(), nil, quote)

		assert.Error(t, err)
	})
}

func TestOrderStatusChain(t *testing.T) {
	t.Run("full happy path", func(t *testing.T) {
		o := testOrder(t, catalog.ServiceTypeBroadband)

		require.NoError(t, o.Confirm())
		require.NoError(t, o.Schedule())
		require.NoError(t, o.MarkInstalled())
		require.NoError(t, o.Activate())

		assert.Equal(t, OrderStatusActive, o.Status)
		assert.NotNil(t, o.ConfirmedAt)
		assert.NotNil(t, o.InstalledAt)
		assert.Len(t, o.GetDomainEvents(), 4)
	})

	t.Run("cannot skip confirmation", func(t *testing.T) {
		o := testOrder(t, catalog.ServiceTypeBroadband)

		assert.Error(t, o.Schedule())
		assert.Error(t, o.MarkInstalled())
	})

	t.Run("cancel from pending", func(t *testing.T) {
		o := testOrder(t, catalog.ServiceTypeBroadband)

		require.NoError(t, o.Cancel("changed mind"))
		assert.Equal(t, OrderStatusCancelled, o.Status)
		assert.Equal(t, "changed mind", o.CancelReason)
		assert.False(t, o.IsOpen())
	})

	t.Run("cannot cancel twice", func(t *testing.T) {
		o := testOrder(t, catalog.ServiceTypeBroadband)
		require.NoError(t, o.Cancel("first"))

		assert.Error(t, o.Cancel("second"))
	})

	t.Run("cannot cancel mid installation", func(t *testing.T) {
		o := testOrder(t, catalog.ServiceTypeBroadband)
		require.NoError(t, o.Confirm())
		require.NoError(t, o.Schedule())
		require.NoError(t, o.MarkInstalled())

		assert.Error(t, o.Cancel("too late"))
	})
}

func TestNeedsInstallation(t *testing.T) {
	assert.True(t, testOrder(t, catalog.ServiceTypeBroadband).NeedsInstallation())
	assert.True(t, testOrder(t, catalog.ServiceTypeLandline, catalog.ServiceTypeSIM).NeedsInstallation())
	assert.False(t, testOrder(t, catalog.ServiceTypeSIM).NeedsInstallation())
}

func testDate(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
}

func TestSlotReserve(t *testing.T) {
	slot, err := NewInstallationSlot(testDate(t), 8, 12, "north", 2)
	require.NoError(t, err)

	require.NoError(t, slot.Reserve())
	require.NoError(t, slot.Reserve())
	assert.Equal(t, 0, slot.Remaining())

	err = slot.Reserve()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "capacity")

	slot.Release()
	assert.Equal(t, 1, slot.Remaining())
}

func TestBookingLifecycle(t *testing.T) {
	b, err := NewBooking(uuid.New(), uuid.New())
	require.NoError(t, err)

	require.NoError(t, b.AssignTechnician(uuid.New()))
	require.NoError(t, b.Complete())
	assert.Error(t, b.Cancel())
}

func TestGuestOrderConversion(t *testing.T) {
	g, err := NewGuestOrder("Jane Smith", "jane@example.com", "", "HD33WU",
		`["3fb1f7f2-46c5-4e35-a4e5-0cfb126b3ecb"]`, decimal.RequireFromString("24.99"))
	require.NoError(t, err)

	require.NoError(t, g.MarkConverted(uuid.New()))
	assert.Equal(t, GuestOrderStatusConverted, g.Status)
	assert.NotNil(t, g.ConvertedOrder)

	assert.Error(t, g.Reject("already converted"))
}
