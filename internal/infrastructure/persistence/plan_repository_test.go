package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/occtelecom/backend/internal/domain/catalog"
	"github.com/occtelecom/backend/internal/domain/shared"
)

func setupPlanTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE plans (
			id TEXT PRIMARY KEY,
			service_type TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			monthly_price NUMERIC NOT NULL,
			contract_term INTEGER NOT NULL DEFAULT 12,
			active INTEGER NOT NULL DEFAULT 1,
			sort_order INTEGER NOT NULL DEFAULT 0,
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	return db
}

func newTestPlan(t *testing.T, serviceType catalog.ServiceType, name, price string) *catalog.Plan {
	p, err := catalog.NewPlan(serviceType, name, decimal.RequireFromString(price))
	require.NoError(t, err)
	return p
}

func TestGormPlanRepository_SaveAndFind(t *testing.T) {
	db := setupPlanTestDB(t)
	repo := NewGormPlanRepository(db)
	ctx := context.Background()

	plan := newTestPlan(t, catalog.ServiceTypeBroadband, "Fibre 100", "32.00")
	require.NoError(t, repo.Save(ctx, plan))

	found, err := repo.FindByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fibre 100", found.Name)
	assert.Equal(t, catalog.ServiceTypeBroadband, found.ServiceType)
	assert.True(t, found.MonthlyPrice.Equal(decimal.RequireFromString("32.00")))
	assert.True(t, found.Active)
}

func TestGormPlanRepository_FindByIDNotFound(t *testing.T) {
	db := setupPlanTestDB(t)
	repo := NewGormPlanRepository(db)

	plan := newTestPlan(t, catalog.ServiceTypeSIM, "SIM 20GB", "12.00")
	_, err := repo.FindByID(context.Background(), plan.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormPlanRepository_FindActiveByServiceType(t *testing.T) {
	db := setupPlanTestDB(t)
	repo := NewGormPlanRepository(db)
	ctx := context.Background()

	fibre := newTestPlan(t, catalog.ServiceTypeBroadband, "Fibre 100", "32.00")
	fibre.SortOrder = 2
	cheap := newTestPlan(t, catalog.ServiceTypeBroadband, "Fibre 35", "24.00")
	cheap.SortOrder = 1
	withdrawn := newTestPlan(t, catalog.ServiceTypeBroadband, "Legacy ADSL", "18.00")
	withdrawn.Deactivate()
	sim := newTestPlan(t, catalog.ServiceTypeSIM, "SIM 20GB", "12.00")

	for _, p := range []*catalog.Plan{fibre, cheap, withdrawn, sim} {
		require.NoError(t, repo.Save(ctx, p))
	}

	plans, err := repo.FindActiveByServiceType(ctx, catalog.ServiceTypeBroadband)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "Fibre 35", plans[0].Name)
	assert.Equal(t, "Fibre 100", plans[1].Name)
}

func TestGormPlanRepository_FindAllWithFilter(t *testing.T) {
	db := setupPlanTestDB(t)
	repo := NewGormPlanRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestPlan(t, catalog.ServiceTypeBroadband, "Fibre 100", "32.00")))
	require.NoError(t, repo.Save(ctx, newTestPlan(t, catalog.ServiceTypeLandline, "Anytime Calls", "8.00")))

	filter := shared.DefaultFilter()
	filter.Filters["service_type"] = string(catalog.ServiceTypeLandline)

	plans, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Anytime Calls", plans[0].Name)

	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormPlanRepository_Delete(t *testing.T) {
	db := setupPlanTestDB(t)
	repo := NewGormPlanRepository(db)
	ctx := context.Background()

	plan := newTestPlan(t, catalog.ServiceTypeSIM, "SIM 5GB", "8.00")
	require.NoError(t, repo.Save(ctx, plan))

	require.NoError(t, repo.Delete(ctx, plan.ID))
	assert.ErrorIs(t, repo.Delete(ctx, plan.ID), shared.ErrNotFound)
}
