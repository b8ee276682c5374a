package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centralvendas/internal/errors"
	"centralvendas/internal/testutil"
)

// Unit Tests

func TestNewMySQLPlanRepository(t *testing.T) {
	db := &sqlx.DB{}
	repo := NewMySQLPlanRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func TestPlanRepository_FindPlanForTenant_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLPlanRepository(db)

	_, err := db.Exec(`INSERT INTO Plan (id, name, maxProducts, maxOrders, maxUsers) VALUES ('plan-1', 'Starter', 10, 100, 2)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO Tenant (id, name, planId) VALUES ('t-1', 'Loja', 'plan-1')`)
	require.NoError(t, err)

	plan, err := repo.FindPlanForTenant(context.Background(), "t-1")
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, "Starter", plan.Name)
	assert.Equal(t, 100, plan.MaxOrders)
}

func TestPlanRepository_FindPlanForTenant_NoPlan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLPlanRepository(db)

	_, err := db.Exec(`INSERT INTO Tenant (id, name) VALUES ('t-1', 'Loja')`)
	require.NoError(t, err)

	plan, err := repo.FindPlanForTenant(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Nil(t, plan)
}

func TestPlanRepository_FindPlanForTenant_TenantNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLPlanRepository(db)

	plan, err := repo.FindPlanForTenant(context.Background(), "missing")
	assert.Nil(t, plan)

	nfe, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, nfe)
}

func TestPlanRepository_Counts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLPlanRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO Product (id, tenantId, name, price) VALUES (?, 't-1', 'A', 1), (?, 't-1', 'B', 1)`,
		uuid.NewString(), uuid.NewString())
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO Product (id, tenantId, name, price, deletedAt) VALUES (?, 't-1', 'C', 1, UTC_TIMESTAMP(6))`, uuid.NewString())
	require.NoError(t, err)

	monthStart := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	_, err = db.Exec(`INSERT INTO Orders (id, tenantId, createdAt) VALUES (?, 't-1', ?), (?, 't-1', ?)`,
		uuid.NewString(), monthStart.Add(-time.Second), uuid.NewString(), monthStart)
	require.NoError(t, err)

	_, err = db.Exec("INSERT INTO `User` (id, tenantId, name, email, role) VALUES (?, 't-1', 'Ana', 'ana@loja.com', 'ADMIN')", uuid.NewString())
	require.NoError(t, err)

	products, err := repo.CountActiveProducts(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, 2, products)

	orders, err := repo.CountOrdersSince(ctx, "t-1", monthStart)
	require.NoError(t, err)
	assert.Equal(t, 1, orders)

	users, err := repo.CountUsers(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, 1, users)
}
