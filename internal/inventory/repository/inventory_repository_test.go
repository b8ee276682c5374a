package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centralvendas/internal/errors"
	"centralvendas/internal/testutil"
)

// Unit Tests

func newMockTx(t *testing.T) (*sqlx.DB, *sqlx.Tx, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "mysql")
	mock.ExpectBegin()
	tx, err := db.Beginx()
	require.NoError(t, err)

	return db, tx, mock
}

func TestDecrementIfAvailable_Applied(t *testing.T) {
	db, tx, mock := newMockTx(t)
	repo := NewMySQLInventoryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE Inventory SET quantity = quantity - ? WHERE productId = ? AND tenantId = ? AND quantity >= ?")).
		WithArgs(3, "p-1", "t-1", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.DecrementIfAvailable(context.Background(), tx, "t-1", "p-1", 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementIfAvailable_NotEnoughStock(t *testing.T) {
	db, tx, mock := newMockTx(t)
	repo := NewMySQLInventoryRepository(db)

	mock.ExpectExec("UPDATE Inventory").
		WithArgs(10, "p-1", "t-1", 10).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.DecrementIfAvailable(context.Background(), tx, "t-1", "p-1", 10)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIncrement_MissingRow(t *testing.T) {
	db, tx, mock := newMockTx(t)
	repo := NewMySQLInventoryRepository(db)

	mock.ExpectExec("UPDATE Inventory SET quantity = quantity \\+ \\?").
		WithArgs(2, "p-1", "t-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Increment(context.Background(), tx, "t-1", "p-1", 2)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestFindByProductForUpdate_LocksRow(t *testing.T) {
	db, tx, mock := newMockTx(t)
	repo := NewMySQLInventoryRepository(db)

	rows := sqlmock.NewRows([]string{"id", "tenantId", "productId", "quantity", "minStock", "updatedAt"}).
		AddRow("i-1", "t-1", "p-1", 7, 2, time.Now())
	mock.ExpectQuery("SELECT (.+) FROM Inventory (.+) FOR UPDATE").
		WithArgs("p-1", "t-1").
		WillReturnRows(rows)

	inv, err := repo.FindByProductForUpdate(context.Background(), tx, "t-1", "p-1")
	require.NoError(t, err)
	assert.Equal(t, 7, inv.Quantity)
	assert.Equal(t, 2, inv.MinStock)
}

// Integration Tests

func seedProduct(t *testing.T, db *sqlx.DB, tenantID, name string, quantity, minStock int) string {
	productID := uuid.NewString()
	_, err := db.Exec(`INSERT INTO Product (id, tenantId, name, price) VALUES (?, ?, ?, 10.00)`, productID, tenantID, name)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO Inventory (id, tenantId, productId, quantity, minStock) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), tenantID, productID, quantity, minStock)
	require.NoError(t, err)
	return productID
}

func TestInventoryRepository_DecrementIfAvailable_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLInventoryRepository(db)
	productID := seedProduct(t, db, "t-1", "Caneca", 5, 0)

	tx, err := db.Beginx()
	require.NoError(t, err)

	ok, err := repo.DecrementIfAvailable(context.Background(), tx, "t-1", productID, 6)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.DecrementIfAvailable(context.Background(), tx, "t-1", productID, 5)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, tx.Commit())

	inv, err := repo.FindByProduct(context.Background(), "t-1", productID)
	require.NoError(t, err)
	assert.Equal(t, 0, inv.Quantity)
}

func TestInventoryRepository_TenantScoped_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLInventoryRepository(db)
	productID := seedProduct(t, db, "t-1", "Caneca", 5, 0)

	tx, err := db.Beginx()
	require.NoError(t, err)
	defer tx.Rollback()

	ok, err := repo.DecrementIfAvailable(context.Background(), tx, "t-2", productID, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.FindByProductForUpdate(context.Background(), tx, "t-2", productID)
	_, notFound := errors.IsNotFoundError(err)
	assert.True(t, notFound)
}

func TestInventoryRepository_ListLowStock_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLInventoryRepository(db)
	low := seedProduct(t, db, "t-1", "Low", 2, 2)
	seedProduct(t, db, "t-1", "Healthy", 10, 2)
	seedProduct(t, db, "t-2", "Other tenant", 0, 5)

	products, err := repo.ListLowStock(context.Background(), "t-1")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, low, products[0].ID)

	all, err := repo.List(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestInventoryRepository_Ensure_Idempotent_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLInventoryRepository(db)
	productID := seedProduct(t, db, "t-1", "Caneca", 4, 1)

	tx, err := db.Beginx()
	require.NoError(t, err)
	require.NoError(t, repo.Ensure(context.Background(), tx, uuid.NewString(), "t-1", productID))
	require.NoError(t, tx.Commit())

	inv, err := repo.FindByProduct(context.Background(), "t-1", productID)
	require.NoError(t, err)
	assert.Equal(t, 4, inv.Quantity)
}
