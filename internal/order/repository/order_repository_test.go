package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centralvendas/internal/domain"
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

func TestNewMySQLOrderRepository(t *testing.T) {
	db := &sqlx.DB{}
	repo := NewMySQLOrderRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestUpdateStatus_OrderOfOtherTenant(t *testing.T) {
	db, tx, mock := newMockTx(t)
	repo := NewMySQLOrderRepository(db)

	mock.ExpectExec("UPDATE Orders SET status = \\?").
		WithArgs(domain.OrderStatusCanceled, "o-1", "t-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), tx, "t-2", "o-1", domain.OrderStatusCanceled)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_DuplicateExternalID(t *testing.T) {
	db, tx, mock := newMockTx(t)
	repo := NewMySQLOrderRepository(db)

	externalID := "2401SHOPEE"
	mock.ExpectExec("INSERT INTO Orders").WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := repo.Insert(context.Background(), tx, domain.Order{
		ID:            "o-1",
		TenantID:      "t-1",
		ExternalID:    &externalID,
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusPaid,
		Total:         decimal.Zero,
	})
	_, ok := errors.IsConflictError(err)
	assert.True(t, ok)
}

func TestFindByIDForUpdate_LocksRow(t *testing.T) {
	db, tx, mock := newMockTx(t)
	repo := NewMySQLOrderRepository(db)

	rows := sqlmock.NewRows([]string{"id", "tenantId", "customerId", "externalId", "status", "paymentStatus", "total", "notes", "createdAt", "updatedAt"}).
		AddRow("o-1", "t-1", nil, nil, "CANCELED", "PENDING", "30.00", nil, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM Orders (.+) FOR UPDATE").
		WithArgs("o-1", "t-1").
		WillReturnRows(rows)

	order, err := repo.FindByIDForUpdate(context.Background(), tx, "t-1", "o-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCanceled, order.Status)
	assert.Equal(t, "30", order.Total.String())
}

func TestFindByOrderIDs_EmptyList(t *testing.T) {
	repo := NewMySQLOrderItemRepository(&sqlx.DB{})

	grouped, err := repo.FindByOrderIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, grouped)
}

// Integration Tests

func insertOrder(t *testing.T, db *sqlx.DB, order domain.Order, items ...domain.OrderItem) {
	repo := NewMySQLOrderRepository(db)
	itemRepo := NewMySQLOrderItemRepository(db)

	tx, err := db.Beginx()
	require.NoError(t, err)
	require.NoError(t, repo.Insert(context.Background(), tx, order))
	for _, item := range items {
		item.ID = uuid.NewString()
		item.OrderID = order.ID
		require.NoError(t, itemRepo.Insert(context.Background(), tx, item))
	}
	require.NoError(t, tx.Commit())
}

func newOrder(tenantID string) domain.Order {
	return domain.Order{
		ID:            uuid.NewString(),
		TenantID:      tenantID,
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
		Total:         decimal.RequireFromString("59.80"),
	}
}

func TestOrderRepository_InsertAndFind_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	itemRepo := NewMySQLOrderItemRepository(db)
	order := newOrder("t-1")
	insertOrder(t, db, order, domain.OrderItem{
		ProductID:   "p-1",
		ProductName: "Caneca",
		Quantity:    2,
		Price:       decimal.RequireFromString("29.90"),
		Subtotal:    decimal.RequireFromString("59.80"),
	})

	found, err := repo.FindByID(context.Background(), "t-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, found.Status)
	assert.True(t, found.Total.Equal(order.Total))
	assert.Nil(t, found.CustomerID)

	_, err = repo.FindByID(context.Background(), "t-2", order.ID)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)

	grouped, err := itemRepo.FindByOrderIDs(context.Background(), []string{order.ID})
	require.NoError(t, err)
	require.Len(t, grouped[order.ID], 1)
	assert.Equal(t, "Caneca", grouped[order.ID][0].ProductName)
	assert.True(t, grouped[order.ID][0].Price.Equal(decimal.RequireFromString("29.90")))
}

func TestOrderRepository_FindByExternalID_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	externalID := "240101ABC"
	order := newOrder("t-1")
	order.ExternalID = &externalID
	insertOrder(t, db, order)

	found, err := repo.FindByExternalID(context.Background(), "t-1", externalID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	tx, err := db.Beginx()
	require.NoError(t, err)
	defer tx.Rollback()

	duplicate := newOrder("t-1")
	duplicate.ExternalID = &externalID
	err = repo.Insert(context.Background(), tx, duplicate)
	_, ok := errors.IsConflictError(err)
	assert.True(t, ok)
}

func TestOrderRepository_StatusUpdates_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	itemRepo := NewMySQLOrderItemRepository(db)
	order := newOrder("t-1")
	insertOrder(t, db, order,
		domain.OrderItem{ProductID: "p-2", ProductName: "B", Quantity: 1, Price: decimal.NewFromInt(1), Subtotal: decimal.NewFromInt(1)},
		domain.OrderItem{ProductID: "p-1", ProductName: "A", Quantity: 1, Price: decimal.NewFromInt(1), Subtotal: decimal.NewFromInt(1)},
	)

	tx, err := db.Beginx()
	require.NoError(t, err)

	locked, err := repo.FindByIDForUpdate(context.Background(), tx, "t-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, locked.Status)

	items, err := itemRepo.FindByOrderID(context.Background(), tx, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "p-1", items[0].ProductID)

	require.NoError(t, repo.UpdateStatus(context.Background(), tx, "t-1", order.ID, domain.OrderStatusCompleted))
	require.NoError(t, repo.UpdatePaymentStatus(context.Background(), tx, "t-1", order.ID, domain.PaymentStatusPaid))
	require.NoError(t, tx.Commit())

	found, err := repo.FindByID(context.Background(), "t-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, found.Status)
	assert.Equal(t, domain.PaymentStatusPaid, found.PaymentStatus)
}

func TestOrderRepository_ListNewestFirst_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	older := newOrder("t-1")
	insertOrder(t, db, older)
	_, err := db.Exec(`UPDATE Orders SET createdAt = ? WHERE id = ?`, time.Now().Add(-time.Hour), older.ID)
	require.NoError(t, err)
	newer := newOrder("t-1")
	insertOrder(t, db, newer)
	insertOrder(t, db, newOrder("t-2"))

	orders, err := repo.List(context.Background(), "t-1", 50, 0)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, older.ID, orders[1].ID)
}
