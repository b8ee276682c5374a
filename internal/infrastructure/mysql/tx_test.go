package mysql

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "centralvendas/internal/errors"
)

func newMockTxManager(t *testing.T) (*TxManager, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return NewTxManager(sqlx.NewDb(mockDB, "mysql"), time.Second, zap.NewNop()), mock
}

func TestTxManager_WithinTx_Commits(t *testing.T) {
	m, mock := newMockTxManager(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO StockMovement").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := m.WithinTx(context.Background(), func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO StockMovement (id) VALUES (?)", "m-1")
		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManager_WithinTx_RollsBackBusinessError(t *testing.T) {
	m, mock := newMockTxManager(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	want := apperrors.NewInsufficientStockError("p-1", "Caneca", 5, 0)
	err := m.WithinTx(context.Background(), func(ctx context.Context, tx *sqlx.Tx) error {
		return want
	})

	assert.Same(t, want, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManager_WithinTx_DeadlockBecomesConflict(t *testing.T) {
	m, mock := newMockTxManager(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := m.WithinTx(context.Background(), func(ctx context.Context, tx *sqlx.Tx) error {
		return &mysql.MySQLError{Number: 1213, Message: "Deadlock found"}
	})

	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManager_WithinTx_OutOfRangeBecomesValidation(t *testing.T) {
	m, mock := newMockTxManager(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := m.WithinTx(context.Background(), func(ctx context.Context, tx *sqlx.Tx) error {
		return fmt.Errorf("incrementing inventory: %w", &mysql.MySQLError{Number: 1264, Message: "Out of range value for column 'quantity'"})
	})

	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok, "got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManager_WithinTx_UnexpectedErrorBecomesInternal(t *testing.T) {
	m, mock := newMockTxManager(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	cause := errors.New("connection reset")
	err := m.WithinTx(context.Background(), func(ctx context.Context, tx *sqlx.Tx) error {
		return cause
	})

	ie, ok := apperrors.IsInternalError(err)
	require.True(t, ok)
	assert.ErrorIs(t, ie, cause)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManager_WithinTx_BeginFailure(t *testing.T) {
	m, mock := newMockTxManager(t)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	called := false
	err := m.WithinTx(context.Background(), func(ctx context.Context, tx *sqlx.Tx) error {
		called = true
		return nil
	})

	assert.False(t, called)
	_, ok := apperrors.IsInternalError(err)
	assert.True(t, ok)
}

func TestIsDeadlockError(t *testing.T) {
	assert.True(t, IsDeadlockError(&mysql.MySQLError{Number: 1213}))
	assert.True(t, IsDeadlockError(&mysql.MySQLError{Number: 1205}))
	assert.False(t, IsDeadlockError(&mysql.MySQLError{Number: 1062}))
	assert.False(t, IsDeadlockError(errors.New("deadlock")))
}

func TestIsDataRangeError(t *testing.T) {
	assert.True(t, IsDataRangeError(&mysql.MySQLError{Number: 1264}))
	assert.True(t, IsDataRangeError(&mysql.MySQLError{Number: 1406}))
	assert.True(t, IsDataRangeError(&mysql.MySQLError{Number: 1690}))
	assert.False(t, IsDataRangeError(&mysql.MySQLError{Number: 1062}))
	assert.False(t, IsDataRangeError(errors.New("out of range")))
}

func TestIsDuplicateEntryError(t *testing.T) {
	assert.True(t, IsDuplicateEntryError(&mysql.MySQLError{Number: 1062}))
	assert.False(t, IsDuplicateEntryError(&mysql.MySQLError{Number: 1213}))
}
