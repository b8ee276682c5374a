package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	apperrors "centralvendas/internal/errors"
)

// TxManager runs a unit of work inside one database transaction.
type TxManager struct {
	db      *sqlx.DB
	timeout time.Duration
	logger  *zap.Logger
}

func NewTxManager(db *sqlx.DB, timeout time.Duration, logger *zap.Logger) *TxManager {
	return &TxManager{db: db, timeout: timeout, logger: logger}
}

// WithinTx commits when fn returns nil and rolls back otherwise. Deadlocks and
// lock wait timeouts are reported as ConflictError; other driver failures as
// InternalError. Errors returned by fn are passed through unchanged.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	tx, err := m.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		m.logger.Error("failed to begin transaction", zap.Error(err))
		return apperrors.NewInternalError("beginning transaction", err)
	}
	// Rollback after a successful commit returns sql.ErrTxDone and is ignored.
	defer tx.Rollback()

	if err := fn(ctx, tx); err != nil {
		return classify(err)
	}

	if err := tx.Commit(); err != nil {
		m.logger.Error("failed to commit transaction", zap.Error(err))
		return classify(fmt.Errorf("committing transaction: %w", err))
	}

	return nil
}

func classify(err error) error {
	if apperrors.IsBusinessError(err) {
		return err
	}
	if _, ok := apperrors.IsInternalError(err); ok {
		return err
	}
	if IsDeadlockError(err) {
		return apperrors.NewConflictError("concurrent update detected, try again")
	}
	if IsDataRangeError(err) {
		return apperrors.NewValidationError("value out of range for its column")
	}
	return apperrors.NewInternalError("persistence failure", err)
}
