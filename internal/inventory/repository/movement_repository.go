package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"centralvendas/internal/domain"
	apperrors "centralvendas/internal/errors"
)

type MySQLMovementRepository struct {
	db *sqlx.DB
}

func NewMySQLMovementRepository(db *sqlx.DB) *MySQLMovementRepository {
	return &MySQLMovementRepository{db: db}
}

// Insert appends a ledger row. Rows are never updated or deleted.
func (r *MySQLMovementRepository) Insert(ctx context.Context, tx *sqlx.Tx, m domain.StockMovement) error {
	query := `
		INSERT INTO StockMovement (id, tenantId, productId, quantity, type, reason, referenceId)
		VALUES (:id, :tenantId, :productId, :quantity, :type, :reason, :referenceId)`

	if _, err := tx.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("inserting stock movement: %w", err)
	}
	return nil
}

// ListByProduct returns the product's movements, newest first.
func (r *MySQLMovementRepository) ListByProduct(ctx context.Context, tenantID, productID string, limit, offset int) ([]domain.StockMovement, error) {
	query := `
		SELECT id, tenantId, productId, quantity, type, reason, referenceId, createdAt
		FROM StockMovement
		WHERE productId = ? AND tenantId = ?
		ORDER BY createdAt DESC, id DESC
		LIMIT ? OFFSET ?`

	var movements []domain.StockMovement
	if err := r.db.SelectContext(ctx, &movements, query, productID, tenantID, limit, offset); err != nil {
		return nil, fmt.Errorf("listing stock movements: %w", err)
	}
	return movements, nil
}

// Ledger reads the inventory quantity and the ledger totals in one statement.
func (r *MySQLMovementRepository) Ledger(ctx context.Context, tenantID, productID string) (*domain.LedgerReport, error) {
	query := `
		SELECT i.productId, i.quantity,
		       COALESCE(SUM(m.quantity), 0) AS ledgerSum,
		       COUNT(m.id) AS movementCount
		FROM Inventory i
		LEFT JOIN StockMovement m ON m.productId = i.productId AND m.tenantId = i.tenantId
		WHERE i.productId = ? AND i.tenantId = ?
		GROUP BY i.productId, i.quantity`

	var report domain.LedgerReport
	err := r.db.GetContext(ctx, &report, query, productID, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("inventory for product %s not found", productID))
	}
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}
	return &report, nil
}
