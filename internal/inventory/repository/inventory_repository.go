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

type MySQLInventoryRepository struct {
	db *sqlx.DB
}

func NewMySQLInventoryRepository(db *sqlx.DB) *MySQLInventoryRepository {
	return &MySQLInventoryRepository{db: db}
}

const stockedProductSelect = `
	SELECT p.id, p.tenantId, p.name, p.sku, p.description, p.price,
	       p.deletedAt, p.createdAt, p.updatedAt,
	       i.quantity, i.minStock
	FROM Inventory i
	JOIN Product p ON p.id = i.productId
	WHERE i.tenantId = ? AND p.deletedAt IS NULL`

func (r *MySQLInventoryRepository) Insert(ctx context.Context, tx *sqlx.Tx, inv domain.Inventory) error {
	query := `
		INSERT INTO Inventory (id, tenantId, productId, quantity, minStock)
		VALUES (:id, :tenantId, :productId, :quantity, :minStock)`

	if _, err := tx.NamedExecContext(ctx, query, inv); err != nil {
		return fmt.Errorf("inserting inventory: %w", err)
	}
	return nil
}

// Ensure creates a zero inventory row for the product unless one exists.
func (r *MySQLInventoryRepository) Ensure(ctx context.Context, tx *sqlx.Tx, id, tenantID, productID string) error {
	query := `
		INSERT IGNORE INTO Inventory (id, tenantId, productId, quantity, minStock)
		VALUES (?, ?, ?, 0, 0)`

	if _, err := tx.ExecContext(ctx, query, id, tenantID, productID); err != nil {
		return fmt.Errorf("ensuring inventory: %w", err)
	}
	return nil
}

func (r *MySQLInventoryRepository) FindByProductForUpdate(ctx context.Context, tx *sqlx.Tx, tenantID, productID string) (*domain.Inventory, error) {
	query := `
		SELECT id, tenantId, productId, quantity, minStock, updatedAt
		FROM Inventory
		WHERE productId = ? AND tenantId = ?
		FOR UPDATE`

	var inv domain.Inventory
	err := tx.GetContext(ctx, &inv, query, productID, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("inventory for product %s not found", productID))
	}
	if err != nil {
		return nil, fmt.Errorf("locking inventory: %w", err)
	}
	return &inv, nil
}

func (r *MySQLInventoryRepository) FindByProduct(ctx context.Context, tenantID, productID string) (*domain.Inventory, error) {
	query := `
		SELECT id, tenantId, productId, quantity, minStock, updatedAt
		FROM Inventory
		WHERE productId = ? AND tenantId = ?`

	var inv domain.Inventory
	err := r.db.GetContext(ctx, &inv, query, productID, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("inventory for product %s not found", productID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying inventory: %w", err)
	}
	return &inv, nil
}

// DecrementIfAvailable subtracts quantity only when enough stock is on hand.
// It reports false, without error, when the row holds less than quantity.
func (r *MySQLInventoryRepository) DecrementIfAvailable(ctx context.Context, tx *sqlx.Tx, tenantID, productID string, quantity int) (bool, error) {
	query := `
		UPDATE Inventory
		SET quantity = quantity - ?
		WHERE productId = ? AND tenantId = ? AND quantity >= ?`

	result, err := tx.ExecContext(ctx, query, quantity, productID, tenantID, quantity)
	if err != nil {
		return false, fmt.Errorf("decrementing inventory: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

func (r *MySQLInventoryRepository) Increment(ctx context.Context, tx *sqlx.Tx, tenantID, productID string, quantity int) error {
	query := `UPDATE Inventory SET quantity = quantity + ? WHERE productId = ? AND tenantId = ?`

	result, err := tx.ExecContext(ctx, query, quantity, productID, tenantID)
	if err != nil {
		return fmt.Errorf("incrementing inventory: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("inventory for product %s not found", productID))
	}
	return nil
}

// SetQuantity overwrites the quantity of a row already locked by the caller.
func (r *MySQLInventoryRepository) SetQuantity(ctx context.Context, tx *sqlx.Tx, tenantID, productID string, quantity int) error {
	query := `UPDATE Inventory SET quantity = ? WHERE productId = ? AND tenantId = ?`

	if _, err := tx.ExecContext(ctx, query, quantity, productID, tenantID); err != nil {
		return fmt.Errorf("setting inventory quantity: %w", err)
	}
	return nil
}

func (r *MySQLInventoryRepository) UpdateMinStock(ctx context.Context, tx *sqlx.Tx, tenantID, productID string, minStock int) error {
	query := `UPDATE Inventory SET minStock = ? WHERE productId = ? AND tenantId = ?`

	if _, err := tx.ExecContext(ctx, query, minStock, productID, tenantID); err != nil {
		return fmt.Errorf("updating min stock: %w", err)
	}
	return nil
}

func (r *MySQLInventoryRepository) List(ctx context.Context, tenantID string) ([]domain.StockedProduct, error) {
	query := stockedProductSelect + `
	ORDER BY p.name`

	var products []domain.StockedProduct
	if err := r.db.SelectContext(ctx, &products, query, tenantID); err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}
	return products, nil
}

// ListLowStock returns products whose quantity is at or below their minimum.
func (r *MySQLInventoryRepository) ListLowStock(ctx context.Context, tenantID string) ([]domain.StockedProduct, error) {
	query := stockedProductSelect + `
	  AND i.quantity <= i.minStock
	ORDER BY i.quantity, p.name`

	var products []domain.StockedProduct
	if err := r.db.SelectContext(ctx, &products, query, tenantID); err != nil {
		return nil, fmt.Errorf("listing low stock: %w", err)
	}
	return products, nil
}
