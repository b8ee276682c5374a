package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"centralvendas/internal/domain"
	apperrors "centralvendas/internal/errors"
	mysqlinfra "centralvendas/internal/infrastructure/mysql"
)

type MySQLProductRepository struct {
	db *sqlx.DB
}

func NewMySQLProductRepository(db *sqlx.DB) *MySQLProductRepository {
	return &MySQLProductRepository{db: db}
}

const productColumns = `id, tenantId, name, sku, description, price, deletedAt, createdAt, updatedAt`

// Products without an inventory row report zero stock.
const stockedSelect = `
	SELECT p.id, p.tenantId, p.name, p.sku, p.description, p.price,
	       p.deletedAt, p.createdAt, p.updatedAt,
	       COALESCE(i.quantity, 0) AS quantity, COALESCE(i.minStock, 0) AS minStock
	FROM Product p
	LEFT JOIN Inventory i ON i.productId = p.id`

func (r *MySQLProductRepository) Insert(ctx context.Context, tx *sqlx.Tx, p domain.Product) error {
	query := `
		INSERT INTO Product (id, tenantId, name, sku, description, price)
		VALUES (:id, :tenantId, :name, :sku, :description, :price)`

	if _, err := tx.NamedExecContext(ctx, query, p); err != nil {
		if mysqlinfra.IsDuplicateEntryError(err) {
			return duplicateSKU()
		}
		return fmt.Errorf("inserting product: %w", err)
	}
	return nil
}

// FindByID returns the product even when it is soft deleted.
func (r *MySQLProductRepository) FindByID(ctx context.Context, tenantID, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM Product WHERE id = ? AND tenantId = ?`

	var p domain.Product
	err := r.db.GetContext(ctx, &p, query, productID, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewProductNotFoundError(productID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}
	return &p, nil
}

// FindStockedByIDs returns the non-deleted tenant products among ids.
// Missing ids are simply absent from the result.
func (r *MySQLProductRepository) FindStockedByIDs(ctx context.Context, tenantID string, ids []string) ([]domain.StockedProduct, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(stockedSelect+`
	WHERE p.id IN (?) AND p.tenantId = ? AND p.deletedAt IS NULL`, ids, tenantID)
	if err != nil {
		return nil, fmt.Errorf("building product query: %w", err)
	}

	var products []domain.StockedProduct
	if err := r.db.SelectContext(ctx, &products, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	return products, nil
}

// FindStockedBySKUs resolves marketplace SKUs to non-deleted tenant products.
func (r *MySQLProductRepository) FindStockedBySKUs(ctx context.Context, tenantID string, skus []string) ([]domain.StockedProduct, error) {
	if len(skus) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(stockedSelect+`
	WHERE p.sku IN (?) AND p.tenantId = ? AND p.deletedAt IS NULL`, skus, tenantID)
	if err != nil {
		return nil, fmt.Errorf("building product query: %w", err)
	}

	var products []domain.StockedProduct
	if err := r.db.SelectContext(ctx, &products, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("querying products by sku: %w", err)
	}
	return products, nil
}

func (r *MySQLProductRepository) List(ctx context.Context, tenantID string) ([]domain.StockedProduct, error) {
	query := stockedSelect + `
	WHERE p.tenantId = ? AND p.deletedAt IS NULL
	ORDER BY p.createdAt DESC`

	var products []domain.StockedProduct
	if err := r.db.SelectContext(ctx, &products, query, tenantID); err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return products, nil
}

// Update rewrites the catalog fields. Existing order items keep their own
// name and price snapshots.
func (r *MySQLProductRepository) Update(ctx context.Context, p domain.Product) error {
	query := `
		UPDATE Product
		SET name = :name, sku = :sku, description = :description, price = :price
		WHERE id = :id AND tenantId = :tenantId AND deletedAt IS NULL`

	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		if mysqlinfra.IsDuplicateEntryError(err) {
			return duplicateSKU()
		}
		return fmt.Errorf("updating product: %w", err)
	}
	return nil
}

func (r *MySQLProductRepository) SoftDelete(ctx context.Context, tenantID, productID string) error {
	query := `UPDATE Product SET deletedAt = UTC_TIMESTAMP(6) WHERE id = ? AND tenantId = ? AND deletedAt IS NULL`

	result, err := r.db.ExecContext(ctx, query, productID, tenantID)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewProductNotFoundError(productID)
	}
	return nil
}

func duplicateSKU() error {
	return apperrors.NewValidationError("sku already in use", apperrors.ValidationDetail{
		Field:   "sku",
		Message: "sku must be unique within the tenant",
	})
}
