package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"centralvendas/internal/domain"
)

type MySQLOrderItemRepository struct {
	db *sqlx.DB
}

func NewMySQLOrderItemRepository(db *sqlx.DB) *MySQLOrderItemRepository {
	return &MySQLOrderItemRepository{db: db}
}

const orderItemColumns = `id, orderId, productId, productName, quantity, price, subtotal`

func (r *MySQLOrderItemRepository) Insert(ctx context.Context, tx *sqlx.Tx, item domain.OrderItem) error {
	query := `
		INSERT INTO OrderItems (id, orderId, productId, productName, quantity, price, subtotal)
		VALUES (:id, :orderId, :productId, :productName, :quantity, :price, :subtotal)`

	if _, err := tx.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("inserting order item: %w", err)
	}
	return nil
}

// FindByOrderID reads the items of an order inside tx, ordered by product id.
func (r *MySQLOrderItemRepository) FindByOrderID(ctx context.Context, tx *sqlx.Tx, orderID string) ([]domain.OrderItem, error) {
	query := `SELECT ` + orderItemColumns + `
		FROM OrderItems
		WHERE orderId = ?
		ORDER BY productId`

	var items []domain.OrderItem
	if err := tx.SelectContext(ctx, &items, query, orderID); err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	return items, nil
}

// FindByOrderIDs groups the items of several orders by order id.
func (r *MySQLOrderItemRepository) FindByOrderIDs(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error) {
	grouped := make(map[string][]domain.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return grouped, nil
	}

	query, args, err := sqlx.In(`SELECT `+orderItemColumns+`
		FROM OrderItems
		WHERE orderId IN (?)
		ORDER BY orderId, productId`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("building order items query: %w", err)
	}

	var items []domain.OrderItem
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}

	for _, item := range items {
		grouped[item.OrderID] = append(grouped[item.OrderID], item)
	}
	return grouped, nil
}
