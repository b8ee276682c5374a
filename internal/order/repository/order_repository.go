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

type MySQLOrderRepository struct {
	db *sqlx.DB
}

func NewMySQLOrderRepository(db *sqlx.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const orderColumns = `
	id, tenantId, customerId, externalId, status, paymentStatus,
	total, notes, createdAt, updatedAt`

func orderNotFound(id string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sqlx.Tx, order domain.Order) error {
	query := `
		INSERT INTO Orders (id, tenantId, customerId, externalId, status, paymentStatus, total, notes)
		VALUES (:id, :tenantId, :customerId, :externalId, :status, :paymentStatus, :total, :notes)`

	if _, err := tx.NamedExecContext(ctx, query, order); err != nil {
		if mysqlinfra.IsDuplicateEntryError(err) && order.ExternalID != nil {
			return apperrors.NewConflictError(fmt.Sprintf("order with external id %s already exists", *order.ExternalID))
		}
		return fmt.Errorf("inserting order: %w", err)
	}
	return nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, tenantID, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM Orders
		WHERE id = ? AND tenantId = ?`

	var order domain.Order
	err := r.db.GetContext(ctx, &order, query, id, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, orderNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}
	return &order, nil
}

// FindByIDForUpdate re-reads the order inside tx and holds its row lock
// until the transaction ends.
func (r *MySQLOrderRepository) FindByIDForUpdate(ctx context.Context, tx *sqlx.Tx, tenantID, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM Orders
		WHERE id = ? AND tenantId = ?
		FOR UPDATE`

	var order domain.Order
	err := tx.GetContext(ctx, &order, query, id, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, orderNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("locking order: %w", err)
	}
	return &order, nil
}

func (r *MySQLOrderRepository) FindByExternalID(ctx context.Context, tenantID, externalID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM Orders
		WHERE tenantId = ? AND externalId = ?`

	var order domain.Order
	err := r.db.GetContext(ctx, &order, query, tenantID, externalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order with external id %s not found", externalID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by external id: %w", err)
	}
	return &order, nil
}

// List returns the tenant's orders, newest first.
func (r *MySQLOrderRepository) List(ctx context.Context, tenantID string, limit, offset int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM Orders
		WHERE tenantId = ?
		ORDER BY createdAt DESC, id DESC
		LIMIT ? OFFSET ?`

	var orders []domain.Order
	if err := r.db.SelectContext(ctx, &orders, query, tenantID, limit, offset); err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return orders, nil
}

func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, tx *sqlx.Tx, tenantID, id string, status domain.OrderStatus) error {
	query := `UPDATE Orders SET status = ? WHERE id = ? AND tenantId = ?`
	return r.update(ctx, tx, query, "updating order status", id, status, id, tenantID)
}

func (r *MySQLOrderRepository) UpdatePaymentStatus(ctx context.Context, tx *sqlx.Tx, tenantID, id string, status domain.PaymentStatus) error {
	query := `UPDATE Orders SET paymentStatus = ? WHERE id = ? AND tenantId = ?`
	return r.update(ctx, tx, query, "updating payment status", id, status, id, tenantID)
}

func (r *MySQLOrderRepository) update(ctx context.Context, tx *sqlx.Tx, query, action, id string, args ...interface{}) error {
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return orderNotFound(id)
	}
	return nil
}
