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

type MySQLCustomerRepository struct {
	db *sqlx.DB
}

func NewMySQLCustomerRepository(db *sqlx.DB) *MySQLCustomerRepository {
	return &MySQLCustomerRepository{db: db}
}

func (r *MySQLCustomerRepository) Exists(ctx context.Context, tenantID, id string) (bool, error) {
	query := `SELECT COUNT(*) FROM Customer WHERE id = ? AND tenantId = ?`

	var count int
	if err := r.db.GetContext(ctx, &count, query, id, tenantID); err != nil {
		return false, fmt.Errorf("checking customer: %w", err)
	}
	return count > 0, nil
}

func (r *MySQLCustomerRepository) FindByEmail(ctx context.Context, tenantID, email string) (*domain.Customer, error) {
	query := `
		SELECT id, tenantId, name, email, phone, createdAt
		FROM Customer
		WHERE tenantId = ? AND email = ?
		LIMIT 1`

	var customer domain.Customer
	err := r.db.GetContext(ctx, &customer, query, tenantID, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("customer %s not found", email))
	}
	if err != nil {
		return nil, fmt.Errorf("querying customer by email: %w", err)
	}
	return &customer, nil
}

func (r *MySQLCustomerRepository) Insert(ctx context.Context, customer domain.Customer) error {
	query := `
		INSERT INTO Customer (id, tenantId, name, email, phone)
		VALUES (:id, :tenantId, :name, :email, :phone)`

	if _, err := r.db.NamedExecContext(ctx, query, customer); err != nil {
		return fmt.Errorf("inserting customer: %w", err)
	}
	return nil
}
