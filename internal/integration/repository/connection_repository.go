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

type MySQLConnectionRepository struct {
	db *sqlx.DB
}

func NewMySQLConnectionRepository(db *sqlx.DB) *MySQLConnectionRepository {
	return &MySQLConnectionRepository{db: db}
}

// FindByAccount resolves a marketplace shop to the tenant that connected it.
func (r *MySQLConnectionRepository) FindByAccount(ctx context.Context, platform, accountID string) (*domain.TenantConnection, error) {
	query := `
		SELECT id, tenantId, platform, accountId, accessToken
		FROM TenantConnection
		WHERE platform = ? AND accountId = ?`

	var conn domain.TenantConnection
	err := r.db.GetContext(ctx, &conn, query, platform, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("connection for %s account %s not found", platform, accountID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying tenant connection: %w", err)
	}
	return &conn, nil
}
