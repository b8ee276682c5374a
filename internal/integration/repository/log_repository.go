package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"centralvendas/internal/domain"
)

type MySQLLogRepository struct {
	db *sqlx.DB
}

func NewMySQLLogRepository(db *sqlx.DB) *MySQLLogRepository {
	return &MySQLLogRepository{db: db}
}

func (r *MySQLLogRepository) Insert(ctx context.Context, entry domain.IntegrationLog) error {
	query := `
		INSERT INTO IntegrationLog (id, tenantId, platform, action, status, details)
		VALUES (:id, :tenantId, :platform, :action, :status, :details)`

	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("inserting integration log: %w", err)
	}
	return nil
}
