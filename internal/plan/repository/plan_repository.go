package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"centralvendas/internal/domain"
	apperrors "centralvendas/internal/errors"
)

type MySQLPlanRepository struct {
	db *sqlx.DB
}

func NewMySQLPlanRepository(db *sqlx.DB) *MySQLPlanRepository {
	return &MySQLPlanRepository{db: db}
}

func (r *MySQLPlanRepository) FindTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	query := `SELECT id, name, planId FROM Tenant WHERE id = ?`

	var tenant domain.Tenant
	err := r.db.GetContext(ctx, &tenant, query, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("tenant %s not found", tenantID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying tenant: %w", err)
	}
	return &tenant, nil
}

// FindPlanForTenant returns the tenant's plan, or nil when none is attached.
func (r *MySQLPlanRepository) FindPlanForTenant(ctx context.Context, tenantID string) (*domain.Plan, error) {
	tenant, err := r.FindTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant.PlanID == nil {
		return nil, nil
	}

	query := `SELECT id, name, maxProducts, maxOrders, maxUsers FROM Plan WHERE id = ?`

	var plan domain.Plan
	err = r.db.GetContext(ctx, &plan, query, *tenant.PlanID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("plan %s not found", *tenant.PlanID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying plan: %w", err)
	}
	return &plan, nil
}

func (r *MySQLPlanRepository) CountActiveProducts(ctx context.Context, tenantID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM Product WHERE tenantId = ? AND deletedAt IS NULL`, tenantID)
}

func (r *MySQLPlanRepository) CountOrdersSince(ctx context.Context, tenantID string, since time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM Orders WHERE tenantId = ? AND createdAt >= ?`, tenantID, since)
}

func (r *MySQLPlanRepository) CountUsers(ctx context.Context, tenantID string) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM `User` WHERE tenantId = ?", tenantID)
}

func (r *MySQLPlanRepository) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("counting usage: %w", err)
	}
	return n, nil
}
