package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"centralvendas/internal/domain"
	apperrors "centralvendas/internal/errors"
	"centralvendas/internal/infrastructure/metrics"
)

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error
}

type InventoryRepository interface {
	Ensure(ctx context.Context, tx *sqlx.Tx, id, tenantID, productID string) error
	FindByProductForUpdate(ctx context.Context, tx *sqlx.Tx, tenantID, productID string) (*domain.Inventory, error)
	SetQuantity(ctx context.Context, tx *sqlx.Tx, tenantID, productID string, quantity int) error
	UpdateMinStock(ctx context.Context, tx *sqlx.Tx, tenantID, productID string, minStock int) error
}

type MovementRepository interface {
	Insert(ctx context.Context, tx *sqlx.Tx, m domain.StockMovement) error
}

// Adjustment is a manual stock change. Amount is the delta for IN and OUT,
// the target quantity for ADJUSTMENT and the threshold for UPDATE_MIN_STOCK.
type Adjustment struct {
	TenantID  string
	ProductID string
	Type      domain.AdjustmentType
	Amount    int
	Reason    string
}

type AdjustmentResult struct {
	Inventory domain.Inventory
	// Movement is nil for UPDATE_MIN_STOCK.
	Movement *domain.StockMovement
}

type AdjustmentService struct {
	tx            TxRunner
	inventoryRepo InventoryRepository
	movementRepo  MovementRepository
	metrics       *metrics.Recorder
	logger        *zap.Logger
}

func NewAdjustmentService(
	tx TxRunner,
	inventoryRepo InventoryRepository,
	movementRepo MovementRepository,
	recorder *metrics.Recorder,
	logger *zap.Logger,
) *AdjustmentService {
	return &AdjustmentService{
		tx:            tx,
		inventoryRepo: inventoryRepo,
		movementRepo:  movementRepo,
		metrics:       recorder,
		logger:        logger,
	}
}

// Adjust locks the inventory row, applies the change and appends the ledger
// row in one transaction.
func (s *AdjustmentService) Adjust(ctx context.Context, adj Adjustment) (*AdjustmentResult, error) {
	var result AdjustmentResult

	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.inventoryRepo.Ensure(ctx, tx, uuid.NewString(), adj.TenantID, adj.ProductID); err != nil {
			return err
		}

		inv, err := s.inventoryRepo.FindByProductForUpdate(ctx, tx, adj.TenantID, adj.ProductID)
		if err != nil {
			return err
		}

		if adj.Type == domain.AdjustmentUpdateMinStock {
			if err := s.inventoryRepo.UpdateMinStock(ctx, tx, adj.TenantID, adj.ProductID, adj.Amount); err != nil {
				return err
			}
			inv.MinStock = adj.Amount
			result.Inventory = *inv
			return nil
		}

		newQuantity, delta, err := domain.ApplyAdjustment(inv.Quantity, adj.Type, adj.Amount)
		switch {
		case errors.Is(err, domain.ErrStockOverflow):
			return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "quantity",
				Message: fmt.Sprintf("resulting stock exceeds the maximum of %d", domain.MaxStockQuantity),
			})
		case errors.Is(err, domain.ErrNotQuantityChange):
			return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "type",
				Message: fmt.Sprintf("type %s does not change quantity", adj.Type),
			})
		case err != nil:
			return apperrors.NewNegativeStockError(adj.ProductID, inv.Quantity, attemptedQuantity(inv.Quantity, adj))
		}

		if err := s.inventoryRepo.SetQuantity(ctx, tx, adj.TenantID, adj.ProductID, newQuantity); err != nil {
			return err
		}

		movement := domain.StockMovement{
			ID:        uuid.NewString(),
			TenantID:  adj.TenantID,
			ProductID: adj.ProductID,
			Quantity:  delta,
			Type:      adj.Type.MovementType(),
			Reason:    adj.Reason,
		}
		if err := s.movementRepo.Insert(ctx, tx, movement); err != nil {
			return err
		}

		inv.Quantity = newQuantity
		result.Inventory = *inv
		result.Movement = &movement
		return nil
	})
	if err != nil {
		s.metrics.RejectedError(err)
		s.logger.Warn("stock adjustment rejected",
			zap.String("tenantId", adj.TenantID),
			zap.String("productId", adj.ProductID),
			zap.String("type", string(adj.Type)),
			zap.Error(err))
		return nil, err
	}

	if result.Movement != nil {
		s.metrics.StockMovement(string(result.Movement.Type))
	}
	s.logger.Info("stock adjusted",
		zap.String("tenantId", adj.TenantID),
		zap.String("productId", adj.ProductID),
		zap.String("type", string(adj.Type)),
		zap.Int("quantity", result.Inventory.Quantity),
		zap.Int("minStock", result.Inventory.MinStock))

	return &result, nil
}

func attemptedQuantity(current int, adj Adjustment) int {
	if adj.Type == domain.AdjustmentOut {
		return current - adj.Amount
	}
	return adj.Amount
}
