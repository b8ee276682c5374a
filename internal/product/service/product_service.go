package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"centralvendas/internal/domain"
	"centralvendas/internal/infrastructure/metrics"
)

const initialRegistrationReason = "initial registration"

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error
}

type ProductRepository interface {
	Insert(ctx context.Context, tx *sqlx.Tx, p domain.Product) error
	FindStockedByIDs(ctx context.Context, tenantID string, ids []string) ([]domain.StockedProduct, error)
}

type InventoryRepository interface {
	Insert(ctx context.Context, tx *sqlx.Tx, inv domain.Inventory) error
}

type MovementRepository interface {
	Insert(ctx context.Context, tx *sqlx.Tx, m domain.StockMovement) error
}

type ProductService struct {
	tx            TxRunner
	productRepo   ProductRepository
	inventoryRepo InventoryRepository
	movementRepo  MovementRepository
	metrics       *metrics.Recorder
	logger        *zap.Logger
}

func NewProductService(
	tx TxRunner,
	productRepo ProductRepository,
	inventoryRepo InventoryRepository,
	movementRepo MovementRepository,
	recorder *metrics.Recorder,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		tx:            tx,
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		movementRepo:  movementRepo,
		metrics:       recorder,
		logger:        logger,
	}
}

// Create registers the product with an empty inventory row and the first
// ledger entry, a zero ADJUSTMENT, in one transaction.
func (s *ProductService) Create(ctx context.Context, p domain.Product, minStock int) (*domain.StockedProduct, error) {
	p.ID = uuid.NewString()

	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.productRepo.Insert(ctx, tx, p); err != nil {
			return err
		}

		if err := s.inventoryRepo.Insert(ctx, tx, domain.Inventory{
			ID:        uuid.NewString(),
			TenantID:  p.TenantID,
			ProductID: p.ID,
			Quantity:  0,
			MinStock:  minStock,
		}); err != nil {
			return err
		}

		return s.movementRepo.Insert(ctx, tx, domain.StockMovement{
			ID:        uuid.NewString(),
			TenantID:  p.TenantID,
			ProductID: p.ID,
			Quantity:  0,
			Type:      domain.MovementAdjustment,
			Reason:    initialRegistrationReason,
		})
	})
	if err != nil {
		s.logger.Error("failed to create product", zap.String("tenantId", p.TenantID), zap.Error(err))
		return nil, err
	}

	s.metrics.StockMovement(string(domain.MovementAdjustment))
	s.logger.Info("product created", zap.String("tenantId", p.TenantID), zap.String("productId", p.ID))

	return &domain.StockedProduct{Product: p, Quantity: 0, MinStock: minStock}, nil
}

// GetByIDs splits ids into live tenant products and ids that did not resolve.
func (s *ProductService) GetByIDs(ctx context.Context, tenantID string, ids []string) ([]domain.StockedProduct, []string, error) {
	found, err := s.productRepo.FindStockedByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, nil, err
	}

	foundSet := make(map[string]struct{}, len(found))
	for _, p := range found {
		foundSet[p.ID] = struct{}{}
	}

	var notFoundIDs []string
	for _, id := range ids {
		if _, ok := foundSet[id]; !ok {
			notFoundIDs = append(notFoundIDs, id)
		}
	}

	return found, notFoundIDs, nil
}
