package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"centralvendas/internal/domain"
	"centralvendas/internal/dto"
	apperrors "centralvendas/internal/errors"
	"centralvendas/internal/inventory/service"
)

const (
	defaultReason        = "manual adjustment"
	maxReasonLength      = 255
	defaultMovementLimit = 50
	maxMovementLimit     = 200
)

type ProductRepository interface {
	FindByID(ctx context.Context, tenantID, productID string) (*domain.Product, error)
}

type InventoryRepository interface {
	List(ctx context.Context, tenantID string) ([]domain.StockedProduct, error)
	ListLowStock(ctx context.Context, tenantID string) ([]domain.StockedProduct, error)
}

type MovementRepository interface {
	ListByProduct(ctx context.Context, tenantID, productID string, limit, offset int) ([]domain.StockMovement, error)
	Ledger(ctx context.Context, tenantID, productID string) (*domain.LedgerReport, error)
}

type StockAdjuster interface {
	Adjust(ctx context.Context, adj service.Adjustment) (*service.AdjustmentResult, error)
}

type InventoryUseCase struct {
	productRepo   ProductRepository
	inventoryRepo InventoryRepository
	movementRepo  MovementRepository
	adjuster      StockAdjuster
	logger        *zap.Logger
}

func NewInventoryUseCase(
	productRepo ProductRepository,
	inventoryRepo InventoryRepository,
	movementRepo MovementRepository,
	adjuster StockAdjuster,
	logger *zap.Logger,
) *InventoryUseCase {
	return &InventoryUseCase{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		movementRepo:  movementRepo,
		adjuster:      adjuster,
		logger:        logger,
	}
}

func (uc *InventoryUseCase) AdjustStock(ctx context.Context, tenantID, productID string, req dto.StockAdjustmentRequest) (*service.AdjustmentResult, error) {
	adj, err := validateAdjustmentRequest(req)
	if err != nil {
		return nil, err
	}
	adj.TenantID = tenantID
	adj.ProductID = productID

	if err := uc.requireActiveProduct(ctx, tenantID, productID); err != nil {
		return nil, err
	}

	return uc.adjuster.Adjust(ctx, adj)
}

func (uc *InventoryUseCase) List(ctx context.Context, tenantID string) ([]domain.StockedProduct, error) {
	return uc.inventoryRepo.List(ctx, tenantID)
}

func (uc *InventoryUseCase) ListLowStock(ctx context.Context, tenantID string) ([]domain.StockedProduct, error) {
	return uc.inventoryRepo.ListLowStock(ctx, tenantID)
}

// Movements returns one page of the product's ledger, newest first. A zero
// limit selects the default page size.
func (uc *InventoryUseCase) Movements(ctx context.Context, tenantID, productID string, limit, offset int) ([]domain.StockMovement, int, error) {
	var details []apperrors.ValidationDetail
	if limit < 0 || limit > maxMovementLimit {
		details = append(details, apperrors.ValidationDetail{Field: "limit", Message: "limit must be between 1 and 200"})
	}
	if offset < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "offset", Message: "offset must be non-negative"})
	}
	if len(details) > 0 {
		return nil, 0, apperrors.NewValidationError("validation failed", details...)
	}
	if limit == 0 {
		limit = defaultMovementLimit
	}

	if err := uc.requireActiveProduct(ctx, tenantID, productID); err != nil {
		return nil, 0, err
	}

	movements, err := uc.movementRepo.ListByProduct(ctx, tenantID, productID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return movements, limit, nil
}

// Ledger compares the stored quantity with the sum of the product's movements.
func (uc *InventoryUseCase) Ledger(ctx context.Context, tenantID, productID string) (*domain.LedgerReport, error) {
	if err := uc.requireActiveProduct(ctx, tenantID, productID); err != nil {
		return nil, err
	}

	report, err := uc.movementRepo.Ledger(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if !report.Consistent() {
		uc.logger.Error("stock ledger mismatch",
			zap.String("tenantId", tenantID),
			zap.String("productId", productID),
			zap.Int("quantity", report.Quantity),
			zap.Int("ledgerSum", report.LedgerSum))
	}
	return report, nil
}

func (uc *InventoryUseCase) requireActiveProduct(ctx context.Context, tenantID, productID string) error {
	product, err := uc.productRepo.FindByID(ctx, tenantID, productID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return apperrors.NewProductNotFoundError(productID)
		}
		return err
	}
	if product.IsDeleted() {
		return apperrors.NewProductNotFoundError(productID)
	}
	return nil
}

func validateAdjustmentRequest(req dto.StockAdjustmentRequest) (service.Adjustment, error) {
	var details []apperrors.ValidationDetail

	adjType := domain.AdjustmentType(strings.ToUpper(strings.TrimSpace(req.Type)))
	adj := service.Adjustment{Type: adjType, Reason: strings.TrimSpace(req.Reason)}
	if adj.Reason == "" {
		adj.Reason = defaultReason
	}
	if utf8.RuneCountInString(adj.Reason) > maxReasonLength {
		details = append(details, apperrors.ValidationDetail{Field: "reason", Message: fmt.Sprintf("reason exceeds maximum length of %d", maxReasonLength)})
	}

	if !adjType.Valid() {
		details = append(details, apperrors.ValidationDetail{Field: "type", Message: "type must be one of IN, OUT, ADJUSTMENT, UPDATE_MIN_STOCK"})
		return service.Adjustment{}, apperrors.NewValidationError("validation failed", details...)
	}

	switch adjType {
	case domain.AdjustmentIn, domain.AdjustmentOut:
		if req.Quantity == nil || *req.Quantity < 1 || *req.Quantity > domain.MaxStockQuantity {
			details = append(details, apperrors.ValidationDetail{Field: "quantity", Message: fmt.Sprintf("quantity must be between 1 and %d", domain.MaxStockQuantity)})
		} else {
			adj.Amount = *req.Quantity
		}
	case domain.AdjustmentSet:
		if req.Quantity == nil {
			details = append(details, apperrors.ValidationDetail{Field: "quantity", Message: "quantity is required"})
		} else if *req.Quantity > domain.MaxStockQuantity {
			details = append(details, apperrors.ValidationDetail{Field: "quantity", Message: fmt.Sprintf("quantity must not exceed %d", domain.MaxStockQuantity)})
		} else {
			adj.Amount = *req.Quantity
		}
	case domain.AdjustmentUpdateMinStock:
		if req.MinStock == nil || *req.MinStock < 0 || *req.MinStock > domain.MaxStockQuantity {
			details = append(details, apperrors.ValidationDetail{Field: "minStock", Message: fmt.Sprintf("minStock must be between 0 and %d", domain.MaxStockQuantity)})
		} else {
			adj.Amount = *req.MinStock
		}
	}

	if len(details) > 0 {
		return service.Adjustment{}, apperrors.NewValidationError("validation failed", details...)
	}
	return adj, nil
}
