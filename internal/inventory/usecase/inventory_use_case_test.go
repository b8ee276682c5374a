package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"centralvendas/internal/domain"
	"centralvendas/internal/dto"
	apperrors "centralvendas/internal/errors"
	"centralvendas/internal/inventory/service"
)

func intPtr(i int) *int {
	return &i
}

// Mock implementations
type mockProductRepository struct {
	FindByIDFunc func(ctx context.Context, tenantID, productID string) (*domain.Product, error)
}

func (m *mockProductRepository) FindByID(ctx context.Context, tenantID, productID string) (*domain.Product, error) {
	return m.FindByIDFunc(ctx, tenantID, productID)
}

type mockInventoryRepository struct {
	ListFunc         func(ctx context.Context, tenantID string) ([]domain.StockedProduct, error)
	ListLowStockFunc func(ctx context.Context, tenantID string) ([]domain.StockedProduct, error)
}

func (m *mockInventoryRepository) List(ctx context.Context, tenantID string) ([]domain.StockedProduct, error) {
	return m.ListFunc(ctx, tenantID)
}

func (m *mockInventoryRepository) ListLowStock(ctx context.Context, tenantID string) ([]domain.StockedProduct, error) {
	return m.ListLowStockFunc(ctx, tenantID)
}

type mockMovementRepository struct {
	ListByProductFunc func(ctx context.Context, tenantID, productID string, limit, offset int) ([]domain.StockMovement, error)
	LedgerFunc        func(ctx context.Context, tenantID, productID string) (*domain.LedgerReport, error)
}

func (m *mockMovementRepository) ListByProduct(ctx context.Context, tenantID, productID string, limit, offset int) ([]domain.StockMovement, error) {
	return m.ListByProductFunc(ctx, tenantID, productID, limit, offset)
}

func (m *mockMovementRepository) Ledger(ctx context.Context, tenantID, productID string) (*domain.LedgerReport, error) {
	return m.LedgerFunc(ctx, tenantID, productID)
}

type mockStockAdjuster struct {
	AdjustFunc func(ctx context.Context, adj service.Adjustment) (*service.AdjustmentResult, error)
}

func (m *mockStockAdjuster) Adjust(ctx context.Context, adj service.Adjustment) (*service.AdjustmentResult, error) {
	return m.AdjustFunc(ctx, adj)
}

func activeProduct() *mockProductRepository {
	return &mockProductRepository{
		FindByIDFunc: func(ctx context.Context, tenantID, productID string) (*domain.Product, error) {
			return &domain.Product{ID: productID, TenantID: tenantID, Name: "Caneca"}, nil
		},
	}
}

func newTestInventoryUseCase(products ProductRepository, movements MovementRepository, adjuster StockAdjuster) *InventoryUseCase {
	return NewInventoryUseCase(products, &mockInventoryRepository{}, movements, adjuster, zap.NewNop())
}

// Tests

func TestAdjustStock_ForwardsValidatedAdjustment(t *testing.T) {
	var got service.Adjustment
	adjuster := &mockStockAdjuster{
		AdjustFunc: func(ctx context.Context, adj service.Adjustment) (*service.AdjustmentResult, error) {
			got = adj
			return &service.AdjustmentResult{}, nil
		},
	}
	uc := newTestInventoryUseCase(activeProduct(), &mockMovementRepository{}, adjuster)

	_, err := uc.AdjustStock(context.Background(), "t-1", "p-1", dto.StockAdjustmentRequest{Type: "in", Quantity: intPtr(4)})
	require.NoError(t, err)

	assert.Equal(t, service.Adjustment{
		TenantID:  "t-1",
		ProductID: "p-1",
		Type:      domain.AdjustmentIn,
		Amount:    4,
		Reason:    "manual adjustment",
	}, got)
}

func TestAdjustStock_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		req   dto.StockAdjustmentRequest
		field string
	}{
		{"unknown type", dto.StockAdjustmentRequest{Type: "TRANSFER", Quantity: intPtr(1)}, "type"},
		{"in without quantity", dto.StockAdjustmentRequest{Type: "IN"}, "quantity"},
		{"out with zero", dto.StockAdjustmentRequest{Type: "OUT", Quantity: intPtr(0)}, "quantity"},
		{"adjustment without target", dto.StockAdjustmentRequest{Type: "ADJUSTMENT"}, "quantity"},
		{"negative min stock", dto.StockAdjustmentRequest{Type: "UPDATE_MIN_STOCK", MinStock: intPtr(-1)}, "minStock"},
		{"in beyond column range", dto.StockAdjustmentRequest{Type: "IN", Quantity: intPtr(math.MaxInt64)}, "quantity"},
		{"adjustment beyond column range", dto.StockAdjustmentRequest{Type: "ADJUSTMENT", Quantity: intPtr(domain.MaxStockQuantity + 1)}, "quantity"},
		{"min stock beyond column range", dto.StockAdjustmentRequest{Type: "UPDATE_MIN_STOCK", MinStock: intPtr(domain.MaxStockQuantity + 1)}, "minStock"},
		{"reason too long", dto.StockAdjustmentRequest{Type: "IN", Quantity: intPtr(1), Reason: strings.Repeat("a", 1000)}, "reason"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestInventoryUseCase(activeProduct(), &mockMovementRepository{}, &mockStockAdjuster{})

			_, err := uc.AdjustStock(context.Background(), "t-1", "p-1", tt.req)

			ve, ok := apperrors.IsValidationError(err)
			require.True(t, ok)
			require.Len(t, ve.Details, 1)
			assert.Equal(t, tt.field, ve.Details[0].Field)
		})
	}
}

func TestAdjustStock_DeletedProduct(t *testing.T) {
	deletedAt := time.Now()
	products := &mockProductRepository{
		FindByIDFunc: func(ctx context.Context, tenantID, productID string) (*domain.Product, error) {
			return &domain.Product{ID: productID, DeletedAt: &deletedAt}, nil
		},
	}
	uc := newTestInventoryUseCase(products, &mockMovementRepository{}, &mockStockAdjuster{})

	_, err := uc.AdjustStock(context.Background(), "t-1", "p-1", dto.StockAdjustmentRequest{Type: "IN", Quantity: intPtr(1)})

	nfe, ok := apperrors.IsNotFoundError(err)
	require.True(t, ok)
	assert.Equal(t, "p-1", nfe.ProductID)
}

func TestMovements_DefaultsAndBounds(t *testing.T) {
	var gotLimit int
	movements := &mockMovementRepository{
		ListByProductFunc: func(ctx context.Context, tenantID, productID string, limit, offset int) ([]domain.StockMovement, error) {
			gotLimit = limit
			return []domain.StockMovement{}, nil
		},
	}
	uc := newTestInventoryUseCase(activeProduct(), movements, &mockStockAdjuster{})

	_, limit, err := uc.Movements(context.Background(), "t-1", "p-1", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, defaultMovementLimit, limit)
	assert.Equal(t, defaultMovementLimit, gotLimit)

	_, _, err = uc.Movements(context.Background(), "t-1", "p-1", 500, -1)
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Len(t, ve.Details, 2)
}

func TestLedger_ReportsMismatch(t *testing.T) {
	movements := &mockMovementRepository{
		LedgerFunc: func(ctx context.Context, tenantID, productID string) (*domain.LedgerReport, error) {
			return &domain.LedgerReport{ProductID: productID, Quantity: 6, LedgerSum: 10, MovementCount: 2}, nil
		},
	}
	uc := newTestInventoryUseCase(activeProduct(), movements, &mockStockAdjuster{})

	report, err := uc.Ledger(context.Background(), "t-1", "p-1")
	require.NoError(t, err)
	assert.False(t, report.Consistent())
}

func TestLedger_RepositoryFailure(t *testing.T) {
	movements := &mockMovementRepository{
		LedgerFunc: func(ctx context.Context, tenantID, productID string) (*domain.LedgerReport, error) {
			return nil, errors.New("db down")
		},
	}
	uc := newTestInventoryUseCase(activeProduct(), movements, &mockStockAdjuster{})

	_, err := uc.Ledger(context.Background(), "t-1", "p-1")
	assert.EqualError(t, err, "db down")
}
