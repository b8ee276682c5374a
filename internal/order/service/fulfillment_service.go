package service

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"centralvendas/internal/domain"
	apperrors "centralvendas/internal/errors"
	"centralvendas/internal/infrastructure/metrics"
)

const (
	reasonSale        = "sale completed"
	reasonCanceled    = "order canceled"
	reasonReactivated = "order reactivated"
)

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error
}

type OrderRepository interface {
	Insert(ctx context.Context, tx *sqlx.Tx, order domain.Order) error
	FindByIDForUpdate(ctx context.Context, tx *sqlx.Tx, tenantID, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, tx *sqlx.Tx, tenantID, id string, status domain.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, tx *sqlx.Tx, tenantID, id string, status domain.PaymentStatus) error
}

type OrderItemRepository interface {
	Insert(ctx context.Context, tx *sqlx.Tx, item domain.OrderItem) error
	FindByOrderID(ctx context.Context, tx *sqlx.Tx, orderID string) ([]domain.OrderItem, error)
}

type InventoryRepository interface {
	FindByProductForUpdate(ctx context.Context, tx *sqlx.Tx, tenantID, productID string) (*domain.Inventory, error)
	DecrementIfAvailable(ctx context.Context, tx *sqlx.Tx, tenantID, productID string, quantity int) (bool, error)
	Increment(ctx context.Context, tx *sqlx.Tx, tenantID, productID string, quantity int) error
}

type MovementRepository interface {
	Insert(ctx context.Context, tx *sqlx.Tx, m domain.StockMovement) error
}

// Line is one requested product, already loaded and checked by the caller.
type Line struct {
	Product  domain.StockedProduct
	Quantity int
}

type NewOrder struct {
	TenantID      string
	CustomerID    *string
	ExternalID    *string
	Status        domain.OrderStatus
	PaymentStatus domain.PaymentStatus
	Notes         *string
	// Source labels the created-orders metric ("api", "shopee").
	Source string
	Lines  []Line
}

type FulfillmentService struct {
	tx            TxRunner
	orderRepo     OrderRepository
	orderItemRepo OrderItemRepository
	inventoryRepo InventoryRepository
	movementRepo  MovementRepository
	metrics       *metrics.Recorder
	logger        *zap.Logger
}

func NewFulfillmentService(
	tx TxRunner,
	orderRepo OrderRepository,
	orderItemRepo OrderItemRepository,
	inventoryRepo InventoryRepository,
	movementRepo MovementRepository,
	recorder *metrics.Recorder,
	logger *zap.Logger,
) *FulfillmentService {
	return &FulfillmentService{
		tx:            tx,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		inventoryRepo: inventoryRepo,
		movementRepo:  movementRepo,
		metrics:       recorder,
		logger:        logger,
	}
}

// CreateOrder writes the order, its items, the stock decrements and the SALE
// ledger rows in one transaction. Nothing is kept when any line fails. An
// order created as CANCELED takes no stock and writes no ledger rows.
func (s *FulfillmentService) CreateOrder(ctx context.Context, req NewOrder) (*domain.Order, error) {
	lines := append([]Line(nil), req.Lines...)
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].Product.ID < lines[j].Product.ID
	})

	order := domain.Order{
		ID:            uuid.NewString(),
		TenantID:      req.TenantID,
		CustomerID:    req.CustomerID,
		ExternalID:    req.ExternalID,
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
		Notes:         req.Notes,
		Items:         make([]domain.OrderItem, 0, len(lines)),
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = domain.PaymentStatusPending
	}
	for _, line := range lines {
		item := domain.NewOrderItem(line.Product.Product, line.Quantity)
		item.ID = uuid.NewString()
		item.OrderID = order.ID
		order.Items = append(order.Items, item)
	}
	order.Total = domain.SumSubtotals(order.Items)

	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.orderRepo.Insert(ctx, tx, order); err != nil {
			return err
		}

		for _, item := range order.Items {
			if err := s.orderItemRepo.Insert(ctx, tx, item); err != nil {
				return err
			}
			if !order.Status.HoldsStock() {
				continue
			}
			if err := takeStock(ctx, tx, s.inventoryRepo, s.movementRepo, order, item, reasonSale); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.metrics.RejectedError(err)
		s.logger.Warn("order creation rejected",
			zap.String("tenantId", req.TenantID),
			zap.Int("lines", len(lines)),
			zap.Error(err))
		return nil, err
	}

	s.metrics.OrderCreated(req.Source)
	if order.Status.HoldsStock() {
		for range order.Items {
			s.metrics.StockMovement(string(domain.MovementSale))
		}
	}
	s.logger.Info("order created",
		zap.String("tenantId", order.TenantID),
		zap.String("orderId", order.ID),
		zap.String("total", order.Total.StringFixed(2)),
		zap.Int("items", len(order.Items)))

	return &order, nil
}

// takeStock runs the conditional decrement for one item and appends its SALE
// row. A decrement that matches no row fails with InsufficientStockError.
func takeStock(
	ctx context.Context,
	tx *sqlx.Tx,
	inventoryRepo InventoryRepository,
	movementRepo MovementRepository,
	order domain.Order,
	item domain.OrderItem,
	reason string,
) error {
	ok, err := inventoryRepo.DecrementIfAvailable(ctx, tx, order.TenantID, item.ProductID, item.Quantity)
	if err != nil {
		return err
	}
	if !ok {
		available := 0
		inv, err := inventoryRepo.FindByProductForUpdate(ctx, tx, order.TenantID, item.ProductID)
		if err == nil {
			available = inv.Quantity
		} else if _, notFound := apperrors.IsNotFoundError(err); !notFound {
			return err
		}
		return apperrors.NewInsufficientStockError(item.ProductID, item.ProductName, item.Quantity, available)
	}

	return movementRepo.Insert(ctx, tx, movement(order, item, -item.Quantity, domain.MovementSale, reason))
}

func movement(order domain.Order, item domain.OrderItem, delta int, movementType domain.MovementType, reason string) domain.StockMovement {
	orderID := order.ID
	return domain.StockMovement{
		ID:          uuid.NewString(),
		TenantID:    order.TenantID,
		ProductID:   item.ProductID,
		Quantity:    delta,
		Type:        movementType,
		Reason:      reason,
		ReferenceID: &orderID,
	}
}
