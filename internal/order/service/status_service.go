package service

import (
	"context"
	"sort"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"centralvendas/internal/domain"
	"centralvendas/internal/infrastructure/metrics"
)

type StatusService struct {
	tx            TxRunner
	orderRepo     OrderRepository
	orderItemRepo OrderItemRepository
	inventoryRepo InventoryRepository
	movementRepo  MovementRepository
	metrics       *metrics.Recorder
	logger        *zap.Logger
}

func NewStatusService(
	tx TxRunner,
	orderRepo OrderRepository,
	orderItemRepo OrderItemRepository,
	inventoryRepo InventoryRepository,
	movementRepo MovementRepository,
	recorder *metrics.Recorder,
	logger *zap.Logger,
) *StatusService {
	return &StatusService{
		tx:            tx,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		inventoryRepo: inventoryRepo,
		movementRepo:  movementRepo,
		metrics:       recorder,
		logger:        logger,
	}
}

// ChangeStatus moves the order to status and applies the stock compensation
// derived from the locked current status. Setting the current status again
// changes nothing.
func (s *StatusService) ChangeStatus(ctx context.Context, tenantID, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	var (
		order     *domain.Order
		from      domain.OrderStatus
		movements []domain.MovementType
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var err error
		order, err = s.orderRepo.FindByIDForUpdate(ctx, tx, tenantID, orderID)
		if err != nil {
			return err
		}
		from = order.Status

		items, err := s.orderItemRepo.FindByOrderID(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		sort.Slice(items, func(i, j int) bool {
			return items[i].ProductID < items[j].ProductID
		})
		order.Items = items

		if from == status {
			return nil
		}

		switch domain.CompensationFor(from, status) {
		case domain.CompensationRestock:
			for _, item := range items {
				if err := s.inventoryRepo.Increment(ctx, tx, tenantID, item.ProductID, item.Quantity); err != nil {
					return err
				}
				if err := s.movementRepo.Insert(ctx, tx, movement(*order, item, item.Quantity, domain.MovementReturn, reasonCanceled)); err != nil {
					return err
				}
				movements = append(movements, domain.MovementReturn)
			}
		case domain.CompensationReserve:
			for _, item := range items {
				if err := takeStock(ctx, tx, s.inventoryRepo, s.movementRepo, *order, item, reasonReactivated); err != nil {
					return err
				}
				movements = append(movements, domain.MovementSale)
			}
		}

		if err := s.orderRepo.UpdateStatus(ctx, tx, tenantID, order.ID, status); err != nil {
			return err
		}
		order.Status = status
		return nil
	})
	if err != nil {
		s.metrics.RejectedError(err)
		s.logger.Warn("order status change rejected",
			zap.String("tenantId", tenantID),
			zap.String("orderId", orderID),
			zap.String("status", string(status)),
			zap.Error(err))
		return nil, err
	}

	for _, m := range movements {
		s.metrics.StockMovement(string(m))
	}
	if from != status {
		s.logger.Info("order status changed",
			zap.String("tenantId", tenantID),
			zap.String("orderId", orderID),
			zap.String("from", string(from)),
			zap.String("to", string(status)),
			zap.Int("movements", len(movements)))
	}

	return order, nil
}

func (s *StatusService) ChangePaymentStatus(ctx context.Context, tenantID, orderID string, status domain.PaymentStatus) (*domain.Order, error) {
	var order *domain.Order

	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var err error
		order, err = s.orderRepo.FindByIDForUpdate(ctx, tx, tenantID, orderID)
		if err != nil {
			return err
		}

		items, err := s.orderItemRepo.FindByOrderID(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		order.Items = items

		if order.PaymentStatus == status {
			return nil
		}
		if err := s.orderRepo.UpdatePaymentStatus(ctx, tx, tenantID, order.ID, status); err != nil {
			return err
		}
		order.PaymentStatus = status
		return nil
	})
	if err != nil {
		s.metrics.RejectedError(err)
		return nil, err
	}

	s.logger.Info("payment status updated",
		zap.String("tenantId", tenantID),
		zap.String("orderId", orderID),
		zap.String("paymentStatus", string(status)))

	return order, nil
}
