package order

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"centralvendas/internal/infrastructure/metrics"
	"centralvendas/internal/infrastructure/mysql"
	inventoryrepo "centralvendas/internal/inventory/repository"
	"centralvendas/internal/order/controller"
	orderrepo "centralvendas/internal/order/repository"
	"centralvendas/internal/order/service"
	"centralvendas/internal/order/usecase"
	productrepo "centralvendas/internal/product/repository"
)

type Module struct {
	UseCase    *usecase.OrderUseCase
	Customers  *orderrepo.MySQLCustomerRepository
	Controller *controller.OrderController
}

func NewModule(db *sqlx.DB, tx *mysql.TxManager, quotas usecase.QuotaChecker, recorder *metrics.Recorder, logger *zap.Logger) *Module {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	orderItemRepo := orderrepo.NewMySQLOrderItemRepository(db)
	customerRepo := orderrepo.NewMySQLCustomerRepository(db)
	inventoryRepo := inventoryrepo.NewMySQLInventoryRepository(db)
	movementRepo := inventoryrepo.NewMySQLMovementRepository(db)

	fulfillment := service.NewFulfillmentService(tx, orderRepo, orderItemRepo, inventoryRepo, movementRepo, recorder, logger)
	status := service.NewStatusService(tx, orderRepo, orderItemRepo, inventoryRepo, movementRepo, recorder, logger)

	uc := usecase.NewOrderUseCase(
		orderRepo,
		orderItemRepo,
		productrepo.NewMySQLProductRepository(db),
		customerRepo,
		quotas,
		fulfillment,
		status,
		logger,
	)

	return &Module{
		UseCase:    uc,
		Customers:  customerRepo,
		Controller: controller.NewOrderController(uc, logger),
	}
}
