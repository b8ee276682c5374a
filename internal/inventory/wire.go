package inventory

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"centralvendas/internal/infrastructure/metrics"
	"centralvendas/internal/infrastructure/mysql"
	"centralvendas/internal/inventory/controller"
	"centralvendas/internal/inventory/repository"
	"centralvendas/internal/inventory/service"
	"centralvendas/internal/inventory/usecase"
	productrepo "centralvendas/internal/product/repository"
)

func NewModule(db *sqlx.DB, tx *mysql.TxManager, recorder *metrics.Recorder, logger *zap.Logger) *controller.InventoryController {
	inventoryRepo := repository.NewMySQLInventoryRepository(db)
	movementRepo := repository.NewMySQLMovementRepository(db)
	productRepo := productrepo.NewMySQLProductRepository(db)

	adjustmentSvc := service.NewAdjustmentService(tx, inventoryRepo, movementRepo, recorder, logger)
	uc := usecase.NewInventoryUseCase(productRepo, inventoryRepo, movementRepo, adjustmentSvc, logger)

	return controller.NewInventoryController(uc, logger)
}
