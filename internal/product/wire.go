package product

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"centralvendas/internal/infrastructure/metrics"
	"centralvendas/internal/infrastructure/mysql"
	inventoryrepo "centralvendas/internal/inventory/repository"
	"centralvendas/internal/product/controller"
	"centralvendas/internal/product/repository"
	"centralvendas/internal/product/service"
	"centralvendas/internal/product/usecase"
)

func NewModule(db *sqlx.DB, tx *mysql.TxManager, quotas usecase.QuotaChecker, recorder *metrics.Recorder, logger *zap.Logger) *controller.Controller {
	repo := repository.NewMySQLProductRepository(db)
	svc := service.NewProductService(
		tx,
		repo,
		inventoryrepo.NewMySQLInventoryRepository(db),
		inventoryrepo.NewMySQLMovementRepository(db),
		recorder,
		logger,
	)
	uc := usecase.NewProductUseCase(repo, svc, quotas, logger)
	return controller.NewController(uc, logger)
}
