package integration

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"centralvendas/internal/config"
	"centralvendas/internal/integration/controller"
	"centralvendas/internal/integration/repository"
	"centralvendas/internal/integration/service"
	productrepo "centralvendas/internal/product/repository"
)

func NewModule(db *sqlx.DB, cfg config.ShopeeConfig, customers service.CustomerRepository, orders service.OrderUseCase, logger *zap.Logger) *controller.WebhookController {
	receiver := service.NewReceiver(
		repository.NewMySQLConnectionRepository(db),
		repository.NewMySQLLogRepository(db),
		productrepo.NewMySQLProductRepository(db),
		customers,
		orders,
		logger,
	)
	return controller.NewWebhookController(receiver, cfg.PartnerKey, cfg.CallbackURL, logger)
}
