package plan

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"centralvendas/internal/plan/controller"
	"centralvendas/internal/plan/repository"
	"centralvendas/internal/plan/service"
)

type Module struct {
	Quotas     *service.QuotaService
	Controller *controller.PlanController
}

// NewModule builds the quota service shared by the order and product modules.
func NewModule(db *sqlx.DB, logger *zap.Logger) *Module {
	quotas := service.NewQuotaService(repository.NewMySQLPlanRepository(db), logger)
	return &Module{
		Quotas:     quotas,
		Controller: controller.NewPlanController(quotas, logger),
	}
}
