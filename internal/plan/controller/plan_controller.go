package controller

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"centralvendas/internal/auth"
	"centralvendas/internal/dto"
	"centralvendas/internal/httpx"
	"centralvendas/internal/infrastructure/logger"
	"centralvendas/internal/plan/service"
)

type UsageReader interface {
	Usage(ctx context.Context, tenantID string) (*service.UsageReport, error)
}

type PlanController struct {
	quotas UsageReader
	logger *zap.Logger
}

func NewPlanController(quotas UsageReader, logger *zap.Logger) *PlanController {
	return &PlanController{quotas: quotas, logger: logger}
}

func (c *PlanController) Usage(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r)
	log := logger.FromContext(r.Context(), c.logger)

	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	report, err := c.quotas.Usage(r.Context(), principal.TenantID)
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	response := dto.PlanUsageResponse{TraceID: traceID, Usage: make([]dto.QuotaUsageDTO, len(report.Usage))}
	if report.Plan != nil {
		response.PlanID = &report.Plan.ID
		response.Plan = &report.Plan.Name
	}
	for i, u := range report.Usage {
		response.Usage[i] = dto.QuotaUsageDTO{
			Resource:  string(u.Resource),
			Current:   u.Current,
			Max:       u.Max,
			Exhausted: u.Exhausted(),
		}
	}

	httpx.WriteJSON(w, http.StatusOK, response, log)
}
