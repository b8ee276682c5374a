package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"centralvendas/internal/domain"
	apperrors "centralvendas/internal/errors"
)

type PlanRepository interface {
	FindPlanForTenant(ctx context.Context, tenantID string) (*domain.Plan, error)
	CountActiveProducts(ctx context.Context, tenantID string) (int, error)
	CountOrdersSince(ctx context.Context, tenantID string, since time.Time) (int, error)
	CountUsers(ctx context.Context, tenantID string) (int, error)
}

type UsageReport struct {
	// Plan is nil for tenants without a plan; their usage is unlimited.
	Plan  *domain.Plan
	Usage []domain.QuotaUsage
}

type QuotaService struct {
	repo   PlanRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewQuotaService(repo PlanRepository, logger *zap.Logger) *QuotaService {
	return &QuotaService{repo: repo, logger: logger, now: time.Now}
}

// Check returns QuotaExceededError when the tenant already uses every unit
// of resource its plan allows. It writes nothing.
func (s *QuotaService) Check(ctx context.Context, tenantID string, resource domain.QuotaResource) error {
	plan, err := s.repo.FindPlanForTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	if plan == nil {
		return nil
	}

	usage, err := s.usage(ctx, tenantID, plan, resource)
	if err != nil {
		return err
	}

	if usage.Exhausted() {
		s.logger.Warn("plan quota exhausted",
			zap.String("tenantId", tenantID),
			zap.String("resource", string(resource)),
			zap.Int("current", usage.Current),
			zap.Int("max", *usage.Max))
		return apperrors.NewQuotaExceededError(resource, usage.Current, *usage.Max)
	}
	return nil
}

func (s *QuotaService) Usage(ctx context.Context, tenantID string) (*UsageReport, error) {
	plan, err := s.repo.FindPlanForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	report := &UsageReport{Plan: plan}
	for _, resource := range []domain.QuotaResource{domain.QuotaProducts, domain.QuotaOrders, domain.QuotaUsers} {
		usage, err := s.usage(ctx, tenantID, plan, resource)
		if err != nil {
			return nil, err
		}
		report.Usage = append(report.Usage, usage)
	}
	return report, nil
}

func (s *QuotaService) usage(ctx context.Context, tenantID string, plan *domain.Plan, resource domain.QuotaResource) (domain.QuotaUsage, error) {
	var (
		current int
		err     error
	)
	switch resource {
	case domain.QuotaProducts:
		current, err = s.repo.CountActiveProducts(ctx, tenantID)
	case domain.QuotaOrders:
		current, err = s.repo.CountOrdersSince(ctx, tenantID, MonthStart(s.now()))
	case domain.QuotaUsers:
		current, err = s.repo.CountUsers(ctx, tenantID)
	}
	if err != nil {
		return domain.QuotaUsage{}, err
	}

	usage := domain.QuotaUsage{Resource: resource, Current: current}
	if plan != nil {
		max := plan.Limit(resource)
		usage.Max = &max
	}
	return usage, nil
}

// MonthStart is 00:00 UTC on the first day of t's month.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
