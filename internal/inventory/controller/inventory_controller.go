package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"centralvendas/internal/auth"
	"centralvendas/internal/domain"
	"centralvendas/internal/dto"
	apperrors "centralvendas/internal/errors"
	"centralvendas/internal/httpx"
	"centralvendas/internal/infrastructure/logger"
	"centralvendas/internal/inventory/service"
)

type InventoryUseCase interface {
	AdjustStock(ctx context.Context, tenantID, productID string, req dto.StockAdjustmentRequest) (*service.AdjustmentResult, error)
	List(ctx context.Context, tenantID string) ([]domain.StockedProduct, error)
	ListLowStock(ctx context.Context, tenantID string) ([]domain.StockedProduct, error)
	Movements(ctx context.Context, tenantID, productID string, limit, offset int) ([]domain.StockMovement, int, error)
	Ledger(ctx context.Context, tenantID, productID string) (*domain.LedgerReport, error)
}

type InventoryController struct {
	useCase InventoryUseCase
	logger  *zap.Logger
}

func NewInventoryController(useCase InventoryUseCase, logger *zap.Logger) *InventoryController {
	return &InventoryController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *InventoryController) Routes(r chi.Router) {
	r.Get("/", c.List)
	r.Get("/low-stock", c.ListLowStock)
	r.Post("/{productId}/adjustments", c.Adjust)
	r.Get("/{productId}/movements", c.Movements)
	r.Get("/{productId}/ledger", c.Ledger)
}

func (c *InventoryController) List(w http.ResponseWriter, r *http.Request) {
	c.writeList(w, r, c.useCase.List)
}

func (c *InventoryController) ListLowStock(w http.ResponseWriter, r *http.Request) {
	c.writeList(w, r, c.useCase.ListLowStock)
}

func (c *InventoryController) writeList(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, tenantID string) ([]domain.StockedProduct, error)) {
	traceID := httpx.TraceID(r)
	log := logger.FromContext(r.Context(), c.logger)

	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	products, err := list(r.Context(), principal.TenantID)
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	items := make([]dto.InventoryItemDTO, len(products))
	for i, p := range products {
		items[i] = dto.InventoryItemDTO{
			ProductID: p.ID,
			Name:      p.Name,
			SKU:       p.SKU,
			Quantity:  p.Quantity,
			MinStock:  p.MinStock,
			LowStock:  p.IsLowStock(),
		}
	}

	httpx.WriteJSON(w, http.StatusOK, dto.InventoryListResponse{TraceID: traceID, Items: items}, log)
}

func (c *InventoryController) Adjust(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r)
	log := logger.FromContext(r.Context(), c.logger).With(zap.String("traceId", traceID))

	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	productID := chi.URLParam(r, "productId")

	var req dto.StockAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid JSON body", zap.Error(err))
		httpx.WriteValidationError(w, traceID, "invalid JSON body", log, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	result, err := c.useCase.AdjustStock(r.Context(), principal.TenantID, productID, req)
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	response := dto.StockAdjustmentResponse{
		TraceID:   traceID,
		ProductID: productID,
		Quantity:  result.Inventory.Quantity,
		MinStock:  result.Inventory.MinStock,
		LowStock:  result.Inventory.IsLowStock(),
	}
	if result.Movement != nil {
		m := toMovementDTO(*result.Movement)
		response.Movement = &m
	}

	httpx.WriteJSON(w, http.StatusOK, response, log)
}

func (c *InventoryController) Movements(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r)
	log := logger.FromContext(r.Context(), c.logger)

	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	productID := chi.URLParam(r, "productId")

	var details []apperrors.ValidationDetail
	limit, detail := httpx.QueryInt(r, "limit", 0)
	if detail != nil {
		details = append(details, *detail)
	}
	offset, detail := httpx.QueryInt(r, "offset", 0)
	if detail != nil {
		details = append(details, *detail)
	}
	if len(details) > 0 {
		httpx.WriteValidationError(w, traceID, "invalid query parameters", log, details...)
		return
	}

	movements, limit, err := c.useCase.Movements(r.Context(), principal.TenantID, productID, limit, offset)
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	items := make([]dto.StockMovementDTO, len(movements))
	for i, m := range movements {
		items[i] = toMovementDTO(m)
	}

	httpx.WriteJSON(w, http.StatusOK, dto.MovementListResponse{
		TraceID:   traceID,
		ProductID: productID,
		Limit:     limit,
		Offset:    offset,
		Movements: items,
	}, log)
}

func (c *InventoryController) Ledger(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r)
	log := logger.FromContext(r.Context(), c.logger)

	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	report, err := c.useCase.Ledger(r.Context(), principal.TenantID, chi.URLParam(r, "productId"))
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, dto.LedgerResponse{
		TraceID:       traceID,
		ProductID:     report.ProductID,
		Quantity:      report.Quantity,
		LedgerSum:     report.LedgerSum,
		MovementCount: report.MovementCount,
		Consistent:    report.Consistent(),
	}, log)
}

func toMovementDTO(m domain.StockMovement) dto.StockMovementDTO {
	return dto.StockMovementDTO{
		ID:          m.ID,
		ProductID:   m.ProductID,
		Quantity:    m.Quantity,
		Type:        string(m.Type),
		Reason:      m.Reason,
		ReferenceID: m.ReferenceID,
		CreatedAt:   m.CreatedAt,
	}
}
