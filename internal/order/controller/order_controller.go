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
)

type OrderUseCase interface {
	Create(ctx context.Context, tenantID string, req dto.CreateOrderRequest) (*domain.Order, error)
	Get(ctx context.Context, tenantID, orderID string) (*domain.Order, error)
	List(ctx context.Context, tenantID string, limit, offset int) ([]domain.Order, int, error)
	ChangeStatus(ctx context.Context, tenantID, orderID, status string) (*domain.Order, error)
	ChangePaymentStatus(ctx context.Context, tenantID, orderID, status string) (*domain.Order, error)
}

type OrderController struct {
	useCase OrderUseCase
	logger  *zap.Logger
}

func NewOrderController(useCase OrderUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *OrderController) Routes(r chi.Router) {
	r.Post("/", c.Create)
	r.Get("/", c.List)
	r.Get("/{orderId}", c.Get)
	r.Patch("/{orderId}/status", c.ChangeStatus)
	r.Patch("/{orderId}/payment-status", c.ChangePaymentStatus)
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r)
	log := logger.FromContext(r.Context(), c.logger).With(zap.String("traceId", traceID))

	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	var req dto.CreateOrderRequest
	if !decodeBody(w, r, traceID, &req, log) {
		return
	}

	log.Info("creating order",
		zap.String("tenantId", principal.TenantID),
		zap.Int("itemCount", len(req.Items)))

	order, err := c.useCase.Create(r.Context(), principal.TenantID, req)
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, dto.OrderResponse{TraceID: traceID, Order: toOrderDTO(*order)}, log)
}

func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r)
	log := logger.FromContext(r.Context(), c.logger)

	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

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

	orders, limit, err := c.useCase.List(r.Context(), principal.TenantID, limit, offset)
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	items := make([]dto.OrderDTO, len(orders))
	for i, o := range orders {
		items[i] = toOrderDTO(o)
	}

	httpx.WriteJSON(w, http.StatusOK, dto.OrderListResponse{
		TraceID: traceID,
		Limit:   limit,
		Offset:  offset,
		Orders:  items,
	}, log)
}

func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r)
	log := logger.FromContext(r.Context(), c.logger)

	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	order, err := c.useCase.Get(r.Context(), principal.TenantID, chi.URLParam(r, "orderId"))
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, dto.OrderResponse{TraceID: traceID, Order: toOrderDTO(*order)}, log)
}

func (c *OrderController) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r)
	log := logger.FromContext(r.Context(), c.logger).With(zap.String("traceId", traceID))

	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	var req dto.UpdateOrderStatusRequest
	if !decodeBody(w, r, traceID, &req, log) {
		return
	}

	order, err := c.useCase.ChangeStatus(r.Context(), principal.TenantID, chi.URLParam(r, "orderId"), req.Status)
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, dto.OrderResponse{TraceID: traceID, Order: toOrderDTO(*order)}, log)
}

func (c *OrderController) ChangePaymentStatus(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r)
	log := logger.FromContext(r.Context(), c.logger).With(zap.String("traceId", traceID))

	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	var req dto.UpdatePaymentStatusRequest
	if !decodeBody(w, r, traceID, &req, log) {
		return
	}

	order, err := c.useCase.ChangePaymentStatus(r.Context(), principal.TenantID, chi.URLParam(r, "orderId"), req.PaymentStatus)
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, dto.OrderResponse{TraceID: traceID, Order: toOrderDTO(*order)}, log)
}

func decodeBody(w http.ResponseWriter, r *http.Request, traceID string, v interface{}, log *zap.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Warn("invalid JSON body", zap.Error(err))
		httpx.WriteValidationError(w, traceID, "invalid JSON body", log, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return false
	}
	return true
}

func toOrderDTO(o domain.Order) dto.OrderDTO {
	items := make([]dto.OrderItemDTO, len(o.Items))
	for i, item := range o.Items {
		items[i] = dto.OrderItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price.StringFixed(2),
			Subtotal:    item.Subtotal.StringFixed(2),
		}
	}

	return dto.OrderDTO{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		ExternalID:    o.ExternalID,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		Total:         o.Total.StringFixed(2),
		Notes:         o.Notes,
		Items:         items,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
