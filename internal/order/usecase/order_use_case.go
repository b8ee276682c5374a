package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"centralvendas/internal/domain"
	"centralvendas/internal/dto"
	apperrors "centralvendas/internal/errors"
	"centralvendas/internal/order/service"
)

const (
	maxOrderLines     = 100
	maxLineQuantity   = 10000
	maxExternalIDLen  = 64
	defaultOrderLimit = 50
	maxOrderLimit     = 200

	SourceAPI = "api"
)

type QuotaChecker interface {
	Check(ctx context.Context, tenantID string, resource domain.QuotaResource) error
}

type ProductRepository interface {
	FindStockedByIDs(ctx context.Context, tenantID string, ids []string) ([]domain.StockedProduct, error)
}

type CustomerRepository interface {
	Exists(ctx context.Context, tenantID, id string) (bool, error)
}

type OrderRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (*domain.Order, error)
	FindByExternalID(ctx context.Context, tenantID, externalID string) (*domain.Order, error)
	List(ctx context.Context, tenantID string, limit, offset int) ([]domain.Order, error)
}

type OrderItemRepository interface {
	FindByOrderIDs(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error)
}

type FulfillmentService interface {
	CreateOrder(ctx context.Context, req service.NewOrder) (*domain.Order, error)
}

type StatusService interface {
	ChangeStatus(ctx context.Context, tenantID, orderID string, status domain.OrderStatus) (*domain.Order, error)
	ChangePaymentStatus(ctx context.Context, tenantID, orderID string, status domain.PaymentStatus) (*domain.Order, error)
}

// PlaceOrder is an order request from any channel. The HTTP API and the
// marketplace receiver both end up here.
type PlaceOrder struct {
	TenantID      string
	CustomerID    *string
	ExternalID    *string
	Notes         *string
	// Status is the initial status, PENDING when empty. A CANCELED order is
	// recorded without taking stock.
	Status        domain.OrderStatus
	PaymentStatus domain.PaymentStatus
	Source        string
	Items         []dto.OrderLineRequest
}

type OrderUseCase struct {
	orderRepo     OrderRepository
	orderItemRepo OrderItemRepository
	productRepo   ProductRepository
	customerRepo  CustomerRepository
	quotas        QuotaChecker
	fulfillment   FulfillmentService
	status        StatusService
	logger        *zap.Logger
}

func NewOrderUseCase(
	orderRepo OrderRepository,
	orderItemRepo OrderItemRepository,
	productRepo ProductRepository,
	customerRepo CustomerRepository,
	quotas QuotaChecker,
	fulfillment FulfillmentService,
	status StatusService,
	logger *zap.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		productRepo:   productRepo,
		customerRepo:  customerRepo,
		quotas:        quotas,
		fulfillment:   fulfillment,
		status:        status,
		logger:        logger,
	}
}

func (uc *OrderUseCase) Create(ctx context.Context, tenantID string, req dto.CreateOrderRequest) (*domain.Order, error) {
	return uc.Place(ctx, PlaceOrder{
		TenantID:   tenantID,
		CustomerID: req.CustomerID,
		Notes:      req.Notes,
		Source:     SourceAPI,
		Items:      req.Items,
	})
}

// Place validates the request, enforces the monthly order quota and checks
// every product before handing the order to the fulfillment transaction.
func (uc *OrderUseCase) Place(ctx context.Context, req PlaceOrder) (*domain.Order, error) {
	if err := validateLines(req.Items); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = domain.OrderStatusPending
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status must be one of PENDING, COMPLETED, CANCELED",
		})
	}
	if req.ExternalID != nil && len(*req.ExternalID) > maxExternalIDLen {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "externalId",
			Message: fmt.Sprintf("externalId exceeds %d characters", maxExternalIDLen),
		})
	}

	if err := uc.quotas.Check(ctx, req.TenantID, domain.QuotaOrders); err != nil {
		return nil, err
	}

	if req.CustomerID != nil {
		exists, err := uc.customerRepo.Exists(ctx, req.TenantID, *req.CustomerID)
		if err != nil {
			return nil, apperrors.NewInternalError("checking customer", err)
		}
		if !exists {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("customer %s not found", *req.CustomerID))
		}
	}

	ids := make([]string, len(req.Items))
	for i, item := range req.Items {
		ids[i] = item.ProductID
	}

	products, err := uc.productRepo.FindStockedByIDs(ctx, req.TenantID, ids)
	if err != nil {
		return nil, apperrors.NewInternalError("loading products", err)
	}
	byID := make(map[string]domain.StockedProduct, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]service.Line, 0, len(req.Items))
	for _, item := range req.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, apperrors.NewProductNotFoundError(item.ProductID)
		}
		if status.HoldsStock() && !product.CanFulfill(item.Quantity) {
			return nil, apperrors.NewInsufficientStockError(product.ID, product.Name, item.Quantity, product.Quantity)
		}
		lines = append(lines, service.Line{Product: product, Quantity: item.Quantity})
	}
	if err := validateAmounts(lines); err != nil {
		return nil, err
	}

	return uc.fulfillment.CreateOrder(ctx, service.NewOrder{
		TenantID:      req.TenantID,
		CustomerID:    req.CustomerID,
		ExternalID:    req.ExternalID,
		Notes:         req.Notes,
		Status:        status,
		PaymentStatus: req.PaymentStatus,
		Source:        req.Source,
		Lines:         lines,
	})
}

func (uc *OrderUseCase) Get(ctx context.Context, tenantID, orderID string) (*domain.Order, error) {
	order, err := uc.orderRepo.FindByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	return uc.withItems(ctx, order)
}

func (uc *OrderUseCase) FindByExternalID(ctx context.Context, tenantID, externalID string) (*domain.Order, error) {
	order, err := uc.orderRepo.FindByExternalID(ctx, tenantID, externalID)
	if err != nil {
		return nil, err
	}
	return uc.withItems(ctx, order)
}

// List returns one page of orders, newest first, with their items. A zero
// limit selects the default page size.
func (uc *OrderUseCase) List(ctx context.Context, tenantID string, limit, offset int) ([]domain.Order, int, error) {
	var details []apperrors.ValidationDetail
	if limit < 0 || limit > maxOrderLimit {
		details = append(details, apperrors.ValidationDetail{Field: "limit", Message: "limit must be between 1 and 200"})
	}
	if offset < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "offset", Message: "offset must be non-negative"})
	}
	if len(details) > 0 {
		return nil, 0, apperrors.NewValidationError("validation failed", details...)
	}
	if limit == 0 {
		limit = defaultOrderLimit
	}

	orders, err := uc.orderRepo.List(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	items, err := uc.orderItemRepo.FindByOrderIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}

	return orders, limit, nil
}

func (uc *OrderUseCase) ChangeStatus(ctx context.Context, tenantID, orderID, status string) (*domain.Order, error) {
	s := domain.OrderStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !s.Valid() {
		return nil, apperrors.NewValidationError("invalid order status", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status must be one of PENDING, COMPLETED, CANCELED",
		})
	}
	return uc.status.ChangeStatus(ctx, tenantID, orderID, s)
}

func (uc *OrderUseCase) ChangePaymentStatus(ctx context.Context, tenantID, orderID, status string) (*domain.Order, error) {
	s := domain.PaymentStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !s.Valid() {
		return nil, apperrors.NewValidationError("invalid payment status", apperrors.ValidationDetail{
			Field:   "paymentStatus",
			Message: "paymentStatus must be one of PENDING, PAID, REFUNDED",
		})
	}
	return uc.status.ChangePaymentStatus(ctx, tenantID, orderID, s)
}

func (uc *OrderUseCase) withItems(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	items, err := uc.orderItemRepo.FindByOrderIDs(ctx, []string{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	return order, nil
}

func validateLines(items []dto.OrderLineRequest) error {
	if len(items) == 0 {
		return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must contain at least one item",
		})
	}
	if len(items) > maxOrderLines {
		return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "items",
			Message: "items exceeds maximum of 100",
		})
	}

	var details []apperrors.ValidationDetail
	seen := make(map[string]bool, len(items))
	for idx, item := range items {
		if strings.TrimSpace(item.ProductID) == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].productId", idx),
				Message: "productId is required",
			})
		} else if seen[item.ProductID] {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].productId", idx),
				Message: "duplicate productId",
			})
		}
		seen[item.ProductID] = true

		if item.Quantity < 1 || item.Quantity > maxLineQuantity {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].quantity", idx),
				Message: "quantity must be between 1 and 10000",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

// validateAmounts keeps every subtotal and the order total within the order
// columns. lines follow the request order.
func validateAmounts(lines []service.Line) error {
	var details []apperrors.ValidationDetail
	total := decimal.Zero
	for idx, line := range lines {
		subtotal := domain.NewOrderItem(line.Product.Product, line.Quantity).Subtotal
		if subtotal.GreaterThan(domain.MaxOrderAmount) {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].quantity", idx),
				Message: "line subtotal exceeds " + domain.MaxOrderAmount.StringFixed(2),
			})
		}
		total = total.Add(subtotal)
	}
	if len(details) == 0 && total.GreaterThan(domain.MaxOrderAmount) {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "order total exceeds " + domain.MaxOrderAmount.StringFixed(2),
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
