package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"centralvendas/internal/domain"
	"centralvendas/internal/dto"
	apperrors "centralvendas/internal/errors"
	"centralvendas/internal/integration/shopee"
	"centralvendas/internal/order/usecase"
)

const (
	ActionWebhookOrder = "WEBHOOK_ORDER"
	SourceShopee       = "shopee"

	MessageReceived           = "received"
	MessageConnectionNotFound = "connection not found"
)

type ConnectionRepository interface {
	FindByAccount(ctx context.Context, platform, accountID string) (*domain.TenantConnection, error)
}

type LogRepository interface {
	Insert(ctx context.Context, entry domain.IntegrationLog) error
}

type ProductRepository interface {
	FindStockedBySKUs(ctx context.Context, tenantID string, skus []string) ([]domain.StockedProduct, error)
}

type CustomerRepository interface {
	FindByEmail(ctx context.Context, tenantID, email string) (*domain.Customer, error)
	Insert(ctx context.Context, customer domain.Customer) error
}

type OrderUseCase interface {
	Place(ctx context.Context, req usecase.PlaceOrder) (*domain.Order, error)
	FindByExternalID(ctx context.Context, tenantID, externalID string) (*domain.Order, error)
	ChangeStatus(ctx context.Context, tenantID, orderID, status string) (*domain.Order, error)
	ChangePaymentStatus(ctx context.Context, tenantID, orderID, status string) (*domain.Order, error)
}

// Receiver applies Shopee order pushes to the tenant's orders.
type Receiver struct {
	connections ConnectionRepository
	logs        LogRepository
	products    ProductRepository
	customers   CustomerRepository
	orders      OrderUseCase
	logger      *zap.Logger
}

func NewReceiver(
	connections ConnectionRepository,
	logs LogRepository,
	products ProductRepository,
	customers CustomerRepository,
	orders OrderUseCase,
	logger *zap.Logger,
) *Receiver {
	return &Receiver{
		connections: connections,
		logs:        logs,
		products:    products,
		customers:   customers,
		orders:      orders,
		logger:      logger,
	}
}

// Handle returns the acknowledgement message for the push. Business
// rejections are recorded as FAILED log rows and still acknowledged; only
// infrastructure failures are returned so the platform redelivers.
func (s *Receiver) Handle(ctx context.Context, push *shopee.Push) (string, error) {
	if !push.IsOrderEvent() {
		return MessageReceived, nil
	}

	log := s.logger.With(
		zap.Int64("shopId", push.ShopID),
		zap.String("orderSn", push.Data.OrderSN),
		zap.Int("code", push.Code))

	conn, err := s.connections.FindByAccount(ctx, domain.PlatformShopee, push.AccountID())
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			log.Warn("shopee connection not found")
			return MessageConnectionNotFound, nil
		}
		return "", err
	}
	log = log.With(zap.String("tenantId", conn.TenantID))

	order, err := s.process(ctx, conn.TenantID, push)
	if err != nil {
		if !apperrors.IsBusinessError(err) {
			log.Error("shopee push failed", zap.Error(err))
			return "", err
		}
		log.Warn("shopee push rejected", zap.Error(err))
		if logErr := s.record(ctx, conn.TenantID, domain.IntegrationLogFailed, fmt.Sprintf("order %s: %s", push.Data.OrderSN, err.Error())); logErr != nil {
			return "", logErr
		}
		return MessageReceived, nil
	}

	log.Info("shopee push processed", zap.String("orderId", order.ID), zap.String("status", string(order.Status)))
	if err := s.record(ctx, conn.TenantID, domain.IntegrationLogSuccess, fmt.Sprintf("order %s processed", push.Data.OrderSN)); err != nil {
		return "", err
	}
	return MessageReceived, nil
}

func (s *Receiver) process(ctx context.Context, tenantID string, push *shopee.Push) (*domain.Order, error) {
	if push.Data.OrderSN == "" {
		return nil, apperrors.NewValidationError("ordersn is required", apperrors.ValidationDetail{
			Field:   "data.ordersn",
			Message: "ordersn is required",
		})
	}

	existing, err := s.orders.FindByExternalID(ctx, tenantID, push.Data.OrderSN)
	if err == nil {
		return s.update(ctx, tenantID, existing, push.Data.Status)
	}
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		return nil, err
	}

	if push.Code == shopee.CodeOrderStatusUpdate && len(push.Data.Items) == 0 {
		return nil, apperrors.NewNotFoundError("order not found")
	}

	created, err := s.create(ctx, tenantID, push.Data)
	if err != nil {
		// A concurrent delivery of the same order won the unique key.
		if _, ok := apperrors.IsConflictError(err); ok {
			existing, findErr := s.orders.FindByExternalID(ctx, tenantID, push.Data.OrderSN)
			if findErr == nil {
				return s.update(ctx, tenantID, existing, push.Data.Status)
			}
		}
		return nil, err
	}
	return created, nil
}

func (s *Receiver) create(ctx context.Context, tenantID string, data shopee.OrderData) (*domain.Order, error) {
	lines, err := s.resolveItems(ctx, tenantID, data.Items)
	if err != nil {
		return nil, err
	}

	customerID, err := s.buyer(ctx, tenantID, data)
	if err != nil {
		return nil, err
	}

	externalID := data.OrderSN
	return s.orders.Place(ctx, usecase.PlaceOrder{
		TenantID:      tenantID,
		CustomerID:    customerID,
		ExternalID:    &externalID,
		Status:        shopee.MapStatus(data.Status),
		PaymentStatus: domain.PaymentStatusPaid,
		Source:        SourceShopee,
		Items:         lines,
	})
}

func (s *Receiver) update(ctx context.Context, tenantID string, order *domain.Order, status string) (*domain.Order, error) {
	updated, err := s.orders.ChangeStatus(ctx, tenantID, order.ID, string(shopee.MapStatus(status)))
	if err != nil {
		return nil, err
	}
	if updated.PaymentStatus == domain.PaymentStatusPaid {
		return updated, nil
	}
	return s.orders.ChangePaymentStatus(ctx, tenantID, order.ID, string(domain.PaymentStatusPaid))
}

// resolveItems maps marketplace SKUs to tenant products. Repeated SKUs are
// merged into one line.
func (s *Receiver) resolveItems(ctx context.Context, tenantID string, items []shopee.Item) ([]dto.OrderLineRequest, error) {
	var skus []string
	quantities := make(map[string]int, len(items))
	for idx, item := range items {
		sku := item.SKU()
		if sku == "" {
			return nil, apperrors.NewValidationError("item sku is required", apperrors.ValidationDetail{
				Field:   fmt.Sprintf("data.item_list[%d].item_sku", idx),
				Message: "item sku is required",
			})
		}
		if _, ok := quantities[sku]; !ok {
			skus = append(skus, sku)
		}
		quantities[sku] += item.Quantity
	}

	var products []domain.StockedProduct
	if len(skus) > 0 {
		var err error
		products, err = s.products.FindStockedBySKUs(ctx, tenantID, skus)
		if err != nil {
			return nil, err
		}
	}
	bySKU := make(map[string]string, len(products))
	for _, p := range products {
		if p.SKU != nil {
			bySKU[*p.SKU] = p.ID
		}
	}

	lines := make([]dto.OrderLineRequest, 0, len(skus))
	for _, sku := range skus {
		productID, ok := bySKU[sku]
		if !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("product with sku %s not found", sku))
		}
		lines = append(lines, dto.OrderLineRequest{ProductID: productID, Quantity: quantities[sku]})
	}
	return lines, nil
}

// buyer finds or creates the customer for the marketplace buyer. Pushes
// without a buyer produce orders without a customer.
func (s *Receiver) buyer(ctx context.Context, tenantID string, data shopee.OrderData) (*string, error) {
	email := data.BuyerEmail()
	if email == "" {
		return nil, nil
	}

	customer, err := s.customers.FindByEmail(ctx, tenantID, email)
	if err == nil {
		return &customer.ID, nil
	}
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		return nil, err
	}

	name := data.Recipient.Name
	if name == "" {
		name = data.BuyerUsername
	}
	created := domain.Customer{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		Name:     name,
		Email:    &email,
	}
	if data.Recipient.Phone != "" {
		phone := data.Recipient.Phone
		created.Phone = &phone
	}
	if err := s.customers.Insert(ctx, created); err != nil {
		return nil, err
	}
	return &created.ID, nil
}

func (s *Receiver) record(ctx context.Context, tenantID string, status domain.IntegrationLogStatus, details string) error {
	return s.logs.Insert(ctx, domain.IntegrationLog{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		Platform: domain.PlatformShopee,
		Action:   ActionWebhookOrder,
		Status:   status,
		Details:  details,
	})
}
