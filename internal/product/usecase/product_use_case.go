package usecase

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"centralvendas/internal/domain"
	"centralvendas/internal/dto"
	apperrors "centralvendas/internal/errors"
)

const (
	maxNameLength = 255
	maxSKULength  = 100
	maxSearchIDs  = 100
)

// DECIMAL(10,2) upper bound.
var maxPrice = decimal.New(1, 8)

type QuotaChecker interface {
	Check(ctx context.Context, tenantID string, resource domain.QuotaResource) error
}

type ProductService interface {
	Create(ctx context.Context, p domain.Product, minStock int) (*domain.StockedProduct, error)
	GetByIDs(ctx context.Context, tenantID string, ids []string) ([]domain.StockedProduct, []string, error)
}

type ProductRepository interface {
	FindByID(ctx context.Context, tenantID, productID string) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) error
	SoftDelete(ctx context.Context, tenantID, productID string) error
	List(ctx context.Context, tenantID string) ([]domain.StockedProduct, error)
}

type ProductUseCase struct {
	repo    ProductRepository
	service ProductService
	quotas  QuotaChecker
	logger  *zap.Logger
}

func NewProductUseCase(repo ProductRepository, service ProductService, quotas QuotaChecker, logger *zap.Logger) *ProductUseCase {
	return &ProductUseCase{
		repo:    repo,
		service: service,
		quotas:  quotas,
		logger:  logger,
	}
}

func (uc *ProductUseCase) Create(ctx context.Context, tenantID string, req dto.CreateProductRequest) (*domain.StockedProduct, error) {
	details := validateProductFields(req.Name, req.SKU, req.Price)
	if req.MinStock != nil && (*req.MinStock < 0 || *req.MinStock > domain.MaxStockQuantity) {
		details = append(details, apperrors.ValidationDetail{Field: "minStock", Message: "minStock must be between 0 and 2147483647"})
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}

	if err := uc.quotas.Check(ctx, tenantID, domain.QuotaProducts); err != nil {
		return nil, err
	}

	minStock := 0
	if req.MinStock != nil {
		minStock = *req.MinStock
	}

	return uc.service.Create(ctx, domain.Product{
		TenantID:    tenantID,
		Name:        strings.TrimSpace(req.Name),
		SKU:         normalizeSKU(req.SKU),
		Description: req.Description,
		Price:       req.Price,
	}, minStock)
}

// Update changes catalog fields only. Orders already placed keep the price
// and name captured in their items.
func (uc *ProductUseCase) Update(ctx context.Context, tenantID, productID string, req dto.UpdateProductRequest) (*domain.StockedProduct, error) {
	if details := validateProductFields(req.Name, req.SKU, req.Price); len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}

	product, err := uc.repo.FindByID(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if product.IsDeleted() {
		return nil, apperrors.NewProductNotFoundError(productID)
	}

	product.Name = strings.TrimSpace(req.Name)
	product.SKU = normalizeSKU(req.SKU)
	product.Description = req.Description
	product.Price = req.Price

	if err := uc.repo.Update(ctx, *product); err != nil {
		return nil, err
	}

	found, _, err := uc.service.GetByIDs(ctx, tenantID, []string{productID})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, apperrors.NewProductNotFoundError(productID)
	}

	uc.logger.Info("product updated", zap.String("tenantId", tenantID), zap.String("productId", productID))
	return &found[0], nil
}

func (uc *ProductUseCase) Delete(ctx context.Context, tenantID, productID string) error {
	if err := uc.repo.SoftDelete(ctx, tenantID, productID); err != nil {
		return err
	}
	uc.logger.Info("product deleted", zap.String("tenantId", tenantID), zap.String("productId", productID))
	return nil
}

func (uc *ProductUseCase) List(ctx context.Context, tenantID string) ([]domain.StockedProduct, error) {
	return uc.repo.List(ctx, tenantID)
}

// Search resolves ids to live products and reports those that did not resolve.
func (uc *ProductUseCase) Search(ctx context.Context, tenantID string, ids []string) ([]domain.StockedProduct, []string, error) {
	if len(ids) > maxSearchIDs {
		return nil, nil, apperrors.NewValidationError("ids exceeds maximum of 100", apperrors.ValidationDetail{
			Field:   "ids",
			Message: "ids exceeds maximum of 100",
		})
	}
	for idx, id := range ids {
		if strings.TrimSpace(id) == "" {
			return nil, nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "ids[" + strconv.Itoa(idx) + "]",
				Message: "each id must be non-empty",
			})
		}
	}

	found, notFound, err := uc.service.GetByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, nil, err
	}
	if notFound == nil {
		notFound = []string{}
	}
	return found, notFound, nil
}

func validateProductFields(name string, sku *string, price decimal.Decimal) []apperrors.ValidationDetail {
	var details []apperrors.ValidationDetail

	name = strings.TrimSpace(name)
	if name == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	} else if utf8.RuneCountInString(name) > maxNameLength {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name exceeds 255 characters"})
	}

	if !price.IsPositive() {
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "price must be greater than zero"})
	} else if !price.Equal(price.Round(2)) {
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "price must have at most 2 decimal places"})
	} else if price.GreaterThanOrEqual(maxPrice) {
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "price is too large"})
	}

	if s := normalizeSKU(sku); s != nil && utf8.RuneCountInString(*s) > maxSKULength {
		details = append(details, apperrors.ValidationDetail{Field: "sku", Message: "sku exceeds 100 characters"})
	}

	return details
}

func normalizeSKU(sku *string) *string {
	if sku == nil {
		return nil
	}
	s := strings.TrimSpace(*sku)
	if s == "" {
		return nil
	}
	return &s
}
