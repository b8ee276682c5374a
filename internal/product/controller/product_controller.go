package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"centralvendas/internal/auth"
	"centralvendas/internal/domain"
	"centralvendas/internal/dto"
	apperrors "centralvendas/internal/errors"
	"centralvendas/internal/httpx"
	"centralvendas/internal/infrastructure/logger"
)

type ProductUseCase interface {
	Create(ctx context.Context, tenantID string, req dto.CreateProductRequest) (*domain.StockedProduct, error)
	Update(ctx context.Context, tenantID, productID string, req dto.UpdateProductRequest) (*domain.StockedProduct, error)
	Delete(ctx context.Context, tenantID, productID string) error
	List(ctx context.Context, tenantID string) ([]domain.StockedProduct, error)
	Search(ctx context.Context, tenantID string, ids []string) ([]domain.StockedProduct, []string, error)
}

type Controller struct {
	useCase ProductUseCase
	logger  *zap.Logger
}

func NewController(useCase ProductUseCase, logger *zap.Logger) *Controller {
	return &Controller{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *Controller) Routes(r chi.Router) {
	r.Post("/", c.HandleCreate)
	r.Get("/", c.HandleList)
	r.Put("/{productId}", c.HandleUpdate)
	r.Delete("/{productId}", c.HandleDelete)
}

func (c *Controller) HandleCreate(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r)
	log := logger.FromContext(r.Context(), c.logger).With(zap.String("traceId", traceID))

	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	var req dto.CreateProductRequest
	if !c.decode(w, r, traceID, &req, log) {
		return
	}

	product, err := c.useCase.Create(r.Context(), principal.TenantID, req)
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, dto.ProductResponse{TraceID: traceID, Product: toProductDTO(*product)}, log)
}

// HandleList lists the catalog, or with ?ids=a,b only the named products.
func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r)
	log := logger.FromContext(r.Context(), c.logger)

	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	var (
		products []domain.StockedProduct
		notFound []string
	)
	if raw := r.URL.Query().Get("ids"); raw != "" {
		products, notFound, err = c.useCase.Search(r.Context(), principal.TenantID, strings.Split(raw, ","))
	} else {
		products, err = c.useCase.List(r.Context(), principal.TenantID)
	}
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	items := make([]dto.ProductDTO, len(products))
	for i, p := range products {
		items[i] = toProductDTO(p)
	}

	httpx.WriteJSON(w, http.StatusOK, dto.ProductListResponse{TraceID: traceID, Products: items, NotFound: notFound}, log)
}

func (c *Controller) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r)
	log := logger.FromContext(r.Context(), c.logger).With(zap.String("traceId", traceID))

	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	var req dto.UpdateProductRequest
	if !c.decode(w, r, traceID, &req, log) {
		return
	}

	product, err := c.useCase.Update(r.Context(), principal.TenantID, chi.URLParam(r, "productId"), req)
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, dto.ProductResponse{TraceID: traceID, Product: toProductDTO(*product)}, log)
}

func (c *Controller) HandleDelete(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r)
	log := logger.FromContext(r.Context(), c.logger)

	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	if err := c.useCase.Delete(r.Context(), principal.TenantID, chi.URLParam(r, "productId")); err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) decode(w http.ResponseWriter, r *http.Request, traceID string, v interface{}, log *zap.Logger) bool {
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

func toProductDTO(p domain.StockedProduct) dto.ProductDTO {
	return dto.ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Quantity:    p.Quantity,
		MinStock:    p.MinStock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
