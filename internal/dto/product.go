package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Price accepts a JSON number or string, e.g. 19.9 or "19.90".
type CreateProductRequest struct {
	Name        string          `json:"name"`
	SKU         *string         `json:"sku"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	MinStock    *int            `json:"minStock"`
}

type UpdateProductRequest struct {
	Name        string          `json:"name"`
	SKU         *string         `json:"sku"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

type ProductDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	SKU         *string   `json:"sku"`
	Description *string   `json:"description"`
	Price       string    `json:"price"`
	Quantity    int       `json:"quantity"`
	MinStock    int       `json:"minStock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ProductResponse struct {
	TraceID string     `json:"traceId"`
	Product ProductDTO `json:"product"`
}

// ProductListResponse lists the tenant catalog. With an ids filter, ids that
// did not resolve to a live product are reported in NotFound.
type ProductListResponse struct {
	TraceID  string       `json:"traceId"`
	Products []ProductDTO `json:"products"`
	NotFound []string     `json:"notFound,omitempty"`
}
