package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `db:"id"`
	TenantID    string          `db:"tenantId"`
	Name        string          `db:"name"`
	SKU         *string         `db:"sku"`
	Description *string         `db:"description"`
	Price       decimal.Decimal `db:"price"`
	DeletedAt   *time.Time      `db:"deletedAt"`
	CreatedAt   time.Time       `db:"createdAt"`
	UpdatedAt   time.Time       `db:"updatedAt"`
}

func (p Product) IsDeleted() bool {
	return p.DeletedAt != nil
}

// StockedProduct is a product joined with its inventory row.
type StockedProduct struct {
	Product
	Quantity int `db:"quantity"`
	MinStock int `db:"minStock"`
}

func (p StockedProduct) IsLowStock() bool {
	return p.Quantity <= p.MinStock
}

func (p StockedProduct) CanFulfill(quantity int) bool {
	return p.Quantity >= quantity
}
