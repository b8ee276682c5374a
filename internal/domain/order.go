package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCanceled:
		return true
	}
	return false
}

// HoldsStock reports whether an order in this status keeps its item
// quantities out of inventory.
func (s OrderStatus) HoldsStock() bool {
	return s != OrderStatusCanceled
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	}
	return false
}

type Order struct {
	ID            string          `db:"id"`
	TenantID      string          `db:"tenantId"`
	CustomerID    *string         `db:"customerId"`
	ExternalID    *string         `db:"externalId"`
	Status        OrderStatus     `db:"status"`
	PaymentStatus PaymentStatus   `db:"paymentStatus"`
	Total         decimal.Decimal `db:"total"`
	Notes         *string         `db:"notes"`
	CreatedAt     time.Time       `db:"createdAt"`
	UpdatedAt     time.Time       `db:"updatedAt"`
	Items         []OrderItem     `db:"-"`
}

// MaxOrderAmount is the largest subtotal or total an order row can hold.
var MaxOrderAmount = decimal.RequireFromString("9999999999.99")

// OrderItem snapshots the product name and unit price at order time.
type OrderItem struct {
	ID          string          `db:"id"`
	OrderID     string          `db:"orderId"`
	ProductID   string          `db:"productId"`
	ProductName string          `db:"productName"`
	Quantity    int             `db:"quantity"`
	Price       decimal.Decimal `db:"price"`
	Subtotal    decimal.Decimal `db:"subtotal"`
}

func NewOrderItem(product Product, quantity int) OrderItem {
	return OrderItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    quantity,
		Price:       product.Price,
		Subtotal:    product.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

func SumSubtotals(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}
	return total
}

// Compensation is the stock side effect of a status change.
type Compensation int

const (
	CompensationNone Compensation = iota
	// CompensationRestock returns every item quantity to inventory.
	CompensationRestock
	// CompensationReserve takes every item quantity out of inventory again.
	CompensationReserve
)

func CompensationFor(from, to OrderStatus) Compensation {
	switch {
	case from.HoldsStock() && !to.HoldsStock():
		return CompensationRestock
	case !from.HoldsStock() && to.HoldsStock():
		return CompensationReserve
	}
	return CompensationNone
}
