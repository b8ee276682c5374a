package dto

import "time"

type OrderLineRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerID *string            `json:"customerId"`
	Notes      *string            `json:"notes"`
	Items      []OrderLineRequest `json:"items"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

type OrderItemDTO struct {
	ID          string `json:"id"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
	Subtotal    string `json:"subtotal"`
}

type OrderDTO struct {
	ID            string         `json:"id"`
	CustomerID    *string        `json:"customerId"`
	ExternalID    *string        `json:"externalId"`
	Status        string         `json:"status"`
	PaymentStatus string         `json:"paymentStatus"`
	Total         string         `json:"total"`
	Notes         *string        `json:"notes"`
	Items         []OrderItemDTO `json:"items"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type OrderResponse struct {
	TraceID string   `json:"traceId"`
	Order   OrderDTO `json:"order"`
}

type OrderListResponse struct {
	TraceID string     `json:"traceId"`
	Limit   int        `json:"limit"`
	Offset  int        `json:"offset"`
	Orders  []OrderDTO `json:"orders"`
}
