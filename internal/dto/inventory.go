package dto

import "time"

// StockAdjustmentRequest carries quantity for IN, OUT and ADJUSTMENT and
// minStock for UPDATE_MIN_STOCK.
type StockAdjustmentRequest struct {
	Type     string `json:"type"`
	Quantity *int   `json:"quantity"`
	MinStock *int   `json:"minStock"`
	Reason   string `json:"reason"`
}

type InventoryItemDTO struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	SKU       *string `json:"sku"`
	Quantity  int     `json:"quantity"`
	MinStock  int     `json:"minStock"`
	LowStock  bool    `json:"lowStock"`
}

type InventoryListResponse struct {
	TraceID string             `json:"traceId"`
	Items   []InventoryItemDTO `json:"items"`
}

type StockMovementDTO struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	Quantity    int       `json:"quantity"`
	Type        string    `json:"type"`
	Reason      string    `json:"reason"`
	ReferenceID *string   `json:"referenceId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type StockAdjustmentResponse struct {
	TraceID   string            `json:"traceId"`
	ProductID string            `json:"productId"`
	Quantity  int               `json:"quantity"`
	MinStock  int               `json:"minStock"`
	LowStock  bool              `json:"lowStock"`
	Movement  *StockMovementDTO `json:"movement"`
}

type MovementListResponse struct {
	TraceID   string             `json:"traceId"`
	ProductID string             `json:"productId"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
	Movements []StockMovementDTO `json:"movements"`
}

type LedgerResponse struct {
	TraceID       string `json:"traceId"`
	ProductID     string `json:"productId"`
	Quantity      int    `json:"quantity"`
	LedgerSum     int    `json:"ledgerSum"`
	MovementCount int    `json:"movementCount"`
	Consistent    bool   `json:"consistent"`
}
