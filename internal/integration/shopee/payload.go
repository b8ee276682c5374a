package shopee

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"centralvendas/internal/domain"
)

// Push codes handled by the receiver. Everything else is acknowledged only.
const (
	CodeOrderStatusUpdate = 3
	CodeOrderCreation     = 4
)

type Push struct {
	Code      int       `json:"code"`
	ShopID    int64     `json:"shop_id"`
	Timestamp int64     `json:"timestamp"`
	Data      OrderData `json:"data"`
}

type OrderData struct {
	OrderSN       string    `json:"ordersn"`
	Status        string    `json:"status"`
	BuyerUsername string    `json:"buyer_username"`
	Recipient     Recipient `json:"recipient_address"`
	Items         []Item    `json:"item_list"`
}

type Recipient struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type Item struct {
	ItemSKU  string `json:"item_sku"`
	ModelSKU string `json:"model_sku"`
	Quantity int    `json:"model_quantity_purchased"`
}

// SKU prefers the variation SKU over the listing SKU.
func (i Item) SKU() string {
	if s := strings.TrimSpace(i.ModelSKU); s != "" {
		return s
	}
	return strings.TrimSpace(i.ItemSKU)
}

func Parse(body []byte) (*Push, error) {
	var push Push
	if err := json.Unmarshal(body, &push); err != nil {
		return nil, fmt.Errorf("decoding shopee push: %w", err)
	}
	return &push, nil
}

func (p Push) IsOrderEvent() bool {
	return p.Code == CodeOrderStatusUpdate || p.Code == CodeOrderCreation
}

func (p Push) AccountID() string {
	return strconv.FormatInt(p.ShopID, 10)
}

// MapStatus translates a marketplace order status. Unknown statuses map to
// PENDING.
func MapStatus(status string) domain.OrderStatus {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "CANCELLED", "CANCELED":
		return domain.OrderStatusCanceled
	case "COMPLETED":
		return domain.OrderStatusCompleted
	default:
		return domain.OrderStatusPending
	}
}

// BuyerEmail is the placeholder address used to find the buyer's customer row.
func (d OrderData) BuyerEmail() string {
	if d.BuyerUsername == "" {
		return ""
	}
	return strings.ToLower(d.BuyerUsername) + "@shopee.com"
}
