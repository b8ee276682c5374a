package dto

import "time"

type ErrorResponse struct {
	TraceID   string      `json:"traceId"`
	Status    int         `json:"status"`
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// InsufficientStockDetails names the line that could not be fulfilled.
type InsufficientStockDetails struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
}

type QuotaDetails struct {
	Resource string `json:"resource"`
	Current  int    `json:"current"`
	Max      int    `json:"max"`
}
