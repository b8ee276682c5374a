package dto

type WebhookResponse struct {
	TraceID string `json:"traceId"`
	Message string `json:"message"`
}
