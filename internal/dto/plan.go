package dto

type QuotaUsageDTO struct {
	Resource string `json:"resource"`
	Current  int    `json:"current"`
	// Max is null when the tenant has no plan.
	Max       *int `json:"max"`
	Exhausted bool `json:"exhausted"`
}

type PlanUsageResponse struct {
	TraceID string          `json:"traceId"`
	PlanID  *string         `json:"planId"`
	Plan    *string         `json:"plan"`
	Usage   []QuotaUsageDTO `json:"usage"`
}
