package domain

import "time"

const PlatformShopee = "SHOPEE"

type TenantConnection struct {
	ID          string  `db:"id"`
	TenantID    string  `db:"tenantId"`
	Platform    string  `db:"platform"`
	AccountID   string  `db:"accountId"`
	AccessToken *string `db:"accessToken"`
}

type IntegrationLogStatus string

const (
	IntegrationLogSuccess IntegrationLogStatus = "SUCCESS"
	IntegrationLogFailed  IntegrationLogStatus = "FAILED"
)

type IntegrationLog struct {
	ID        string               `db:"id"`
	TenantID  string               `db:"tenantId"`
	Platform  string               `db:"platform"`
	Action    string               `db:"action"`
	Status    IntegrationLogStatus `db:"status"`
	Details   string               `db:"details"`
	CreatedAt time.Time            `db:"createdAt"`
}
