package domain

import "time"

type Customer struct {
	ID        string    `db:"id"`
	TenantID  string    `db:"tenantId"`
	Name      string    `db:"name"`
	Email     *string   `db:"email"`
	Phone     *string   `db:"phone"`
	CreatedAt time.Time `db:"createdAt"`
}
