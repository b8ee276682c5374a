package domain

type Tenant struct {
	ID     string  `db:"id"`
	Name   string  `db:"name"`
	PlanID *string `db:"planId"`
}

type Plan struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	MaxProducts int    `db:"maxProducts"`
	MaxOrders   int    `db:"maxOrders"`
	MaxUsers    int    `db:"maxUsers"`
}

type QuotaResource string

const (
	QuotaProducts QuotaResource = "products"
	QuotaOrders   QuotaResource = "orders"
	QuotaUsers    QuotaResource = "users"
)

func (p Plan) Limit(resource QuotaResource) int {
	switch resource {
	case QuotaProducts:
		return p.MaxProducts
	case QuotaOrders:
		return p.MaxOrders
	case QuotaUsers:
		return p.MaxUsers
	}
	return 0
}

type QuotaUsage struct {
	Resource QuotaResource
	Current  int
	// Max is nil when the tenant has no plan.
	Max *int
}

func (u QuotaUsage) Exhausted() bool {
	return u.Max != nil && u.Current >= *u.Max
}
