package licensing

import "time"

// LimitKind identifies a plan ceiling.
type LimitKind string

const (
	LimitProducts     LimitKind = "products"
	LimitCategories   LimitKind = "categories"
	LimitOrdersPerDay LimitKind = "orders_per_day"
)

// SubscriptionPlan defines the ceilings and capabilities sold to an
// installation. A ceiling of zero means unlimited.
type SubscriptionPlan struct {
	ID              int64     `json:"id"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	MaxProducts     int       `json:"max_products"`
	MaxCategories   int       `json:"max_categories"`
	MaxOrdersPerDay int       `json:"max_orders_per_day"`
	AllowAnalytics  bool      `json:"allow_analytics"`
	AllowReceipts   bool      `json:"allow_receipts"`
	CreatedAt       time.Time `json:"created_at"`
}

// License binds a plan to this installation. A missing, inactive or
// expired license blocks every guarded creation path.
type License struct {
	ID        int64     `json:"id"`
	PlanID    int64     `json:"plan_id"`
	Key       string    `json:"key"`
	IsActive  bool      `json:"is_active"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`

	Plan SubscriptionPlan `json:"plan"`
}

// Ceiling returns the plan limit for a kind; zero means unlimited.
func (p SubscriptionPlan) Ceiling(kind LimitKind) int {
	switch kind {
	case LimitProducts:
		return p.MaxProducts
	case LimitCategories:
		return p.MaxCategories
	case LimitOrdersPerDay:
		return p.MaxOrdersPerDay
	default:
		return 0
	}
}

// ExpiredOn reports whether the license lapsed before the given date.
func (l License) ExpiredOn(today time.Time) bool {
	return l.ExpiresAt.Before(today)
}

// Usage is a point-in-time snapshot of consumption against the plan,
// exposed for the dashboard.
type Usage struct {
	PlanCode        string `json:"plan_code"`
	PlanName        string `json:"plan_name"`
	LicenseActive   bool   `json:"license_active"`
	ExpiresAt       string `json:"expires_at"`
	Products        int    `json:"products"`
	MaxProducts     int    `json:"max_products"`
	Categories      int    `json:"categories"`
	MaxCategories   int    `json:"max_categories"`
	OrdersToday     int    `json:"orders_today"`
	MaxOrdersPerDay int    `json:"max_orders_per_day"`
}
