package reporting

import "time"

// MethodTotals is the revenue and transaction count for one payment
// method on one day.
type MethodTotals struct {
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
}

// TopSellingItem is one entry of the cached best-sellers list, ordered
// by quantity sold.
type TopSellingItem struct {
	Name     string  `json:"name"`
	SKU      string  `json:"sku"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// DailySalesSummary is the per-date rollup of completed orders. It is a
// materialized view keyed by date: every generation recomputes all
// fields from the current completed orders, so rerunning it is always
// safe.
type DailySalesSummary struct {
	ID                int64                   `json:"id"`
	Date              string                  `json:"date"`
	TotalRevenue      float64                 `json:"total_revenue"`
	TotalTransactions int                     `json:"total_transactions"`
	ByMethod          map[string]MethodTotals `json:"by_method"`
	TopSellingItems   []TopSellingItem        `json:"top_selling_items"`
	GeneratedAt       time.Time               `json:"generated_at"`
}
