package pos

import "time"

// PaymentMethod enumerates accepted tender types.
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentTransfer    PaymentMethod = "transfer"
	PaymentPOS         PaymentMethod = "pos"
	PaymentMobileMoney PaymentMethod = "mobile_money"
	PaymentCredit      PaymentMethod = "credit"
)

// PaymentMethods lists every accepted tender, in reporting order.
var PaymentMethods = []PaymentMethod{
	PaymentCash, PaymentTransfer, PaymentPOS, PaymentMobileMoney, PaymentCredit,
}

// OrderStatus enumerates the order lifecycle. There is no cancelled
// state: a cancelled cart is deleted outright after its stock is
// restored.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
)

// Order is a cart while pending and an immutable sale once completed.
type Order struct {
	ID             int64         `json:"id"`
	OrderNumber    string        `json:"order_number"`
	Status         OrderStatus   `json:"status"`
	Subtotal       float64       `json:"subtotal"`
	TaxAmount      float64       `json:"tax_amount"`
	DiscountAmount float64       `json:"discount_amount"`
	TotalAmount    float64       `json:"total_amount"`
	PaymentMethod  PaymentMethod `json:"payment_method"`
	CustomerName   string        `json:"customer_name,omitempty"`
	CustomerPhone  string        `json:"customer_phone,omitempty"`
	CashierID      string        `json:"cashier_id,omitempty"`
	CompletedAt    *time.Time    `json:"completed_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	Items          []OrderItem   `json:"items"`
}

// OrderItem is one line of an order. UnitPrice is captured when the
// product is first added and never refreshed, so later price changes do
// not move a live cart.
type OrderItem struct {
	ID          int64   `json:"id"`
	OrderID     int64   `json:"order_id"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	SKU         string  `json:"sku"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

// Totals holds the recomputed monetary rollup of an order.
type Totals struct {
	Subtotal    float64
	TaxAmount   float64
	TotalAmount float64
}

// CalculateTotals recomputes order money from the current items. Tax is
// a percentage of the subtotal; the discount comes off after tax. The
// grand total never goes below zero.
func CalculateTotals(items []OrderItem, taxRate, discount float64) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.LineTotal
	}
	tax := subtotal * taxRate / 100
	total := subtotal + tax - discount
	if total < 0 {
		total = 0
	}
	return Totals{Subtotal: subtotal, TaxAmount: tax, TotalAmount: total}
}

// SkippedLine reports a historical line that could not be copied when
// repeating an order, with the stock that was actually available.
type SkippedLine struct {
	SKU         string `json:"sku"`
	ProductName string `json:"product_name"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
	Reason      string `json:"reason"`
}

// RepeatResult is the outcome of repeating a historical order. Partial
// copies are acceptable: the new cart holds the lines that fit and
// Skipped names the ones that did not.
type RepeatResult struct {
	Order   Order         `json:"order"`
	Skipped []SkippedLine `json:"skipped,omitempty"`
}
