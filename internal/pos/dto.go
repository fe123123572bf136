package pos

// AddItemRequest adds quantity of a product, looked up by SKU, to the
// session's current cart.
type AddItemRequest struct {
	SKU      string `json:"sku" validate:"required,max=50"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// CompleteOrderRequest finalizes the current cart as a sale.
type CompleteOrderRequest struct {
	PaymentMethod  PaymentMethod `json:"payment_method" validate:"required,oneof=cash transfer pos mobile_money credit"`
	CustomerName   string        `json:"customer_name" validate:"max=100"`
	CustomerPhone  string        `json:"customer_phone" validate:"max=30"`
	DiscountAmount float64       `json:"discount_amount" validate:"gte=0"`
}

// ListFilters scope the order history listing.
type ListFilters struct {
	Status        *OrderStatus
	PaymentMethod *PaymentMethod
	Date          string
	Page          int
	Limit         int
}
