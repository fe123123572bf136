package products

// CreateProductRequest carries the fields for a new product.
type CreateProductRequest struct {
	SKU           string  `json:"sku" validate:"required,max=100"`
	Name          string  `json:"name" validate:"required,max=200"`
	Barcode       string  `json:"barcode" validate:"max=100"`
	Description   string  `json:"description"`
	CategoryID    int64   `json:"category_id" validate:"required,gt=0"`
	Price         float64 `json:"price" validate:"gte=0"`
	CostPrice     float64 `json:"cost_price" validate:"gte=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	MinimumStock  int     `json:"minimum_stock" validate:"gte=0"`
	UnitOfMeasure string  `json:"unit_of_measure" validate:"max=20"`
}

// UpdateProductRequest mutates descriptive fields. Stock quantity is
// deliberately absent: quantity changes go through the inventory ledger
// so an audit record is always written alongside.
type UpdateProductRequest struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Barcode       *string  `json:"barcode,omitempty" validate:"omitempty,max=100"`
	Description   *string  `json:"description,omitempty"`
	CategoryID    *int64   `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	Price         *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	CostPrice     *float64 `json:"cost_price,omitempty" validate:"omitempty,gte=0"`
	MinimumStock  *int     `json:"minimum_stock,omitempty" validate:"omitempty,gte=0"`
	UnitOfMeasure *string  `json:"unit_of_measure,omitempty" validate:"omitempty,max=20"`
	Status        *Status  `json:"status,omitempty" validate:"omitempty,oneof=active inactive discontinued"`
}

// ListFilters narrows product listings.
type ListFilters struct {
	CategoryID  *int64
	Search      string
	Status      *Status
	StockStatus *StockStatus
	Page        int
	Limit       int
}
