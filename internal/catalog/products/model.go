package products

import "time"

// Status enumerates product lifecycle states.
type Status string

const (
	StatusActive       Status = "active"
	StatusInactive     Status = "inactive"
	StatusDiscontinued Status = "discontinued"
)

// StockStatus is derived from quantity versus minimum stock. It is never
// set directly; every quantity write recomputes it.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// DeriveStockStatus computes the stock status for a quantity and minimum
// stock threshold. Quantity zero is out of stock, at or below the minimum
// is low stock, anything above is in stock.
func DeriveStockStatus(quantity, minimumStock int) StockStatus {
	switch {
	case quantity == 0:
		return StockStatusOutOfStock
	case quantity <= minimumStock:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

// Product represents a sellable item tracked in inventory.
type Product struct {
	ID            int64       `json:"id"`
	SKU           string      `json:"sku"`
	Name          string      `json:"name"`
	Barcode       string      `json:"barcode,omitempty"`
	Description   string      `json:"description,omitempty"`
	CategoryID    int64       `json:"category_id"`
	Price         float64     `json:"price"`
	CostPrice     float64     `json:"cost_price"`
	StockQuantity int         `json:"stock_quantity"`
	MinimumStock  int         `json:"minimum_stock"`
	StockStatus   StockStatus `json:"stock_status"`
	UnitOfMeasure string      `json:"unit_of_measure"`
	Status        Status      `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
