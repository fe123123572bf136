package inventory

import "time"

// TransactionType classifies a stock ledger entry.
type TransactionType string

const (
	TransactionIn         TransactionType = "in"
	TransactionOut        TransactionType = "out"
	TransactionAdjustment TransactionType = "adjustment"
	TransactionSale       TransactionType = "sale"
	TransactionReturn     TransactionType = "return"
)

// InventoryTransaction is an append-only audit record of one stock
// quantity change. Quantity carries the signed delta that was applied.
type InventoryTransaction struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Type        TransactionType `json:"transaction_type"`
	Quantity    int             `json:"quantity"`
	Reference   string          `json:"reference,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Actor       string          `json:"actor,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AdjustmentType classifies a manual stock correction outside the cart
// flow.
type AdjustmentType string

const (
	AdjustRestock    AdjustmentType = "restock"
	AdjustReduce     AdjustmentType = "reduce"
	AdjustAdjustment AdjustmentType = "adjustment"
	AdjustDamage     AdjustmentType = "damage"
	AdjustReturn     AdjustmentType = "return"
)

// Sign maps the adjustment type to the direction of the stock move.
// Plain adjustments carry their own sign in the requested quantity.
func (t AdjustmentType) Sign() int {
	switch t {
	case AdjustRestock, AdjustReturn:
		return 1
	case AdjustReduce, AdjustDamage:
		return -1
	default:
		return 0
	}
}

// TransactionType maps the adjustment type to the ledger entry type it
// produces.
func (t AdjustmentType) TransactionType() TransactionType {
	switch t {
	case AdjustRestock:
		return TransactionIn
	case AdjustReduce, AdjustDamage:
		return TransactionOut
	case AdjustReturn:
		return TransactionReturn
	default:
		return TransactionAdjustment
	}
}

// StockAdjustment records a manual restock, reduction or correction.
// Quantity holds the amount actually applied after the zero floor, so
// the audit trail matches the resulting stock level.
type StockAdjustment struct {
	ID          int64          `json:"id"`
	ProductID   int64          `json:"product_id"`
	ProductName string         `json:"product_name,omitempty"`
	Type        AdjustmentType `json:"adjustment_type"`
	Quantity    int            `json:"quantity"`
	Reason      string         `json:"reason,omitempty"`
	Reference   string         `json:"reference,omitempty"`
	Actor       string         `json:"actor,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// StockLevel is the post-mutation snapshot returned by ledger writes.
// Quantity and Status are always written together, so a level read off
// a ledger result is never stale relative to itself.
type StockLevel struct {
	ProductID    int64  `json:"product_id"`
	ProductName  string `json:"product_name"`
	Quantity     int    `json:"quantity"`
	MinimumStock int    `json:"minimum_stock"`
	Status       string `json:"stock_status"`
}

// AdjustStockRequest is the inbound payload for a manual adjustment.
// Quantity must be positive for directional types; plain adjustments
// accept a signed value.
type AdjustStockRequest struct {
	ProductID int64          `json:"product_id" validate:"required"`
	Type      AdjustmentType `json:"adjustment_type" validate:"required,oneof=restock reduce adjustment damage return"`
	Quantity  int            `json:"quantity" validate:"required"`
	Reason    string         `json:"reason" validate:"max=255"`
	Reference string         `json:"reference" validate:"max=100"`
}

// ListTransactionFilters scope the transaction history listing.
type ListTransactionFilters struct {
	ProductID *int64
	Type      *TransactionType
	Limit     int
}
