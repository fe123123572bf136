package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/salepoint/salepoint/internal/catalog/products"
	"github.com/salepoint/salepoint/internal/shared"
)

// ApplyDeltaTx mutates a product's stock quantity inside the caller's
// transaction. It locks the product row, applies the signed delta,
// rejects underflow, re-derives the stock status and appends the ledger
// entry. Quantity and status are written in the same statement so a
// reader never sees one without the other.
//
// Cart operations compose this with their own order writes under a
// single transaction; a crash between the stock move and the order
// write is never observable.
func ApplyDeltaTx(ctx context.Context, tx pgx.Tx, productID int64, delta int, txType TransactionType, actor, reference, notes string) (StockLevel, error) {
	var (
		name     string
		quantity int
		minimum  int
	)
	err := tx.QueryRow(ctx, `SELECT name, stock_quantity, minimum_stock FROM products WHERE id = $1 FOR UPDATE`, productID).
		Scan(&name, &quantity, &minimum)
	if errors.Is(err, pgx.ErrNoRows) {
		return StockLevel{}, shared.ErrNotFound
	}
	if err != nil {
		return StockLevel{}, err
	}

	next := quantity + delta
	if next < 0 {
		return StockLevel{}, &shared.InsufficientStockError{ProductName: name, Available: quantity}
	}

	status := products.DeriveStockStatus(next, minimum)
	if _, err := tx.Exec(ctx, `UPDATE products SET stock_quantity = $1, stock_status = $2, updated_at = NOW() WHERE id = $3`,
		next, string(status), productID); err != nil {
		return StockLevel{}, err
	}

	if _, err := tx.Exec(ctx, `INSERT INTO inventory_transactions (product_id, transaction_type, quantity, reference, notes, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		productID, string(txType), delta, reference, notes, actor, time.Now().UTC()); err != nil {
		return StockLevel{}, err
	}

	return StockLevel{
		ProductID:    productID,
		ProductName:  name,
		Quantity:     next,
		MinimumStock: minimum,
		Status:       string(status),
	}, nil
}

// LockedQuantityTx reads a product's stock under a row lock without
// mutating it, for callers that need to decide before moving stock.
func LockedQuantityTx(ctx context.Context, tx pgx.Tx, productID int64) (int, error) {
	var quantity int
	err := tx.QueryRow(ctx, `SELECT stock_quantity FROM products WHERE id = $1 FOR UPDATE`, productID).Scan(&quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, shared.ErrNotFound
	}
	return quantity, err
}
