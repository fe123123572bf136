package inventory

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salepoint/salepoint/internal/platform/db"
)

type Repository interface {
	ApplyDelta(ctx context.Context, productID int64, delta int, txType TransactionType, actor, reference, notes string) (StockLevel, error)
	Adjust(ctx context.Context, adj StockAdjustment) (StockAdjustment, StockLevel, error)
	ListTransactions(ctx context.Context, filters ListTransactionFilters) ([]InventoryTransaction, error)
	ListAdjustments(ctx context.Context, limit int) ([]StockAdjustment, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

func (r *repository) ApplyDelta(ctx context.Context, productID int64, delta int, txType TransactionType, actor, reference, notes string) (StockLevel, error) {
	var level StockLevel
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		level, err = ApplyDeltaTx(ctx, tx, productID, delta, txType, actor, reference, notes)
		return err
	})
	return level, err
}

// Adjust applies a manual stock correction and its audit row as one
// unit. Reductions are floored at zero: the recorded quantity is the
// amount actually removed, not the amount requested.
func (r *repository) Adjust(ctx context.Context, adj StockAdjustment) (StockAdjustment, StockLevel, error) {
	var level StockLevel
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		sign := adj.Type.Sign()
		delta := adj.Quantity
		if sign != 0 {
			delta = sign * adj.Quantity
		}
		if delta < 0 {
			available, err := LockedQuantityTx(ctx, tx, adj.ProductID)
			if err != nil {
				return err
			}
			if -delta > available {
				delta = -available
			}
		}
		if sign != 0 {
			adj.Quantity = sign * delta
		} else {
			adj.Quantity = delta
		}

		var err error
		level, err = ApplyDeltaTx(ctx, tx, adj.ProductID, delta, adj.Type.TransactionType(), adj.Actor, adj.Reference, adj.Reason)
		if err != nil {
			return err
		}
		adj.ProductName = level.ProductName
		adj.CreatedAt = time.Now().UTC()

		return tx.QueryRow(ctx, `INSERT INTO stock_adjustments (product_id, adjustment_type, quantity, reason, reference, actor, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
			adj.ProductID, string(adj.Type), adj.Quantity, adj.Reason, adj.Reference, adj.Actor, adj.CreatedAt).Scan(&adj.ID)
	})
	if err != nil {
		return StockAdjustment{}, StockLevel{}, err
	}
	return adj, level, nil
}

func (r *repository) ListTransactions(ctx context.Context, filters ListTransactionFilters) ([]InventoryTransaction, error) {
	query := `SELECT t.id, t.product_id, p.name, t.transaction_type, t.quantity, t.reference, t.notes, t.actor, t.created_at
		FROM inventory_transactions t
		JOIN products p ON p.id = t.product_id
		WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.ProductID != nil {
		argCount++
		query += " AND t.product_id = $" + strconv.Itoa(argCount)
		args = append(args, *filters.ProductID)
	}
	if filters.Type != nil {
		argCount++
		query += " AND t.transaction_type = $" + strconv.Itoa(argCount)
		args = append(args, string(*filters.Type))
	}

	query += " ORDER BY t.created_at DESC, t.id DESC"
	limit := filters.Limit
	if limit <= 0 {
		limit = 100
	}
	argCount++
	query += " LIMIT $" + strconv.Itoa(argCount)
	args = append(args, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []InventoryTransaction
	for rows.Next() {
		var t InventoryTransaction
		if err := rows.Scan(&t.ID, &t.ProductID, &t.ProductName, &t.Type, &t.Quantity, &t.Reference, &t.Notes, &t.Actor, &t.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r *repository) ListAdjustments(ctx context.Context, limit int) ([]StockAdjustment, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx, `SELECT a.id, a.product_id, p.name, a.adjustment_type, a.quantity, a.reason, a.reference, a.actor, a.created_at
		FROM stock_adjustments a
		JOIN products p ON p.id = a.product_id
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []StockAdjustment
	for rows.Next() {
		var a StockAdjustment
		if err := rows.Scan(&a.ID, &a.ProductID, &a.ProductName, &a.Type, &a.Quantity, &a.Reason, &a.Reference, &a.Actor, &a.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
