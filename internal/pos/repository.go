package pos

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salepoint/salepoint/internal/inventory"
	"github.com/salepoint/salepoint/internal/platform/db"
	"github.com/salepoint/salepoint/internal/shared"
)

var (
	// ErrOrderNotPending rejects mutations on a completed order.
	ErrOrderNotPending = fmt.Errorf("%w: order is not pending", shared.ErrValidation)
	// ErrEmptyOrder rejects completion of a cart with no items.
	ErrEmptyOrder = fmt.Errorf("%w: cannot complete an empty order", shared.ErrValidation)
)

type Repository interface {
	Create(ctx context.Context, order Order) (Order, error)
	Get(ctx context.Context, id int64) (Order, error)
	GetByNumber(ctx context.Context, number string) (Order, error)
	List(ctx context.Context, filters ListFilters) ([]Order, int, error)
	AddItem(ctx context.Context, orderID int64, sku string, quantity int, taxRate float64, actor string) (Order, error)
	RemoveItem(ctx context.Context, orderID, itemID int64, taxRate float64, actor string) (Order, error)
	Delete(ctx context.Context, orderID int64, actor string) error
	Complete(ctx context.Context, orderID int64, req CompleteOrderRequest, taxRate float64, completedAt time.Time) (Order, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const orderColumns = `id, order_number, status, subtotal, tax_amount, discount_amount, total_amount,
	payment_method, customer_name, customer_phone, cashier_id, completed_at, created_at, updated_at`

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *repository) Create(ctx context.Context, order Order) (Order, error) {
	now := time.Now().UTC()
	err := r.db.QueryRow(ctx, `INSERT INTO orders (order_number, status, subtotal, tax_amount, discount_amount, total_amount,
			payment_method, customer_name, customer_phone, cashier_id, created_at, updated_at)
		VALUES ($1, $2, 0, 0, 0, 0, $3, '', '', $4, $5, $5) RETURNING id`,
		order.OrderNumber, string(StatusPending), string(order.PaymentMethod), order.CashierID, now).Scan(&order.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Order{}, shared.ErrDuplicate
		}
		return Order{}, err
	}
	order.Status = StatusPending
	order.CreatedAt = now
	order.UpdatedAt = now
	order.Items = []OrderItem{}
	return order, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Order, error) {
	return loadOrder(ctx, r.db, `WHERE id = $1`, id)
}

func (r *repository) GetByNumber(ctx context.Context, number string) (Order, error) {
	return loadOrder(ctx, r.db, `WHERE order_number = $1`, number)
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Order, int, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM orders WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	appendCond := func(cond string, value interface{}) {
		argCount++
		placeholder := cond + " $" + strconv.Itoa(argCount)
		query += placeholder
		countQuery += placeholder
		args = append(args, value)
	}

	if filters.Status != nil {
		appendCond(" AND status =", string(*filters.Status))
	}
	if filters.PaymentMethod != nil {
		appendCond(" AND payment_method =", string(*filters.PaymentMethod))
	}
	if filters.Date != "" {
		appendCond(" AND created_at::date =", filters.Date)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += " ORDER BY created_at DESC, id DESC"
	if filters.Limit > 0 {
		argCount++
		query += " LIMIT $" + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += " OFFSET $" + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

// AddItem appends quantity of the product to the order, or merges into
// the existing line for the same product. Stock is deducted here, at
// add time; completion later performs no stock mutation. The line
// write, the stock move and the totals recompute share one transaction.
func (r *repository) AddItem(ctx context.Context, orderID int64, sku string, quantity int, taxRate float64, actor string) (Order, error) {
	var order Order
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		number, err := lockPendingOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		var (
			productID int64
			name      string
			price     float64
		)
		err = tx.QueryRow(ctx, `SELECT id, name, price FROM products WHERE sku = $1`, sku).Scan(&productID, &name, &price)
		if errors.Is(err, pgx.ErrNoRows) {
			return shared.ErrNotFound
		}
		if err != nil {
			return err
		}

		// The ledger rejects underflow before anything is written, so
		// an oversized add leaves the order untouched.
		if _, err := inventory.ApplyDeltaTx(ctx, tx, productID, -quantity, inventory.TransactionSale, actor, number, ""); err != nil {
			return err
		}

		var (
			itemID    int64
			existing  int
			unitPrice float64
		)
		err = tx.QueryRow(ctx, `SELECT id, quantity, unit_price FROM order_items WHERE order_id = $1 AND product_id = $2`,
			orderID, productID).Scan(&itemID, &existing, &unitPrice)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			// First add captures the current price; later merges keep it.
			unitPrice = price
			newQty := quantity
			if _, err := tx.Exec(ctx, `INSERT INTO order_items (order_id, product_id, quantity, unit_price, line_total)
				VALUES ($1, $2, $3, $4, $5)`,
				orderID, productID, newQty, unitPrice, unitPrice*float64(newQty)); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			newQty := existing + quantity
			if _, err := tx.Exec(ctx, `UPDATE order_items SET quantity = $1, line_total = $2 WHERE id = $3`,
				newQty, unitPrice*float64(newQty), itemID); err != nil {
				return err
			}
		}

		if err := recalcTotals(ctx, tx, orderID, taxRate); err != nil {
			return err
		}
		order, err = loadOrderTx(ctx, tx, orderID)
		return err
	})
	return order, err
}

// RemoveItem deletes the line and returns its quantity to stock in the
// same transaction.
func (r *repository) RemoveItem(ctx context.Context, orderID, itemID int64, taxRate float64, actor string) (Order, error) {
	var order Order
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		number, err := lockPendingOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		var (
			productID int64
			quantity  int
		)
		err = tx.QueryRow(ctx, `SELECT product_id, quantity FROM order_items WHERE id = $1 AND order_id = $2`,
			itemID, orderID).Scan(&productID, &quantity)
		if errors.Is(err, pgx.ErrNoRows) {
			return shared.ErrNotFound
		}
		if err != nil {
			return err
		}

		if _, err := inventory.ApplyDeltaTx(ctx, tx, productID, quantity, inventory.TransactionReturn, actor, number, "item removed"); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE id = $1`, itemID); err != nil {
			return err
		}
		if err := recalcTotals(ctx, tx, orderID, taxRate); err != nil {
			return err
		}
		order, err = loadOrderTx(ctx, tx, orderID)
		return err
	})
	return order, err
}

// Delete cancels a pending cart: every line's stock is restored, then
// the items and the order row are removed.
func (r *repository) Delete(ctx context.Context, orderID int64, actor string) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		number, err := lockPendingOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		rows, err := tx.Query(ctx, `SELECT product_id, quantity FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
		if err != nil {
			return err
		}
		type line struct {
			productID int64
			quantity  int
		}
		var lines []line
		for rows.Next() {
			var l line
			if err := rows.Scan(&l.productID, &l.quantity); err != nil {
				rows.Close()
				return err
			}
			lines = append(lines, l)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, l := range lines {
			if _, err := inventory.ApplyDeltaTx(ctx, tx, l.productID, l.quantity, inventory.TransactionReturn, actor, number, "cart cleared"); err != nil {
				return err
			}
		}
		if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
		return err
	})
}

// Complete transitions the order to its terminal state. Stock was
// already deducted as items were added, so this is a status and
// metadata write only.
func (r *repository) Complete(ctx context.Context, orderID int64, req CompleteOrderRequest, taxRate float64, completedAt time.Time) (Order, error) {
	var order Order
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := lockPendingOrder(ctx, tx, orderID); err != nil {
			return err
		}

		var count int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM order_items WHERE order_id = $1`, orderID).Scan(&count); err != nil {
			return err
		}
		if count == 0 {
			return ErrEmptyOrder
		}

		items, err := loadItems(ctx, tx, orderID)
		if err != nil {
			return err
		}
		totals := CalculateTotals(items, taxRate, req.DiscountAmount)

		if _, err := tx.Exec(ctx, `UPDATE orders
			SET status = $1, payment_method = $2, customer_name = $3, customer_phone = $4,
				subtotal = $5, tax_amount = $6, discount_amount = $7, total_amount = $8,
				completed_at = $9, updated_at = NOW()
			WHERE id = $10`,
			string(StatusCompleted), string(req.PaymentMethod), req.CustomerName, req.CustomerPhone,
			totals.Subtotal, totals.TaxAmount, req.DiscountAmount, totals.TotalAmount,
			completedAt, orderID); err != nil {
			return err
		}
		order, err = loadOrderTx(ctx, tx, orderID)
		return err
	})
	return order, err
}

// lockPendingOrder takes the order row lock and returns the order
// number. Completed orders refuse further mutation.
func lockPendingOrder(ctx context.Context, tx pgx.Tx, orderID int64) (string, error) {
	var (
		number string
		status string
	)
	err := tx.QueryRow(ctx, `SELECT order_number, status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&number, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", shared.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if status != string(StatusPending) {
		return "", ErrOrderNotPending
	}
	return number, nil
}

func recalcTotals(ctx context.Context, tx pgx.Tx, orderID int64, taxRate float64) error {
	items, err := loadItems(ctx, tx, orderID)
	if err != nil {
		return err
	}
	var discount float64
	if err := tx.QueryRow(ctx, `SELECT discount_amount FROM orders WHERE id = $1`, orderID).Scan(&discount); err != nil {
		return err
	}
	totals := CalculateTotals(items, taxRate, discount)
	_, err = tx.Exec(ctx, `UPDATE orders SET subtotal = $1, tax_amount = $2, total_amount = $3, updated_at = NOW() WHERE id = $4`,
		totals.Subtotal, totals.TaxAmount, totals.TotalAmount, orderID)
	return err
}

func loadItems(ctx context.Context, q querier, orderID int64) ([]OrderItem, error) {
	rows, err := q.Query(ctx, `SELECT i.id, i.order_id, i.product_id, p.name, p.sku, i.quantity, i.unit_price, i.line_total
		FROM order_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.order_id = $1
		ORDER BY i.id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []OrderItem{}
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.SKU,
			&item.Quantity, &item.UnitPrice, &item.LineTotal); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func loadOrder(ctx context.Context, q querier, where string, arg any) (Order, error) {
	row := q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders `+where, arg)
	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, shared.ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	order.Items, err = loadItems(ctx, q, order.ID)
	return order, err
}

func loadOrderTx(ctx context.Context, tx pgx.Tx, id int64) (Order, error) {
	return loadOrder(ctx, tx, `WHERE id = $1`, id)
}

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.Status, &o.Subtotal, &o.TaxAmount, &o.DiscountAmount, &o.TotalAmount,
		&o.PaymentMethod, &o.CustomerName, &o.CustomerPhone, &o.CashierID, &o.CompletedAt, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}
