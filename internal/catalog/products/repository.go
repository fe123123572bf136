package products

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salepoint/salepoint/internal/platform/db"
	"github.com/salepoint/salepoint/internal/shared"
)

const productColumns = `id, sku, name, barcode, description, category_id, price, cost_price,
	stock_quantity, minimum_stock, stock_status, unit_of_measure, status, created_at, updated_at`

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Product, int, error)
	Get(ctx context.Context, id int64) (Product, error)
	GetBySKU(ctx context.Context, sku string) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, id int64, product Product) error
	LowStock(ctx context.Context, limit int) ([]Product, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM products WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	appendCond := func(cond string, value interface{}) {
		argCount++
		placeholder := cond + " $" + strconv.Itoa(argCount)
		query += placeholder
		countQuery += placeholder
		args = append(args, value)
	}

	if filters.CategoryID != nil {
		appendCond(" AND category_id =", *filters.CategoryID)
	}
	if filters.Search != "" {
		appendCond(" AND (name ILIKE", "%"+filters.Search+"%")
		query += " OR sku ILIKE $" + strconv.Itoa(argCount) + " OR barcode ILIKE $" + strconv.Itoa(argCount) + ")"
		countQuery += " OR sku ILIKE $" + strconv.Itoa(argCount) + " OR barcode ILIKE $" + strconv.Itoa(argCount) + ")"
	}
	if filters.Status != nil {
		appendCond(" AND status =", string(*filters.Status))
	}
	if filters.StockStatus != nil {
		appendCond(" AND stock_status =", string(*filters.StockStatus))
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += " ORDER BY name ASC"
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

	var items []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, shared.ErrNotFound
	}
	return p, err
}

func (r *repository) GetBySKU(ctx context.Context, sku string) (Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, shared.ErrNotFound
	}
	return p, err
}

func (r *repository) Create(ctx context.Context, p Product) (Product, error) {
	now := time.Now().UTC()
	err := r.db.QueryRow(ctx, `INSERT INTO products
		(sku, name, barcode, description, category_id, price, cost_price,
		 stock_quantity, minimum_stock, stock_status, unit_of_measure, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
		RETURNING id`,
		p.SKU, p.Name, p.Barcode, p.Description, p.CategoryID, p.Price, p.CostPrice,
		p.StockQuantity, p.MinimumStock, string(p.StockStatus), p.UnitOfMeasure, string(p.Status), now,
	).Scan(&p.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Product{}, shared.ErrDuplicate
		}
		return Product{}, err
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

func (r *repository) Update(ctx context.Context, id int64, p Product) error {
	tag, err := r.db.Exec(ctx, `UPDATE products SET
		name = $1, barcode = $2, description = $3, category_id = $4, price = $5,
		cost_price = $6, minimum_stock = $7, stock_status = $8, unit_of_measure = $9,
		status = $10, updated_at = NOW()
		WHERE id = $11`,
		p.Name, p.Barcode, p.Description, p.CategoryID, p.Price,
		p.CostPrice, p.MinimumStock, string(p.StockStatus), p.UnitOfMeasure,
		string(p.Status), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) LowStock(ctx context.Context, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products
		WHERE stock_status IN ('low_stock', 'out_of_stock')
		ORDER BY stock_quantity ASC, name ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	var stockStatus, status string
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Barcode, &p.Description, &p.CategoryID,
		&p.Price, &p.CostPrice, &p.StockQuantity, &p.MinimumStock, &stockStatus,
		&p.UnitOfMeasure, &status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	p.StockStatus = StockStatus(stockStatus)
	p.Status = Status(status)
	return p, nil
}
