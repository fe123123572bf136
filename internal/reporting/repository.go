package reporting

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salepoint/salepoint/internal/shared"
)

type Repository interface {
	MethodTotalsOn(ctx context.Context, date time.Time) (map[string]MethodTotals, error)
	TopSellersOn(ctx context.Context, date time.Time, limit int) ([]TopSellingItem, error)
	Upsert(ctx context.Context, summary DailySalesSummary) (DailySalesSummary, error)
	Get(ctx context.Context, date time.Time) (DailySalesSummary, error)
	Range(ctx context.Context, from, to time.Time) ([]DailySalesSummary, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const dateLayout = "2006-01-02"

// MethodTotalsOn aggregates completed orders for the date, grouped by
// payment method.
func (r *repository) MethodTotalsOn(ctx context.Context, date time.Time) (map[string]MethodTotals, error) {
	rows, err := r.db.Query(ctx, `SELECT payment_method, COALESCE(SUM(total_amount), 0), COUNT(*)
		FROM orders
		WHERE status = 'completed' AND created_at::date = $1::date
		GROUP BY payment_method`, date.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := map[string]MethodTotals{}
	for rows.Next() {
		var (
			method string
			t      MethodTotals
		)
		if err := rows.Scan(&method, &t.Revenue, &t.Transactions); err != nil {
			return nil, err
		}
		totals[method] = t
	}
	return totals, rows.Err()
}

// TopSellersOn ranks products sold on the date by total quantity, ties
// broken by first appearance so reruns produce the same order.
func (r *repository) TopSellersOn(ctx context.Context, date time.Time, limit int) ([]TopSellingItem, error) {
	rows, err := r.db.Query(ctx, `SELECT p.name, p.sku, SUM(i.quantity), COALESCE(SUM(i.line_total), 0)
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		JOIN products p ON p.id = i.product_id
		WHERE o.status = 'completed' AND o.created_at::date = $1::date
		GROUP BY p.id, p.name, p.sku
		ORDER BY SUM(i.quantity) DESC, MIN(i.id) ASC
		LIMIT $2`, date.Format(dateLayout), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []TopSellingItem{}
	for rows.Next() {
		var item TopSellingItem
		if err := rows.Scan(&item.Name, &item.SKU, &item.Quantity, &item.Revenue); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repository) Upsert(ctx context.Context, s DailySalesSummary) (DailySalesSummary, error) {
	byMethod, err := json.Marshal(s.ByMethod)
	if err != nil {
		return DailySalesSummary{}, err
	}
	topItems, err := json.Marshal(s.TopSellingItems)
	if err != nil {
		return DailySalesSummary{}, err
	}

	err = r.db.QueryRow(ctx, `INSERT INTO daily_sales_summaries
			(summary_date, total_revenue, total_transactions, by_method, top_selling_items, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (summary_date) DO UPDATE SET
			total_revenue = EXCLUDED.total_revenue,
			total_transactions = EXCLUDED.total_transactions,
			by_method = EXCLUDED.by_method,
			top_selling_items = EXCLUDED.top_selling_items,
			generated_at = EXCLUDED.generated_at
		RETURNING id`,
		s.Date, s.TotalRevenue, s.TotalTransactions, byMethod, topItems, s.GeneratedAt).Scan(&s.ID)
	if err != nil {
		return DailySalesSummary{}, err
	}
	return s, nil
}

func (r *repository) Get(ctx context.Context, date time.Time) (DailySalesSummary, error) {
	return r.scanSummary(r.db.QueryRow(ctx, `SELECT id, summary_date::text, total_revenue, total_transactions,
			by_method, top_selling_items, generated_at
		FROM daily_sales_summaries WHERE summary_date = $1::date`, date.Format(dateLayout)))
}

func (r *repository) Range(ctx context.Context, from, to time.Time) ([]DailySalesSummary, error) {
	rows, err := r.db.Query(ctx, `SELECT id, summary_date::text, total_revenue, total_transactions,
			by_method, top_selling_items, generated_at
		FROM daily_sales_summaries
		WHERE summary_date BETWEEN $1::date AND $2::date
		ORDER BY summary_date ASC`, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []DailySalesSummary
	for rows.Next() {
		s, err := r.scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *repository) scanSummary(row pgx.Row) (DailySalesSummary, error) {
	var (
		s        DailySalesSummary
		byMethod []byte
		topItems []byte
	)
	err := row.Scan(&s.ID, &s.Date, &s.TotalRevenue, &s.TotalTransactions, &byMethod, &topItems, &s.GeneratedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return DailySalesSummary{}, shared.ErrNotFound
	}
	if err != nil {
		return DailySalesSummary{}, err
	}
	if err := json.Unmarshal(byMethod, &s.ByMethod); err != nil {
		return DailySalesSummary{}, err
	}
	if err := json.Unmarshal(topItems, &s.TopSellingItems); err != nil {
		return DailySalesSummary{}, err
	}
	return s, nil
}
