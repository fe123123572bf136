package licensing

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salepoint/salepoint/internal/shared"
)

type Repository interface {
	CurrentLicense(ctx context.Context) (License, error)
	CountProducts(ctx context.Context) (int, error)
	CountCategories(ctx context.Context) (int, error)
	CountOrdersOn(ctx context.Context, date time.Time) (int, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

// CurrentLicense loads the newest license together with its plan. The
// installation holds at most one meaningful license row; newest wins when
// historic rows linger.
func (r *repository) CurrentLicense(ctx context.Context) (License, error) {
	var lic License
	err := r.db.QueryRow(ctx, `SELECT
			l.id, l.plan_id, l.license_key, l.is_active, l.expires_at, l.created_at,
			p.id, p.code, p.name, p.max_products, p.max_categories, p.max_orders_per_day,
			p.allow_analytics, p.allow_receipts, p.created_at
		FROM licenses l
		JOIN subscription_plans p ON p.id = l.plan_id
		ORDER BY l.created_at DESC
		LIMIT 1`).Scan(
		&lic.ID, &lic.PlanID, &lic.Key, &lic.IsActive, &lic.ExpiresAt, &lic.CreatedAt,
		&lic.Plan.ID, &lic.Plan.Code, &lic.Plan.Name, &lic.Plan.MaxProducts,
		&lic.Plan.MaxCategories, &lic.Plan.MaxOrdersPerDay,
		&lic.Plan.AllowAnalytics, &lic.Plan.AllowReceipts, &lic.Plan.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return License{}, shared.ErrNotFound
	}
	return lic, err
}

func (r *repository) CountProducts(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	return count, err
}

func (r *repository) CountCategories(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM product_categories`).Scan(&count)
	return count, err
}

// CountOrdersOn counts completed sales for the date. Pending carts do
// not consume the daily ceiling until they complete.
func (r *repository) CountOrdersOn(ctx context.Context, date time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE status = 'completed' AND created_at::date = $1::date`,
		date).Scan(&count)
	return count, err
}
