package settings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salepoint/salepoint/internal/shared"
)

type Repository interface {
	Get(ctx context.Context) (BusinessSettings, error)
	Upsert(ctx context.Context, s BusinessSettings) (BusinessSettings, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

// The profile is a singleton row pinned at id 1.
func (r *repository) Get(ctx context.Context) (BusinessSettings, error) {
	var s BusinessSettings
	err := r.db.QueryRow(ctx, `SELECT id, business_name, address, phone, email, currency, receipt_footer, updated_at
		FROM business_settings WHERE id = 1`).
		Scan(&s.ID, &s.BusinessName, &s.Address, &s.Phone, &s.Email, &s.Currency, &s.ReceiptFooter, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return BusinessSettings{}, shared.ErrNotFound
	}
	return s, err
}

func (r *repository) Upsert(ctx context.Context, s BusinessSettings) (BusinessSettings, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO business_settings (id, business_name, address, phone, email, currency, receipt_footer, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id) DO UPDATE SET
			business_name = EXCLUDED.business_name,
			address = EXCLUDED.address,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			currency = EXCLUDED.currency,
			receipt_footer = EXCLUDED.receipt_footer,
			updated_at = NOW()
		RETURNING id, updated_at`,
		s.BusinessName, s.Address, s.Phone, s.Email, s.Currency, s.ReceiptFooter).
		Scan(&s.ID, &s.UpdatedAt)
	return s, err
}
