package settings

import (
	"context"
	"errors"

	"github.com/salepoint/salepoint/internal/shared"
)

// Service serves the business profile, falling back to configured
// defaults before the profile row is first saved.
type Service struct {
	repo            Repository
	audit           *shared.AuditLogger
	defaultName     string
	defaultCurrency string
}

func NewService(repo Repository, audit *shared.AuditLogger, defaultName, defaultCurrency string) *Service {
	return &Service{repo: repo, audit: audit, defaultName: defaultName, defaultCurrency: defaultCurrency}
}

func (s *Service) Get(ctx context.Context) (BusinessSettings, error) {
	stored, err := s.repo.Get(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		return BusinessSettings{
			BusinessName: s.defaultName,
			Currency:     s.defaultCurrency,
		}, nil
	}
	return stored, err
}

// BusinessName resolves the name used on receipts and in verification
// codes.
func (s *Service) BusinessName(ctx context.Context) (string, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return "", err
	}
	return settings.BusinessName, nil
}

func (s *Service) Update(ctx context.Context, req UpdateSettingsRequest) (BusinessSettings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return BusinessSettings{}, err
	}
	if req.BusinessName != nil {
		current.BusinessName = *req.BusinessName
	}
	if req.Address != nil {
		current.Address = *req.Address
	}
	if req.Phone != nil {
		current.Phone = *req.Phone
	}
	if req.Email != nil {
		current.Email = *req.Email
	}
	if req.Currency != nil {
		current.Currency = *req.Currency
	}
	if req.ReceiptFooter != nil {
		current.ReceiptFooter = *req.ReceiptFooter
	}

	updated, err := s.repo.Upsert(ctx, current)
	if err != nil {
		return BusinessSettings{}, err
	}
	// The business name feeds verification codes, so renames are audited.
	_ = s.audit.Record(ctx, shared.AuditLog{
		Actor:    shared.ActorFromContext(ctx),
		Action:   "update",
		Entity:   "business_settings",
		EntityID: "1",
		Meta:     map[string]any{"business_name": updated.BusinessName},
	})
	return updated, nil
}
