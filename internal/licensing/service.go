package licensing

import (
	"context"
	"errors"
	"fmt"

	"github.com/salepoint/salepoint/internal/shared"
)

// Guard is the limit-check port consumed by creation paths. Callers run
// it twice: once before presenting the operation and once again
// immediately before the persist, closing the check-then-act race.
type Guard interface {
	CheckLimit(ctx context.Context, kind LimitKind) error
}

// Service resolves the installation license and enforces plan ceilings.
type Service struct {
	repo  Repository
	clock shared.Clock
}

func NewService(repo Repository, clock shared.Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

// CheckLimit verifies the license and the plan ceiling for kind. It is a
// pure read-then-decide gate: no side effects beyond the typed denial.
func (s *Service) CheckLimit(ctx context.Context, kind LimitKind) error {
	lic, err := s.repo.CurrentLicense(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrLicenseInvalid
		}
		return err
	}
	if !lic.IsActive || lic.ExpiredOn(s.clock.Today()) {
		return shared.ErrLicenseInvalid
	}

	ceiling := lic.Plan.Ceiling(kind)
	if ceiling == 0 {
		return nil
	}

	usage, err := s.usage(ctx, kind)
	if err != nil {
		return err
	}
	if usage >= ceiling {
		return fmt.Errorf("%w: %s at %d of %d", shared.ErrLimitExceeded, kind, usage, ceiling)
	}
	return nil
}

// CurrentUsage snapshots consumption for the dashboard.
func (s *Service) CurrentUsage(ctx context.Context) (Usage, error) {
	lic, err := s.repo.CurrentLicense(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Usage{}, shared.ErrLicenseInvalid
		}
		return Usage{}, err
	}

	products, err := s.repo.CountProducts(ctx)
	if err != nil {
		return Usage{}, err
	}
	categories, err := s.repo.CountCategories(ctx)
	if err != nil {
		return Usage{}, err
	}
	ordersToday, err := s.repo.CountOrdersOn(ctx, s.clock.Today())
	if err != nil {
		return Usage{}, err
	}

	return Usage{
		PlanCode:        lic.Plan.Code,
		PlanName:        lic.Plan.Name,
		LicenseActive:   lic.IsActive && !lic.ExpiredOn(s.clock.Today()),
		ExpiresAt:       lic.ExpiresAt.Format("2006-01-02"),
		Products:        products,
		MaxProducts:     lic.Plan.MaxProducts,
		Categories:      categories,
		MaxCategories:   lic.Plan.MaxCategories,
		OrdersToday:     ordersToday,
		MaxOrdersPerDay: lic.Plan.MaxOrdersPerDay,
	}, nil
}

func (s *Service) usage(ctx context.Context, kind LimitKind) (int, error) {
	switch kind {
	case LimitProducts:
		return s.repo.CountProducts(ctx)
	case LimitCategories:
		return s.repo.CountCategories(ctx)
	case LimitOrdersPerDay:
		return s.repo.CountOrdersOn(ctx, s.clock.Today())
	default:
		return 0, fmt.Errorf("licensing: unknown limit kind %q", kind)
	}
}
