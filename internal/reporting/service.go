package reporting

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/salepoint/salepoint/internal/pos"
	"github.com/salepoint/salepoint/internal/shared"
)

const topSellerCount = 5

// Service generates and serves daily sales summaries. Generation is a
// full recomputation from completed orders, never an incremental
// counter, so corrections made mid-day are absorbed on the next run.
type Service struct {
	repo  Repository
	clock shared.Clock
	group singleflight.Group
}

func NewService(repo Repository, clock shared.Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

// Generate recomputes and upserts the summary for the date. Concurrent
// dashboard reads for the same date collapse into one recomputation.
func (s *Service) Generate(ctx context.Context, date time.Time) (DailySalesSummary, error) {
	key := date.Format(dateLayout)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.generate(ctx, date)
	})
	if err != nil {
		return DailySalesSummary{}, err
	}
	return v.(DailySalesSummary), nil
}

func (s *Service) generate(ctx context.Context, date time.Time) (DailySalesSummary, error) {
	byMethod, err := s.repo.MethodTotalsOn(ctx, date)
	if err != nil {
		return DailySalesSummary{}, err
	}
	topSellers, err := s.repo.TopSellersOn(ctx, date, topSellerCount)
	if err != nil {
		return DailySalesSummary{}, err
	}

	summary := DailySalesSummary{
		Date:            date.Format(dateLayout),
		ByMethod:        map[string]MethodTotals{},
		TopSellingItems: topSellers,
		GeneratedAt:     s.clock.Now(),
	}
	// Every accepted method gets an entry, zeroed when no orders used it.
	for _, method := range pos.PaymentMethods {
		summary.ByMethod[string(method)] = byMethod[string(method)]
	}
	for _, t := range byMethod {
		summary.TotalRevenue += t.Revenue
		summary.TotalTransactions += t.Transactions
	}

	return s.repo.Upsert(ctx, summary)
}

// Today regenerates and returns today's summary.
func (s *Service) Today(ctx context.Context) (DailySalesSummary, error) {
	return s.Generate(ctx, s.clock.Today())
}

// Range returns stored summaries between the dates inclusive. Stored
// rows may lag today's orders; callers wanting today fresh should use
// Generate.
func (s *Service) Range(ctx context.Context, from, to time.Time) ([]DailySalesSummary, error) {
	return s.repo.Range(ctx, from, to)
}
