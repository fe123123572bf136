package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salepoint/salepoint/internal/shared"
)

type mockRepository struct {
	methodTotals map[string]map[string]MethodTotals
	topSellers   map[string][]TopSellingItem
	stored       map[string]DailySalesSummary
	upserts      int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		methodTotals: map[string]map[string]MethodTotals{},
		topSellers:   map[string][]TopSellingItem{},
		stored:       map[string]DailySalesSummary{},
	}
}

func (m *mockRepository) MethodTotalsOn(ctx context.Context, date time.Time) (map[string]MethodTotals, error) {
	return m.methodTotals[date.Format(dateLayout)], nil
}

func (m *mockRepository) TopSellersOn(ctx context.Context, date time.Time, limit int) ([]TopSellingItem, error) {
	sellers := m.topSellers[date.Format(dateLayout)]
	if len(sellers) > limit {
		sellers = sellers[:limit]
	}
	return sellers, nil
}

func (m *mockRepository) Upsert(ctx context.Context, s DailySalesSummary) (DailySalesSummary, error) {
	m.upserts++
	s.ID = 1
	m.stored[s.Date] = s
	return s, nil
}

func (m *mockRepository) Get(ctx context.Context, date time.Time) (DailySalesSummary, error) {
	s, ok := m.stored[date.Format(dateLayout)]
	if !ok {
		return DailySalesSummary{}, shared.ErrNotFound
	}
	return s, nil
}

func (m *mockRepository) Range(ctx context.Context, from, to time.Time) ([]DailySalesSummary, error) {
	var out []DailySalesSummary
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if s, ok := m.stored[d.Format(dateLayout)]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

var reportDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newReportService(repo *mockRepository) *Service {
	return NewService(repo, shared.FixedClock{Instant: reportDate.Add(20 * time.Hour)})
}

func TestGenerateAggregatesByMethod(t *testing.T) {
	repo := newMockRepository()
	repo.methodTotals["2024-01-01"] = map[string]MethodTotals{
		"cash":     {Revenue: 500, Transactions: 1},
		"transfer": {Revenue: 300, Transactions: 1},
	}
	svc := newReportService(repo)

	summary, err := svc.Generate(context.Background(), reportDate)
	require.NoError(t, err)

	assert.InDelta(t, 800, summary.TotalRevenue, 0.001)
	assert.Equal(t, 2, summary.TotalTransactions)
	assert.InDelta(t, 500, summary.ByMethod["cash"].Revenue, 0.001)
	assert.Equal(t, 1, summary.ByMethod["cash"].Transactions)
	assert.InDelta(t, 300, summary.ByMethod["transfer"].Revenue, 0.001)

	// Unused methods are present and zeroed, not absent.
	for _, method := range []string{"pos", "mobile_money", "credit"} {
		totals, ok := summary.ByMethod[method]
		require.True(t, ok, method)
		assert.Zero(t, totals.Revenue)
		assert.Zero(t, totals.Transactions)
	}
}

func TestGenerateEmptyDay(t *testing.T) {
	svc := newReportService(newMockRepository())

	summary, err := svc.Generate(context.Background(), reportDate)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalRevenue)
	assert.Zero(t, summary.TotalTransactions)
	assert.Empty(t, summary.TopSellingItems)
	assert.Len(t, summary.ByMethod, 5)
}

func TestGenerateIdempotent(t *testing.T) {
	repo := newMockRepository()
	repo.methodTotals["2024-01-01"] = map[string]MethodTotals{
		"cash": {Revenue: 1250, Transactions: 3},
	}
	repo.topSellers["2024-01-01"] = []TopSellingItem{
		{Name: "Water", SKU: "BEV-001", Quantity: 9, Revenue: 1800},
		{Name: "Chips", SKU: "SNK-001", Quantity: 4, Revenue: 2000},
	}
	svc := newReportService(repo)

	first, err := svc.Generate(context.Background(), reportDate)
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), reportDate)
	require.NoError(t, err)

	assert.Equal(t, first, second, "rerun with unchanged orders yields identical fields")
	assert.Equal(t, 2, repo.upserts, "each run overwrites the same row")
}

func TestGenerateCapsTopSellers(t *testing.T) {
	repo := newMockRepository()
	sellers := make([]TopSellingItem, 8)
	for i := range sellers {
		sellers[i] = TopSellingItem{SKU: string(rune('A' + i)), Quantity: 10 - i}
	}
	repo.topSellers["2024-01-01"] = sellers
	svc := newReportService(repo)

	summary, err := svc.Generate(context.Background(), reportDate)
	require.NoError(t, err)
	assert.Len(t, summary.TopSellingItems, 5)
	assert.Equal(t, "A", summary.TopSellingItems[0].SKU)
}

func TestRangeReturnsStoredSummaries(t *testing.T) {
	repo := newMockRepository()
	svc := newReportService(repo)

	for day := 1; day <= 3; day++ {
		date := time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
		_, err := svc.Generate(context.Background(), date)
		require.NoError(t, err)
	}

	summaries, err := svc.Range(context.Background(),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
}
