package products

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salepoint/salepoint/internal/licensing"
	"github.com/salepoint/salepoint/internal/shared"
)

type mockRepository struct {
	products map[int64]Product
	bySKU    map[string]int64
	nextID   int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		products: map[int64]Product{},
		bySKU:    map[string]int64{},
		nextID:   1,
	}
}

func (m *mockRepository) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	var items []Product
	for _, p := range m.products {
		items = append(items, p)
	}
	return items, len(items), nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (Product, error) {
	p, ok := m.products[id]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	return p, nil
}

func (m *mockRepository) GetBySKU(ctx context.Context, sku string) (Product, error) {
	id, ok := m.bySKU[sku]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	return m.products[id], nil
}

func (m *mockRepository) Create(ctx context.Context, p Product) (Product, error) {
	if _, exists := m.bySKU[p.SKU]; exists {
		return Product{}, shared.ErrDuplicate
	}
	p.ID = m.nextID
	m.nextID++
	m.products[p.ID] = p
	m.bySKU[p.SKU] = p.ID
	return p, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, p Product) error {
	if _, ok := m.products[id]; !ok {
		return shared.ErrNotFound
	}
	p.ID = id
	m.products[id] = p
	return nil
}

func (m *mockRepository) LowStock(ctx context.Context, limit int) ([]Product, error) {
	var items []Product
	for _, p := range m.products {
		if p.StockStatus != StockStatusInStock {
			items = append(items, p)
		}
	}
	return items, nil
}

type mockGuard struct {
	err   error
	calls int
}

func (g *mockGuard) CheckLimit(ctx context.Context, kind licensing.LimitKind) error {
	g.calls++
	return g.err
}

func TestCreateDerivesStockStatusAndDefaults(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, &mockGuard{})

	product, err := svc.Create(context.Background(), CreateProductRequest{
		SKU:           "BEV-001",
		Name:          "Bottled Water",
		CategoryID:    1,
		Price:         200,
		StockQuantity: 4,
		MinimumStock:  5,
	})
	require.NoError(t, err)
	assert.Equal(t, StockStatusLowStock, product.StockStatus)
	assert.Equal(t, StatusActive, product.Status)
	assert.Equal(t, "pcs", product.UnitOfMeasure)
}

func TestCreateReChecksLimit(t *testing.T) {
	repo := newMockRepository()
	guard := &mockGuard{err: shared.ErrLimitExceeded}
	svc := NewService(repo, guard)

	_, err := svc.Create(context.Background(), CreateProductRequest{SKU: "X", Name: "X", CategoryID: 1})
	assert.ErrorIs(t, err, shared.ErrLimitExceeded)
	assert.Empty(t, repo.products, "denied creation persists nothing")
	assert.Equal(t, 1, guard.calls)
}

func TestCreateDuplicateSKU(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, &mockGuard{})

	_, err := svc.Create(context.Background(), CreateProductRequest{SKU: "DUP", Name: "One", CategoryID: 1})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateProductRequest{SKU: "DUP", Name: "Two", CategoryID: 1})
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestUpdateReDerivesStatusWhenMinimumMoves(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, &mockGuard{})

	product, err := svc.Create(context.Background(), CreateProductRequest{
		SKU:           "BEV-002",
		Name:          "Cola",
		CategoryID:    1,
		StockQuantity: 10,
		MinimumStock:  5,
	})
	require.NoError(t, err)
	require.Equal(t, StockStatusInStock, product.StockStatus)

	// Raising the threshold above the on-hand quantity flips the
	// derived status without any stock movement.
	newMinimum := 15
	updated, err := svc.Update(context.Background(), product.ID, UpdateProductRequest{MinimumStock: &newMinimum})
	require.NoError(t, err)
	assert.Equal(t, StockStatusLowStock, updated.StockStatus)
}

func TestGetValidation(t *testing.T) {
	svc := NewService(newMockRepository(), &mockGuard{})

	_, err := svc.Get(context.Background(), 0)
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.GetBySKU(context.Background(), "  ")
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Get(context.Background(), 99)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
