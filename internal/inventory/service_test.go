package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salepoint/salepoint/internal/shared"
)

// mockRepository mirrors the clamp semantics of the real store: stock
// never goes below zero and the recorded quantity is the applied amount.
type mockRepository struct {
	stock        map[int64]int
	adjustments  []StockAdjustment
	transactions []InventoryTransaction
	nextID       int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{stock: map[int64]int{}, nextID: 1}
}

func (m *mockRepository) ApplyDelta(ctx context.Context, productID int64, delta int, txType TransactionType, actor, reference, notes string) (StockLevel, error) {
	available, ok := m.stock[productID]
	if !ok {
		return StockLevel{}, shared.ErrNotFound
	}
	if available+delta < 0 {
		return StockLevel{}, &shared.InsufficientStockError{Available: available}
	}
	m.stock[productID] = available + delta
	m.transactions = append(m.transactions, InventoryTransaction{
		ProductID: productID, Type: txType, Quantity: delta, Actor: actor,
	})
	return StockLevel{ProductID: productID, Quantity: m.stock[productID]}, nil
}

func (m *mockRepository) Adjust(ctx context.Context, adj StockAdjustment) (StockAdjustment, StockLevel, error) {
	available, ok := m.stock[adj.ProductID]
	if !ok {
		return StockAdjustment{}, StockLevel{}, shared.ErrNotFound
	}
	sign := adj.Type.Sign()
	delta := adj.Quantity
	if sign != 0 {
		delta = sign * adj.Quantity
	}
	if delta < 0 && -delta > available {
		delta = -available
	}
	if sign != 0 {
		adj.Quantity = sign * delta
	} else {
		adj.Quantity = delta
	}

	level, err := m.ApplyDelta(ctx, adj.ProductID, delta, adj.Type.TransactionType(), adj.Actor, adj.Reference, adj.Reason)
	if err != nil {
		return StockAdjustment{}, StockLevel{}, err
	}
	adj.ID = m.nextID
	m.nextID++
	adj.CreatedAt = time.Now().UTC()
	m.adjustments = append(m.adjustments, adj)
	return adj, level, nil
}

func (m *mockRepository) ListTransactions(ctx context.Context, filters ListTransactionFilters) ([]InventoryTransaction, error) {
	var out []InventoryTransaction
	for _, tx := range m.transactions {
		if filters.ProductID != nil && tx.ProductID != *filters.ProductID {
			continue
		}
		if filters.Type != nil && tx.Type != *filters.Type {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (m *mockRepository) ListAdjustments(ctx context.Context, limit int) ([]StockAdjustment, error) {
	return m.adjustments, nil
}

func TestAdjustRestockIncreasesStock(t *testing.T) {
	repo := newMockRepository()
	repo.stock[1] = 4
	svc := NewService(repo, nil)

	adj, level, err := svc.Adjust(context.Background(), AdjustStockRequest{
		ProductID: 1, Type: AdjustRestock, Quantity: 10, Reason: "weekly delivery",
	}, "manager")
	require.NoError(t, err)

	assert.Equal(t, 14, level.Quantity)
	assert.Equal(t, 10, adj.Quantity)
	assert.Equal(t, "manager", adj.Actor)

	txns, err := svc.Transactions(context.Background(), ListTransactionFilters{})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, TransactionIn, txns[0].Type)
	assert.Equal(t, 10, txns[0].Quantity)
}

func TestAdjustReduceClampsAtZero(t *testing.T) {
	repo := newMockRepository()
	repo.stock[1] = 3
	svc := NewService(repo, nil)

	adj, level, err := svc.Adjust(context.Background(), AdjustStockRequest{
		ProductID: 1, Type: AdjustDamage, Quantity: 8, Reason: "water damage",
	}, "manager")
	require.NoError(t, err)

	assert.Equal(t, 0, level.Quantity)
	assert.Equal(t, 3, adj.Quantity, "recorded amount is what was actually removed")
}

func TestAdjustSignedAdjustment(t *testing.T) {
	repo := newMockRepository()
	repo.stock[1] = 10
	svc := NewService(repo, nil)

	_, level, err := svc.Adjust(context.Background(), AdjustStockRequest{
		ProductID: 1, Type: AdjustAdjustment, Quantity: -4, Reason: "count correction",
	}, "manager")
	require.NoError(t, err)
	assert.Equal(t, 6, level.Quantity)

	_, level, err = svc.Adjust(context.Background(), AdjustStockRequest{
		ProductID: 1, Type: AdjustAdjustment, Quantity: 2, Reason: "count correction",
	}, "manager")
	require.NoError(t, err)
	assert.Equal(t, 8, level.Quantity)
}

func TestAdjustRejectsNonPositiveDirectionalQuantity(t *testing.T) {
	repo := newMockRepository()
	repo.stock[1] = 10
	svc := NewService(repo, nil)

	for _, adjType := range []AdjustmentType{AdjustRestock, AdjustReduce, AdjustDamage, AdjustReturn} {
		_, _, err := svc.Adjust(context.Background(), AdjustStockRequest{
			ProductID: 1, Type: adjType, Quantity: -5,
		}, "manager")
		assert.ErrorIs(t, err, shared.ErrValidation, string(adjType))
	}
	assert.Equal(t, 10, repo.stock[1], "failed adjustments leave stock untouched")
}

func TestAdjustRejectsZeroQuantity(t *testing.T) {
	svc := NewService(newMockRepository(), nil)

	_, _, err := svc.Adjust(context.Background(), AdjustStockRequest{
		ProductID: 1, Type: AdjustAdjustment, Quantity: 0,
	}, "manager")
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestAdjustUnknownProduct(t *testing.T) {
	svc := NewService(newMockRepository(), nil)

	_, _, err := svc.Adjust(context.Background(), AdjustStockRequest{
		ProductID: 42, Type: AdjustRestock, Quantity: 5,
	}, "manager")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRestockWrapper(t *testing.T) {
	repo := newMockRepository()
	repo.stock[1] = 0
	svc := NewService(repo, nil)

	adj, level, err := svc.Restock(context.Background(), 1, 20, "initial stock", "admin")
	require.NoError(t, err)
	assert.Equal(t, AdjustRestock, adj.Type)
	assert.Equal(t, 20, level.Quantity)
}

func TestTransactionsFilterByType(t *testing.T) {
	repo := newMockRepository()
	repo.stock[1] = 10
	svc := NewService(repo, nil)

	_, _, err := svc.Adjust(context.Background(), AdjustStockRequest{ProductID: 1, Type: AdjustRestock, Quantity: 5}, "m")
	require.NoError(t, err)
	_, _, err = svc.Adjust(context.Background(), AdjustStockRequest{ProductID: 1, Type: AdjustReduce, Quantity: 2}, "m")
	require.NoError(t, err)

	out := TransactionOut
	txns, err := svc.Transactions(context.Background(), ListTransactionFilters{Type: &out})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, -2, txns[0].Quantity)
}
