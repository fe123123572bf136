package pos

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salepoint/salepoint/internal/licensing"
	"github.com/salepoint/salepoint/internal/shared"
)

type mockProduct struct {
	id    int64
	name  string
	price float64
	stock int
}

type mockRepository struct {
	products    map[string]*mockProduct
	orders      map[int64]*Order
	nextOrderID int64
	nextItemID  int64
}

func newMockRepository(products ...*mockProduct) *mockRepository {
	bySKU := map[string]*mockProduct{}
	var id int64
	for _, p := range products {
		id++
		p.id = id
		bySKU[skuOf(p)] = p
	}
	return &mockRepository{
		products:    bySKU,
		orders:      map[int64]*Order{},
		nextOrderID: 1,
		nextItemID:  1,
	}
}

// skuOf derives a stable SKU from the product name for test setup.
func skuOf(p *mockProduct) string {
	return "SKU-" + p.name
}

func (m *mockRepository) Create(ctx context.Context, order Order) (Order, error) {
	order.ID = m.nextOrderID
	m.nextOrderID++
	order.Status = StatusPending
	order.Items = []OrderItem{}
	order.CreatedAt = time.Now().UTC()
	stored := order
	m.orders[order.ID] = &stored
	return order, nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return Order{}, shared.ErrNotFound
	}
	copied := *order
	copied.Items = append([]OrderItem{}, order.Items...)
	return copied, nil
}

func (m *mockRepository) GetByNumber(ctx context.Context, number string) (Order, error) {
	for id, order := range m.orders {
		if order.OrderNumber == number {
			return m.Get(ctx, id)
		}
	}
	return Order{}, shared.ErrNotFound
}

func (m *mockRepository) List(ctx context.Context, filters ListFilters) ([]Order, int, error) {
	var orders []Order
	for id := range m.orders {
		o, _ := m.Get(ctx, id)
		orders = append(orders, o)
	}
	return orders, len(orders), nil
}

func (m *mockRepository) AddItem(ctx context.Context, orderID int64, sku string, quantity int, taxRate float64, actor string) (Order, error) {
	order, ok := m.orders[orderID]
	if !ok {
		return Order{}, shared.ErrNotFound
	}
	if order.Status != StatusPending {
		return Order{}, ErrOrderNotPending
	}
	product, ok := m.products[sku]
	if !ok {
		return Order{}, shared.ErrNotFound
	}
	if product.stock < quantity {
		return Order{}, &shared.InsufficientStockError{ProductName: product.name, Available: product.stock}
	}

	product.stock -= quantity
	merged := false
	for i := range order.Items {
		if order.Items[i].ProductID == product.id {
			order.Items[i].Quantity += quantity
			order.Items[i].LineTotal = order.Items[i].UnitPrice * float64(order.Items[i].Quantity)
			merged = true
			break
		}
	}
	if !merged {
		order.Items = append(order.Items, OrderItem{
			ID:          m.nextItemID,
			OrderID:     orderID,
			ProductID:   product.id,
			ProductName: product.name,
			SKU:         sku,
			Quantity:    quantity,
			UnitPrice:   product.price,
			LineTotal:   product.price * float64(quantity),
		})
		m.nextItemID++
	}

	m.recalc(order, taxRate)
	return m.Get(ctx, orderID)
}

func (m *mockRepository) RemoveItem(ctx context.Context, orderID, itemID int64, taxRate float64, actor string) (Order, error) {
	order, ok := m.orders[orderID]
	if !ok {
		return Order{}, shared.ErrNotFound
	}
	if order.Status != StatusPending {
		return Order{}, ErrOrderNotPending
	}
	for i, item := range order.Items {
		if item.ID == itemID {
			m.restoreStock(item)
			order.Items = append(order.Items[:i], order.Items[i+1:]...)
			m.recalc(order, taxRate)
			return m.Get(ctx, orderID)
		}
	}
	return Order{}, shared.ErrNotFound
}

func (m *mockRepository) Delete(ctx context.Context, orderID int64, actor string) error {
	order, ok := m.orders[orderID]
	if !ok {
		return shared.ErrNotFound
	}
	if order.Status != StatusPending {
		return ErrOrderNotPending
	}
	for _, item := range order.Items {
		m.restoreStock(item)
	}
	delete(m.orders, orderID)
	return nil
}

func (m *mockRepository) Complete(ctx context.Context, orderID int64, req CompleteOrderRequest, taxRate float64, completedAt time.Time) (Order, error) {
	order, ok := m.orders[orderID]
	if !ok {
		return Order{}, shared.ErrNotFound
	}
	if order.Status != StatusPending {
		return Order{}, ErrOrderNotPending
	}
	if len(order.Items) == 0 {
		return Order{}, ErrEmptyOrder
	}

	totals := CalculateTotals(order.Items, taxRate, req.DiscountAmount)
	order.Status = StatusCompleted
	order.PaymentMethod = req.PaymentMethod
	order.CustomerName = req.CustomerName
	order.CustomerPhone = req.CustomerPhone
	order.Subtotal = totals.Subtotal
	order.TaxAmount = totals.TaxAmount
	order.DiscountAmount = req.DiscountAmount
	order.TotalAmount = totals.TotalAmount
	order.CompletedAt = &completedAt
	return m.Get(ctx, orderID)
}

func (m *mockRepository) recalc(order *Order, taxRate float64) {
	totals := CalculateTotals(order.Items, taxRate, order.DiscountAmount)
	order.Subtotal = totals.Subtotal
	order.TaxAmount = totals.TaxAmount
	order.TotalAmount = totals.TotalAmount
}

func (m *mockRepository) restoreStock(item OrderItem) {
	for _, p := range m.products {
		if p.id == item.ProductID {
			p.stock += item.Quantity
			return
		}
	}
}

type mockGuard struct {
	err error
}

func (g *mockGuard) CheckLimit(ctx context.Context, kind licensing.LimitKind) error {
	return g.err
}

type posFixture struct {
	service *Service
	repo    *mockRepository
	guard   *mockGuard
	redis   *miniredis.Miniredis
}

func newPOSFixture(t *testing.T, taxRate float64, products ...*mockProduct) *posFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := newMockRepository(products...)
	guard := &mockGuard{}
	clock := shared.FixedClock{Instant: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)}
	carts := NewCartSessions(client, time.Hour)

	return &posFixture{
		service: NewService(repo, carts, guard, nil, clock, taxRate),
		repo:    repo,
		guard:   guard,
		redis:   mr,
	}
}

const testSession = "sess-1"

func TestStartOrResumeCreatesThenResumes(t *testing.T) {
	f := newPOSFixture(t, 7.5)
	ctx := context.Background()

	first, err := f.service.StartOrResume(ctx, testSession, "cashier-1")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, first.Status)
	assert.Regexp(t, `^POS\d{14}[0-9A-Z]{4}$`, first.OrderNumber)
	assert.Zero(t, first.TotalAmount)

	second, err := f.service.StartOrResume(ctx, testSession, "cashier-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same session resumes the same cart")
}

func TestStartOrResumeReplacesStalePointer(t *testing.T) {
	f := newPOSFixture(t, 7.5)
	ctx := context.Background()

	first, err := f.service.StartOrResume(ctx, testSession, "cashier-1")
	require.NoError(t, err)

	// The order vanishes out from under the session.
	delete(f.repo.orders, first.ID)

	second, err := f.service.StartOrResume(ctx, testSession, "cashier-1")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestAddAndRemoveRoundTripsStock(t *testing.T) {
	water := &mockProduct{name: "Water", price: 200, stock: 10}
	f := newPOSFixture(t, 0, water)
	ctx := context.Background()

	order, err := f.service.AddItem(ctx, testSession, "cashier-1", AddItemRequest{SKU: skuOf(water), Quantity: 6})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 4, water.stock)
	assert.InDelta(t, 1200, order.Items[0].LineTotal, 0.001)
	assert.InDelta(t, 1200, order.Subtotal, 0.001)

	order, err = f.service.RemoveItem(ctx, testSession, order.Items[0].ID, "cashier-1")
	require.NoError(t, err)
	assert.Empty(t, order.Items)
	assert.Equal(t, 10, water.stock, "removal restores stock exactly")
	assert.Zero(t, order.Subtotal)
}

func TestAddItemInsufficientStock(t *testing.T) {
	chips := &mockProduct{name: "Chips", price: 500, stock: 3}
	f := newPOSFixture(t, 7.5, chips)
	ctx := context.Background()

	_, err := f.service.AddItem(ctx, testSession, "cashier-1", AddItemRequest{SKU: skuOf(chips), Quantity: 5})

	var stockErr *shared.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, 3, chips.stock, "stock unchanged on rejection")

	order, err := f.service.Current(ctx, testSession)
	require.NoError(t, err)
	assert.Empty(t, order.Items, "no line created on rejection")
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	f := newPOSFixture(t, 7.5)
	_, err := f.service.AddItem(context.Background(), testSession, "cashier-1", AddItemRequest{SKU: "SKU-X", Quantity: 0})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestAddItemKeepsCapturedUnitPrice(t *testing.T) {
	cola := &mockProduct{name: "Cola", price: 350, stock: 20}
	f := newPOSFixture(t, 0, cola)
	ctx := context.Background()

	_, err := f.service.AddItem(ctx, testSession, "cashier-1", AddItemRequest{SKU: skuOf(cola), Quantity: 2})
	require.NoError(t, err)

	// Price rises mid-cart; the captured unit price must not move.
	cola.price = 400
	order, err := f.service.AddItem(ctx, testSession, "cashier-1", AddItemRequest{SKU: skuOf(cola), Quantity: 3})
	require.NoError(t, err)

	require.Len(t, order.Items, 1, "same product merges into one line")
	assert.Equal(t, 5, order.Items[0].Quantity)
	assert.InDelta(t, 350, order.Items[0].UnitPrice, 0.001)
	assert.InDelta(t, 1750, order.Items[0].LineTotal, 0.001)
}

func TestCompleteRejectsEmptyCart(t *testing.T) {
	f := newPOSFixture(t, 7.5)
	ctx := context.Background()

	_, err := f.service.StartOrResume(ctx, testSession, "cashier-1")
	require.NoError(t, err)

	_, err = f.service.Complete(ctx, testSession, CompleteOrderRequest{PaymentMethod: PaymentCash})
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestCompleteFinalizesAndClearsPointer(t *testing.T) {
	water := &mockProduct{name: "Water", price: 200, stock: 10}
	f := newPOSFixture(t, 7.5, water)
	ctx := context.Background()

	_, err := f.service.AddItem(ctx, testSession, "cashier-1", AddItemRequest{SKU: skuOf(water), Quantity: 2})
	require.NoError(t, err)

	order, err := f.service.Complete(ctx, testSession, CompleteOrderRequest{
		PaymentMethod: PaymentTransfer,
		CustomerName:  "Ada",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, order.Status)
	assert.Equal(t, PaymentTransfer, order.PaymentMethod)
	assert.InDelta(t, 400, order.Subtotal, 0.001)
	assert.InDelta(t, 30, order.TaxAmount, 0.001)
	assert.InDelta(t, 430, order.TotalAmount, 0.001)
	require.NotNil(t, order.CompletedAt)

	// Completion consumed the cart pointer.
	_, err = f.service.Current(ctx, testSession)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCompleteBlockedByDailyLimit(t *testing.T) {
	water := &mockProduct{name: "Water", price: 200, stock: 10}
	f := newPOSFixture(t, 7.5, water)
	ctx := context.Background()

	_, err := f.service.AddItem(ctx, testSession, "cashier-1", AddItemRequest{SKU: skuOf(water), Quantity: 1})
	require.NoError(t, err)

	f.guard.err = shared.ErrLimitExceeded
	_, err = f.service.Complete(ctx, testSession, CompleteOrderRequest{PaymentMethod: PaymentCash})
	assert.ErrorIs(t, err, shared.ErrLimitExceeded)

	order, err := f.service.Current(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, order.Status, "denied completion leaves the cart pending")
}

func TestClearRestoresStockAndDeletesOrder(t *testing.T) {
	water := &mockProduct{name: "Water", price: 200, stock: 10}
	chips := &mockProduct{name: "Chips", price: 500, stock: 8}
	f := newPOSFixture(t, 7.5, water, chips)
	ctx := context.Background()

	_, err := f.service.AddItem(ctx, testSession, "cashier-1", AddItemRequest{SKU: skuOf(water), Quantity: 4})
	require.NoError(t, err)
	order, err := f.service.AddItem(ctx, testSession, "cashier-1", AddItemRequest{SKU: skuOf(chips), Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, f.service.Clear(ctx, testSession, "cashier-1"))
	assert.Equal(t, 10, water.stock)
	assert.Equal(t, 8, chips.stock)

	_, err = f.service.Get(ctx, order.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound, "cancellation deletes the order outright")

	_, err = f.service.Current(ctx, testSession)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRepeatSkipsShortStockLines(t *testing.T) {
	water := &mockProduct{name: "Water", price: 200, stock: 20}
	chips := &mockProduct{name: "Chips", price: 500, stock: 10}
	f := newPOSFixture(t, 0, water, chips)
	ctx := context.Background()

	_, err := f.service.AddItem(ctx, testSession, "cashier-1", AddItemRequest{SKU: skuOf(water), Quantity: 5})
	require.NoError(t, err)
	_, err = f.service.AddItem(ctx, testSession, "cashier-1", AddItemRequest{SKU: skuOf(chips), Quantity: 10})
	require.NoError(t, err)
	original, err := f.service.Complete(ctx, testSession, CompleteOrderRequest{PaymentMethod: PaymentCash})
	require.NoError(t, err)

	// All chips are gone now; only water can be copied.
	result, err := f.service.Repeat(ctx, testSession, "cashier-1", original.ID)
	require.NoError(t, err)

	require.Len(t, result.Order.Items, 1)
	assert.Equal(t, skuOf(water), result.Order.Items[0].SKU)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, skuOf(chips), result.Skipped[0].SKU)
	assert.Equal(t, 10, result.Skipped[0].Requested)
	assert.Equal(t, 0, result.Skipped[0].Available)

	// The new cart is the session's current order.
	current, err := f.service.Current(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, result.Order.ID, current.ID)
}
