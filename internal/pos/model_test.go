package pos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTotals(t *testing.T) {
	items := []OrderItem{
		{Quantity: 2, UnitPrice: 200, LineTotal: 400},
		{Quantity: 1, UnitPrice: 600, LineTotal: 600},
	}

	totals := CalculateTotals(items, 7.5, 0)
	assert.InDelta(t, 1000, totals.Subtotal, 0.001)
	assert.InDelta(t, 75, totals.TaxAmount, 0.001)
	assert.InDelta(t, 1075, totals.TotalAmount, 0.001)
}

func TestCalculateTotalsZeroTax(t *testing.T) {
	items := []OrderItem{{LineTotal: 500}}
	totals := CalculateTotals(items, 0, 0)
	assert.InDelta(t, 500, totals.TotalAmount, 0.001)
	assert.Zero(t, totals.TaxAmount)
}

func TestCalculateTotalsDiscountFloorsAtZero(t *testing.T) {
	items := []OrderItem{{LineTotal: 100}}
	totals := CalculateTotals(items, 0, 500)
	assert.Zero(t, totals.TotalAmount)
}

func TestCalculateTotalsEmpty(t *testing.T) {
	totals := CalculateTotals(nil, 7.5, 0)
	assert.Zero(t, totals.Subtotal)
	assert.Zero(t, totals.TaxAmount)
	assert.Zero(t, totals.TotalAmount)
}

func TestNewOrderNumberShape(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC)
	number := NewOrderNumber(now)
	assert.Regexp(t, `^POS20240115103045[0-9A-Z]{4}$`, number)
}

func TestNewOrderNumberDistinctWithinSecond(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[NewOrderNumber(now)] = true
	}
	// Random suffixes make same-second collisions vanishingly rare.
	assert.Greater(t, len(seen), 45)
}
