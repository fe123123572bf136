package receipts

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/salepoint/salepoint/internal/pos"
	"github.com/salepoint/salepoint/internal/shared"
)

// OrderSource resolves orders for receipt rendering and verification.
type OrderSource interface {
	GetByNumber(ctx context.Context, number string) (pos.Order, error)
}

// BusinessNameSource resolves the business name baked into codes.
type BusinessNameSource interface {
	BusinessName(ctx context.Context) (string, error)
}

// Receipt is the renderable payload for a completed sale.
type Receipt struct {
	Order            pos.Order `json:"order"`
	BusinessName     string    `json:"business_name"`
	VerificationCode string    `json:"verification_code"`
	IssuedAt         time.Time `json:"issued_at"`
}

// VerificationResult is the public verification outcome. Order details
// are only disclosed when the presented code matches.
type VerificationResult struct {
	Valid       bool       `json:"valid"`
	OrderNumber string     `json:"order_number"`
	TotalAmount float64    `json:"total_amount,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type Service struct {
	orders   OrderSource
	business BusinessNameSource
	clock    shared.Clock
}

func NewService(orders OrderSource, business BusinessNameSource, clock shared.Clock) *Service {
	return &Service{orders: orders, business: business, clock: clock}
}

// Receipt builds the receipt payload for a completed order. Pending
// carts have no receipt.
func (s *Service) Receipt(ctx context.Context, orderNumber string) (Receipt, error) {
	order, err := s.completedOrder(ctx, orderNumber)
	if err != nil {
		return Receipt{}, err
	}
	name, err := s.business.BusinessName(ctx)
	if err != nil {
		return Receipt{}, err
	}
	return Receipt{
		Order:            order,
		BusinessName:     name,
		VerificationCode: Code(order.OrderNumber, order.CreatedAt, name),
		IssuedAt:         s.clock.Now(),
	}, nil
}

// Verify recomputes the code for the order and compares it against the
// presented one. Comparison is case-insensitive on the presented code.
func (s *Service) Verify(ctx context.Context, orderNumber, presented string) (VerificationResult, error) {
	order, err := s.completedOrder(ctx, orderNumber)
	if err != nil {
		return VerificationResult{}, err
	}
	name, err := s.business.BusinessName(ctx)
	if err != nil {
		return VerificationResult{}, err
	}

	expected := Code(order.OrderNumber, order.CreatedAt, name)
	presented = strings.ToUpper(strings.TrimSpace(presented))
	if subtle.ConstantTimeCompare([]byte(expected), []byte(presented)) != 1 {
		return VerificationResult{Valid: false, OrderNumber: order.OrderNumber}, nil
	}
	return VerificationResult{
		Valid:       true,
		OrderNumber: order.OrderNumber,
		TotalAmount: order.TotalAmount,
		CompletedAt: order.CompletedAt,
	}, nil
}

func (s *Service) completedOrder(ctx context.Context, orderNumber string) (pos.Order, error) {
	order, err := s.orders.GetByNumber(ctx, orderNumber)
	if err != nil {
		return pos.Order{}, err
	}
	if order.Status != pos.StatusCompleted {
		return pos.Order{}, shared.ErrNotFound
	}
	return order, nil
}
