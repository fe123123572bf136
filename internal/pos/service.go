package pos

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/salepoint/salepoint/internal/licensing"
	"github.com/salepoint/salepoint/internal/shared"
)

// Service drives the cart state machine. Every session owns at most one
// pending order, tracked by the cart pointer; all stock movement goes
// through the ledger inside the repository's transactions.
type Service struct {
	repo    Repository
	carts   *CartSessions
	guard   licensing.Guard
	audit   *shared.AuditLogger
	clock   shared.Clock
	taxRate float64
}

func NewService(repo Repository, carts *CartSessions, guard licensing.Guard, audit *shared.AuditLogger, clock shared.Clock, taxRate float64) *Service {
	return &Service{
		repo:    repo,
		carts:   carts,
		guard:   guard,
		audit:   audit,
		clock:   clock,
		taxRate: taxRate,
	}
}

// StartOrResume returns the session's current pending order, creating
// one when the session has none. A stale pointer whose order was
// deleted out from under the session is dropped and replaced.
func (s *Service) StartOrResume(ctx context.Context, sessionID, cashierID string) (Order, error) {
	orderID, ok, err := s.carts.Current(ctx, sessionID)
	if err != nil {
		return Order{}, err
	}
	if ok {
		order, err := s.repo.Get(ctx, orderID)
		switch {
		case err == nil && order.Status == StatusPending:
			return order, nil
		case err != nil && !errors.Is(err, shared.ErrNotFound):
			return Order{}, err
		}
		if err := s.carts.Clear(ctx, sessionID); err != nil {
			return Order{}, err
		}
	}
	return s.startNew(ctx, sessionID, cashierID)
}

func (s *Service) startNew(ctx context.Context, sessionID, cashierID string) (Order, error) {
	order, err := s.repo.Create(ctx, Order{
		OrderNumber:   NewOrderNumber(s.clock.Now()),
		PaymentMethod: PaymentCash,
		CashierID:     cashierID,
	})
	if err != nil {
		return Order{}, err
	}
	if err := s.carts.Set(ctx, sessionID, order.ID); err != nil {
		return Order{}, err
	}
	return order, nil
}

// AddItem puts quantity of the SKU into the session's cart, starting a
// cart first when none is active. Insufficient stock rejects the whole
// add and leaves both the cart and the stock untouched.
func (s *Service) AddItem(ctx context.Context, sessionID, cashierID string, req AddItemRequest) (Order, error) {
	if req.Quantity <= 0 {
		return Order{}, fmt.Errorf("%w: quantity must be positive", shared.ErrValidation)
	}
	order, err := s.StartOrResume(ctx, sessionID, cashierID)
	if err != nil {
		return Order{}, err
	}
	return s.repo.AddItem(ctx, order.ID, req.SKU, req.Quantity, s.taxRate, cashierID)
}

// RemoveItem deletes the line and restores its quantity to stock.
func (s *Service) RemoveItem(ctx context.Context, sessionID string, itemID int64, cashierID string) (Order, error) {
	orderID, err := s.currentOrderID(ctx, sessionID)
	if err != nil {
		return Order{}, err
	}
	return s.repo.RemoveItem(ctx, orderID, itemID, s.taxRate, cashierID)
}

// Clear cancels the session's cart outright: stock is restored for
// every line, the order is deleted and the pointer dropped.
func (s *Service) Clear(ctx context.Context, sessionID, cashierID string) error {
	orderID, err := s.currentOrderID(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, orderID, cashierID); err != nil {
		return err
	}
	return s.carts.Clear(ctx, sessionID)
}

// Complete finalizes the cart as a sale. Only completion counts toward
// the daily order ceiling, so the guard runs here rather than at cart
// creation, and runs immediately before the persist.
func (s *Service) Complete(ctx context.Context, sessionID string, req CompleteOrderRequest) (Order, error) {
	orderID, err := s.currentOrderID(ctx, sessionID)
	if err != nil {
		return Order{}, err
	}
	if err := s.guard.CheckLimit(ctx, licensing.LimitOrdersPerDay); err != nil {
		if errors.Is(err, shared.ErrLimitExceeded) {
			_ = s.audit.Record(ctx, shared.AuditLog{
				Actor:    shared.ActorFromContext(ctx),
				Action:   "complete_denied",
				Entity:   "order",
				EntityID: strconv.FormatInt(orderID, 10),
			})
		}
		return Order{}, err
	}
	order, err := s.repo.Complete(ctx, orderID, req, s.taxRate, s.clock.Now())
	if err != nil {
		return Order{}, err
	}
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		return Order{}, err
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		Actor:    shared.ActorFromContext(ctx),
		Action:   "complete",
		Entity:   "order",
		EntityID: strconv.FormatInt(order.ID, 10),
		Meta:     map[string]any{"order_number": order.OrderNumber, "total": order.TotalAmount},
	})
	return order, nil
}

// Repeat copies a historical order's lines into a fresh cart, skipping
// lines whose product no longer has enough stock. A partial copy is a
// success; the skipped lines are reported, not fatal.
func (s *Service) Repeat(ctx context.Context, sessionID, cashierID string, originalID int64) (RepeatResult, error) {
	original, err := s.repo.Get(ctx, originalID)
	if err != nil {
		return RepeatResult{}, err
	}

	order, err := s.startNew(ctx, sessionID, cashierID)
	if err != nil {
		return RepeatResult{}, err
	}

	result := RepeatResult{Order: order}
	for _, item := range original.Items {
		updated, err := s.repo.AddItem(ctx, order.ID, item.SKU, item.Quantity, s.taxRate, cashierID)
		if err != nil {
			var stockErr *shared.InsufficientStockError
			switch {
			case errors.As(err, &stockErr):
				result.Skipped = append(result.Skipped, SkippedLine{
					SKU:         item.SKU,
					ProductName: item.ProductName,
					Requested:   item.Quantity,
					Available:   stockErr.Available,
					Reason:      "insufficient stock",
				})
			case errors.Is(err, shared.ErrNotFound):
				result.Skipped = append(result.Skipped, SkippedLine{
					SKU:         item.SKU,
					ProductName: item.ProductName,
					Requested:   item.Quantity,
					Reason:      "product no longer exists",
				})
			default:
				return RepeatResult{}, err
			}
			continue
		}
		result.Order = updated
	}
	return result, nil
}

// Current returns the session's pending order without creating one.
func (s *Service) Current(ctx context.Context, sessionID string) (Order, error) {
	orderID, err := s.currentOrderID(ctx, sessionID)
	if err != nil {
		return Order{}, err
	}
	return s.repo.Get(ctx, orderID)
}

func (s *Service) Get(ctx context.Context, id int64) (Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByNumber(ctx context.Context, number string) (Order, error) {
	return s.repo.GetByNumber(ctx, number)
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Order, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) currentOrderID(ctx context.Context, sessionID string) (int64, error) {
	orderID, ok, err := s.carts.Current(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, shared.ErrNotFound
	}
	return orderID, nil
}
