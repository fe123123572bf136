package inventory

import (
	"context"
	"fmt"
	"strconv"

	"github.com/salepoint/salepoint/internal/shared"
)

// Service exposes the stock ledger outside the cart flow: manual
// adjustments and the transaction history.
type Service struct {
	repo  Repository
	audit *shared.AuditLogger
}

func NewService(repo Repository, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// Adjust applies a manual stock correction. Directional types must
// carry a positive quantity; plain adjustments carry their own sign.
func (s *Service) Adjust(ctx context.Context, req AdjustStockRequest, actor string) (StockAdjustment, StockLevel, error) {
	if req.Type.Sign() != 0 && req.Quantity <= 0 {
		return StockAdjustment{}, StockLevel{}, fmt.Errorf("%w: quantity must be positive for %s", shared.ErrValidation, req.Type)
	}
	if req.Quantity == 0 {
		return StockAdjustment{}, StockLevel{}, fmt.Errorf("%w: quantity must be non-zero", shared.ErrValidation)
	}

	adj, level, err := s.repo.Adjust(ctx, StockAdjustment{
		ProductID: req.ProductID,
		Type:      req.Type,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		Reference: req.Reference,
		Actor:     actor,
	})
	if err != nil {
		return StockAdjustment{}, StockLevel{}, err
	}

	// Audit is best effort; the adjustment row is the source of truth.
	_ = s.audit.Record(ctx, shared.AuditLog{
		Actor:    actor,
		Action:   "adjust",
		Entity:   "product",
		EntityID: strconv.FormatInt(adj.ProductID, 10),
		Meta:     map[string]any{"type": string(adj.Type), "quantity": adj.Quantity},
	})
	return adj, level, nil
}

// Restock is a convenience wrapper for the common positive correction.
func (s *Service) Restock(ctx context.Context, productID int64, quantity int, reason, actor string) (StockAdjustment, StockLevel, error) {
	return s.Adjust(ctx, AdjustStockRequest{
		ProductID: productID,
		Type:      AdjustRestock,
		Quantity:  quantity,
		Reason:    reason,
	}, actor)
}

func (s *Service) Transactions(ctx context.Context, filters ListTransactionFilters) ([]InventoryTransaction, error) {
	return s.repo.ListTransactions(ctx, filters)
}

func (s *Service) Adjustments(ctx context.Context, limit int) ([]StockAdjustment, error) {
	return s.repo.ListAdjustments(ctx, limit)
}
