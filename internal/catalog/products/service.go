package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/salepoint/salepoint/internal/licensing"
	"github.com/salepoint/salepoint/internal/shared"
)

type Service struct {
	repo  Repository
	guard licensing.Guard
}

func NewService(repo Repository, guard licensing.Guard) *Service {
	return &Service{repo: repo, guard: guard}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("%w: invalid product id", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) GetBySKU(ctx context.Context, sku string) (Product, error) {
	if strings.TrimSpace(sku) == "" {
		return Product{}, fmt.Errorf("%w: sku is required", shared.ErrValidation)
	}
	return s.repo.GetBySKU(ctx, sku)
}

// Create persists a new product. The plan limit is re-checked here even
// when the handler already ran the cheap early check; the second check
// closes the race against concurrent creators.
func (s *Service) Create(ctx context.Context, req CreateProductRequest) (Product, error) {
	if err := s.guard.CheckLimit(ctx, licensing.LimitProducts); err != nil {
		return Product{}, err
	}

	product := Product{
		SKU:           strings.TrimSpace(req.SKU),
		Name:          strings.TrimSpace(req.Name),
		Barcode:       req.Barcode,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		Price:         req.Price,
		CostPrice:     req.CostPrice,
		StockQuantity: req.StockQuantity,
		MinimumStock:  req.MinimumStock,
		UnitOfMeasure: req.UnitOfMeasure,
		Status:        StatusActive,
	}
	if product.UnitOfMeasure == "" {
		product.UnitOfMeasure = "pcs"
	}
	product.StockStatus = DeriveStockStatus(product.StockQuantity, product.MinimumStock)

	return s.repo.Create(ctx, product)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest) (Product, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}

	if req.Name != nil {
		existing.Name = strings.TrimSpace(*req.Name)
	}
	if req.Barcode != nil {
		existing.Barcode = *req.Barcode
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.CategoryID != nil {
		existing.CategoryID = *req.CategoryID
	}
	if req.Price != nil {
		existing.Price = *req.Price
	}
	if req.CostPrice != nil {
		existing.CostPrice = *req.CostPrice
	}
	if req.MinimumStock != nil {
		existing.MinimumStock = *req.MinimumStock
	}
	if req.UnitOfMeasure != nil {
		existing.UnitOfMeasure = *req.UnitOfMeasure
	}
	if req.Status != nil {
		existing.Status = *req.Status
	}

	// Minimum stock moves the low-stock boundary, so the derived status
	// must follow even though quantity did not change.
	existing.StockStatus = DeriveStockStatus(existing.StockQuantity, existing.MinimumStock)

	if err := s.repo.Update(ctx, id, existing); err != nil {
		return Product{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) LowStock(ctx context.Context, limit int) ([]Product, error) {
	return s.repo.LowStock(ctx, limit)
}
