package categories

import (
	"context"

	"github.com/salepoint/salepoint/internal/licensing"
)

type Service struct {
	repo  Repository
	guard licensing.Guard
}

func NewService(repo Repository, guard licensing.Guard) *Service {
	return &Service{repo: repo, guard: guard}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Category, error) {
	return s.repo.Get(ctx, id)
}

// Create re-checks the category ceiling right before persisting so a
// request that passed the handler check cannot slip past a ceiling
// reached in the meantime.
func (s *Service) Create(ctx context.Context, req CreateCategoryRequest) (Category, error) {
	if err := s.guard.CheckLimit(ctx, licensing.LimitCategories); err != nil {
		return Category{}, err
	}
	return s.repo.Create(ctx, Category{
		Name:        req.Name,
		Description: req.Description,
		ColorCode:   req.ColorCode,
		Icon:        req.Icon,
	})
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateCategoryRequest) (Category, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Category{}, err
	}
	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.Description != nil {
		current.Description = *req.Description
	}
	if req.ColorCode != nil {
		current.ColorCode = *req.ColorCode
	}
	if req.Icon != nil {
		current.Icon = *req.Icon
	}
	if err := s.repo.Update(ctx, id, current); err != nil {
		return Category{}, err
	}
	return s.repo.Get(ctx, id)
}
