package service

import (
	"context"

	"eatup/internal/domain"
	"eatup/internal/repository"

	"go.uber.org/zap"
)

// CategoryService exposes the category taxonomy
type CategoryService interface {
	Tree(ctx context.Context) (domain.CategoryTree, error)
	Upsert(ctx context.Context, req domain.CategoryUpsert) (*domain.Category, error)
}

type categoryService struct {
	store  repository.Store
	logger *zap.Logger
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(store repository.Store, logger *zap.Logger) CategoryService {
	return &categoryService{store: store, logger: logger}
}

// Tree returns every category grouped by its large category
func (s *categoryService) Tree(ctx context.Context) (domain.CategoryTree, error) {
	categories, err := s.store.Categories().List(ctx)
	if err != nil {
		return nil, storageError(s.logger, "list categories", err)
	}
	return domain.NewCategoryTree(categories), nil
}

// Upsert creates a category or updates the default expiry of an existing one
func (s *categoryService) Upsert(ctx context.Context, req domain.CategoryUpsert) (*domain.Category, error) {
	req.Normalize()
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	category := &domain.Category{
		Large:      req.Large,
		Small:      req.Small,
		ExpiryDays: req.ExpiryDays,
	}

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		return tx.Categories().Upsert(ctx, category)
	})
	if err != nil {
		return nil, storageError(s.logger, "upsert category", err)
	}

	return category, nil
}
