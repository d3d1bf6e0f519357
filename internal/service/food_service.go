package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"eatup/internal/domain"
	"eatup/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrInvalidSortField = fmt.Errorf("%w: sort_by must be one of storage_time, expiry_days, remaining_days", domain.ErrValidation)
	ErrInvalidSortOrder = fmt.Errorf("%w: order must be asc or desc", domain.ErrValidation)
	ErrInvalidPage      = fmt.Errorf("%w: page must be at least 1", domain.ErrValidation)
	ErrInvalidPageSize  = fmt.Errorf("%w: page_size must be between 1 and %d", domain.ErrValidation, domain.MaxPageSize)
	ErrPageTooLarge     = fmt.Errorf("%w: page is too large", domain.ErrValidation)
	ErrUnknownCategory  = fmt.Errorf("%w: category does not exist", domain.ErrValidation)
	ErrFoodNotDeleted   = fmt.Errorf("%w: food is not deleted", domain.ErrState)
)

// FoodService defines the food listing and mutation operations
type FoodService interface {
	List(ctx context.Context, query domain.FoodQuery) (*domain.FoodPage, error)
	Get(ctx context.Context, id int64) (*domain.FoodView, error)
	Create(ctx context.Context, input domain.FoodInput) (*domain.FoodView, error)
	Update(ctx context.Context, id int64, input domain.FoodInput) (*domain.FoodView, error)
	SoftDelete(ctx context.Context, id int64) error
	UndoDelete(ctx context.Context, id int64) error
}

type foodService struct {
	store  repository.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewFoodService creates a new instance of FoodService
func NewFoodService(store repository.Store, logger *zap.Logger) FoodService {
	return &foodService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// ValidateFoodQuery rejects listing parameters outside the supported ranges
func ValidateFoodQuery(q domain.FoodQuery) error {
	if !q.SortBy.Valid() {
		return ErrInvalidSortField
	}
	if !q.Order.Valid() {
		return ErrInvalidSortOrder
	}
	if q.Page < 1 {
		return ErrInvalidPage
	}
	if q.PageSize < 1 || q.PageSize > domain.MaxPageSize {
		return ErrInvalidPageSize
	}
	// the row offset must fit in an int
	if q.Page > math.MaxInt/q.PageSize {
		return ErrPageTooLarge
	}
	return nil
}

// List returns one page of foods. Ordering happens in the store over the whole
// filtered set; remaining_days on each item is recomputed after the read.
func (s *foodService) List(ctx context.Context, q domain.FoodQuery) (*domain.FoodPage, error) {
	if err := ValidateFoodQuery(q); err != nil {
		return nil, err
	}

	foods := s.store.Foods()

	items, err := foods.List(ctx, repository.FoodFilter{
		IncludeDeleted: q.IncludeDeleted,
		SortBy:         q.SortBy,
		Order:          q.Order,
		Now:            s.now(),
		Limit:          q.PageSize,
		Offset:         q.Offset(),
	})
	if err != nil {
		return nil, s.storageError("list foods", err)
	}

	total, err := foods.Count(ctx, q.IncludeDeleted)
	if err != nil {
		return nil, s.storageError("count foods", err)
	}

	readAt := s.now()
	views := make([]domain.FoodView, 0, len(items))
	for _, food := range items {
		views = append(views, domain.NewFoodView(food, readAt))
	}

	return &domain.FoodPage{
		Items:      views,
		Pagination: domain.NewPagination(total, q.Page, q.PageSize),
	}, nil
}

// Get retrieves a single food, soft-deleted or not
func (s *foodService) Get(ctx context.Context, id int64) (*domain.FoodView, error) {
	food, err := s.store.Foods().FindByID(ctx, id)
	if err != nil {
		return nil, s.classify("get food", err)
	}

	view := domain.NewFoodView(food, s.now())
	return &view, nil
}

// Create validates the input, checks the category pair and stores a new food
// with the storage time set to now
func (s *foodService) Create(ctx context.Context, input domain.FoodInput) (*domain.FoodView, error) {
	input = normalizeFoodInput(input)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	food := &domain.Food{
		Name:          input.Name,
		CategoryLarge: input.CategoryLarge,
		CategorySmall: input.CategorySmall,
		ExpiryDays:    input.ExpiryDays,
		StorageTime:   s.now(),
		PhotoPath:     input.PhotoPath,
	}

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		if err := checkCategory(ctx, tx, input.CategoryLarge, input.CategorySmall); err != nil {
			return err
		}
		return tx.Foods().Create(ctx, food)
	})
	if err != nil {
		return nil, s.classify("create food", err)
	}

	view := domain.NewFoodView(food, s.now())
	return &view, nil
}

// Update overwrites the caller-controlled fields of an existing food
func (s *foodService) Update(ctx context.Context, id int64, input domain.FoodInput) (*domain.FoodView, error) {
	input = normalizeFoodInput(input)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	var food *domain.Food
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		var err error
		food, err = tx.Foods().FindByID(ctx, id)
		if err != nil {
			return err
		}

		if err := checkCategory(ctx, tx, input.CategoryLarge, input.CategorySmall); err != nil {
			return err
		}

		food.Name = input.Name
		food.CategoryLarge = input.CategoryLarge
		food.CategorySmall = input.CategorySmall
		food.ExpiryDays = input.ExpiryDays
		food.PhotoPath = input.PhotoPath

		return tx.Foods().Update(ctx, food)
	})
	if err != nil {
		return nil, s.classify("update food", err)
	}

	view := domain.NewFoodView(food, s.now())
	return &view, nil
}

// SoftDelete marks a food as deleted. Deleting an already deleted food is a no-op.
func (s *foodService) SoftDelete(ctx context.Context, id int64) error {
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		food, err := tx.Foods().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if food.IsDeleted {
			return nil
		}
		return tx.Foods().SetDeleted(ctx, id, true)
	})
	if err != nil {
		return s.classify("delete food", err)
	}
	return nil
}

// UndoDelete restores a soft-deleted food
func (s *foodService) UndoDelete(ctx context.Context, id int64) error {
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		food, err := tx.Foods().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !food.IsDeleted {
			return ErrFoodNotDeleted
		}
		return tx.Foods().SetDeleted(ctx, id, false)
	})
	if err != nil {
		return s.classify("restore food", err)
	}
	return nil
}

func normalizeFoodInput(in domain.FoodInput) domain.FoodInput {
	in.Normalize()
	return in
}

// checkCategory is an explicit existence lookup, not a foreign key.
func checkCategory(ctx context.Context, tx repository.Store, large, small string) error {
	_, err := tx.Categories().FindByPair(ctx, large, small)
	if errors.Is(err, repository.ErrCategoryNotFound) {
		return ErrUnknownCategory
	}
	return err
}

// classify passes caller-facing errors through and turns everything else into
// a storage error after logging the cause.
func (s *foodService) classify(op string, err error) error {
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrState) {
		return err
	}
	return s.storageError(op, err)
}

func (s *foodService) storageError(op string, err error) error {
	return storageError(s.logger, op, err)
}

func storageError(logger *zap.Logger, op string, err error) error {
	logger.Error("Storage operation failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, domain.ErrStorage)
}
