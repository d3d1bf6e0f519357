package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eatup/internal/domain"
)

var (
	ErrFoodNotFound = fmt.Errorf("food %w", domain.ErrNotFound)
)

// FoodFilter selects, orders and pages the food listing
type FoodFilter struct {
	IncludeDeleted bool
	SortBy         domain.SortField
	Order          domain.SortOrder
	// Now anchors the remaining_days sort expression.
	Now    time.Time
	Limit  int
	Offset int
}

// FoodRepository defines the interface for food data access
type FoodRepository interface {
	Create(ctx context.Context, food *domain.Food) error
	Update(ctx context.Context, food *domain.Food) error
	SetDeleted(ctx context.Context, id int64, deleted bool) error
	FindByID(ctx context.Context, id int64) (*domain.Food, error)
	List(ctx context.Context, filter FoodFilter) ([]*domain.Food, error)
	Count(ctx context.Context, includeDeleted bool) (int, error)
}

type foodRepository struct {
	db queryer
}

// NewFoodRepository creates a FoodRepository outside of any transaction
func NewFoodRepository(db *sql.DB) FoodRepository {
	return &foodRepository{db: db}
}

const foodColumns = `id, name, category_large, category_small, expiry_days, storage_time, photo_path, is_deleted`

// remainingDaysExpr computes remaining days in fractional days relative to the
// timestamp bound at the given placeholder.
const remainingDaysExpr = `(expiry_days + EXTRACT(EPOCH FROM (storage_time - $%d::timestamptz)) / 86400.0)`

// Create inserts a new food and fills in the store-assigned ID and storage time
func (r *foodRepository) Create(ctx context.Context, food *domain.Food) error {
	query := `
		INSERT INTO foods (name, category_large, category_small, expiry_days, storage_time, photo_path, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)
		RETURNING id, storage_time
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		food.Name,
		food.CategoryLarge,
		food.CategorySmall,
		food.ExpiryDays,
		food.StorageTime,
		food.PhotoPath,
	).Scan(&food.ID, &food.StorageTime)

	if err != nil {
		return fmt.Errorf("failed to create food: %w", err)
	}

	food.IsDeleted = false
	return nil
}

// Update overwrites the mutable fields of a food. storage_time and is_deleted are left alone.
func (r *foodRepository) Update(ctx context.Context, food *domain.Food) error {
	query := `
		UPDATE foods
		SET name = $2, category_large = $3, category_small = $4,
		    expiry_days = $5, photo_path = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		food.ID,
		food.Name,
		food.CategoryLarge,
		food.CategorySmall,
		food.ExpiryDays,
		food.PhotoPath,
	)
	if err != nil {
		return fmt.Errorf("failed to update food: %w", err)
	}

	return expectOneRow(result)
}

// SetDeleted flips the soft-delete flag
func (r *foodRepository) SetDeleted(ctx context.Context, id int64, deleted bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE foods SET is_deleted = $2 WHERE id = $1`, id, deleted)
	if err != nil {
		return fmt.Errorf("failed to set deleted flag: %w", err)
	}

	return expectOneRow(result)
}

func expectOneRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrFoodNotFound
	}

	return nil
}

// FindByID retrieves a food by ID, including soft-deleted ones
func (r *foodRepository) FindByID(ctx context.Context, id int64) (*domain.Food, error) {
	query := `SELECT ` + foodColumns + ` FROM foods WHERE id = $1`

	food, err := scanFood(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFoodNotFound
		}
		return nil, fmt.Errorf("failed to find food by ID: %w", err)
	}

	return food, nil
}

// orderClause builds the ORDER BY clause from whitelisted values only. The
// identifier is used as a tie breaker in the same direction so that reversing
// the order reverses the whole sequence.
func orderClause(filter FoodFilter, argIndex int) (string, []any, error) {
	var direction string
	switch filter.Order {
	case domain.OrderAsc:
		direction = "ASC"
	case domain.OrderDesc:
		direction = "DESC"
	default:
		return "", nil, fmt.Errorf("unsupported sort order %q", filter.Order)
	}

	var expr string
	var args []any
	switch filter.SortBy {
	case domain.SortByStorageTime:
		expr = "storage_time"
	case domain.SortByExpiryDays:
		expr = "expiry_days"
	case domain.SortByRemainingDays:
		expr = fmt.Sprintf(remainingDaysExpr, argIndex)
		args = append(args, filter.Now)
	default:
		return "", nil, fmt.Errorf("unsupported sort field %q", filter.SortBy)
	}

	return fmt.Sprintf("ORDER BY %s %s, id %s", expr, direction, direction), args, nil
}

func whereClause(includeDeleted bool) string {
	if includeDeleted {
		return ""
	}
	return "WHERE is_deleted = FALSE"
}

// List sorts the full filtered set in the database and returns one page of it
func (r *foodRepository) List(ctx context.Context, filter FoodFilter) ([]*domain.Food, error) {
	argIndex := 1
	order, args, err := orderClause(filter, argIndex)
	if err != nil {
		return nil, err
	}
	argIndex += len(args)

	query := fmt.Sprintf(`
		SELECT %s
		FROM foods
		%s
		%s
		LIMIT $%d OFFSET $%d
	`, foodColumns, whereClause(filter.IncludeDeleted), order, argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list foods: %w", err)
	}
	defer rows.Close()

	foods := []*domain.Food{}
	for rows.Next() {
		food, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan food: %w", err)
		}
		foods = append(foods, food)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating foods: %w", err)
	}

	return foods, nil
}

// Count returns the number of foods matching the deleted filter
func (r *foodRepository) Count(ctx context.Context, includeDeleted bool) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM foods %s", whereClause(includeDeleted))

	var total int
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count foods: %w", err)
	}

	return total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFood(row rowScanner) (*domain.Food, error) {
	food := &domain.Food{}
	err := row.Scan(
		&food.ID,
		&food.Name,
		&food.CategoryLarge,
		&food.CategorySmall,
		&food.ExpiryDays,
		&food.StorageTime,
		&food.PhotoPath,
		&food.IsDeleted,
	)
	if err != nil {
		return nil, err
	}
	return food, nil
}
