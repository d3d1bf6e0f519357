package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eatup/internal/domain"
)

var (
	ErrCategoryNotFound = fmt.Errorf("category %w", domain.ErrNotFound)
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Upsert(ctx context.Context, category *domain.Category) error
	List(ctx context.Context) ([]*domain.Category, error)
	FindByPair(ctx context.Context, large, small string) (*domain.Category, error)
}

type categoryRepository struct {
	db queryer
}

// NewCategoryRepository creates a CategoryRepository outside of any transaction
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Upsert inserts a category or updates the default expiry of an existing (large, small) pair
func (r *categoryRepository) Upsert(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (large_category, small_category, expiry_days)
		VALUES ($1, $2, $3)
		ON CONFLICT (large_category, small_category)
		DO UPDATE SET expiry_days = EXCLUDED.expiry_days
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		category.Large,
		category.Small,
		category.ExpiryDays,
	).Scan(&category.ID)

	if err != nil {
		return fmt.Errorf("failed to upsert category: %w", err)
	}

	return nil
}

// List retrieves all categories
func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT id, large_category, small_category, expiry_days
		FROM categories
		ORDER BY large_category ASC, small_category ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category := &domain.Category{}
		err := rows.Scan(
			&category.ID,
			&category.Large,
			&category.Small,
			&category.ExpiryDays,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// FindByPair retrieves a category by its large and small names
func (r *categoryRepository) FindByPair(ctx context.Context, large, small string) (*domain.Category, error) {
	query := `
		SELECT id, large_category, small_category, expiry_days
		FROM categories
		WHERE large_category = $1 AND small_category = $2
	`

	category := &domain.Category{}
	err := r.db.QueryRowContext(ctx, query, large, small).Scan(
		&category.ID,
		&category.Large,
		&category.Small,
		&category.ExpiryDays,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	return category, nil
}
