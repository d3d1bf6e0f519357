package domain

import (
	"strings"
	"time"
)

// Day is the unit remaining_days is counted in.
const Day = 24 * time.Hour

// Food represents a stored perishable item
type Food struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	CategoryLarge string    `json:"category_large" db:"category_large"`
	CategorySmall string    `json:"category_small" db:"category_small"`
	ExpiryDays    int       `json:"expiry_days" db:"expiry_days"`
	StorageTime   time.Time `json:"storage_time" db:"storage_time"`
	PhotoPath     string    `json:"photo_path" db:"photo_path"`
	IsDeleted     bool      `json:"is_deleted" db:"is_deleted"`
}

// RemainingDays returns the whole days left before the item expires, measured
// from now. The day count is truncated toward zero, so an item that expired
// twelve hours ago still reports 0.
func (f *Food) RemainingDays(now time.Time) int {
	elapsed := now.Sub(f.StorageTime).Hours() / 24
	return int(float64(f.ExpiryDays) - elapsed)
}

// FoodInput carries the caller-controlled fields of a food record
type FoodInput struct {
	Name          string `json:"name" validate:"required,min=1,max=50"`
	CategoryLarge string `json:"category_large" validate:"required,max=20"`
	CategorySmall string `json:"category_small" validate:"required,max=20"`
	ExpiryDays    int    `json:"expiry_days" validate:"required,gt=0"`
	PhotoPath     string `json:"photo_path" validate:"max=200"`
}

// Normalize trims surrounding whitespace from the text fields.
func (in *FoodInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.CategoryLarge = strings.TrimSpace(in.CategoryLarge)
	in.CategorySmall = strings.TrimSpace(in.CategorySmall)
	in.PhotoPath = strings.TrimSpace(in.PhotoPath)
}

// FoodView is a food record as returned to callers, with the derived
// remaining_days computed at read time.
type FoodView struct {
	Food
	RemainingDays int `json:"remaining_days"`
}

// NewFoodView derives the read-time view of f.
func NewFoodView(f *Food, now time.Time) FoodView {
	return FoodView{Food: *f, RemainingDays: f.RemainingDays(now)}
}

// SortField names a column (or derived value) foods can be ordered by
type SortField string

const (
	SortByStorageTime   SortField = "storage_time"
	SortByExpiryDays    SortField = "expiry_days"
	SortByRemainingDays SortField = "remaining_days"
)

// Valid reports whether f is one of the supported sort fields.
func (f SortField) Valid() bool {
	switch f {
	case SortByStorageTime, SortByExpiryDays, SortByRemainingDays:
		return true
	}
	return false
}

// SortOrder represents the sort direction
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Valid reports whether o is asc or desc.
func (o SortOrder) Valid() bool {
	return o == OrderAsc || o == OrderDesc
}

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// FoodQuery describes one page of the food listing
type FoodQuery struct {
	SortBy         SortField
	Order          SortOrder
	Page           int
	PageSize       int
	IncludeDeleted bool
}

// DefaultFoodQuery returns the listing parameters used when a caller sets none.
func DefaultFoodQuery() FoodQuery {
	return FoodQuery{
		SortBy:   SortByStorageTime,
		Order:    OrderDesc,
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}
}

// Offset is the number of rows skipped before the requested page.
func (q FoodQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Pagination is the metadata returned alongside a page of items
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPagination builds pagination metadata; total pages use integer ceiling division.
func NewPagination(total, page, pageSize int) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return Pagination{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// FoodPage is one page of the food listing
type FoodPage struct {
	Items      []FoodView `json:"items"`
	Pagination Pagination `json:"pagination"`
}
