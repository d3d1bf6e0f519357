package domain

import "strings"

// Category is a two-level food category with its default shelf life
type Category struct {
	ID         int64  `json:"id" db:"id"`
	Large      string `json:"large_category" db:"large_category"`
	Small      string `json:"small_category" db:"small_category"`
	ExpiryDays int    `json:"expiry_days" db:"expiry_days"`
}

// CategoryUpsert is the payload for creating or updating a category
type CategoryUpsert struct {
	Large      string `json:"large_category" validate:"required,max=20"`
	Small      string `json:"small_category" validate:"required,max=20"`
	ExpiryDays int    `json:"expiry_days" validate:"required,gt=0"`
}

func (c *CategoryUpsert) Normalize() {
	c.Large = strings.TrimSpace(c.Large)
	c.Small = strings.TrimSpace(c.Small)
}

// CategoryTree maps large category -> small category -> default expiry days
type CategoryTree map[string]map[string]int

// NewCategoryTree groups a flat category list into a two-level tree.
func NewCategoryTree(categories []*Category) CategoryTree {
	tree := CategoryTree{}
	for _, c := range categories {
		if tree[c.Large] == nil {
			tree[c.Large] = map[string]int{}
		}
		tree[c.Large][c.Small] = c.ExpiryDays
	}
	return tree
}
