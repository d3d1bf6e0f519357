package service

import (
	"context"
	"errors"
	"testing"

	"eatup/internal/domain"

	"go.uber.org/zap"
)

func TestCategoryService_Tree(t *testing.T) {
	svc := NewCategoryService(newMemStore(), zap.NewNop())

	tree, err := svc.Tree(context.Background())
	if err != nil {
		t.Fatalf("Tree failed: %v", err)
	}

	want := map[string]map[string]int{
		"蔬菜": {"叶菜": 3, "根茎": 7},
		"水果": {"浆果": 5, "柑橘": 10},
	}
	for large, smalls := range want {
		for small, days := range smalls {
			if tree[large][small] != days {
				t.Errorf("%s/%s = %d, want %d", large, small, tree[large][small], days)
			}
		}
	}
}

func TestCategoryService_Upsert(t *testing.T) {
	store := newMemStore()
	svc := NewCategoryService(store, zap.NewNop())
	ctx := context.Background()

	created, err := svc.Upsert(ctx, domain.CategoryUpsert{Large: "肉类", Small: "禽肉", ExpiryDays: 2})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected an ID")
	}

	updated, err := svc.Upsert(ctx, domain.CategoryUpsert{Large: "蔬菜", Small: "叶菜", ExpiryDays: 4})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if updated.ExpiryDays != 4 {
		t.Errorf("expiry_days = %d, want 4", updated.ExpiryDays)
	}

	tree, err := svc.Tree(ctx)
	if err != nil {
		t.Fatalf("Tree failed: %v", err)
	}
	if tree["蔬菜"]["叶菜"] != 4 || tree["肉类"]["禽肉"] != 2 {
		t.Errorf("unexpected tree %v", tree)
	}
}

func TestCategoryService_UpsertValidation(t *testing.T) {
	tests := []struct {
		name string
		req  domain.CategoryUpsert
	}{
		{"zero expiry", domain.CategoryUpsert{Large: "肉类", Small: "禽肉", ExpiryDays: 0}},
		{"missing large", domain.CategoryUpsert{Small: "禽肉", ExpiryDays: 2}},
		{"blank small", domain.CategoryUpsert{Large: "肉类", Small: " ", ExpiryDays: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			svc := NewCategoryService(store, zap.NewNop())

			if _, err := svc.Upsert(context.Background(), tt.req); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
			if store.calls != 0 {
				t.Errorf("store touched %d times", store.calls)
			}
		})
	}
}

func TestCategoryService_StorageFailure(t *testing.T) {
	store := newMemStore()
	store.fail = errBackendDown
	svc := NewCategoryService(store, zap.NewNop())

	if _, err := svc.Tree(context.Background()); !errors.Is(err, domain.ErrStorage) {
		t.Errorf("expected storage error, got %v", err)
	}
}
