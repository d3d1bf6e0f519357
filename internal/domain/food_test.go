package domain

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestRemainingDaysTruncatesTowardZero(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		storedAgo   time.Duration
		expiryDays  int
		wantDaysOut int
	}{
		{"fresh item", 0, 7, 7},
		{"half a day in", 12 * time.Hour, 7, 6},
		{"exactly expired", 7 * Day, 7, 0},
		{"expired half a day ago", 7*Day + 12*time.Hour, 7, 0},
		{"expired a day and a half ago", 8*Day + 12*time.Hour, 7, -1},
		{"expired two days ago", 9 * Day, 7, -2},
		{"one minute stored", time.Minute, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Food{ExpiryDays: tt.expiryDays, StorageTime: now.Add(-tt.storedAgo)}
			if got := f.RemainingDays(now); got != tt.wantDaysOut {
				t.Errorf("RemainingDays() = %d, want %d", got, tt.wantDaysOut)
			}
		})
	}
}

func TestRemainingDaysIgnoresCalendarDates(t *testing.T) {
	// Stored at 23:00, read at 01:00 two calendar days later: 26 hours elapsed,
	// which is one whole day, not two.
	stored := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 12, 1, 0, 0, 0, time.UTC)

	f := &Food{ExpiryDays: 5, StorageTime: stored}
	if got := f.RemainingDays(now); got != 3 {
		t.Errorf("RemainingDays() = %d, want 3", got)
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		total, pageSize, wantPages int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{100, 100, 1},
		{101, 100, 2},
	}

	for _, tt := range tests {
		p := NewPagination(tt.total, 1, tt.pageSize)
		if p.TotalPages != tt.wantPages {
			t.Errorf("NewPagination(%d, 1, %d).TotalPages = %d, want %d", tt.total, tt.pageSize, p.TotalPages, tt.wantPages)
		}
	}
}

func TestProperty_TotalPagesCoverTotal(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("total pages is the smallest page count covering total", prop.ForAll(
		func(total int, pageSize int) bool {
			p := NewPagination(total, 1, pageSize)
			if p.TotalPages*pageSize < total {
				return false
			}
			if p.TotalPages > 0 && (p.TotalPages-1)*pageSize >= total {
				return false
			}
			return true
		},
		gen.IntRange(0, 10000),
		gen.IntRange(1, MaxPageSize),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestSortParametersValid(t *testing.T) {
	for _, f := range []SortField{SortByStorageTime, SortByExpiryDays, SortByRemainingDays} {
		if !f.Valid() {
			t.Errorf("SortField(%q).Valid() = false", f)
		}
	}
	if SortField("name").Valid() {
		t.Error("SortField(\"name\").Valid() = true")
	}
	if !OrderAsc.Valid() || !OrderDesc.Valid() {
		t.Error("asc/desc should be valid")
	}
	if SortOrder("ASC").Valid() {
		t.Error("SortOrder is case sensitive")
	}
}

func TestRecognitionFallback(t *testing.T) {
	r := &RecognitionResult{FoodName: UncertainFoodName, ExpiryDays: 30, Confidence: 0.9}
	r.ApplyFallback()
	if r.Confidence != 0.1 || r.ExpiryDays != 1 || r.FoodName != UncertainFoodName {
		t.Errorf("ApplyFallback() = %+v", r)
	}

	sure := &RecognitionResult{FoodName: "苹果", ExpiryDays: 14, Confidence: 0.92}
	sure.ApplyFallback()
	if sure.Confidence != 0.92 || sure.ExpiryDays != 14 {
		t.Errorf("ApplyFallback() changed a confident result: %+v", sure)
	}
}

func TestCategoryTree(t *testing.T) {
	tree := NewCategoryTree([]*Category{
		{Large: "蔬菜", Small: "叶菜", ExpiryDays: 3},
		{Large: "蔬菜", Small: "根茎", ExpiryDays: 7},
		{Large: "水果", Small: "柑橘", ExpiryDays: 10},
	})

	if len(tree) != 2 {
		t.Fatalf("expected 2 large categories, got %d", len(tree))
	}
	if tree["蔬菜"]["根茎"] != 7 {
		t.Errorf("蔬菜/根茎 = %d, want 7", tree["蔬菜"]["根茎"])
	}
	if tree["水果"]["柑橘"] != 10 {
		t.Errorf("水果/柑橘 = %d, want 10", tree["水果"]["柑橘"])
	}
}
