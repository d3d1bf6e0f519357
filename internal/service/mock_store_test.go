package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"eatup/internal/domain"
	"eatup/internal/repository"
)

var errBackendDown = errors.New("connection refused")

type categoryKey struct{ large, small string }

// memStore is an in-memory repository.Store. InTx works on a copy and only
// publishes it when fn succeeds.
type memStore struct {
	foods      map[int64]domain.Food
	categories map[categoryKey]domain.Category
	nextID     int64
	calls      int
	fail       error
}

func newMemStore() *memStore {
	s := &memStore{
		foods:      make(map[int64]domain.Food),
		categories: make(map[categoryKey]domain.Category),
	}
	s.addCategory("蔬菜", "叶菜", 3)
	s.addCategory("蔬菜", "根茎", 7)
	s.addCategory("水果", "浆果", 5)
	s.addCategory("水果", "柑橘", 10)
	return s
}

func (s *memStore) addCategory(large, small string, days int) {
	id := int64(len(s.categories) + 1)
	s.categories[categoryKey{large, small}] = domain.Category{ID: id, Large: large, Small: small, ExpiryDays: days}
}

func (s *memStore) seedFood(f domain.Food) int64 {
	s.nextID++
	f.ID = s.nextID
	s.foods[f.ID] = f
	return f.ID
}

func (s *memStore) clone() *memStore {
	c := &memStore{
		foods:      make(map[int64]domain.Food, len(s.foods)),
		categories: make(map[categoryKey]domain.Category, len(s.categories)),
		nextID:     s.nextID,
		fail:       s.fail,
	}
	for k, v := range s.foods {
		c.foods[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	return c
}

func (s *memStore) touch() error {
	s.calls++
	return s.fail
}

func (s *memStore) Foods() repository.FoodRepository { return memFoods{s} }
func (s *memStore) Categories() repository.CategoryRepository { return memCategories{s} }

func (s *memStore) InTx(ctx context.Context, fn func(tx repository.Store) error) error {
	tx := s.clone()
	err := fn(tx)
	s.calls += tx.calls
	if err != nil {
		return err
	}
	s.foods = tx.foods
	s.categories = tx.categories
	s.nextID = tx.nextID
	return nil
}

type memFoods struct{ s *memStore }

func (m memFoods) Create(ctx context.Context, food *domain.Food) error {
	if err := m.s.touch(); err != nil {
		return err
	}
	food.ID = m.s.seedFood(*food)
	return nil
}

func (m memFoods) Update(ctx context.Context, food *domain.Food) error {
	if err := m.s.touch(); err != nil {
		return err
	}
	stored, ok := m.s.foods[food.ID]
	if !ok {
		return repository.ErrFoodNotFound
	}
	stored.Name = food.Name
	stored.CategoryLarge = food.CategoryLarge
	stored.CategorySmall = food.CategorySmall
	stored.ExpiryDays = food.ExpiryDays
	stored.PhotoPath = food.PhotoPath
	m.s.foods[food.ID] = stored
	return nil
}

func (m memFoods) SetDeleted(ctx context.Context, id int64, deleted bool) error {
	if err := m.s.touch(); err != nil {
		return err
	}
	stored, ok := m.s.foods[id]
	if !ok {
		return repository.ErrFoodNotFound
	}
	stored.IsDeleted = deleted
	m.s.foods[id] = stored
	return nil
}

func (m memFoods) FindByID(ctx context.Context, id int64) (*domain.Food, error) {
	if err := m.s.touch(); err != nil {
		return nil, err
	}
	stored, ok := m.s.foods[id]
	if !ok {
		return nil, repository.ErrFoodNotFound
	}
	return &stored, nil
}

func (m memFoods) List(ctx context.Context, filter repository.FoodFilter) ([]*domain.Food, error) {
	if err := m.s.touch(); err != nil {
		return nil, err
	}

	var rows []domain.Food
	for _, f := range m.s.foods {
		if f.IsDeleted && !filter.IncludeDeleted {
			continue
		}
		rows = append(rows, f)
	}

	key := func(f domain.Food) float64 {
		switch filter.SortBy {
		case domain.SortByExpiryDays:
			return float64(f.ExpiryDays)
		case domain.SortByRemainingDays:
			return float64(f.ExpiryDays) + f.StorageTime.Sub(filter.Now).Hours()/24
		default:
			return float64(f.StorageTime.UnixNano())
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		ki, kj := key(rows[i]), key(rows[j])
		less := ki < kj || (ki == kj && rows[i].ID < rows[j].ID)
		if filter.Order == domain.OrderDesc {
			less = ki > kj || (ki == kj && rows[i].ID > rows[j].ID)
		}
		return less
	})

	out := []*domain.Food{}
	for i := filter.Offset; i < len(rows) && i < filter.Offset+filter.Limit; i++ {
		f := rows[i]
		out = append(out, &f)
	}
	return out, nil
}

func (m memFoods) Count(ctx context.Context, includeDeleted bool) (int, error) {
	if err := m.s.touch(); err != nil {
		return 0, err
	}
	n := 0
	for _, f := range m.s.foods {
		if !f.IsDeleted || includeDeleted {
			n++
		}
	}
	return n, nil
}

type memCategories struct{ s *memStore }

func (m memCategories) Upsert(ctx context.Context, category *domain.Category) error {
	if err := m.s.touch(); err != nil {
		return err
	}
	k := categoryKey{category.Large, category.Small}
	if existing, ok := m.s.categories[k]; ok {
		category.ID = existing.ID
	} else {
		category.ID = int64(len(m.s.categories) + 1)
	}
	m.s.categories[k] = *category
	return nil
}

func (m memCategories) List(ctx context.Context) ([]*domain.Category, error) {
	if err := m.s.touch(); err != nil {
		return nil, err
	}
	out := make([]*domain.Category, 0, len(m.s.categories))
	for _, c := range m.s.categories {
		c := c
		out = append(out, &c)
	}
	return out, nil
}

func (m memCategories) FindByPair(ctx context.Context, large, small string) (*domain.Category, error) {
	if err := m.s.touch(); err != nil {
		return nil, err
	}
	c, ok := m.s.categories[categoryKey{large, small}]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return &c, nil
}

// fixedClock returns a clock frozen at t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
