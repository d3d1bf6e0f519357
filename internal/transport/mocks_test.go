package transport

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"eatup/internal/domain"
	"eatup/internal/service"

	"github.com/go-chi/chi/v5"
)

// mockFoodService records the last call and returns canned results
type mockFoodService struct {
	lastQuery domain.FoodQuery
	lastID    int64
	lastInput domain.FoodInput
	calls     int
	err       error
	food      *domain.FoodView
}

func (m *mockFoodService) List(ctx context.Context, q domain.FoodQuery) (*domain.FoodPage, error) {
	m.calls++
	m.lastQuery = q
	if err := service.ValidateFoodQuery(q); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	return &domain.FoodPage{Items: []domain.FoodView{}, Pagination: domain.NewPagination(0, q.Page, q.PageSize)}, nil
}

func (m *mockFoodService) Get(ctx context.Context, id int64) (*domain.FoodView, error) {
	m.calls++
	m.lastID = id
	return m.food, m.err
}

func (m *mockFoodService) Create(ctx context.Context, input domain.FoodInput) (*domain.FoodView, error) {
	m.calls++
	m.lastInput = input
	return m.food, m.err
}

func (m *mockFoodService) Update(ctx context.Context, id int64, input domain.FoodInput) (*domain.FoodView, error) {
	m.calls++
	m.lastID = id
	m.lastInput = input
	return m.food, m.err
}

func (m *mockFoodService) SoftDelete(ctx context.Context, id int64) error {
	m.calls++
	m.lastID = id
	return m.err
}

func (m *mockFoodService) UndoDelete(ctx context.Context, id int64) error {
	m.calls++
	m.lastID = id
	return m.err
}

type mockCategoryService struct {
	tree domain.CategoryTree
	err  error
}

func (m *mockCategoryService) Tree(ctx context.Context) (domain.CategoryTree, error) {
	return m.tree, m.err
}

func (m *mockCategoryService) Upsert(ctx context.Context, req domain.CategoryUpsert) (*domain.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Category{ID: 9, Large: req.Large, Small: req.Small, ExpiryDays: req.ExpiryDays}, nil
}

type mockRecognizer struct {
	calls    int
	mimeType string
	size     int
	result   *domain.RecognitionResult
	err      error
}

func (m *mockRecognizer) Recognize(ctx context.Context, image []byte, mimeType string) (*domain.RecognitionResult, error) {
	m.calls++
	m.mimeType = mimeType
	m.size = len(image)
	return m.result, m.err
}

type mockPhotoService struct {
	mimeType string
	err      error
}

func (m *mockPhotoService) Upload(ctx context.Context, image []byte, contentType string) (string, error) {
	m.mimeType = contentType
	if m.err != nil {
		return "", m.err
	}
	return "photos/abc.png", nil
}

func sampleFood() *domain.FoodView {
	food := &domain.Food{
		ID:            1,
		Name:          "菠菜",
		CategoryLarge: "蔬菜",
		CategorySmall: "叶菜",
		ExpiryDays:    3,
		StorageTime:   time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	view := domain.NewFoodView(food, food.StorageTime)
	return &view
}

func newFoodRouter(svc service.FoodService) http.Handler {
	r := chi.NewRouter()
	NewFoodHandler(svc).RegisterRoutes(r)
	return r
}

func serve(h http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// multipartImage builds a request body with one "file" part of the given type
func multipartImage(t *testing.T, field, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename="upload"`, field))
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart failed: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part failed: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer failed: %v", err)
	}
	return &buf, mw.FormDataContentType()
}
