package transport

import (
	"net/http"

	"eatup/internal/domain"
	"eatup/internal/logger"
	"eatup/internal/middleware"
	"eatup/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryTreeResponse wraps the category tree
type CategoryTreeResponse struct {
	Categories domain.CategoryTree `json:"categories"`
}

// CategoryHandler handles HTTP requests for the category taxonomy
type CategoryHandler struct {
	categoryService service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// RegisterRoutes registers all category routes
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.Tree)
		r.Put("/", h.Upsert)
	})
}

// Tree handles GET /api/categories
func (h *CategoryHandler) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.categoryService.Tree(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CategoryTreeResponse{Categories: tree})
}

// Upsert handles PUT /api/categories
func (h *CategoryHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req domain.CategoryUpsert
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	category, err := h.categoryService.Upsert(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("Category saved",
		zap.String("large_category", category.Large),
		zap.String("small_category", category.Small),
		zap.Int("expiry_days", category.ExpiryDays),
	)
	middleware.RespondWithJSON(w, http.StatusOK, category)
}
