package transport

import (
	"fmt"
	"net/http"
	"strconv"

	"eatup/internal/domain"
	"eatup/internal/logger"
	"eatup/internal/middleware"
	"eatup/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FoodHandler handles HTTP requests for food records
type FoodHandler struct {
	foodService service.FoodService
}

// NewFoodHandler creates a new FoodHandler
func NewFoodHandler(foodService service.FoodService) *FoodHandler {
	return &FoodHandler{foodService: foodService}
}

// RegisterRoutes registers all food routes
func (h *FoodHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/foods", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Post("/restore", h.Restore)
		})
	})
}

// List handles GET /api/foods
func (h *FoodHandler) List(w http.ResponseWriter, r *http.Request) {
	query, err := parseFoodQuery(r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	page, err := h.foodService.List(r.Context(), query)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, page)
}

// Get handles GET /api/foods/{id}
func (h *FoodHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	food, err := h.foodService.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, food)
}

// Create handles POST /api/foods
func (h *FoodHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.FoodInput
	if err := middleware.DecodeAndValidate(r, &input); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	food, err := h.foodService.Create(r.Context(), input)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("Food created", zap.Int64("food_id", food.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, food)
}

// Update handles PUT /api/foods/{id}
func (h *FoodHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	var input domain.FoodInput
	if err := middleware.DecodeAndValidate(r, &input); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	food, err := h.foodService.Update(r.Context(), id, input)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, food)
}

// Delete handles DELETE /api/foods/{id}
func (h *FoodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	if err := h.foodService.SoftDelete(r.Context(), id); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("Food deleted", zap.Int64("food_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// Restore handles POST /api/foods/{id}/restore
func (h *FoodHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	if err := h.foodService.UndoDelete(r.Context(), id); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("Food restored", zap.Int64("food_id", id))
	w.WriteHeader(http.StatusNoContent)
}

func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid food id %q", domain.ErrValidation, raw)
	}
	return id, nil
}

// parseFoodQuery reads listing parameters, falling back to the defaults for
// anything absent. Range checks are left to the service.
func parseFoodQuery(r *http.Request) (domain.FoodQuery, error) {
	q := domain.DefaultFoodQuery()
	values := r.URL.Query()

	if v := values.Get("sort_by"); v != "" {
		q.SortBy = domain.SortField(v)
	}
	if v := values.Get("order"); v != "" {
		q.Order = domain.SortOrder(v)
	}

	var err error
	if q.Page, err = intParam(values.Get("page"), q.Page, "page"); err != nil {
		return q, err
	}
	if q.PageSize, err = intParam(values.Get("page_size"), q.PageSize, "page_size"); err != nil {
		return q, err
	}

	if v := values.Get("include_deleted"); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			return q, fmt.Errorf("%w: include_deleted must be a boolean", domain.ErrValidation)
		}
		q.IncludeDeleted = include
	}

	return q, nil
}

func intParam(raw string, fallback int, name string) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrValidation, name)
	}
	return n, nil
}
