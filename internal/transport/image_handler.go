package transport

import (
	"context"
	"net/http"

	"eatup/internal/domain"
	"eatup/internal/logger"
	"eatup/internal/middleware"
	"eatup/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ImageRecognizer guesses the food shown in an image
type ImageRecognizer interface {
	Recognize(ctx context.Context, image []byte, mimeType string) (*domain.RecognitionResult, error)
}

// PhotoUploadResponse carries the stored photo reference
type PhotoUploadResponse struct {
	PhotoPath string `json:"photo_path"`
}

// RecognitionHandler handles POST /api/image-recognition
type RecognitionHandler struct {
	recognizer ImageRecognizer
}

// NewRecognitionHandler creates a new RecognitionHandler
func NewRecognitionHandler(recognizer ImageRecognizer) *RecognitionHandler {
	return &RecognitionHandler{recognizer: recognizer}
}

// RegisterRoutes registers the recognition route behind the given middleware
func (h *RecognitionHandler) RegisterRoutes(r chi.Router, limiter ...func(http.Handler) http.Handler) {
	r.With(limiter...).Post("/api/image-recognition", h.Recognize)
}

// Recognize identifies the food in the uploaded "file" part
func (h *RecognitionHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	image, mimeType, err := readImage(w, r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	result, err := h.recognizer.Recognize(r.Context(), image, mimeType)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("Image recognized",
		zap.String("food_name", result.FoodName),
		zap.Float64("confidence", result.Confidence),
	)
	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// PhotoHandler handles POST /api/photos
type PhotoHandler struct {
	photoService service.PhotoService
}

// NewPhotoHandler creates a new PhotoHandler
func NewPhotoHandler(photoService service.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

// RegisterRoutes registers the photo upload route
func (h *PhotoHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/photos", h.Upload)
}

// Upload stores the "file" part and returns its photo path
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	image, mimeType, err := readImage(w, r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	path, err := h.photoService.Upload(r.Context(), image, mimeType)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, PhotoUploadResponse{PhotoPath: path})
}
