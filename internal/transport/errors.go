package transport

import (
	"errors"
	"net/http"

	"eatup/internal/domain"
	"eatup/internal/logger"
	"eatup/internal/middleware"

	"go.uber.org/zap"
)

// respondWithServiceError maps an error kind to its HTTP status and writes the
// structured error body. Only unexpected failures are logged here; the layer
// that produced them has already logged the cause.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		fields := middleware.FormatValidationErrors(err)
		message := err.Error()
		if len(fields) > 0 {
			message = domain.ErrValidation.Error()
		}
		middleware.RespondWithValidationErrors(w, message, fields)
	case errors.Is(err, domain.ErrNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrState):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUpstream):
		middleware.RespondWithError(w, http.StatusBadGateway, "image recognition service failed")
	case errors.Is(err, domain.ErrStorage):
		middleware.RespondWithError(w, http.StatusInternalServerError, "storage unavailable")
	default:
		logger.FromContext(r.Context()).Error("Unhandled error", zap.Error(err), zap.String("path", r.URL.Path))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
