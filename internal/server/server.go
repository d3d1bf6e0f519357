package server

import (
	"fmt"
	"net/http"
	"time"

	"eatup/internal/config"
	custommiddleware "eatup/internal/middleware"
	"eatup/internal/repository"
	"eatup/internal/service"
	"eatup/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// HealthChecker reports the status of a backing dependency
type HealthChecker interface {
	Health() map[string]string
}

// Deps are the long-lived resources the server is built on. Redis and Photos
// are optional: without Redis recognition is not rate limited, and without a
// photo store the upload route is not mounted.
type Deps struct {
	Store      repository.Store
	Database   HealthChecker
	Recognizer transport.ImageRecognizer
	Redis      redis.Cmdable
	Photos     service.PhotoStore
	Registry   *prometheus.Registry
}

type Server struct {
	*http.Server
}

// NewRouter builds the HTTP routing tree
func NewRouter(cfg *config.Config, logger *zap.Logger, deps Deps) http.Handler {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.IsDevelopment()))

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	metrics := custommiddleware.NewHTTPMetrics(registry)
	router.Use(metrics.Middleware)

	router.Get("/health", healthHandler(deps.Database))
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Initialize services
	foodService := service.NewFoodService(deps.Store, logger)
	categoryService := service.NewCategoryService(deps.Store, logger)

	// Register routes
	transport.NewFoodHandler(foodService).RegisterRoutes(router)
	transport.NewCategoryHandler(categoryService).RegisterRoutes(router)

	var limiters []func(http.Handler) http.Handler
	if cfg.RateLimit.Enabled && deps.Redis != nil {
		limiters = append(limiters, custommiddleware.RateLimitMiddleware(deps.Redis, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "ratelimit:recognition",
		}, logger))
	}
	transport.NewRecognitionHandler(deps.Recognizer).RegisterRoutes(router, limiters...)

	if deps.Photos != nil {
		photoService := service.NewPhotoService(deps.Photos, logger)
		transport.NewPhotoHandler(photoService).RegisterRoutes(router)
	} else {
		logger.Info("Photo storage not configured, upload route disabled")
	}

	return router
}

// NewServer wraps the router in an http.Server with the process-wide metrics registry
func NewServer(cfg *config.Config, logger *zap.Logger, deps Deps) *Server {
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
		deps.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      NewRouter(cfg, logger, deps),
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30*time.Second + cfg.AI.Timeout,
		},
	}
}

func healthHandler(db HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{"status": "ok"}
		status := http.StatusOK

		if db != nil {
			dbHealth := db.Health()
			body["database"] = dbHealth
			if dbHealth["status"] != "up" {
				body["status"] = "degraded"
				status = http.StatusServiceUnavailable
			}
		}

		custommiddleware.RespondWithJSON(w, status, body)
	}
}
