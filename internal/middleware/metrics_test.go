package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// counterValue reads one labelled counter back out of the registry
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			matched := 0
			for _, lp := range m.GetLabel() {
				if v, ok := labels[lp.GetName()]; ok && v == lp.GetValue() {
					matched++
				}
			}
			if matched == len(labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestHTTPMetrics_LabelsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)

	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Get("/api/foods/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/api/foods/1", "/api/foods/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	got := counterValue(t, reg, "http_requests_total", map[string]string{
		"method": http.MethodGet,
		"path":   "/api/foods/{id}",
		"status": "404",
	})
	if got != 2 {
		t.Errorf("requests for pattern = %v, want 2", got)
	}
	if got := counterValue(t, reg, "http_status_category_total", map[string]string{"category": "4xx"}); got != 2 {
		t.Errorf("4xx count = %v, want 2", got)
	}
}

func TestHTTPMetrics_UnmatchedRoutes(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)

	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	got := counterValue(t, reg, "http_requests_total", map[string]string{"path": "unmatched", "status": "404"})
	if got != 1 {
		t.Errorf("unmatched count = %v, want 1", got)
	}
}
