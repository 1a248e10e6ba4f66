package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"patient-monitoring-service/pkg/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddleware_LabelsByRouteTemplate(t *testing.T) {
	collector := metrics.NewCollector("test", prometheus.NewRegistry())
	router := mux.NewRouter()
	router.Use(NewMetricsMiddleware(collector).Handle)
	router.HandleFunc("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	for _, path := range []string{"/users/1", "/users/2"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.RequestsTotal.WithLabelValues(http.MethodGet, "/users/{id}", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(collector.InFlightGauge))
}

func TestMetricsMiddleware_NilCollector(t *testing.T) {
	rec := httptest.NewRecorder()
	NewMetricsMiddleware(nil).Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
