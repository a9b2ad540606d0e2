package httpmetrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	registry := prometheus.NewRegistry()
	metrics := NewWithRegistry(registry, registry)

	router := gin.New()
	router.Use(metrics.Middleware())
	router.GET("/api/payments/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	for _, path := range []string{"/api/payments/1", "/api/payments/2"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	count := testutil.ToFloat64(metrics.requests.WithLabelValues(http.MethodGet, "/api/payments/:id", "200"))
	assert.Equal(t, float64(2), count)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "payments_http_request_duration_seconds"))
}

func TestNewWithRegistry_ReusesCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := NewWithRegistry(registry, registry)
	second := NewWithRegistry(registry, registry)
	assert.Same(t, first.requests, second.requests)
}
