package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

func TestCollector_ObserveAnalysis(t *testing.T) {
	c := NewCollector()

	c.ObserveAnalysis(&domain.AnalysisResult{RiskLevel: domain.RiskHigh}, 0.002)
	c.ObserveAnalysis(&domain.AnalysisResult{RiskLevel: domain.RiskHigh}, 0.001)
	c.ObserveAnalysis(&domain.AnalysisResult{RiskLevel: domain.RiskSafe}, 0.001)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.AnalysesTotal.WithLabelValues("HIGH RISK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.AnalysesTotal.WithLabelValues("SAFE")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.AnalysisDuration))
}

func TestCollector_ValidationAndCache(t *testing.T) {
	c := NewCollector()

	c.ObserveValidationFailure("weight")
	c.ObserveValidationFailure("")
	c.ObserveCacheHit("memory")

	assert.Equal(t, 1.0, testutil.ToFloat64(c.ValidationFailures.WithLabelValues("weight")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ValidationFailures.WithLabelValues("unknown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.CacheHits.WithLabelValues("memory")))
}

func TestCollector_IndependentRegistries(t *testing.T) {
	a := NewCollector()
	b := NewCollector()

	a.ObserveCacheHit("redis")
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CacheHits.WithLabelValues("redis")))
}

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := NewCollector()

	router := gin.New()
	router.Use(c.Middleware())
	router.GET("/api/v1/items/:id", func(ctx *gin.Context) {
		ctx.Status(http.StatusTeapot)
	})
	router.GET("/metrics", gin.WrapH(c.Handler()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/items/42", nil))
	require.Equal(t, http.StatusTeapot, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequestTotals.WithLabelValues("GET", "/api/v1/items/:id", "418")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequestTotals.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.HTTPRequestInFlight))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "http_requests_total"))
	assert.True(t, strings.Contains(string(body), "go_goroutines"))
}
