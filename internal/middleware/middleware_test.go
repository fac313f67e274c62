package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"surf-forecast/internal/observability"

	"github.com/gin-gonic/gin"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func counterValue(t *testing.T, metrics *observability.Metrics, labels ...string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, metrics.HTTPRequests.WithLabelValues(labels...).Write(&m))
	return m.GetCounter().GetValue()
}

func newTestRouter(logger *zap.Logger, metrics *observability.Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), RequestLogger(logger, metrics), CustomRecoveryMiddleware(logger))
	router.GET("/beaches/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return router
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	router := newTestRouter(nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/beaches/1", nil))
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/beaches/1", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRequestLogger_RecordsMetricsByRoute(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	metrics := observability.NewMetricsForTesting()
	router := newTestRouter(zap.New(core), metrics)

	for _, path := range []string{"/beaches/1", "/beaches/2", "/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, float64(2), counterValue(t, metrics, http.MethodGet, "/beaches/:id", "200"))
	assert.Equal(t, float64(1), counterValue(t, metrics, http.MethodGet, unmatchedRoute, "404"))

	require.Equal(t, 3, logs.Len())
	first := logs.All()[0]
	assert.Equal(t, "Request handled", first.Message)
	assert.Equal(t, "/beaches/1", first.ContextMap()["path"])
	assert.Equal(t, "Request rejected", logs.All()[2].Message)
}

func TestCustomRecoveryMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	metrics := observability.NewMetricsForTesting()
	router := newTestRouter(zap.New(core), metrics)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"code":500,"error":"Internal Server Error"}`, rec.Body.String())
	assert.Equal(t, float64(1), counterValue(t, metrics, http.MethodGet, "/panic", "500"))
	assert.Equal(t, 1, logs.FilterMessage("Recovery from panic").Len())
}
