package routes

import (
	"net/http"

	"surf-forecast/internal/apis/dtos"
	"surf-forecast/internal/di"
	"surf-forecast/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func SetupDefaultRoutes(router *gin.Engine) {
	logger, err := di.GetLogger()
	if err != nil {
		zap.L().Fatal("Failed to get logger", zap.Error(err))
	}
	metrics, err := di.GetMetrics()
	if err != nil {
		logger.Fatal("Failed to get metrics", zap.Error(err))
	}

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger, metrics),
		middleware.CustomRecoveryMiddleware(logger),
	)

	// Health check route
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dtos.HealthResponse{Status: "healthy"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup all route groups
	SetupAuthRoutes(router)
	SetupBeachRoutes(router)
	SetupForecastRoutes(router)
}
