package routes

import (
	"surf-forecast/internal/apis/middlewares"
	"surf-forecast/internal/di"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func SetupForecastRoutes(router *gin.Engine) {
	forecastHandler, err := di.GetForecastHandler()
	if err != nil {
		zap.L().Fatal("Failed to get forecast handler", zap.Error(err))
	}

	protected := router.Group("/forecast")
	protected.Use(middlewares.AuthMiddleware())
	{
		protected.GET("", forecastHandler.Get)
	}
}
