package routes

import (
	"surf-forecast/internal/apis/middlewares"
	"surf-forecast/internal/di"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func SetupBeachRoutes(router *gin.Engine) {
	beachHandler, err := di.GetBeachHandler()
	if err != nil {
		zap.L().Fatal("Failed to get beach handler", zap.Error(err))
	}

	protected := router.Group("/beaches")
	protected.Use(middlewares.AuthMiddleware())
	{
		protected.POST("", beachHandler.Create)
		protected.GET("", beachHandler.List)
	}
}
