package routes

import (
	"surf-forecast/internal/apis/middlewares"
	"surf-forecast/internal/di"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func SetupAuthRoutes(router *gin.Engine) {
	authHandler, err := di.GetAuthHandler()
	if err != nil {
		zap.L().Fatal("Failed to get auth handler", zap.Error(err))
	}

	users := router.Group("/users")
	{
		users.POST("", authHandler.Create)
		users.POST("/authenticate", authHandler.Authenticate)
	}

	protected := router.Group("/users")
	protected.Use(middlewares.AuthMiddleware())
	{
		protected.GET("/me", authHandler.Me)
		protected.PUT("/me/password", authHandler.ChangePassword)
		protected.POST("/logout", authHandler.Logout)
	}
}
