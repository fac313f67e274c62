package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"surf-forecast/config"
	"surf-forecast/internal/apis/routes"
	"surf-forecast/internal/di"
	"surf-forecast/internal/middleware"
	"surf-forecast/internal/observability"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := config.LoadEnv(); err != nil {
		log.Fatalf("Failed to load environment variables: %v", err)
	}

	logger, err := observability.NewLogger(config.Env.LogLevel, config.Env.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if !config.Env.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize dependencies
	di.Initialize(logger)

	ginApp := gin.New()

	// CORS
	ginApp.Use(cors.New(cors.Config{
		AllowOrigins: []string{config.Env.CorsAllowedOrigin},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"x-access-token",
			"User-Agent",
			"Referer",
			middleware.RequestIDHeader,
		},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup routes
	routes.SetupDefaultRoutes(ginApp)

	srv := &http.Server{
		Addr:              ":" + config.Env.Port,
		Handler:           ginApp,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("🌊 Surf forecast API is running",
			zap.String("port", config.Env.Port),
			zap.String("environment", config.Env.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Surf forecast API failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("🔻 Surf forecast API is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), config.Env.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Surf forecast API forced to shutdown", zap.Error(err))
	}

	if db, err := di.GetDatabase(); err == nil {
		if err := db.Disconnect(ctx); err != nil {
			logger.Error("Failed to disconnect from MongoDB", zap.Error(err))
		}
	}
	if client, err := di.GetRedisClient(); err == nil {
		if err := client.Close(); err != nil {
			logger.Error("Failed to close Redis client", zap.Error(err))
		}
	}

	logger.Info("👋 Surf forecast API has been shut down successfully")
}
