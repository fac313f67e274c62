package di

import (
	"context"
	"time"

	"surf-forecast/config"
	"surf-forecast/internal/apis/handlers"
	"surf-forecast/internal/observability"
	"surf-forecast/internal/repositories"
	"surf-forecast/internal/services"
	"surf-forecast/internal/utils"
	"surf-forecast/pkg/mongodb"
	"surf-forecast/pkg/redis"
	"surf-forecast/pkg/stormglass"

	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"go.uber.org/zap"
)

const startupTimeout = 30 * time.Second

var DiContainer *dig.Container

// Initialize wires every dependency of the API, connects to MongoDB and Redis and applies the
// collection setup. Any failure is fatal.
func Initialize(logger *zap.Logger) {
	DiContainer = dig.New()

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	provide(logger, "config", func() config.Environment { return config.Env })
	provide(logger, "logger", func() *zap.Logger { return logger })
	provide(logger, "metrics", observability.NewMetrics)
	provide(logger, "clock", clockwork.NewRealClock)

	// Initialize MongoDB
	provide(logger, "MongoDB database", func(env config.Environment, logger *zap.Logger) (*mongodb.Database, error) {
		db := mongodb.NewDatabase(mongodb.MongoDbConfigModel{
			ConnectionUrl: env.MongoURI,
			DatabaseName:  env.MongoDatabaseName,
		}, logger)
		if err := db.Connect(ctx); err != nil {
			return nil, err
		}
		return db, nil
	})

	// Initialize Redis
	provide(logger, "Redis client", func(env config.Environment, logger *zap.Logger) (*goredis.Client, error) {
		return redis.RedisClient(ctx, redis.RedisConfigModel{
			Host:     env.RedisHost,
			Port:     env.RedisPort,
			Username: env.RedisUsername,
			Password: env.RedisPassword,
		}, logger)
	})
	provide(logger, "Redis repositories", func(client *goredis.Client, logger *zap.Logger) redis.IRedisRepositories {
		return redis.NewRedisRepositories(client, logger)
	})

	// Repositories
	provide(logger, "user repository", repositories.NewUserRepository)
	provide(logger, "beach repository", repositories.NewBeachRepository)
	provide(logger, "token repository", repositories.NewTokenRepository)

	provide(logger, "JWT service", func(env config.Environment, clock clockwork.Clock) utils.JWTService {
		return utils.NewJWTService(env.JWTSecret, env.JWTExpiration(), clock)
	})

	provide(logger, "StormGlass client", func(
		env config.Environment,
		cache redis.IRedisRepositories,
		clock clockwork.Clock,
		metrics *observability.Metrics,
		logger *zap.Logger,
	) stormglass.Fetcher {
		client := stormglass.NewClient(env.StormGlassAPIURL, env.StormGlassAPIToken, env.StormGlassTimeout, clock, metrics, logger)
		return stormglass.NewCachedClient(client, cache, env.ForecastCacheTTL, metrics, logger)
	})

	// Provide services
	provide(logger, "auth service", services.NewAuthService)
	provide(logger, "beach service", services.NewBeachService)
	provide(logger, "forecast service", services.NewForecastService)

	// Provide handlers
	provide(logger, "auth handler", handlers.NewAuthHandler)
	provide(logger, "beach handler", handlers.NewBeachHandler)
	provide(logger, "forecast handler", handlers.NewForecastHandler)

	// Build the whole graph while ctx is alive. Models register themselves when their
	// repository is built, so collection setup runs last.
	if err := DiContainer.Invoke(func(
		db *mongodb.Database,
		_ *handlers.AuthHandler,
		_ *handlers.BeachHandler,
		_ *handlers.ForecastHandler,
	) error {
		return db.SetupCollections(ctx)
	}); err != nil {
		logger.Fatal("Failed to set up collections", zap.Error(err))
	}
	logger.Info("✨ Collections are set up")
}

func provide(logger *zap.Logger, name string, constructor any) {
	if err := DiContainer.Provide(constructor); err != nil {
		logger.Fatal("Failed to provide "+name, zap.Error(err))
	}
}

func resolve[T any]() (T, error) {
	var value T
	err := DiContainer.Invoke(func(v T) {
		value = v
	})
	return value, err
}

// GetAuthHandler retrieves the AuthHandler from the DI container
func GetAuthHandler() (*handlers.AuthHandler, error) {
	return resolve[*handlers.AuthHandler]()
}

// GetBeachHandler retrieves the BeachHandler from the DI container
func GetBeachHandler() (*handlers.BeachHandler, error) {
	return resolve[*handlers.BeachHandler]()
}

// GetForecastHandler retrieves the ForecastHandler from the DI container
func GetForecastHandler() (*handlers.ForecastHandler, error) {
	return resolve[*handlers.ForecastHandler]()
}

func GetLogger() (*zap.Logger, error) {
	return resolve[*zap.Logger]()
}

func GetMetrics() (*observability.Metrics, error) {
	return resolve[*observability.Metrics]()
}

func GetDatabase() (*mongodb.Database, error) {
	return resolve[*mongodb.Database]()
}

func GetRedisClient() (*goredis.Client, error) {
	return resolve[*goredis.Client]()
}
