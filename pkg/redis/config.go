package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisConfigModel struct {
	Host     string
	Port     string
	Username string
	Password string
}

// RedisClient connects to the server, retrying the first ping a few times before giving up.
func RedisClient(ctx context.Context, cfg RedisConfigModel, logger *zap.Logger) (*redis.Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	redisURL := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:         redisURL,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           0,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		PoolSize:     10,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		err := client.Ping(ctx).Err()
		if err == nil {
			logger.Info("✨ Connected to Redis successfully", zap.String("addr", redisURL))
			return client, nil
		}

		logger.Warn("Failed to connect to Redis",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Error(err))
		if i == maxRetries-1 {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to Redis after %d attempts: %w", maxRetries, err)
		}

		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}

	return client, nil
}
