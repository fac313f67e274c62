package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrKeyNotFound is returned by Get when the key does not exist or has expired.
var ErrKeyNotFound = errors.New("redis: key does not exist")

type RedisRepositories struct {
	Client *redis.Client
	logger *zap.Logger
}

type IRedisRepositories interface {
	Set(ctx context.Context, key string, data []byte, expiredTime time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

func NewRedisRepositories(client *redis.Client, logger *zap.Logger) *RedisRepositories {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("🚀 Initialized Repository : Redis")
	return &RedisRepositories{
		Client: client,
		logger: logger,
	}
}

func (r *RedisRepositories) Set(ctx context.Context, key string, data []byte, expiredTime time.Duration) error {
	if err := r.Client.Set(ctx, key, string(data), expiredTime).Err(); err != nil {
		r.logger.Error("Error setting Redis key", zap.String("key", key), zap.Error(err))
		return err
	}
	r.logger.Debug("Set Redis key", zap.String("key", key), zap.Duration("expiration", expiredTime))
	return nil
}

func (r *RedisRepositories) Get(ctx context.Context, key string) (string, error) {
	result, err := r.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		r.logger.Error("Error getting Redis key", zap.String("key", key), zap.Error(err))
		return "", err
	}
	return result, nil
}

func (r *RedisRepositories) Del(ctx context.Context, key string) error {
	if err := r.Client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Error deleting Redis key", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (r *RedisRepositories) Exists(ctx context.Context, key string) (bool, error) {
	count, err := r.Client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
