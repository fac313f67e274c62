package repositories

import (
	"context"
	"fmt"
	"time"

	"surf-forecast/pkg/redis"

	"go.uber.org/zap"
)

type TokenRepository interface {
	BlacklistToken(ctx context.Context, token string, expiresIn time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
}

type tokenRepository struct {
	redis  redis.IRedisRepositories
	logger *zap.Logger
}

func NewTokenRepository(redis redis.IRedisRepositories, logger *zap.Logger) TokenRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &tokenRepository{
		redis:  redis,
		logger: logger,
	}
}

func blacklistKey(token string) string {
	return fmt.Sprintf("blacklist:%s", token)
}

// BlacklistToken revokes token until it would have expired anyway. Tokens that already
// expired are not stored.
func (r *tokenRepository) BlacklistToken(ctx context.Context, token string, expiresIn time.Duration) error {
	if expiresIn <= 0 {
		return nil
	}

	if err := r.redis.Set(ctx, blacklistKey(token), []byte("blacklisted"), expiresIn); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	r.logger.Debug("Blacklisted token", zap.Duration("expires_in", expiresIn))
	return nil
}

func (r *tokenRepository) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	return r.redis.Exists(ctx, blacklistKey(token))
}
