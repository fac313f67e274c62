package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_Defaults(t *testing.T) {
	t.Setenv("IS_DOCKER", "true")

	require.NoError(t, LoadEnv())

	assert.True(t, Env.IsDocker)
	assert.Equal(t, "3000", Env.Port)
	assert.Equal(t, "DEVELOPMENT", Env.Environment)
	assert.True(t, Env.IsDevelopment())
	assert.Equal(t, "info", Env.LogLevel)
	assert.Equal(t, "http://localhost:5173", Env.CorsAllowedOrigin)
	assert.Equal(t, 5*time.Second, Env.ShutdownTimeout)
	assert.Equal(t, "surf_forecast_jwt_secret", Env.JWTSecret)
	assert.Equal(t, 24*time.Hour, Env.JWTExpiration())
	assert.Equal(t, "mongodb://localhost:27017", Env.MongoURI)
	assert.Equal(t, "surf-forecast", Env.MongoDatabaseName)
	assert.Equal(t, "localhost", Env.RedisHost)
	assert.Equal(t, "6379", Env.RedisPort)
	assert.Equal(t, "https://api.stormglass.io/v2", Env.StormGlassAPIURL)
	assert.Empty(t, Env.StormGlassAPIToken)
	assert.Equal(t, 10*time.Second, Env.StormGlassTimeout)
	assert.Equal(t, time.Hour, Env.ForecastCacheTTL)
}

func TestLoadEnv_CustomEnv(t *testing.T) {
	t.Setenv("IS_DOCKER", "true")
	t.Setenv("PORT", "8080")
	t.Setenv("ENVIRONMENT", "PRODUCTION")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("JWT_SECRET", "another-secret")
	t.Setenv("JWT_EXPIRATION_MILLISECONDS", "60000")
	t.Setenv("SURF_MONGODB_URI", "mongodb+srv://cluster.example.net")
	t.Setenv("SURF_MONGODB_NAME", "surf")
	t.Setenv("SURF_REDIS_HOST", "redis.internal")
	t.Setenv("SURF_REDIS_PORT", "6380")
	t.Setenv("SURF_REDIS_PASSWORD", "secret")
	t.Setenv("STORMGLASS_API_URL", "http://localhost:9999/v2/")
	t.Setenv("STORMGLASS_API_TOKEN", "token")
	t.Setenv("STORMGLASS_TIMEOUT", "2s")
	t.Setenv("FORECAST_CACHE_TTL", "0s")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	require.NoError(t, LoadEnv())

	assert.Equal(t, "8080", Env.Port)
	assert.False(t, Env.IsDevelopment())
	assert.Equal(t, "debug", Env.LogLevel)
	assert.Equal(t, "another-secret", Env.JWTSecret)
	assert.Equal(t, time.Minute, Env.JWTExpiration())
	assert.Equal(t, "mongodb+srv://cluster.example.net", Env.MongoURI)
	assert.Equal(t, "surf", Env.MongoDatabaseName)
	assert.Equal(t, "redis.internal", Env.RedisHost)
	assert.Equal(t, "6380", Env.RedisPort)
	assert.Equal(t, "secret", Env.RedisPassword)
	assert.Equal(t, "http://localhost:9999/v2", Env.StormGlassAPIURL)
	assert.Equal(t, "token", Env.StormGlassAPIToken)
	assert.Equal(t, 2*time.Second, Env.StormGlassTimeout)
	assert.Zero(t, Env.ForecastCacheTTL)
	assert.Equal(t, 30*time.Second, Env.ShutdownTimeout)
}

func TestLoadEnv_Validation(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		message string
	}{
		{name: "short mongo uri", key: "SURF_MONGODB_URI", value: "mongo", message: "SURF_MONGODB_URI"},
		{name: "non-positive jwt expiration", key: "JWT_EXPIRATION_MILLISECONDS", value: "-1", message: "JWT_EXPIRATION_MILLISECONDS"},
		{name: "invalid duration", key: "FORECAST_CACHE_TTL", value: "soon", message: "FORECAST_CACHE_TTL"},
		{name: "negative duration", key: "SHUTDOWN_TIMEOUT", value: "-5s", message: "SHUTDOWN_TIMEOUT"},
		{name: "zero stormglass timeout", key: "STORMGLASS_TIMEOUT", value: "0s", message: "STORMGLASS_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("IS_DOCKER", "true")
			t.Setenv(tt.key, tt.value)

			err := LoadEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoadEnv_InvalidIntegerFallsBackToDefault(t *testing.T) {
	t.Setenv("IS_DOCKER", "true")
	t.Setenv("JWT_EXPIRATION_MILLISECONDS", "a-day")

	require.NoError(t, LoadEnv())
	assert.Equal(t, 24*time.Hour, Env.JWTExpiration())
}

func TestLoadEnv_RequiredOutsideDevelopment(t *testing.T) {
	t.Setenv("IS_DOCKER", "true")
	t.Setenv("ENVIRONMENT", "PRODUCTION")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("SURF_MONGODB_URI", "mongodb://mongo:27017")

	err := LoadEnv()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SURF_MONGODB_NAME is required outside DEVELOPMENT")
	assert.Contains(t, err.Error(), "SURF_REDIS_HOST is required outside DEVELOPMENT")
	assert.Contains(t, err.Error(), "SURF_REDIS_PORT is required outside DEVELOPMENT")
	assert.NotContains(t, err.Error(), "JWT_SECRET")
	assert.NotContains(t, err.Error(), "invalid SURF_MONGODB_URI")
}

func TestLoadEnv_MissingMongoURIIsReportedOnce(t *testing.T) {
	t.Setenv("IS_DOCKER", "true")
	t.Setenv("ENVIRONMENT", "PRODUCTION")

	err := LoadEnv()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SURF_MONGODB_URI is required outside DEVELOPMENT")
	assert.NotContains(t, err.Error(), "invalid SURF_MONGODB_URI")
}
