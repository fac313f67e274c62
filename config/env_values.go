package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Environment struct {
	// Server configs
	IsDocker          bool
	Port              string
	Environment       string
	LogLevel          string
	CorsAllowedOrigin string
	ShutdownTimeout   time.Duration

	// Auth configs
	JWTSecret                 string
	JWTExpirationMilliseconds int

	// Database configs
	MongoURI          string
	MongoDatabaseName string

	// Redis configs
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string

	// StormGlass configs
	StormGlassAPIURL   string
	StormGlassAPIToken string
	StormGlassTimeout  time.Duration
	ForecastCacheTTL   time.Duration
}

var Env Environment

// invalidDurations collects the duration variables that failed to parse during LoadEnv.
var invalidDurations []string

// missingRequired collects the required variables left unset outside DEVELOPMENT.
var missingRequired []string

// LoadEnv loads environment variables from .env file if present
// and validates required variables
func LoadEnv() error {
	Env = Environment{}
	invalidDurations = nil
	missingRequired = nil

	Env.IsDocker = os.Getenv("IS_DOCKER") == "true"

	// Load .env file only if not running in Docker
	if !Env.IsDocker {
		if err := godotenv.Load(); err != nil {
			fmt.Printf("Warning: .env file not found: %v\n", err)
		}
	}

	// Server configs
	Env.Port = getEnvWithDefault("PORT", "3000")
	Env.Environment = getEnvWithDefault("ENVIRONMENT", "DEVELOPMENT")
	Env.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")
	Env.CorsAllowedOrigin = getEnvWithDefault("CORS_ALLOWED_ORIGIN", "http://localhost:5173")
	Env.ShutdownTimeout = getDurationEnvWithDefault("SHUTDOWN_TIMEOUT", 5*time.Second)

	// Auth configs
	Env.JWTSecret = getRequiredEnv("JWT_SECRET", "surf_forecast_jwt_secret")
	Env.JWTExpirationMilliseconds = getIntEnvWithDefault("JWT_EXPIRATION_MILLISECONDS", 1000*60*60*24) // 1 day default

	// Database configs
	Env.MongoURI = getRequiredEnv("SURF_MONGODB_URI", "mongodb://localhost:27017")
	Env.MongoDatabaseName = getRequiredEnv("SURF_MONGODB_NAME", "surf-forecast")
	Env.RedisHost = getRequiredEnv("SURF_REDIS_HOST", "localhost")
	Env.RedisPort = getRequiredEnv("SURF_REDIS_PORT", "6379")
	Env.RedisUsername = getEnvWithDefault("SURF_REDIS_USERNAME", "")
	Env.RedisPassword = getEnvWithDefault("SURF_REDIS_PASSWORD", "")

	// StormGlass configs
	Env.StormGlassAPIURL = strings.TrimRight(getEnvWithDefault("STORMGLASS_API_URL", "https://api.stormglass.io/v2"), "/")
	Env.StormGlassAPIToken = getEnvWithDefault("STORMGLASS_API_TOKEN", "")
	Env.StormGlassTimeout = getDurationEnvWithDefault("STORMGLASS_TIMEOUT", 10*time.Second)
	Env.ForecastCacheTTL = getDurationEnvWithDefault("FORECAST_CACHE_TTL", time.Hour)

	return validateConfig()
}

// IsDevelopment reports whether the service runs in the DEVELOPMENT environment.
func (e Environment) IsDevelopment() bool {
	return strings.EqualFold(e.Environment, "DEVELOPMENT")
}

// JWTExpiration is the token lifetime as a duration.
func (e Environment) JWTExpiration() time.Duration {
	return time.Duration(e.JWTExpirationMilliseconds) * time.Millisecond
}

// Helper functions to get environment variables with defaults and validation
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getRequiredEnv falls back to developmentDefault only in DEVELOPMENT. Anywhere else an unset
// variable is reported by validateConfig.
func getRequiredEnv(key, developmentDefault string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if Env.IsDevelopment() {
		return developmentDefault
	}
	missingRequired = append(missingRequired, key)
	return ""
}

func getIntEnvWithDefault(key string, defaultValue int) int {
	strValue := os.Getenv(key)
	if strValue == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(strValue)
	if err != nil {
		fmt.Printf("Warning: Invalid value for %s, using default: %d\n", key, defaultValue)
		return defaultValue
	}
	return value
}

func getDurationEnvWithDefault(key string, defaultValue time.Duration) time.Duration {
	strValue := os.Getenv(key)
	if strValue == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(strValue)
	if err != nil || value < 0 {
		invalidDurations = append(invalidDurations, key)
		return defaultValue
	}
	return value
}

func validateConfig() error {
	var errs []error

	for _, key := range missingRequired {
		errs = append(errs, fmt.Errorf("%s is required outside DEVELOPMENT", key))
	}

	if Env.MongoURI != "" && !isValidURI(Env.MongoURI) {
		errs = append(errs, fmt.Errorf("invalid SURF_MONGODB_URI format: %s", Env.MongoURI))
	}

	if Env.JWTExpirationMilliseconds <= 0 {
		errs = append(errs, fmt.Errorf("JWT_EXPIRATION_MILLISECONDS must be positive, got: %d", Env.JWTExpirationMilliseconds))
	}

	for _, key := range invalidDurations {
		errs = append(errs, fmt.Errorf("%s must be a non-negative duration such as 10s or 1h", key))
	}

	if Env.StormGlassTimeout == 0 {
		errs = append(errs, errors.New("STORMGLASS_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

func isValidURI(uri string) bool {
	return len(uri) > 10 && (strings.HasPrefix(uri, "mongodb://") || strings.HasPrefix(uri, "mongodb+srv://"))
}
