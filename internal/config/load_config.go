package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	apperror "chat-relay-service/internal/error"
	"chat-relay-service/internal/service"

	"github.com/joho/godotenv"
)

const (
	envAPIKey = "DEEPSEEK_API_KEY"
	envModel  = "DEEPSEEK_MODEL"
)

// Config holds all configuration for the application
type Config struct {
	Port                  string
	ProviderURL           string
	SystemPrompt          string
	MaxMessages           int
	MaxPromptTokens       int
	RedisAddr             string
	RedisPassword         string
	TokenCacheTTL         time.Duration
	TokenCacheSize        int
	UpstreamHeaderTimeout time.Duration
	WriteTimeout          time.Duration
	LogLevel              string
}

// ------------------------------------------------------------------------------------------------------
// Load reads configuration from .env and environment variables. The provider
// credential is not part of Config: EnvCredentials reads it per request.
func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := &Config{
		Port:                  getEnv("PORT", "8000"),
		ProviderURL:           getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1/chat/completions"),
		SystemPrompt:          getEnv("SYSTEM_PROMPT", service.DefaultSystemPrompt),
		MaxMessages:           getEnvAsInt("MAX_MESSAGES", 0),
		MaxPromptTokens:       getEnvAsInt("MAX_PROMPT_TOKENS", 0),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		TokenCacheTTL:         getEnvAsDuration("TOKEN_CACHE_TTL", 24*time.Hour),
		TokenCacheSize:        getEnvAsInt("TOKEN_CACHE_SIZE", 10000),
		UpstreamHeaderTimeout: getEnvAsDuration("UPSTREAM_HEADER_TIMEOUT", 60*time.Second),
		WriteTimeout:          getEnvAsDuration("WRITE_TIMEOUT", 0),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
	}

	if cfg.MaxMessages < 0 || cfg.MaxPromptTokens < 0 {
		return nil, fmt.Errorf("MAX_MESSAGES and MAX_PROMPT_TOKENS must not be negative")
	}

	return cfg, nil
}

// ------------------------------------------------------------------------------------------------------
// HasAPIKey reports whether the provider credential is currently set
func (c *Config) HasAPIKey() bool {
	return os.Getenv(envAPIKey) != ""
}

// EnvCredentials reads the provider credential and model from the environment
// on every call
type EnvCredentials struct{}

// ------------------------------------------------------------------------------------------------------
func (EnvCredentials) Credentials() (service.Credentials, error) {
	apiKey := os.Getenv(envAPIKey)
	if apiKey == "" {
		return service.Credentials{}, fmt.Errorf("%w: %s is not set", apperror.ErrMissingAPIKey, envAPIKey)
	}
	return service.Credentials{
		APIKey: apiKey,
		Model:  getEnv(envModel, service.DefaultModel),
	}, nil
}

// ------------------------------------------------------------------------------------------------------
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ------------------------------------------------------------------------------------------------------
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// ------------------------------------------------------------------------------------------------------
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
