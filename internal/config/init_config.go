package config

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"chat-relay-service/internal/api"
	"chat-relay-service/internal/api/handlers"
	"chat-relay-service/internal/llm"
	"chat-relay-service/internal/logging"
	"chat-relay-service/internal/service"
	"chat-relay-service/internal/storage"
	"chat-relay-service/internal/tokens"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const redisConnectTimeout = 3 * time.Second

// ------------------------------------------------------------------------------------------------------
// NewTokenCache connects to Redis and falls back to an in-memory cache
func (c *Config) NewTokenCache(logger *zap.Logger) storage.TokenCache {
	ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
	defer cancel()

	redisStore, err := storage.NewRedisStore(ctx, c.RedisAddr, c.RedisPassword)
	if err != nil {
		logger.Warn("Failed to connect to Redis, using in-memory token cache",
			zap.Error(err),
		)
		return storage.NewMemoryStore(c.TokenCacheSize)
	}
	logger.Info("Connected to Redis")
	return redisStore
}

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewLLMClient() llm.Client {
	return llm.NewProviderClient(c.ProviderURL, c.UpstreamHeaderTimeout)
}

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewLogger() (*zap.Logger, error) {
	if err := logging.Init(c.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logging.Logger, nil
}

// ------------------------------------------------------------------------------------------------------
// NewRelayService wires the relay. The token cache is only created when a
// prompt limit is configured and is returned so the caller can close it; it
// is nil otherwise.
func (c *Config) NewRelayService(logger *zap.Logger) (service.RelayService, storage.TokenCache, error) {
	var (
		counter service.PromptCounter
		cache   storage.TokenCache
	)

	if c.MaxPromptTokens > 0 {
		cache = c.NewTokenCache(logger)

		tokenCounter, err := tokens.NewCounter(cache, c.TokenCacheTTL)
		if err != nil {
			_ = cache.Close()
			return nil, nil, err
		}
		counter = tokenCounter
	}

	relayService := service.NewRelayService(c.NewLLMClient(), EnvCredentials{}, counter, service.RelayConfig{
		SystemPrompt:    c.SystemPrompt,
		MaxMessages:     c.MaxMessages,
		MaxPromptTokens: c.MaxPromptTokens,
	})

	return relayService, cache, nil
}

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewHandler(relayService service.RelayService, logger *zap.Logger) *handlers.Handler {
	return handlers.NewHandler(relayService, logger)
}

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewRouter(handler *handlers.Handler, logger *zap.Logger) *mux.Router {
	return api.SetupRouter(handler, logger)
}

// ------------------------------------------------------------------------------------------------------
// NewHTTPServer creates the server. WriteTimeout defaults to 0 because it
// would cut off long streamed replies.
func (c *Config) NewHTTPServer(router *mux.Router) *http.Server {
	return &http.Server{
		Addr:         ":" + c.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: c.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
}
