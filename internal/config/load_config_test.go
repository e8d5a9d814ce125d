package config

import (
	"testing"
	"time"

	apperror "chat-relay-service/internal/error"
	"chat-relay-service/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DEEPSEEK_BASE_URL", "SYSTEM_PROMPT", "MAX_MESSAGES", "TOKEN_CACHE_TTL", "WRITE_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "https://api.deepseek.com/v1/chat/completions", cfg.ProviderURL)
	assert.Equal(t, service.DefaultSystemPrompt, cfg.SystemPrompt)
	assert.Equal(t, 0, cfg.MaxMessages)
	assert.Equal(t, 24*time.Hour, cfg.TokenCacheTTL)
	assert.Equal(t, time.Duration(0), cfg.WriteTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_MESSAGES", "50")
	t.Setenv("TOKEN_CACHE_TTL", "5m")
	t.Setenv("UPSTREAM_HEADER_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 50, cfg.MaxMessages)
	assert.Equal(t, 5*time.Minute, cfg.TokenCacheTTL)
	assert.Equal(t, 60*time.Second, cfg.UpstreamHeaderTimeout)
}

func TestLoad_RejectsNegativeLimits(t *testing.T) {
	t.Setenv("MAX_PROMPT_TOKENS", "-1")

	_, err := Load()
	assert.Error(t, err)
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv(envAPIKey, "")
	t.Setenv(envModel, "")
	_, err := EnvCredentials{}.Credentials()
	assert.ErrorIs(t, err, apperror.ErrMissingAPIKey)

	t.Setenv(envAPIKey, "sk-test")
	creds, err := EnvCredentials{}.Credentials()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", creds.APIKey)
	assert.Equal(t, service.DefaultModel, creds.Model)

	t.Setenv(envModel, "deepseek-reasoner")
	creds, err = EnvCredentials{}.Credentials()
	require.NoError(t, err)
	assert.Equal(t, "deepseek-reasoner", creds.Model)
}

func TestNewRelayService_WithoutPromptLimit(t *testing.T) {
	t.Setenv("MAX_PROMPT_TOKENS", "")

	cfg, err := Load()
	require.NoError(t, err)

	svc, cache, err := cfg.NewRelayService(nil)
	require.NoError(t, err)
	assert.NotNil(t, svc)
	assert.Nil(t, cache)
}
