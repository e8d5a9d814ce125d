package service

import (
	"context"
	"fmt"
	"time"

	apperror "chat-relay-service/internal/error"
	"chat-relay-service/internal/llm"
	"chat-relay-service/internal/metrics"
)

// DefaultModel is used when the credential source has no model override
const DefaultModel = "deepseek-chat"

// DefaultSystemPrompt is the instruction prepended to every conversation
const DefaultSystemPrompt = "You are xGPT. Answer clearly, concisely and intelligently."

// RelayConfig holds the static settings of the relay
type RelayConfig struct {
	SystemPrompt    string
	MaxMessages     int
	MaxPromptTokens int
}

// relayService handles the relay business logic
type relayService struct {
	llmClient   llm.Client
	credentials CredentialSource
	counter     PromptCounter // Can be nil when no prompt limit is set
	cfg         RelayConfig
}

// ChatRequest represents the incoming chat request
type ChatRequest struct {
	Messages []llm.Message `json:"messages"`
}

// ------------------------------------------------------------------------------------------------------
// NewRelayService creates a new relay service with injected dependencies
func NewRelayService(
	llmClient llm.Client,
	credentials CredentialSource,
	counter PromptCounter, // Can be nil
	cfg RelayConfig,
) RelayService {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	return &relayService{
		llmClient:   llmClient,
		credentials: credentials,
		counter:     counter,
		cfg:         cfg,
	}
}

// ------------------------------------------------------------------------------------------------------
// Open validates req and opens the upstream stream. On success the returned
// Relay is STREAMING and the caller must Close it.
func (s *relayService) Open(ctx context.Context, req *ChatRequest) (*Relay, error) {
	if err := req.Validate(s.cfg.MaxMessages); err != nil {
		return nil, err
	}

	messages := s.buildMessages(req.Messages)

	if err := s.checkPromptSize(ctx, messages); err != nil {
		return nil, err
	}

	creds, err := s.credentials.Credentials()
	if err != nil {
		return nil, apperror.NewUpstreamError("provider credentials unavailable", err)
	}
	if creds.Model == "" {
		creds.Model = DefaultModel
	}

	relay := newRelay()

	start := time.Now()
	err = relay.open(ctx, s.llmClient, creds.APIKey, llm.ChatRequest{
		Model:    creds.Model,
		Stream:   true,
		Messages: messages,
	})
	metrics.ObserveUpstreamHeaders(time.Since(start))
	if err != nil {
		return nil, apperror.NewUpstreamError("upstream request failed", err)
	}

	return relay, nil
}

// ------------------------------------------------------------------------------------------------------
// buildMessages prepends the system message without touching the caller's slice
func (s *relayService) buildMessages(conversation []llm.Message) []llm.Message {
	messages := make([]llm.Message, 0, len(conversation)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: s.cfg.SystemPrompt})
	return append(messages, conversation...)
}

// ------------------------------------------------------------------------------------------------------
func (s *relayService) checkPromptSize(ctx context.Context, messages []llm.Message) error {
	if s.counter == nil || s.cfg.MaxPromptTokens <= 0 {
		return nil
	}

	count, err := s.counter.Count(ctx, messages)
	if err != nil {
		return apperror.NewInternalError("failed to count prompt tokens", err)
	}

	if count > s.cfg.MaxPromptTokens {
		return apperror.NewValidationError(
			fmt.Sprintf("prompt has %d tokens, limit is %d", count, s.cfg.MaxPromptTokens),
			apperror.ErrPromptTooLarge,
		)
	}

	return nil
}
