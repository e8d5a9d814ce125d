package service

import (
	"context"

	"chat-relay-service/internal/llm"
)

// RelayService opens relays from inbound conversations to the provider
type RelayService interface {
	Open(ctx context.Context, req *ChatRequest) (*Relay, error)
}

// CredentialSource supplies the provider credential and model per request
type CredentialSource interface {
	Credentials() (Credentials, error)
}

// PromptCounter estimates the token size of an outbound prompt
type PromptCounter interface {
	Count(ctx context.Context, messages []llm.Message) (int, error)
}

// Credentials for one outbound request
type Credentials struct {
	APIKey string
	Model  string
}
