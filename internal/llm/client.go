package llm

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Roles accepted in a conversation
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Client opens streaming completions against the provider
type Client interface {
	OpenStream(ctx context.Context, apiKey string, req ChatRequest) (io.ReadCloser, error)
}

// ProviderClient talks to an OpenAI-compatible chat completions endpoint
type ProviderClient struct {
	baseURL    string
	httpClient *http.Client
}

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents the request sent to the provider
type ChatRequest struct {
	Model    string    `json:"model"`
	Stream   bool      `json:"stream"`
	Messages []Message `json:"messages"`
}

// ------------------------------------------------------------------------------------------------------
// NewProviderClient creates a client for baseURL. The client has no overall
// timeout since a streamed reply can run for minutes; headerTimeout bounds
// the wait for the response headers only.
func NewProviderClient(baseURL string, headerTimeout time.Duration) *ProviderClient {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = headerTimeout

	return &ProviderClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: transport,
		},
	}
}

// ------------------------------------------------------------------------------------------------------
// OpenStream sends req in streaming mode and returns the upstream body once
// the provider answered with a success status. The request is bound to ctx,
// cancelling ctx aborts any pending read on the returned body. Caller must
// close the body.
func (c *ProviderClient) OpenStream(ctx context.Context, apiKey string, req ChatRequest) (io.ReadCloser, error) {
	req.Stream = true

	resp, err := c.doRequest(ctx, apiKey, req)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}
