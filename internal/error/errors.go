package error

import "errors"

var (
	ErrInvalidRole         = errors.New("invalid message role")
	ErrTooManyMessages     = errors.New("conversation has too many messages")
	ErrPromptTooLarge      = errors.New("conversation exceeds prompt token limit")
	ErrMissingAPIKey       = errors.New("provider API key is not configured")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrUpstreamStatus      = errors.New("upstream returned non-success status")
	ErrUpstreamNoBody      = errors.New("upstream response has no body")
)
