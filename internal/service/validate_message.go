package service

import (
	"fmt"

	apperror "chat-relay-service/internal/error"
	"chat-relay-service/internal/llm"
)

// ------------------------------------------------------------------------------------------------------
// Validate checks roles and, when maxMessages > 0, the conversation length.
// Empty conversations and empty content are allowed.
func (r *ChatRequest) Validate(maxMessages int) error {
	if maxMessages > 0 && len(r.Messages) > maxMessages {
		return apperror.NewValidationError(
			fmt.Sprintf("conversation has %d messages, limit is %d", len(r.Messages), maxMessages),
			apperror.ErrTooManyMessages,
		)
	}

	for i, msg := range r.Messages {
		switch msg.Role {
		case llm.RoleSystem, llm.RoleUser, llm.RoleAssistant:
		default:
			return apperror.NewValidationError(
				fmt.Sprintf("invalid role '%s' at index %d: must be 'system', 'user' or 'assistant'", msg.Role, i),
				apperror.ErrInvalidRole,
			)
		}
	}

	return nil
}
