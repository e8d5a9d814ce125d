// Package tokens estimates the prompt size of a conversation.
package tokens

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"chat-relay-service/internal/llm"
	"chat-relay-service/internal/storage"

	"github.com/tiktoken-go/tokenizer"
)

// messageOverhead approximates the tokens spent on role and structure
const messageOverhead = 4

// Counter counts prompt tokens with tiktoken and memoizes results in a cache
type Counter struct {
	codec tokenizer.Codec
	cache storage.TokenCache
	ttl   time.Duration
}

// ------------------------------------------------------------------------------------------------------
// NewCounter creates a counter using the cl100k_base encoding. cache may be nil.
func NewCounter(cache storage.TokenCache, ttl time.Duration) (*Counter, error) {
	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return nil, fmt.Errorf("failed to get tokenizer: %w", err)
	}

	return &Counter{
		codec: codec,
		cache: cache,
		ttl:   ttl,
	}, nil
}

// ------------------------------------------------------------------------------------------------------
// Count returns the approximate prompt tokens of messages. Cache failures
// fall back to counting.
func (c *Counter) Count(ctx context.Context, messages []llm.Message) (int, error) {
	key := cacheKey(messages)

	if c.cache != nil {
		if count, found, err := c.cache.GetTokenCount(ctx, key); err == nil && found {
			return count, nil
		}
	}

	total := 0
	for _, msg := range messages {
		ids, _, err := c.codec.Encode(msg.Content)
		if err != nil {
			return 0, fmt.Errorf("failed to encode content: %w", err)
		}
		total += len(ids) + messageOverhead
	}

	if c.cache != nil {
		_ = c.cache.SetTokenCount(ctx, key, total, c.ttl)
	}

	return total, nil
}

// ------------------------------------------------------------------------------------------------------
func cacheKey(messages []llm.Message) string {
	data, _ := json.Marshal(messages)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
