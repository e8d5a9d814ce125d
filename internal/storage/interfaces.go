package storage

import (
	"context"
	"time"
)

// TokenCache caches prompt token counts by conversation key
type TokenCache interface {
	GetTokenCount(ctx context.Context, key string) (int, bool, error)
	SetTokenCount(ctx context.Context, key string, count int, ttl time.Duration) error
	Close() error
}
