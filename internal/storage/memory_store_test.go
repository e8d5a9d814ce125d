package storage

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemoryStore_SetAndGet(t *testing.T) {
	store := NewMemoryStore(20)
	ctx := context.Background()

	if err := store.SetTokenCount(ctx, "abc", 42, time.Hour); err != nil {
		t.Fatalf("SetTokenCount() error = %v", err)
	}

	count, found, err := store.GetTokenCount(ctx, "abc")
	if err != nil {
		t.Fatalf("GetTokenCount() error = %v", err)
	}
	if !found || count != 42 {
		t.Errorf("Expected (42, true), got (%d, %v)", count, found)
	}

	if _, found, _ := store.GetTokenCount(ctx, "missing"); found {
		t.Error("Expected miss for unknown key")
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(20)
	now := time.Now()
	store.now = func() time.Time { return now }

	_ = store.SetTokenCount(context.Background(), "k", 7, time.Minute)

	now = now.Add(2 * time.Minute)
	if _, found, _ := store.GetTokenCount(context.Background(), "k"); found {
		t.Error("Expected expired entry to miss")
	}
}

func TestMemoryStore_TrimToMaxEntries(t *testing.T) {
	store := NewMemoryStore(2)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = store.SetTokenCount(ctx, fmt.Sprintf("k%d", i), i, 0)
	}

	if store.Len() != 2 {
		t.Errorf("Expected 2 entries, got %d", store.Len())
	}
	if _, found, _ := store.GetTokenCount(ctx, "k0"); found {
		t.Error("Expected oldest entry to be evicted")
	}
	if _, found, _ := store.GetTokenCount(ctx, "k2"); !found {
		t.Error("Expected newest entry to be kept")
	}
}

func TestMemoryStore_Concurrency(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	done := make(chan bool)

	for i := 0; i < 10; i++ {
		go func(id int) {
			_ = store.SetTokenCount(ctx, fmt.Sprintf("k%d", id), id, time.Hour)
			_, _, _ = store.GetTokenCount(ctx, "k0")
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	if store.Len() != 10 {
		t.Errorf("Expected 10 entries, got %d", store.Len())
	}
}

func TestMemoryStore_Close(t *testing.T) {
	store := NewMemoryStore(20)

	_ = store.SetTokenCount(context.Background(), "k", 1, 0)
	_ = store.Close()

	if store.Len() != 0 {
		t.Errorf("Expected 0 entries after close, got %d", store.Len())
	}
}
