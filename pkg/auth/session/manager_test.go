package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type memoryBackend struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{data: make(map[string]string)}
}

func (m *memoryBackend) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *memoryBackend) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *memoryBackend) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memoryBackend) AccessSessionKey(accessID string) string {
	return fmt.Sprintf("sess:%s", accessID)
}

func testManager(backend sessionBackend) *Manager {
	return &Manager{backend: backend, ttl: time.Hour}
}

func TestGenerateStoresRefreshToken(t *testing.T) {
	backend := newMemoryBackend()
	manager := testManager(backend)

	accessID := NewAccessID()
	token, err := manager.Generate(context.Background(), accessID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if token == "" {
		t.Fatal("expected a refresh token")
	}
	if stored := backend.data[backend.AccessSessionKey(accessID)]; stored != token {
		t.Fatalf("expected stored token %q, got %q", token, stored)
	}

	if _, err := manager.Generate(context.Background(), "  "); err == nil {
		t.Fatal("expected error for blank access id")
	}
}

func TestRotateReplacesSession(t *testing.T) {
	backend := newMemoryBackend()
	manager := testManager(backend)
	ctx := context.Background()

	oldAccessID := NewAccessID()
	oldToken, err := manager.Generate(ctx, oldAccessID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	newAccessID, newToken, err := manager.Rotate(ctx, oldAccessID, oldToken)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if newAccessID == oldAccessID {
		t.Fatal("expected a fresh access id")
	}
	if newToken == oldToken {
		t.Fatal("expected a fresh refresh token")
	}
	if _, exists := backend.data[backend.AccessSessionKey(oldAccessID)]; exists {
		t.Fatal("old session key left behind after rotate")
	}
	if stored := backend.data[backend.AccessSessionKey(newAccessID)]; stored != newToken {
		t.Fatalf("new session not stored, got %q", stored)
	}

	// The rotated-out token is dead: a replayed refresh must fail.
	if _, _, err := manager.Rotate(ctx, oldAccessID, oldToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken on replay, got %v", err)
	}
}

func TestRotateRejectsMismatchedToken(t *testing.T) {
	backend := newMemoryBackend()
	manager := testManager(backend)
	ctx := context.Background()

	accessID := NewAccessID()
	if _, err := manager.Generate(ctx, accessID); err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, _, err := manager.Rotate(ctx, accessID, "not-the-token"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
	if _, _, err := manager.Rotate(ctx, "unknown-access-id", "whatever"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken for unknown session, got %v", err)
	}
	if _, _, err := manager.Rotate(ctx, accessID, ""); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken for blank token, got %v", err)
	}
}

func TestRevokeEndsSession(t *testing.T) {
	backend := newMemoryBackend()
	manager := testManager(backend)
	ctx := context.Background()

	accessID := NewAccessID()
	if _, err := manager.Generate(ctx, accessID); err != nil {
		t.Fatalf("generate: %v", err)
	}

	has, err := manager.HasSession(ctx, accessID)
	if err != nil || !has {
		t.Fatalf("expected live session, got has=%v err=%v", has, err)
	}

	if err := manager.Revoke(ctx, accessID); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	has, err = manager.HasSession(ctx, accessID)
	if err != nil || has {
		t.Fatalf("expected revoked session, got has=%v err=%v", has, err)
	}
}
