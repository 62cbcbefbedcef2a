package session

import (
	"context"
	"testing"
	"time"

	"github.com/gamingrealm/backend/internal/apperr"
)

func TestMemoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage(time.Hour)

	created, err := storage.Create(ctx, "u1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" || created.UserID != "u1" {
		t.Errorf("unexpected session: %+v", created)
	}

	got, err := storage.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || got.ID != created.ID || got.UserID != "u1" {
		t.Errorf("Get returned %+v, want %+v", got, created)
	}
}

func TestMemoryGetAbsent(t *testing.T) {
	storage := NewMemoryStorage(time.Hour)

	got, err := storage.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("absent session must not be an error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil session, got %+v", got)
	}
}

func TestMemoryOneSessionPerUser(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage(time.Hour)

	first, err := storage.Create(ctx, "u1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := storage.Create(ctx, "u1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first.ID == second.ID {
		t.Fatal("new session should have a new id")
	}

	if got, _ := storage.Get(ctx, first.ID); got != nil {
		t.Error("first session should be evicted by the second login")
	}
	if got, _ := storage.Get(ctx, second.ID); got == nil {
		t.Error("second session should be live")
	}
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage(time.Hour)

	s, err := storage.Create(ctx, "u1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := storage.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got, _ := storage.Get(ctx, s.ID); got != nil {
		t.Error("deleted session should be gone")
	}

	if err := storage.Delete(ctx, s.ID); !apperr.IsNotFound(err) {
		t.Errorf("deleting an absent session should be not-found, got: %v", err)
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage(time.Millisecond)

	s, err := storage.Create(ctx, "u1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	got, err := storage.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Error("expired session should be absent")
	}
}

func TestRedisKeyNamespace(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"session key", sessionKey("abc"), "gamingrealm:session:abc"},
		{"user key", userKey("u1"), "gamingrealm:user-session:u1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, want %q", tt.got, tt.expected)
			}
		})
	}
}
