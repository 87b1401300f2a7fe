package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore(time.Hour)

	token, err := s.Create(ctx, "user-1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(token) != 64 {
		t.Errorf("token length = %d, want 64", len(token))
	}

	userID, err := s.Get(ctx, token)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if userID != "user-1" {
		t.Errorf("Get() = %q, want %q", userID, "user-1")
	}

	if err := s.Delete(ctx, token); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, token); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_UnknownToken(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(time.Hour)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(context.Background(), "nope"); err != nil {
		t.Errorf("Delete() of unknown token error = %v", err)
	}
}

func TestMemoryStore_SlidingExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(10 * time.Minute)
	s.now = func() time.Time { return now }

	token, err := s.Create(ctx, "user-1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Each access within the ttl pushes expiry forward.
	for i := 0; i < 3; i++ {
		now = now.Add(8 * time.Minute)
		if _, err := s.Get(ctx, token); err != nil {
			t.Fatalf("Get() at step %d error = %v", i, err)
		}
	}

	now = now.Add(11 * time.Minute)
	if _, err := s.Get(ctx, token); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after idle ttl error = %v, want ErrNotFound", err)
	}
	if s.Len() != 0 {
		t.Errorf("expired entry should be removed, Len() = %d", s.Len())
	}
}

func TestMemoryStore_CreateSweepsExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if _, err := s.Create(ctx, "user"); err != nil {
			t.Fatal(err)
		}
	}
	now = now.Add(2 * time.Minute)
	if _, err := s.Create(ctx, "user"); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}
