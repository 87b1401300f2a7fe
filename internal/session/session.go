// Package session maps opaque cookie tokens to user ids.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yapress/yapress/internal/auth"
)

// ErrNotFound is returned for unknown or expired tokens.
var ErrNotFound = errors.New("session not found")

// Store persists sessions. Get refreshes the expiry of a live session.
type Store interface {
	Create(ctx context.Context, userID string) (string, error)
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

var _ Store = (*MemoryStore)(nil)

type entry struct {
	userID    string
	expiresAt time.Time
}

// MemoryStore is a process-local Store used when Redis is not configured.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryStore creates an in-memory store with a sliding ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Create issues a new token for userID.
func (s *MemoryStore) Create(ctx context.Context, userID string) (string, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	s.entries[auth.TokenKey(token)] = entry{userID: userID, expiresAt: s.now().Add(s.ttl)}
	return token, nil
}

// Get resolves token to a user id.
func (s *MemoryStore) Get(ctx context.Context, token string) (string, error) {
	key := auth.TokenKey(token)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	now := s.now()
	if !now.Before(e.expiresAt) {
		delete(s.entries, key)
		return "", ErrNotFound
	}

	e.expiresAt = now.Add(s.ttl)
	s.entries[key] = e
	return e.userID, nil
}

// Delete removes a session. Unknown tokens are ignored.
func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.entries, auth.TokenKey(token))
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) sweepLocked() {
	now := s.now()
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
}
