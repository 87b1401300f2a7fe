package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yapress/yapress/internal/auth"
	"github.com/yapress/yapress/internal/session"
)

// sessionPrefix is the Redis key prefix for login sessions.
const sessionPrefix = "sess:"

var _ session.Store = (*SessionStore)(nil)

// SessionStore keeps login sessions in Redis with a sliding TTL.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// Sessions returns a session store backed by this cache.
func (c *Cache) Sessions(ttl time.Duration) *SessionStore {
	return &SessionStore{client: c.client, ttl: ttl}
}

// Create issues a new token for userID.
func (s *SessionStore) Create(ctx context.Context, userID string) (string, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", err
	}

	ok, err := s.client.SetNX(ctx, sessionKey(token), userID, s.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("store session: token collision")
	}
	return token, nil
}

// Get resolves token to a user id and refreshes its TTL.
func (s *SessionStore) Get(ctx context.Context, token string) (string, error) {
	userID, err := s.client.GetEx(ctx, sessionKey(token), s.ttl).Result()
	if errors.Is(err, redis.Nil) {
		return "", session.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	return userID, nil
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func sessionKey(token string) string {
	return sessionPrefix + auth.TokenKey(token)
}
