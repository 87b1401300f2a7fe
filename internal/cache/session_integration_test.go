//go:build integration

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yapress/yapress/internal/session"
	"github.com/yapress/yapress/internal/testutil"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	redisURL := testutil.RequireEnv(t, "REDIS_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := New(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSessionStore_Integration(t *testing.T) {
	c := newTestCache(t)
	store := c.Sessions(time.Minute)
	ctx := context.Background()

	token, err := store.Create(ctx, "01HUSER")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	userID, err := store.Get(ctx, token)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if userID != "01HUSER" {
		t.Errorf("Get() = %q, want %q", userID, "01HUSER")
	}

	ttl, err := c.client.TTL(ctx, sessionKey(token)).Result()
	if err != nil {
		t.Fatalf("TTL() error = %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("TTL = %v, want (0, 1m]", ttl)
	}

	if err := store.Delete(ctx, token); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, token); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want session.ErrNotFound", err)
	}
}

func TestCheckIPRateLimit_Integration(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	ip := "203.0.113." + time.Now().Format("150405")

	t.Cleanup(func() { _ = c.client.Del(ctx, authLimitPrefix+hashIP(ip)).Err() })

	for i := 0; i < 3; i++ {
		res, err := c.CheckIPRateLimit(ctx, ip, 0.01, 3)
		if err != nil {
			t.Fatalf("CheckIPRateLimit() error = %v", err)
		}
		if !res.Allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}

	res, err := c.CheckIPRateLimit(ctx, ip, 0.01, 3)
	if err != nil {
		t.Fatalf("CheckIPRateLimit() error = %v", err)
	}
	if res.Allowed {
		t.Error("request past burst should be denied")
	}
	if res.RetryAfter <= 0 {
		t.Errorf("RetryAfter = %v, want > 0", res.RetryAfter)
	}
	if !res.ResetAt.After(time.Now()) {
		t.Errorf("ResetAt = %v, want in the future", res.ResetAt)
	}

	ttl, err := c.client.PTTL(ctx, authLimitPrefix+hashIP(ip)).Result()
	if err != nil {
		t.Fatalf("PTTL() error = %v", err)
	}
	if ttl <= 0 || ttl > bucketTTL(0.01, 3) {
		t.Errorf("bucket TTL = %v, want (0, %v]", ttl, bucketTTL(0.01, 3))
	}
}
