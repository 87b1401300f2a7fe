// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/yapress/yapress/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// TruncateAll empties every application table.
func TruncateAll(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, "TRUNCATE comments, news, notes, users CASCADE"); err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

var seq atomic.Int64

// baseTime orders factory-made entities deterministically.
var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func nextTime() time.Time {
	return baseTime.Add(time.Duration(seq.Add(1)) * time.Second)
}

// NewTestUser creates a user with a unique username. The password hash is a
// placeholder; hash a real password when login matters.
func NewTestUser(t testing.TB, username string) *model.User {
	t.Helper()
	return &model.User{
		ID:           UniqueID(),
		Username:     username,
		PasswordHash: "unused",
		CreatedAt:    nextTime(),
	}
}

// NewTestNote creates a note owned by ownerID.
func NewTestNote(t testing.TB, ownerID, slug string) *model.Note {
	t.Helper()
	now := nextTime()
	return &model.Note{
		ID:        UniqueID(),
		OwnerID:   ownerID,
		Title:     "Заголовок",
		Text:      "Текст заметки",
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestNews creates a news item owned by ownerID.
func NewTestNews(t testing.TB, ownerID string) *model.NewsItem {
	t.Helper()
	now := nextTime()
	return &model.NewsItem{
		ID:        UniqueID(),
		OwnerID:   ownerID,
		Title:     "Заголовок",
		Text:      "Текст.",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestNewsAt creates a news item with a fixed creation time.
func NewTestNewsAt(t testing.TB, ownerID string, at time.Time) *model.NewsItem {
	t.Helper()
	item := NewTestNews(t, ownerID)
	item.CreatedAt = at
	item.UpdatedAt = at
	return item
}

// NewTestComment creates a comment on newsID.
func NewTestComment(t testing.TB, ownerID, newsID string) *model.Comment {
	t.Helper()
	now := nextTime()
	return &model.Comment{
		ID:        UniqueID(),
		OwnerID:   ownerID,
		NewsID:    newsID,
		Text:      "Текст комментария",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UniqueID generates a unique ULID for tests.
func UniqueID() string {
	return ulid.Make().String()
}

// UniqueName generates a unique name with the given prefix.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, seq.Add(1))
}
