//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/sessiongate/sessiongate/internal/model"
	"github.com/sessiongate/sessiongate/internal/testutil"
)

func TestIntegrationSessionCache_RoundTrip(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	sess, user := testSessionPair(time.Hour)

	if err := c.SetSession(ctx, sess, user, time.Minute); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}

	gotSess, gotUser := c.GetSession(ctx, sess.ID)
	if gotSess == nil || gotUser == nil {
		t.Fatal("expected cache hit")
	}
	if gotSess.ID != sess.ID {
		t.Errorf("session ID mismatch: got %q, want %q", gotSess.ID, sess.ID)
	}
	if gotUser.ID != user.ID {
		t.Errorf("user ID mismatch: got %q, want %q", gotUser.ID, user.ID)
	}
	if gotUser.FirstName != user.FirstName {
		t.Errorf("FirstName mismatch: got %q, want %q", gotUser.FirstName, user.FirstName)
	}
}

func TestIntegrationSessionCache_Miss(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	gotSess, gotUser := c.GetSession(ctx, "11111111-2222-3333-4444-555555555555")
	if gotSess != nil || gotUser != nil {
		t.Error("expected cache miss for unknown session")
	}
}

func TestIntegrationSessionCache_TTLCappedAtExpiry(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	// Session expires in 1s; the cache entry must not outlive it even
	// though the requested TTL is a minute.
	sess, user := testSessionPair(time.Second)

	if err := c.SetSession(ctx, sess, user, time.Minute); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}

	ttl, err := c.Client().TTL(ctx, "session:ctx:"+sess.ID).Result()
	if err != nil {
		t.Fatalf("TTL failed: %v", err)
	}
	if ttl > time.Second {
		t.Errorf("cache TTL %s exceeds session lifetime", ttl)
	}
}

func TestIntegrationSessionCache_ExpiredSessionNotCached(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	sess, user := testSessionPair(-time.Minute)

	if err := c.SetSession(ctx, sess, user, time.Minute); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}

	gotSess, _ := c.GetSession(ctx, sess.ID)
	if gotSess != nil {
		t.Error("expired session must not be cached")
	}
}

func TestIntegrationSessionCache_Delete(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	sess, user := testSessionPair(time.Hour)

	if err := c.SetSession(ctx, sess, user, time.Minute); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}

	if err := c.DeleteSession(ctx, sess.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}

	gotSess, _ := c.GetSession(ctx, sess.ID)
	if gotSess != nil {
		t.Error("expected cache miss after delete")
	}
}

func testSessionPair(ttl time.Duration) (*model.Session, *model.User) {
	now := time.Now()
	user := &model.User{
		ID:        "7d4f0c2a-91b3-4a57-8c2e-3f6a1b9d0e54",
		FirstName: "Ann",
		LastName:  "Lee",
		CreatedAt: now,
		UpdatedAt: now,
	}
	sess := &model.Session{
		ID:        "0b8e6a31-5c2d-4f7e-9a10-6d3c8b2f1e47",
		UserID:    user.ID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return sess, user
}

func newCacheTestEnv(t *testing.T) (context.Context, *Cache) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	redisURL := testutil.RequireEnv(t, "REDIS_URL")

	c, err := New(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Close()
	})

	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}

	return ctx, c
}
