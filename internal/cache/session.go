package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sessiongate/sessiongate/internal/model"
)

const (
	// sessionCachePrefix is the Redis key prefix for validated sessions.
	sessionCachePrefix = "session:ctx:"
)

// cachedIdentity is the (session, user) pair stored in Redis after a
// successful store lookup.
type cachedIdentity struct {
	Session model.Session `json:"session"`
	User    model.User    `json:"user"`
}

// GetSession retrieves a cached validated session by session id.
// Returns (nil, nil) on a cache miss or a corrupted entry; missing
// cache data is never an error, the caller falls through to the store.
func (c *Cache) GetSession(ctx context.Context, sessionID string) (*model.Session, *model.User) {
	key := sessionCachePrefix + sessionID

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, nil
	}

	var cached cachedIdentity
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, nil
	}

	return &cached.Session, &cached.User
}

// SetSession caches a validated (session, user) pair. The entry never
// outlives the session itself: the TTL is capped at the session expiry.
func (c *Cache) SetSession(ctx context.Context, sess *model.Session, user *model.User, ttl time.Duration) error {
	if until := time.Until(sess.ExpiresAt); until < ttl {
		ttl = until
	}
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(cachedIdentity{Session: *sess, User: *user})
	if err != nil {
		return err
	}

	return c.client.Set(ctx, sessionCachePrefix+sess.ID, data, ttl).Err()
}

// DeleteSession drops the cache entry for a session id, e.g. on logout.
func (c *Cache) DeleteSession(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, sessionCachePrefix+sessionID).Err()
}
