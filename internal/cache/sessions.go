package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	sessionKeyPrefix = "session:"
	sessionCacheTTL  = time.Minute
)

// SessionCache is a short-lived redis cache of session rows keyed by
// token. It only saves the per-request session lookup; the database
// row stays authoritative, and cached entries carry their own expiry
// so the caller can still reject stale sessions. All methods are
// nil-safe so the server runs without redis configured.
type SessionCache struct {
	rdb *redis.Client
}

func NewSessionCache(rdb *redis.Client) *SessionCache {
	if rdb == nil {
		return nil
	}
	return &SessionCache{rdb: rdb}
}

type entry struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (c *SessionCache) Get(ctx context.Context, token string) (userID string, expiresAt time.Time, ok bool) {
	if c == nil {
		return "", time.Time{}, false
	}
	data, err := c.rdb.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err != nil {
		return "", time.Time{}, false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return "", time.Time{}, false
	}
	return e.UserID, e.ExpiresAt, true
}

func (c *SessionCache) Put(ctx context.Context, token, userID string, expiresAt time.Time) {
	if c == nil {
		return
	}
	data, err := json.Marshal(entry{UserID: userID, ExpiresAt: expiresAt})
	if err != nil {
		return
	}
	ttl := sessionCacheTTL
	if until := time.Until(expiresAt); until < ttl {
		ttl = until
	}
	if ttl <= 0 {
		return
	}
	c.rdb.Set(ctx, sessionKeyPrefix+token, data, ttl)
}

func (c *SessionCache) Invalidate(ctx context.Context, token string) {
	if c == nil {
		return
	}
	c.rdb.Del(ctx, sessionKeyPrefix+token)
}
