package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/google/uuid"

	"github.com/stagekit/stageplot-backend/internal/platform/logger"
)

// SessionEntry is the cached lookup for one access token.
type SessionEntry struct {
	UserID       uuid.UUID `json:"user_id"`
	RefreshToken string    `json:"refresh_token"`
	Admin        bool      `json:"admin"`
}

// TokenCache fronts the user_token table so hot-path request auth can
// skip a database round trip. A nil *TokenCache is valid and disables
// caching.
type TokenCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewTokenCache connects to REDIS_ADDR. An empty REDIS_ADDR returns
// (nil, nil) so the cache stays optional.
func NewTokenCache(log *logger.Logger) (*TokenCache, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &TokenCache{
		log: log.With("component", "TokenCache"),
		rdb: rdb,
		ttl: 15 * time.Minute,
	}, nil
}

func sessionKey(accessToken string) string {
	return "session:" + accessToken
}

func (c *TokenCache) Get(ctx context.Context, accessToken string) (*SessionEntry, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, sessionKey(accessToken)).Bytes()
	if err != nil {
		return nil, false
	}
	var entry SessionEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false
	}
	return &entry, true
}

func (c *TokenCache) Set(ctx context.Context, accessToken string, entry SessionEntry) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, sessionKey(accessToken), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Failed to cache session entry", "error", err)
	}
}

func (c *TokenCache) Delete(ctx context.Context, accessTokens ...string) {
	if c == nil || len(accessTokens) == 0 {
		return
	}
	keys := make([]string, len(accessTokens))
	for i, t := range accessTokens {
		keys[i] = sessionKey(t)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("Failed to evict session entries", "error", err)
	}
}

func (c *TokenCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
