package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// sessionPrefix is the Redis key prefix for issued sessions.
const sessionPrefix = "session:"

// RecordSession registers an issued session token by its JTI so future
// revocation and introspection have something to look up. The entry
// expires with the signed token, not the cookie.
func (c *Cache) RecordSession(ctx context.Context, jti, accountID string, ttl time.Duration) error {
	if err := c.client.Set(ctx, sessionKey(jti), accountID, ttl).Err(); err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	return nil
}

// GetSession returns the account ID bound to a session JTI.
// A missing entry returns an empty string and no error.
func (c *Cache) GetSession(ctx context.Context, jti string) (string, error) {
	accountID, err := c.client.Get(ctx, sessionKey(jti)).Result()
	if err != nil {
		// Expired or never recorded is absence, not an error.
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("get session: %w", err)
	}
	return accountID, nil
}

func sessionKey(jti string) string {
	return sessionPrefix + jti
}
