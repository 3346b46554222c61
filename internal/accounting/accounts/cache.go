package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const activeSetKey = "coa:active:v1"

// Cache keeps the active chart-of-accounts set in Redis. Misses fall
// through to Postgres; writers invalidate.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// GetActive returns the cached active set, or ok=false on miss.
func (c *Cache) GetActive(ctx context.Context) ([]Account, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, activeSetKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			return nil, false
		}
		return nil, false
	}
	var accounts []Account
	if err := json.Unmarshal(payload, &accounts); err != nil {
		return nil, false
	}
	return accounts, true
}

// SetActive stores the active set.
func (c *Cache) SetActive(ctx context.Context, accounts []Account) error {
	if c == nil || c.client == nil {
		return nil
	}
	payload, err := json.Marshal(accounts)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, activeSetKey, payload, c.ttl).Err()
}

// Invalidate drops the cached set after a chart mutation.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, activeSetKey).Err()
}
