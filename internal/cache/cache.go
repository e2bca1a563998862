// Package cache is a thin read-through layer over Redis. The directory
// listings work without it, so every operation degrades to a miss when
// Redis is down or the client was never configured.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client holds the Redis connection. A nil *Client is valid and acts as
// an always-miss cache, which keeps the service layer free of nil checks.
type Client struct {
	rdb *redis.Client
}

// New dials Redis at addr. The connection is lazy; a bad address only
// surfaces as misses.
func New(addr, password string, db int) *Client {
	return &Client{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// Get returns the stored bytes, or (nil, nil) when the key is absent or
// Redis is unreachable. Callers treat nil bytes as a miss.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.rdb == nil {
		return nil, nil
	}
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil and transport errors both read as a miss
		return nil, nil
	}
	return b, nil
}

// Set stores value under key for ttl. Write failures are dropped; the
// next Get simply misses.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	c.rdb.Set(ctx, key, value, ttl)
	return nil
}

// Delete evicts key. Like Set, failures are dropped.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	c.rdb.Del(ctx, key)
	return nil
}
