// Package cache keeps the public business-hours view in redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/codr1/bagelshop/internal/availability"
)

const (
	defaultPrefix = "bagelshop:hours"
	DefaultTTL    = 5 * time.Minute
)

// HoursCache stores one view per local date. Keys embed a version counter, so
// Invalidate only has to bump the counter; stale keys expire on their own.
type HoursCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ availability.ViewCache = (*HoursCache)(nil)

func NewHoursCache(client *redis.Client, ttl time.Duration) *HoursCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &HoursCache{client: client, prefix: defaultPrefix, ttl: ttl}
}

// NewClient builds a redis client from the configured address.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
}

// Get returns the cached view for date along with the versioned key it was
// looked up under. On a miss the caller passes that key to Set.
func (c *HoursCache) Get(ctx context.Context, date string) (*availability.BusinessHours, string, bool, error) {
	key, err := c.key(ctx, date)
	if err != nil {
		return nil, "", false, err
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, key, false, nil
	}
	if err != nil {
		return nil, "", false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var view *availability.BusinessHours
	if err := json.Unmarshal(val, &view); err != nil {
		return nil, "", false, fmt.Errorf("decode cached view: %w", err)
	}
	return view, key, true, nil
}

// Set stores view under a key returned by Get. If Invalidate ran in between,
// the key belongs to a dead version and is never read again. A nil view is
// stored too and means "no active schedule".
func (c *HoursCache) Set(ctx context.Context, key string, view *availability.BusinessHours) error {
	if key == "" {
		return fmt.Errorf("cache key is required")
	}
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("encode view: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *HoursCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.versionKey()).Err(); err != nil {
		return fmt.Errorf("redis incr: %w", err)
	}
	return nil
}

func (c *HoursCache) key(ctx context.Context, date string) (string, error) {
	version, err := c.client.Get(ctx, c.versionKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("redis get version: %w", err)
	}
	return fmt.Sprintf("%s:v%d:%s", c.prefix, version, date), nil
}

func (c *HoursCache) versionKey() string {
	return c.prefix + ":version"
}
