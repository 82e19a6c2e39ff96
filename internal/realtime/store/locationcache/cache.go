// Package locationcache keeps each officer's last known location in Redis
// with a TTL, so a stale position ages out instead of showing a guard
// somewhere they left an hour ago.
package locationcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"guardhq/internal/platform/redis"
	"guardhq/internal/realtime/models"
	id "guardhq/pkg/domain"
	dErrors "guardhq/pkg/domain-errors"
)

const keyPrefix = "guardhq:location:"

// Cache is a write-through location cache. A nil Cache is valid and makes
// every operation a no-op, for deployments without Redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a Cache. Returns nil when the client is nil.
func New(client *redis.Client, ttl time.Duration) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client, ttl: ttl}
}

// Set stores the location under the officer's key with the cache TTL.
func (c *Cache) Set(ctx context.Context, location models.OfficerLocation) error {
	if c == nil {
		return nil
	}
	payload, err := json.Marshal(location)
	if err != nil {
		return fmt.Errorf("marshal location: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+location.OfficerID.String(), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache location: %w", err)
	}
	return nil
}

// Get returns the cached location, or a not-found error once the TTL has
// expired the key.
func (c *Cache) Get(ctx context.Context, officerID id.OfficerID) (*models.OfficerLocation, error) {
	if c == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "location not cached")
	}
	payload, err := c.client.Get(ctx, keyPrefix+officerID.String()).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, dErrors.New(dErrors.CodeNotFound, "location not cached")
		}
		return nil, fmt.Errorf("read cached location: %w", err)
	}
	var location models.OfficerLocation
	if err := json.Unmarshal(payload, &location); err != nil {
		return nil, fmt.Errorf("decode cached location: %w", err)
	}
	return &location, nil
}
