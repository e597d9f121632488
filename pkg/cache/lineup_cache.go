// Package cache stores finished batches in Redis so identical optimization
// requests within the TTL are served without re-solving.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/galactusaurus/roster-opt/internal/generate"
)

// ErrMiss is returned when no cached batch exists for a key.
var ErrMiss = fmt.Errorf("lineup batch not found in cache")

// LineupCache caches generated batches keyed by a request digest.
type LineupCache struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewLineupCache wraps a Redis client.
func NewLineupCache(client *redis.Client, logger *logrus.Logger) *LineupCache {
	return &LineupCache{client: client, logger: logger}
}

// Set stores a batch under the digest key with the given expiration.
func (c *LineupCache) Set(ctx context.Context, key string, lineups []generate.Lineup, expiration time.Duration) error {
	data, err := json.Marshal(lineups)
	if err != nil {
		return fmt.Errorf("failed to marshal lineup batch: %w", err)
	}

	fullKey := fmt.Sprintf("lineups:%s", key)
	if err := c.client.Set(ctx, fullKey, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to cache lineup batch: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"cache_key":  fullKey,
		"expiration": expiration,
		"lineups":    len(lineups),
	}).Debug("Cached lineup batch")
	return nil
}

// Get retrieves a cached batch, returning ErrMiss when absent.
func (c *LineupCache) Get(ctx context.Context, key string) ([]generate.Lineup, error) {
	fullKey := fmt.Sprintf("lineups:%s", key)
	data, err := c.client.Get(ctx, fullKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to read lineup batch from cache: %w", err)
	}

	var lineups []generate.Lineup
	if err := json.Unmarshal([]byte(data), &lineups); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached lineup batch: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"cache_key": fullKey,
		"lineups":   len(lineups),
	}).Debug("Cache hit for lineup batch")
	return lineups, nil
}

// Delete drops a cached batch.
func (c *LineupCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, fmt.Sprintf("lineups:%s", key)).Err()
}
