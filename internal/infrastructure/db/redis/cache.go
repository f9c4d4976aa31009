package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/boxwise/inventory/internal/core/ports"
)

const defaultStatsTTL = time.Minute

// StatsCache keeps dashboard summaries per group as JSON with a TTL.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = defaultStatsTTL
	}
	return &StatsCache{client: client, ttl: ttl}
}

func (c *StatsCache) key(groupID string) string {
	return "boxwise:dashboard:" + groupID
}

// Get reports a miss as (nil, false, nil).
func (c *StatsCache) Get(ctx context.Context, groupID string) (*ports.DashboardSummary, bool, error) {
	raw, err := c.client.Get(ctx, c.key(groupID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("stats cache get: %w", err)
	}

	var s ports.DashboardSummary
	if err := json.Unmarshal(raw, &s); err != nil {
		// A payload from an older layout is treated as a miss.
		return nil, false, nil
	}
	return &s, true, nil
}

func (c *StatsCache) Set(ctx context.Context, groupID string, summary *ports.DashboardSummary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("stats cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(groupID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("stats cache set: %w", err)
	}
	return nil
}

func (c *StatsCache) Invalidate(ctx context.Context, groupID string) error {
	if err := c.client.Del(ctx, c.key(groupID)).Err(); err != nil {
		return fmt.Errorf("stats cache invalidate: %w", err)
	}
	return nil
}
