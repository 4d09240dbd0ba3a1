package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client caches preview results so a customer-facing frontend can re-render
// a quote without re-running composition. Finalize never reads money from
// here; the cache is advisory only.
type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

func (c *Client) SetPreview(previewID string, payload interface{}, ttl time.Duration) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal preview: %w", err)
	}
	return c.rdb.Set(ctx, "preview:"+previewID, jsonData, ttl).Err()
}

func (c *Client) GetPreview(previewID string, out interface{}) (bool, error) {
	ctx := context.Background()
	data, err := c.rdb.Get(ctx, "preview:"+previewID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, fmt.Errorf("failed to unmarshal preview: %w", err)
	}
	return true, nil
}

func (c *Client) DeletePreview(previewID string) error {
	return c.rdb.Del(context.Background(), "preview:"+previewID).Err()
}
