package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a chat has no stored dialog state.
var ErrNotFound = errors.New("redis: key not found")

// Client keeps per-chat dialog state and per-user quote counters.
type Client struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a new Redis client
func New(addr, password string, db int, ttl time.Duration) *Client {
	return &Client{
		client: redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     password,
			DB:           db,
			PoolSize:     20,
			MinIdleConns: 2,
		}),
		ttl: ttl,
	}
}

// Ping checks the connection at startup.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *Client) Close() {
	if c.client != nil {
		_ = c.client.Close()
	}
}

func stateKey(chatID int64) string {
	return fmt.Sprintf("state:%d", chatID)
}

func quotaKey(userID int64) string {
	return fmt.Sprintf("quota:%d", userID)
}

// SaveState stores the dialog state as JSON and refreshes its TTL.
func (c *Client) SaveState(ctx context.Context, chatID int64, state any) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := c.client.Set(ctx, stateKey(chatID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// GetState loads the dialog state into state. ErrNotFound means the
// chat has no dialog in progress.
func (c *Client) GetState(ctx context.Context, chatID int64, state any) error {
	data, err := c.client.Get(ctx, stateKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get state: %w", err)
	}

	if err := json.Unmarshal(data, state); err != nil {
		return fmt.Errorf("unmarshal state: %w", err)
	}
	return nil
}

// ClearState removes user state from Redis
func (c *Client) ClearState(ctx context.Context, chatID int64) error {
	return c.client.Del(ctx, stateKey(chatID)).Err()
}

// CheckRateLimit counts one more quote for the user inside a fixed window
// and reports whether it is still within limit. INCR and EXPIRE NX run in
// one MULTI/EXEC so a counter never outlives its window.
func (c *Client) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	key := quotaKey(userID)

	var incr *redis.IntCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("check quota: %w", err)
	}

	return incr.Val() <= int64(limit), nil
}
