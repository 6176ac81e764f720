package redisclient

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/withdraw_stock.lua
var withdrawStockScript string

// Client caches per-item stock snapshots. The cache is advisory: the
// database transaction remains authoritative. Snapshots serve the stock
// lookup endpoint without touching Postgres and are kept converged by the
// cache worker and by the post-commit decrement in the withdrawal path.
type Client struct {
	rdb            *redis.Client
	withdrawScript *redis.Script
	ttl            time.Duration
}

// NewClient creates a new Redis client with the stock script loaded
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{
		rdb:            rdb,
		withdrawScript: redis.NewScript(withdrawStockScript),
		ttl:            ttl,
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func stockKey(itemID int64) string {
	return fmt.Sprintf("stock:%d", itemID)
}

// SetStock stores the stock snapshot for an item
func (c *Client) SetStock(ctx context.Context, itemID int64, quantity int) error {
	key := stockKey(itemID)

	pipe := c.rdb.Pipeline()
	pipe.HSet(ctx, key, "quantity", quantity)
	pipe.Expire(ctx, key, c.ttl)

	_, err := pipe.Exec(ctx)
	return err
}

// GetStock retrieves the cached quantity for an item. The second return
// value is false when the snapshot is missing.
func (c *Client) GetStock(ctx context.Context, itemID int64) (int, bool, error) {
	val, err := c.rdb.HGet(ctx, stockKey(itemID), "quantity").Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	qty, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt stock snapshot for item %d: %w", itemID, err)
	}
	return qty, true, nil
}

// WithdrawStock atomically decrements the cached quantity. Returns false
// when the snapshot is missing or does not cover the requested amount, in
// which case the snapshot is dropped and the caller must consult the
// database.
func (c *Client) WithdrawStock(ctx context.Context, itemID int64, quantity int) (bool, error) {
	result, err := c.withdrawScript.Run(ctx, c.rdb, []string{stockKey(itemID)}, quantity).Result()
	if err != nil {
		return false, fmt.Errorf("withdraw stock script failed: %w", err)
	}

	ok, isInt := result.(int64)
	if !isInt {
		return false, fmt.Errorf("unexpected script result type")
	}

	return ok == 1, nil
}

// DropStock removes the snapshot for an item
func (c *Client) DropStock(ctx context.Context, itemID int64) error {
	return c.rdb.Del(ctx, stockKey(itemID)).Err()
}
