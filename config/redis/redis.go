package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var ErrCacheMiss = errors.New("cache miss")

// Cache stores JSON encoded values by key.
type Cache interface {
	GetCache(ctx context.Context, key string, dest interface{}) error
	SetCache(ctx context.Context, key string, value interface{}) error
	DeleteCache(ctx context.Context, keys ...string) error
}

type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

/*
* Connect to redis and ping once
* An empty addr yields a Noop cache so the service runs without redis
 */
func Connect(ctx context.Context, addr string, ttl time.Duration) (Cache, error) {
	if addr == "" {
		log.Info().Msg("REDIS_ADDR not set, caching disabled")
		return Noop{}, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: 0})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	log.Info().Str("addr", addr).Msg("connected to redis")
	return &Client{rdb: rdb, ttl: ttl}, nil
}

func NewClient(rdb *redis.Client, ttl time.Duration) *Client {
	return &Client{rdb: rdb, ttl: ttl}
}

func (c *Client) GetCache(ctx context.Context, key string, dest interface{}) error {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (c *Client) SetCache(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, c.ttl).Err()
}

func (c *Client) DeleteCache(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// Noop never hits.
type Noop struct{}

func (Noop) GetCache(context.Context, string, interface{}) error { return ErrCacheMiss }
func (Noop) SetCache(context.Context, string, interface{}) error { return nil }
func (Noop) DeleteCache(context.Context, ...string) error        { return nil }
