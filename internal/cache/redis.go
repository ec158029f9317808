package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/go-redis/redis/v8"
)

type RedisListCache struct {
	client   *redis.Client
	resource string
	ttl      time.Duration
}

func NewRedisListCache(client *redis.Client, resource string, ttl time.Duration) *RedisListCache {
	return &RedisListCache{client: client, resource: resource, ttl: ttl}
}

func (c *RedisListCache) genKey() string {
	return "list:" + c.resource + ":gen"
}

// Key embeds the generation read now; pages written under it become
// unreachable once Invalidate bumps the counter.
func (c *RedisListCache) Key(ctx context.Context, query url.Values) (string, error) {
	gen, err := c.client.Get(ctx, c.genKey()).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("list:%s:%d:%s", c.resource, gen, queryKey(query)), nil
}

func (c *RedisListCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisListCache) Set(ctx context.Context, key string, val interface{}) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (c *RedisListCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, c.genKey()).Err()
}
