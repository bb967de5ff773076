package redistier

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// GoRedis adapts a go-redis client to Store. A zero ttl stores entries
// permanently.
type GoRedis struct {
	c   redis.UniversalClient
	ttl time.Duration
}

func NewGoRedis(c redis.UniversalClient, ttl time.Duration) *GoRedis {
	return &GoRedis{c: c, ttl: ttl}
}

func (g *GoRedis) Set(ctx context.Context, key string, val []byte) error {
	return g.c.Set(ctx, key, val, g.ttl).Err()
}

func (g *GoRedis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := g.c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (g *GoRedis) Del(ctx context.Context, key string) error {
	return g.c.Del(ctx, key).Err()
}
