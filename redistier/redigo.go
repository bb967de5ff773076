package redistier

import (
	"context"
	"time"

	"github.com/gomodule/redigo/redis"
)

// Redigo adapts a redigo pool to Store. A zero ttl stores entries
// permanently.
type Redigo struct {
	pool *redis.Pool
	ttl  time.Duration
}

func NewRedigo(pool *redis.Pool, ttl time.Duration) *Redigo {
	return &Redigo{pool: pool, ttl: ttl}
}

func (r *Redigo) Set(ctx context.Context, key string, val []byte) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	if r.ttl > 0 {
		_, err = redis.DoContext(conn, ctx, "SET", key, val, "PX", r.ttl.Milliseconds())
	} else {
		_, err = redis.DoContext(conn, ctx, "SET", key, val)
	}
	return err
}

func (r *Redigo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return nil, false, err
	}
	defer conn.Close()
	b, err := redis.Bytes(redis.DoContext(conn, ctx, "GET", key))
	if err == redis.ErrNil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *Redigo) Del(ctx context.Context, key string) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	_, err = redis.DoContext(conn, ctx, "DEL", key)
	return err
}
