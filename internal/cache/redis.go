package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Cache = (*Redis)(nil)

// Redis stores entries in a shared Redis so several coinx processes (or a
// team on one box) reuse each other's price lookups.
type Redis struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// NewRedis wraps an existing client.
func NewRedis(rdb *redis.Client, logger *slog.Logger) *Redis {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Redis{rdb: rdb, logger: logger}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		r.logger.Warn("redis get failed", slog.String("key", key), slog.Any("err", err))
		return nil, false, err
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.rdb.Set(ctx, key, val, ttl).Err(); err != nil {
		r.logger.Warn("redis set failed", slog.String("key", key), slog.Any("err", err))
		return err
	}
	return nil
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
