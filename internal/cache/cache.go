// Package cache keeps short-lived copies of swap API price responses so
// repeated lookups for the same pair and amount do not spend API quota.
package cache

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/sha3"
)

// Cache stores opaque values under string keys with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Options configures New.
type Options struct {
	Backend   string
	RedisAddr string
	Logger    *slog.Logger
}

// New builds the cache selected by opts.Backend. An empty backend means memory.
func New(opts Options) (Cache, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendNone:
		return Nop{}, nil
	case BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		return NewRedis(rdb, opts.Logger), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

// Key derives a fixed-length cache key from a namespace and the parts that
// identify the cached value (e.g. an encoded query string).
func Key(namespace string, parts ...string) string {
	h := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return "coinx:" + namespace + ":" + hex.EncodeToString(h.Sum(nil)[:16])
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
