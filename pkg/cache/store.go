package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// VolatileStore is the contract the Coordinator requires from a volatile
// key-value tier: get and set-with-expiry, both fail-soft. Implementations
// must be safe for concurrent use.
type VolatileStore interface {
	// Get retrieves a value by key. The boolean reports a hit; transport
	// failures are reported as misses, never as errors.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value under key with the given TTL and reports whether the
	// write reached the store. Transport failures return false.
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) bool
}

// RedisStore is a fail-soft Redis-backed VolatileStore. Connection failures
// are converted into availability signals (miss / false) rather than errors,
// and each call probes the store anew, so a Redis outage never locks out
// recovery: go-redis re-dials on the next operation.
type RedisStore struct {
	rdb    *redis.Client
	logger zerolog.Logger
}

// NewRedisStore creates a RedisStore over an existing client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	if rdb == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{
		rdb:    rdb,
		logger: log.With().Str("component", "volatile-store").Logger(),
	}
}

// Get retrieves a value by key. Returns (nil, false) on a miss or when Redis
// is unreachable.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			storeErrors.WithLabelValues("get").Inc()
			s.logger.Warn().Err(err).Str("key", key).Msg("Redis get failed, treating as miss")
		}
		return nil, false
	}
	return val, true
}

// Set stores a value under key with the given TTL. Concurrent writers to the
// same key race per Redis last-write-wins semantics; payloads for the same
// key are interchangeable by construction, so the race is benign.
func (s *RedisStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) bool {
	if err := s.rdb.Set(ctx, key, val, ttl).Err(); err != nil {
		storeErrors.WithLabelValues("set").Inc()
		s.logger.Warn().Err(err).Str("key", key).Msg("Redis set failed, discarding write")
		return false
	}
	return true
}

// Ping checks the Redis connection. Used by the heartbeat endpoint, not by
// the resolution path.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the underlying Redis client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
