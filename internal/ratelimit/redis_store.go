package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces rate limit keys in Redis.
const DefaultKeyPrefix = "slaypost:ratelimit:"

// fixedWindowScript applies the fixed window policy in one round trip so that
// concurrent hits on a key are serialized by Redis.
//
// KEYS[1] entry hash; ARGV[1] quota; ARGV[2] window in ms; ARGV[3] now in ms.
// Returns {allowed, count, reset_at_ms}.
var fixedWindowScript = redis.NewScript(`
local count = tonumber(redis.call('HGET', KEYS[1], 'count'))
local reset = tonumber(redis.call('HGET', KEYS[1], 'reset_at'))
local now = tonumber(ARGV[3])
if count == nil or reset == nil or now > reset then
  reset = now + tonumber(ARGV[2])
  redis.call('HSET', KEYS[1], 'count', 1, 'reset_at', reset)
  redis.call('PEXPIREAT', KEYS[1], reset + 1)
  return {1, 1, reset}
end
if count >= tonumber(ARGV[1]) then
  return {0, count, reset}
end
count = redis.call('HINCRBY', KEYS[1], 'count', 1)
return {1, count, reset}
`)

// RedisStore keeps rate limit entries in Redis hashes that expire when their
// window ends, so no sweeping is needed.
type RedisStore struct {
	client redis.Scripter
	prefix string
}

// NewRedisStore creates a RedisStore using client. An empty prefix uses
// DefaultKeyPrefix.
func NewRedisStore(client redis.Scripter, prefix string) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

// Hit implements Store.
func (s *RedisStore) Hit(
	ctx context.Context,
	key string,
	quota int,
	window time.Duration,
	now time.Time,
) (Entry, bool, error) {
	res, err := fixedWindowScript.Run(ctx, s.client,
		[]string{s.prefix + key},
		quota, window.Milliseconds(), now.UnixMilli(),
	).Int64Slice()
	if err != nil {
		return Entry{}, false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if len(res) != 3 {
		return Entry{}, false, fmt.Errorf("%w: unexpected script reply %v", ErrStoreUnavailable, res)
	}

	entry := Entry{
		Count:   int(res[1]),
		ResetAt: time.UnixMilli(res[2]),
	}
	return entry, res[0] == 1, nil
}

// NewRedisClient connects to Redis and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            addr,
		Password:        password,
		DB:              db,
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}
