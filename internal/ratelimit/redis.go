// Package ratelimit implements a token bucket shared across API instances through Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenBucketLua = `
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

if rate <= 0 or burst <= 0 then
  return 1
end

local data = redis.call("HMGET", key, "tokens", "ts")
local tokens = tonumber(data[1])
local ts = tonumber(data[2])
if tokens == nil then
  tokens = burst
end
if ts == nil then
  ts = now
end

local delta = math.max(0, now - ts)
tokens = math.min(burst, tokens + (delta * rate) / 1000.0)

local allowed = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
end

redis.call("HSET", key, "tokens", tostring(tokens), "ts", tostring(now))
redis.call("PEXPIRE", key, math.ceil((burst / rate) * 1000.0 * 2))

return allowed
`

// RedisLimiter keeps one bucket per key in a Redis hash.
type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
	rate   float64
	burst  float64
	script *redis.Script
	now    func() time.Time
}

// NewRedisLimiter creates a RedisLimiter refilling rate tokens per second up to burst.
func NewRedisLimiter(rdb *redis.Client, prefix string, rate float64, burst int) *RedisLimiter {
	if prefix == "" {
		prefix = "sickfits:ratelimit:"
	}
	return &RedisLimiter{
		rdb:    rdb,
		prefix: prefix,
		rate:   rate,
		burst:  float64(burst),
		script: redis.NewScript(tokenBucketLua),
		now:    time.Now,
	}
}

// Allow takes one token from key's bucket if there is one.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	res, err := l.script.Run(ctx, l.rdb, []string{l.prefix + key}, l.rate, l.burst, l.now().UnixMilli()).Int64()
	if err != nil {
		return false, fmt.Errorf("ratelimit eval: %w", err)
	}
	return res == 1, nil
}
