package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mz310/FitProof/internal/core/ports"
)

// RateConfig describes a token bucket: Capacity tokens, refilled by Refill
// every Interval.
type RateConfig struct {
	Capacity int
	Refill   int
	Interval time.Duration
	Prefix   string
}

// The bucket state is a hash {tokens, last_refill_ms}. Refill happens in whole
// intervals so that a burst cannot be regained by polling.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last = tonumber(state[2])
if tokens == nil or last == nil then
  tokens = capacity
  last = now_ms
end

if interval_ms > 0 and refill > 0 then
  local steps = math.floor(math.max(0, now_ms - last) / interval_ms)
  if steps > 0 then
    tokens = math.min(capacity, tokens + steps * refill)
    last = last + steps * interval_ms
  end
end

local allowed = 0
local retry_ms = 0
if tokens > 0 then
  allowed = 1
  tokens = tokens - 1
else
  retry_ms = math.max(0, interval_ms - (now_ms - last))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last)
redis.call('EXPIRE', key, ttl)
return { allowed, tokens, retry_ms }
`)

// RateLimiter is a token bucket shared by every API instance.
type RateLimiter struct {
	client *redis.Client
	cfg    RateConfig
	now    func() time.Time
}

var _ ports.RateLimiter = (*RateLimiter)(nil)

func NewRateLimiter(client *redis.Client, cfg RateConfig) *RateLimiter {
	if cfg.Prefix == "" {
		cfg.Prefix = "rl"
	}
	return &RateLimiter{client: client, cfg: cfg, now: time.Now}
}

func (l *RateLimiter) Allow(ctx context.Context, key string) (ports.RateDecision, error) {
	ttl := int64(l.cfg.Interval/time.Second) * int64(l.cfg.Capacity+1)
	if ttl < 60 {
		ttl = 60
	}

	res, err := tokenBucket.Run(ctx, l.client, []string{l.cfg.Prefix + ":" + key},
		l.now().UnixMilli(),
		l.cfg.Capacity,
		l.cfg.Refill,
		l.cfg.Interval.Milliseconds(),
		ttl,
	).Int64Slice()
	if err != nil {
		return ports.RateDecision{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 3 {
		return ports.RateDecision{}, fmt.Errorf("rate limit script: unexpected result length %d", len(res))
	}

	return ports.RateDecision{
		Allowed:    res[0] == 1,
		Limit:      l.cfg.Capacity,
		Remaining:  res[1],
		RetryAfter: time.Duration(res[2]) * time.Millisecond,
	}, nil
}
