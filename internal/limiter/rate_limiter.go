package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rental_billing/internal/provider"
)

// Allower decides whether one more request for key fits the policy.
type Allower interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// tokenBucketScript refills the bucket for the elapsed time, then takes one
// token if it can. It runs atomically inside Redis.
const tokenBucketScript = `
local tokens_key = KEYS[1]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])
local expire_seconds = math.ceil(tonumber(ARGV[5]))

local bucket = redis.call("HMGET", tokens_key, "tokens", "last_refill")
local tokens = tonumber(bucket[1])
local last_refill = tonumber(bucket[2])

if tokens == nil then
	tokens = capacity
	last_refill = now
else
	tokens = math.min(capacity, tokens + (now - last_refill) * rate)
	last_refill = now
end

if tokens < requested then
	return 0
end

redis.call("HSET", tokens_key, "tokens", tokens - requested, "last_refill", last_refill)
redis.call("EXPIRE", tokens_key, expire_seconds)
return 1
`

var tokenBucket = redis.NewScript(tokenBucketScript)

// RedisRateLimiter is a token bucket shared by every API instance through Redis.
type RedisRateLimiter struct {
	redisClient   *redis.Client
	keyPrefix     string
	rate          float64 // tokens added per second
	bucketSize    float64
	keyExpiration time.Duration
}

// NewRedisRateLimiter creates a limiter whose keys live under
// "<namespace>ratelimit:<policy>:".
func NewRedisRateLimiter(redisClient *redis.Client, ns provider.RedisNamespace, policy string, rate, size float64, expiration time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		redisClient:   redisClient,
		keyPrefix:     fmt.Sprintf("%sratelimit:%s:", ns, policy),
		rate:          rate,
		bucketSize:    size,
		keyExpiration: expiration,
	}
}

func (l *RedisRateLimiter) key(identifier string) string {
	return l.keyPrefix + identifier
}

// Allow checks if a request from the given identifier is allowed.
func (l *RedisRateLimiter) Allow(ctx context.Context, identifier string) (bool, error) {
	now := float64(time.Now().UnixNano()) / 1e9

	result, err := tokenBucket.Run(ctx, l.redisClient, []string{l.key(identifier)},
		l.rate, l.bucketSize, now, 1.0, l.keyExpiration.Seconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to execute rate limit script: %w", err)
	}

	return result == 1, nil
}
