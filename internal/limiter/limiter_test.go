package limiter

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental_billing/internal/conf"
)

func TestNewManager(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	cfg := &conf.RateLimiterConfig{
		Default: conf.RateLimiterPolicy{Interval: "1s", Limit: 20},
		Policies: map[string]conf.RateLimiterPolicy{
			GenerateBillsPolicy: {Interval: "1m", Limit: 6},
		},
	}
	m, err := NewManager(cfg, client, "rental_billing:test:")
	require.NoError(t, err)

	gen := m.Get(GenerateBillsPolicy).(*RedisRateLimiter)
	assert.Equal(t, "rental_billing:test:ratelimit:generate_bills:u1", gen.key("u1"))
	assert.InDelta(t, 0.1, gen.rate, 1e-9)
	assert.Equal(t, 6.0, gen.bucketSize)

	fallback := m.Get("unknown").(*RedisRateLimiter)
	assert.Equal(t, "rental_billing:test:ratelimit:default:u1", fallback.key("u1"))
}

func TestNewManager_InvalidPolicy(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	_, err := NewManager(&conf.RateLimiterConfig{Default: conf.RateLimiterPolicy{Interval: "1s", Limit: 0}}, client, "ns:")
	assert.Error(t, err)

	_, err = NewManager(&conf.RateLimiterConfig{Default: conf.RateLimiterPolicy{Interval: "soon", Limit: 1}}, client, "ns:")
	assert.Error(t, err)

	_, err = NewManager(nil, client, "ns:")
	assert.Error(t, err)
}
