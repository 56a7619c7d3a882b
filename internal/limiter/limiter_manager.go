package limiter

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rental_billing/internal/conf"
	"rental_billing/internal/provider"
)

const (
	DefaultPolicy       = "default"
	GenerateBillsPolicy = "generate_bills"
)

// Manager holds one limiter per configured policy.
type Manager struct {
	limiters map[string]*RedisRateLimiter
}

// NewManager builds the default policy and every named policy from config.
func NewManager(cfg *conf.RateLimiterConfig, redisClient *redis.Client, ns provider.RedisNamespace) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("rate limiter config is nil")
	}

	limiters := make(map[string]*RedisRateLimiter, len(cfg.Policies)+1)
	build := func(name string, policy conf.RateLimiterPolicy) error {
		if policy.Limit <= 0 {
			return fmt.Errorf("policy %q: limit must be positive", name)
		}
		interval, err := time.ParseDuration(policy.Interval)
		if err != nil {
			return fmt.Errorf("policy %q: invalid interval: %w", name, err)
		}
		if interval <= 0 {
			return fmt.Errorf("policy %q: interval must be positive", name)
		}
		rate := float64(policy.Limit) / interval.Seconds()
		limiters[name] = NewRedisRateLimiter(redisClient, ns, name, rate, float64(policy.Limit), interval*2)
		return nil
	}

	if err := build(DefaultPolicy, cfg.Default); err != nil {
		return nil, err
	}
	for name, policy := range cfg.Policies {
		if err := build(name, policy); err != nil {
			return nil, err
		}
	}

	return &Manager{limiters: limiters}, nil
}

// Get returns the named limiter, or the default one if the policy is not
// configured.
func (m *Manager) Get(name string) Allower {
	if l, ok := m.limiters[name]; ok {
		return l
	}
	return m.limiters[DefaultPolicy]
}
