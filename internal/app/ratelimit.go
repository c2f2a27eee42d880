// internal/app/ratelimit.go
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shrimpsizemoose/trekker/logger"
)

const rateKeyTpl = "ratelimit:submit:%s" // ratelimit:submit:${remote_ip}

// RateLimiter caps /submit calls per remote address over a fixed
// one-minute window, backed by redis. Disabled unless configured.
type RateLimiter struct {
	enabled   bool
	redis     *redis.Client
	perMinute int
}

func NewRateLimiter(config *Config) (*RateLimiter, error) {
	if !config.RateLimit.Enabled {
		return &RateLimiter{enabled: false}, nil
	}

	opt, err := redis.ParseURL(config.RateLimit.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RateLimiter{
		enabled:   true,
		redis:     client,
		perMinute: config.RateLimit.PerMinute,
	}, nil
}

func (rl *RateLimiter) Close() error {
	if rl.redis != nil {
		return rl.redis.Close()
	}
	return nil
}

// Allow reports whether another submission from this address fits the
// per-minute budget. Redis errors fail open.
func (rl *RateLimiter) Allow(ctx context.Context, remoteIP string) bool {
	if !rl.enabled {
		return true
	}

	key := fmt.Sprintf(rateKeyTpl, remoteIP)
	count, err := rl.redis.Incr(ctx, key).Result()
	if err != nil {
		logger.Debug.Printf("Redis error on rate limit check: %v", err)
		return true
	}
	if count == 1 {
		rl.redis.Expire(ctx, key, time.Minute)
	}

	return count <= int64(rl.perMinute)
}
