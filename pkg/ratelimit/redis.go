package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter, Limiter'ın Redis implementasyonu; birden fazla process aynı
// window'u paylaşır. Her anahtar "SET key NX PX window" ile yazılır; anahtar
// varsa istek reddedilir, kalan süre PTTL'den okunur.
type RedisLimiter struct {
	client *redis.Client
	window time.Duration
	prefix string
}

// NewRedisLimiter, constructor. prefix anahtarları diğer uygulamalardan ayırır (ör: "contact").
func NewRedisLimiter(client *redis.Client, window time.Duration, prefix string) *RedisLimiter {
	return &RedisLimiter{client: client, window: window, prefix: prefix}
}

// Allow, Limiter implementasyonu.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := l.key(key)

	ok, err := l.client.SetNX(ctx, k, time.Now().Unix(), l.window).Result()
	if err != nil {
		return false, 0, fmt.Errorf("redis setnx failed: %w", err)
	}
	if ok {
		return true, 0, nil
	}

	ttl, err := l.client.PTTL(ctx, k).Result()
	if err != nil {
		return false, 0, fmt.Errorf("redis pttl failed: %w", err)
	}
	if ttl < 0 {
		// Anahtar SetNX ile PTTL arasında düştü veya TTL'siz kalmış; tam window say.
		ttl = l.window
	}

	return false, ttl, nil
}

func (l *RedisLimiter) key(k string) string {
	return fmt.Sprintf("ratelimit:%s:%s", l.prefix, k)
}
