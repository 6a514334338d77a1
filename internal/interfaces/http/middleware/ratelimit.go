package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/occtelecom/backend/internal/interfaces/http/dto"
)

// ErrCodeRateLimited is returned when a client exceeds its request quota
const ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"

// RateLimiter decides whether a request from the given key may proceed
type RateLimiter interface {
	// Allow reports whether the request is within quota and how many
	// requests remain in the current window
	Allow(ctx context.Context, key string) (allowed bool, remaining int, err error)
	Limit() int
}

// InMemoryRateLimiter is a fixed-window limiter for single-instance
// deployments
type InMemoryRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateLimitClient
	limit   int
	window  time.Duration
}

type rateLimitClient struct {
	count     int
	windowEnd time.Time
}

// NewInMemoryRateLimiter creates an in-memory rate limiter allowing
// limit requests per window
func NewInMemoryRateLimiter(limit int, window time.Duration) *InMemoryRateLimiter {
	rl := &InMemoryRateLimiter{
		clients: make(map[string]*rateLimitClient),
		limit:   limit,
		window:  window,
	}
	go rl.cleanup()
	return rl
}

func (rl *InMemoryRateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, c := range rl.clients {
			if now.After(c.windowEnd) {
				delete(rl.clients, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow implements RateLimiter
func (rl *InMemoryRateLimiter) Allow(_ context.Context, key string) (bool, int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	c, exists := rl.clients[key]
	if !exists || now.After(c.windowEnd) {
		rl.clients[key] = &rateLimitClient{count: 1, windowEnd: now.Add(rl.window)}
		return true, rl.limit - 1, nil
	}

	if c.count >= rl.limit {
		return false, 0, nil
	}
	c.count++
	return true, rl.limit - c.count, nil
}

// Limit implements RateLimiter
func (rl *InMemoryRateLimiter) Limit() int { return rl.limit }

// RedisRateLimiter is a fixed-window limiter with counters shared
// across instances
type RedisRateLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

// NewRedisRateLimiter creates a Redis-backed rate limiter
func NewRedisRateLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

// Allow implements RateLimiter. Redis failures allow the request
// through: losing rate limiting is better than losing traffic.
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	redisKey := rl.prefix + ":" + key

	pipe := rl.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, rl.limit, err
	}

	count := int(incr.Val())
	if count > rl.limit {
		return false, 0, nil
	}
	return true, rl.limit - count, nil
}

// Limit implements RateLimiter
func (rl *RedisRateLimiter) Limit() int { return rl.limit }

// RateLimit rejects requests over the per-client-IP quota with a 429
func RateLimit(limiter RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, _ := limiter.Allow(c.Request.Context(), c.ClientIP())
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(
				ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				c.GetString(RequestIDKey),
			))
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Next()
	}
}
