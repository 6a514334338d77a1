package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRateLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("allows requests within limit", func(t *testing.T) {
		limiter := NewInMemoryRateLimiter(5, time.Minute)

		for i := 0; i < 5; i++ {
			allowed, _, err := limiter.Allow(ctx, "client1")
			require.NoError(t, err)
			assert.True(t, allowed, "request %d should be allowed", i+1)
		}
	})

	t.Run("blocks requests exceeding limit", func(t *testing.T) {
		limiter := NewInMemoryRateLimiter(3, time.Minute)

		for i := 0; i < 3; i++ {
			allowed, _, _ := limiter.Allow(ctx, "client2")
			assert.True(t, allowed)
		}

		allowed, remaining, _ := limiter.Allow(ctx, "client2")
		assert.False(t, allowed)
		assert.Equal(t, 0, remaining)
	})

	t.Run("separate limits per client", func(t *testing.T) {
		limiter := NewInMemoryRateLimiter(2, time.Minute)

		limiter.Allow(ctx, "clientA")
		limiter.Allow(ctx, "clientA")
		allowed, _, _ := limiter.Allow(ctx, "clientA")
		assert.False(t, allowed)

		allowed, _, _ = limiter.Allow(ctx, "clientB")
		assert.True(t, allowed)
	})

	t.Run("resets after window", func(t *testing.T) {
		limiter := NewInMemoryRateLimiter(2, 50*time.Millisecond)

		limiter.Allow(ctx, "client3")
		limiter.Allow(ctx, "client3")
		allowed, _, _ := limiter.Allow(ctx, "client3")
		assert.False(t, allowed)

		time.Sleep(60 * time.Millisecond)

		allowed, _, _ = limiter.Allow(ctx, "client3")
		assert.True(t, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(RateLimit(NewInMemoryRateLimiter(2, time.Minute)))
	engine.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		return rec
	}

	rec := do()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))

	rec = do()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = do()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrCodeRateLimited)
}
