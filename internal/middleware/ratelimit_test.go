package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

func TestCheckRateLimit(t *testing.T) {
	rdb, mr := newMiniredisClient(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := CheckRateLimit(ctx, rdb, "create_post", "user:1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should pass", i+1)
	}

	allowed, err := CheckRateLimit(ctx, rdb, "create_post", "user:1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, time.Minute, mr.TTL("rl:create_post:user:1"))

	// Separate identities have separate buckets.
	allowed, err = CheckRateLimit(ctx, rdb, "create_post", "user:2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	mr.FastForward(time.Minute + time.Second)
	allowed, err = CheckRateLimit(ctx, rdb, "create_post", "user:1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestCheckRateLimit_NilRedis(t *testing.T) {
	_, err := CheckRateLimit(context.Background(), nil, "x", "ip:1", 1, time.Minute)
	assert.Error(t, err)
}

func TestRateLimitMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		env            string
		nilRedis       bool
		policy         FailPolicy
		expectedSecond int
	}{
		{"production enforces the limit", "production", false, FailOpen, http.StatusTooManyRequests},
		{"test environment bypasses", "test", false, FailOpen, http.StatusOK},
		{"missing redis fails open", "production", true, FailOpen, http.StatusOK},
		{"missing redis fails closed", "production", true, FailClosed, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", tt.env)
			rdb, _ := newMiniredisClient(t)
			if tt.nilRedis {
				rdb = nil
			}

			app := fiber.New()
			app.Get("/limited", RateLimitWithPolicy(rdb, 1, time.Minute, tt.policy, "limited"), func(c *fiber.Ctx) error {
				return c.SendStatus(http.StatusOK)
			})

			first, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil))
			require.NoError(t, err)
			_ = first.Body.Close()
			if tt.policy == FailOpen {
				assert.Equal(t, http.StatusOK, first.StatusCode)
			}

			second, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil))
			require.NoError(t, err)
			defer func() { _ = second.Body.Close() }()
			assert.Equal(t, tt.expectedSecond, second.StatusCode)
		})
	}
}
