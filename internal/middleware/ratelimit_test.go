package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRateLimitEnabled(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"test", false},
		{"development", false},
		{"production", true},
		{"staging", true},
		{"", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RateLimitEnabled(tt.env), "env %q", tt.env)
	}
}

func TestRateLimiter_BypassedInTest(t *testing.T) {
	// The process environment does not matter, only the configured env.
	t.Setenv("APP_ENV", "production")
	limiter := NewRateLimiter(nil, "test")

	for i := 0; i < 5; i++ {
		allowed, err := limiter.Check(context.Background(), "login", "ip:1", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestRateLimiter_EnforcedWhenEnvUnset(t *testing.T) {
	t.Setenv("APP_ENV", "")
	_, rdb := newMiniRedis(t)
	limiter := NewRateLimiter(rdb, "")
	ctx := context.Background()

	allowed, err := limiter.Check(ctx, "login", "ip:1", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Check(ctx, "login", "ip:1", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRateLimiter_WindowEnforced(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	limiter := NewRateLimiter(rdb, "production")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Check(ctx, "register", "ip:1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should pass", i+1)
	}

	allowed, err := limiter.Check(ctx, "register", "ip:1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	// A different caller has its own window.
	allowed, err = limiter.Check(ctx, "register", "ip:2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	mr.FastForward(2 * time.Minute)
	allowed, err = limiter.Check(ctx, "register", "ip:1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiter_LimitWithPolicy_NilRedis(t *testing.T) {
	limiter := NewRateLimiter(nil, "production")

	tests := []struct {
		name   string
		policy FailPolicy
		status int
	}{
		{"Fail open", FailOpen, fiber.StatusOK},
		{"Fail closed", FailClosed, fiber.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", limiter.LimitWithPolicy(1, time.Minute, tt.policy, "home"), func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRateLimiter_Limit_Blocks(t *testing.T) {
	_, rdb := newMiniRedis(t)
	limiter := NewRateLimiter(rdb, "production")

	app := fiber.New()
	app.Post("/login", limiter.Limit(2, time.Minute, "login"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}
