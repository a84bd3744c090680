package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fakeRateStore counts INCRs in memory and scripts command failures.
type fakeRateStore struct {
	count     int64
	incrErr   error
	expireErr error
	expires   int
}

func (f *fakeRateStore) Incr(ctx context.Context, key string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if f.incrErr != nil {
		cmd.SetErr(f.incrErr)
		return cmd
	}
	f.count++
	cmd.SetVal(f.count)
	return cmd
}

func (f *fakeRateStore) Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	f.expires++
	cmd := redis.NewBoolCmd(ctx)
	if f.expireErr != nil {
		cmd.SetErr(f.expireErr)
		return cmd
	}
	cmd.SetVal(true)
	return cmd
}

func newLimitedApp(store *fakeRateStore, limit int, log *zap.SugaredLogger) *fiber.App {
	limiter := NewRateLimiter(store, "test_rate", limit, time.Minute, log)
	app := fiber.New()
	app.Post("/login", limiter.ByIP(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": true})
	})
	return app
}

func hitLogin(t *testing.T, app *fiber.App) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
	require.NoError(t, err)
	return resp
}

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	store := &fakeRateStore{}
	app := newLimitedApp(store, 3, zap.NewNop().Sugar())

	for i := 0; i < 3; i++ {
		resp := hitLogin(t, app)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	assert.Equal(t, 1, store.expires, "window TTL is set once, on the first hit")
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	store := &fakeRateStore{}
	app := newLimitedApp(store, 2, zap.NewNop().Sugar())

	hitLogin(t, app)
	hitLogin(t, app)
	resp := hitLogin(t, app)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestRateLimiter_LogsFailedExpire(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	store := &fakeRateStore{expireErr: errors.New("connection reset")}
	app := newLimitedApp(store, 5, zap.New(core).Sugar())

	resp := hitLogin(t, app)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "a failed expire does not reject the request")
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "expire failed")
}

func TestRateLimiter_NilLimiterPassesThrough(t *testing.T) {
	var limiter *RateLimiter
	app := fiber.New()
	app.Post("/login", limiter.ByIP(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": true})
	})

	resp := hitLogin(t, app)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
