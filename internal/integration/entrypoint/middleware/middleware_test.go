package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartwallet/backend/internal/application/adapter"
)

type staticTokens struct {
	adapter.TokenService
	valid  string
	userID uuid.UUID
}

func (s staticTokens) ValidateAccessToken(_ context.Context, token string) (*adapter.TokenClaims, error) {
	if token != s.valid {
		return nil, errors.New("invalid token")
	}
	return &adapter.TokenClaims{UserID: s.userID, Email: "ana@example.com"}, nil
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	mw := NewAuthMiddleware(staticTokens{valid: "good", userID: userID})

	router := gin.New()
	router.GET("/me", mw.Authenticate(), func(c *gin.Context) {
		id, ok := GetUserIDFromContext(c)
		require.True(t, ok)
		email, _ := GetUserEmailFromContext(c)
		c.String(http.StatusOK, id.String()+" "+email)
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"invalid token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, userID.String()+" ana@example.com", rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), "AUTH-03")
			}
		})
	}
}

func TestRateLimiter_Memory(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiterWithConfig(nil, 2, time.Minute)
	rl.now = func() time.Time { return now }
	ctx := context.Background()

	assert.True(t, rl.Allow(ctx, "1.1.1.1"))
	assert.True(t, rl.Allow(ctx, "1.1.1.1"))
	assert.False(t, rl.Allow(ctx, "1.1.1.1"))
	assert.True(t, rl.Allow(ctx, "2.2.2.2"), "keys are independent")

	now = now.Add(61 * time.Second)
	assert.True(t, rl.Allow(ctx, "1.1.1.1"), "window expired")

	rl.Cleanup()
	rl.Reset()
	assert.Empty(t, rl.entries)
}

func TestRateLimiter_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	rl := NewRateLimiter(client)
	ctx := context.Background()

	for i := 0; i < defaultMaxAttempts; i++ {
		require.True(t, rl.Allow(ctx, "1.1.1.1"), "attempt %d", i+1)
	}
	assert.False(t, rl.Allow(ctx, "1.1.1.1"))
	assert.Empty(t, rl.entries, "redis counters are used")

	ttl := mr.TTL(rateLimitKeyPrefix + "1.1.1.1")
	assert.Equal(t, defaultWindowDuration, ttl)

	mr.FastForward(defaultWindowDuration + time.Second)
	assert.True(t, rl.Allow(ctx, "1.1.1.1"))
}

func TestRateLimiter_RedisCounterWithoutTTLGetsWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	key := rateLimitKeyPrefix + "1.1.1.1"
	require.NoError(t, mr.Set(key, "9"))

	rl := NewRateLimiter(client)
	ctx := context.Background()

	assert.False(t, rl.Allow(ctx, "1.1.1.1"))
	assert.Equal(t, defaultWindowDuration, mr.TTL(key))

	mr.FastForward(defaultWindowDuration + time.Second)
	assert.True(t, rl.Allow(ctx, "1.1.1.1"))
}

func TestRateLimiter_RedisDownFallsBackToMemory(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	rl := NewRateLimiterWithConfig(client, 1, time.Minute)
	ctx := context.Background()

	assert.True(t, rl.Allow(ctx, "1.1.1.1"))
	assert.False(t, rl.Allow(ctx, "1.1.1.1"))
	assert.Len(t, rl.entries, 1)
}

func TestRateLimiter_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiterWithConfig(nil, 1, time.Minute)

	router := gin.New()
	router.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send().Code)
	rec := send()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "AUTH-020002")
}
