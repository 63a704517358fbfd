package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimitService_Disabled(t *testing.T) {
	log, hook := test.NewNullLogger()

	svc, err := NewRateLimitService(RateLimitConfig{Enabled: false}, log)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		allowed, retryAfter, err := svc.Allow(context.Background(), "svc-1", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Zero(t, retryAfter)
	}
	assert.Equal(t, "Rate limiting disabled", hook.LastEntry().Message)
}

func TestNewRateLimitService_InvalidURL(t *testing.T) {
	log, _ := test.NewNullLogger()

	_, err := NewRateLimitService(RateLimitConfig{Enabled: true, RedisURL: "://bad"}, log)
	assert.Error(t, err)
}

// Runs only when TEST_REDIS_URL points at a disposable Redis.
func TestRedisRateLimitService_FixedWindow(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	svc := NewRedisRateLimitService(client, log)

	ctx := context.Background()
	key := "test:" + uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, keyPrefix+key) })

	for i := 0; i < 3; i++ {
		allowed, _, err := svc.Allow(ctx, key, 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "hit %d should be allowed", i+1)
	}

	allowed, retryAfter, err := svc.Allow(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, time.Minute)
}
