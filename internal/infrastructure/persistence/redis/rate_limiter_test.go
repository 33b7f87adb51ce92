package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_WindowKey(t *testing.T) {
	r := &rateLimiter{window: time.Minute}
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	k1 := r.windowKey("10.0.0.1", base)
	k2 := r.windowKey("10.0.0.1", base.Add(59*time.Second))
	k3 := r.windowKey("10.0.0.1", base.Add(time.Minute))

	assert.Equal(t, k1, k2, "同一窗口内key相同")
	assert.NotEqual(t, k1, k3, "跨窗口key不同")
	assert.Contains(t, k1, rateLimitKeyPrefix+"10.0.0.1:")
	assert.NotEqual(t, k1, r.windowKey("10.0.0.2", base))
}

// TestRateLimiter_Live 需要本地Redis，设置BOOKCATALOG_TEST_REDIS_ADDR后运行
func TestRateLimiter_Live(t *testing.T) {
	addr := os.Getenv("BOOKCATALOG_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("未设置BOOKCATALOG_TEST_REDIS_ADDR，跳过")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())

	limiter := NewRateLimiter(client, 2, time.Minute).(*rateLimiter)
	fixed := time.Now()
	limiter.now = func() time.Time { return fixed }
	key := "test-" + fixed.Format("150405.000000")
	defer client.Del(ctx, limiter.windowKey(key, fixed))

	for i := 0; i < 2; i++ {
		ok, err := limiter.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := limiter.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	ttl, err := client.TTL(ctx, limiter.windowKey(key, fixed)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestRateLimiter_StoreUnavailable(t *testing.T) {
	// 指向不存在的端口，Allow应返回错误而不是放行结果
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	_, err := NewRateLimiter(client, 10, time.Minute).Allow(context.Background(), "k")
	assert.Error(t, err)
}
