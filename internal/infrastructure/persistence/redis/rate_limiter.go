package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/ratelimit"
)

const rateLimitKeyPrefix = "bookcatalog:ratelimit:"

// rateLimiter 基于Redis的固定窗口限流
// 设计说明：
// 1. 每个客户端每个窗口一个计数key：bookcatalog:ratelimit:<client>:<窗口序号>
// 2. INCR + EXPIRE在一个事务管道中执行，计数key随窗口过期
// 3. 多个服务实例共享同一份计数
type rateLimiter struct {
	client   redis.Cmdable
	requests int64
	window   time.Duration
	now      func() time.Time
}

// NewRateLimiter 创建Redis限流器，window内每个key最多允许requests次请求
func NewRateLimiter(client redis.Cmdable, requests int, window time.Duration) ratelimit.Limiter {
	return &rateLimiter{
		client:   client,
		requests: int64(requests),
		window:   window,
		now:      time.Now,
	}
}

// Allow 计数并判断是否超出窗口配额
func (r *rateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowKey := r.windowKey(key, r.now())

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, windowKey)
		// 多留1秒，避免窗口边界上key提前过期
		pipe.Expire(ctx, windowKey, r.window+time.Second)
		return nil
	})
	if err != nil {
		return false, apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "redis限流计数失败")
	}

	return incr.Val() <= r.requests, nil
}

// windowKey 计算key所在窗口的计数key
func (r *rateLimiter) windowKey(key string, now time.Time) string {
	slot := now.UnixNano() / int64(r.window)
	return rateLimitKeyPrefix + key + ":" + strconv.FormatInt(slot, 10)
}
