// Package ratelimit 按客户端标识限流
//
// 两种实现：
//   - Local：进程内令牌桶（golang.org/x/time/rate），每个实例独立计数
//   - Redis固定窗口：见internal/infrastructure/persistence/redis，多实例共享计数
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter 限流器
// Allow返回false表示应拒绝请求；返回error表示限流存储不可用，由调用方决定是否放行
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Local 进程内令牌桶限流器
// 每个key一个令牌桶，window内平均允许requests次，允许burst次突发
type Local struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
}

// NewLocal 创建进程内限流器
func NewLocal(requests int, window time.Duration, burst int) *Local {
	if burst <= 0 {
		burst = requests
	}
	return &Local{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(requests) / window.Seconds()),
		burst:    burst,
		idleTTL:  max(window, 3*time.Minute),
		now:      time.Now,
	}
}

// Allow 消耗key对应令牌桶的一个令牌
func (l *Local) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1), nil
}

// Run 定期清理长时间未访问的key，ctx取消时退出
func (l *Local) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

func (l *Local) cleanup() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idleTTL {
			delete(l.visitors, key)
		}
	}
}

// Size 当前跟踪的key数量
func (l *Local) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}
