package middleware

import (
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/ratelimit"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// RateLimit 按客户端IP限流
// 超出配额返回429；限流存储不可用时放行请求并记录日志
func RateLimit(limiter ratelimit.Limiter, backend string, window time.Duration) gin.HandlerFunc {
	metrics.InitMetrics()
	// Retry-After以秒为单位，不足1秒的窗口向上取整
	retryAfter := strconv.Itoa(int(math.Ceil(window.Seconds())))

	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			metrics.RateLimiterErrorsTotal.WithLabelValues(backend).Inc()
			logger.FromContext(c.Request.Context()).Warn("rate limiter unavailable, request allowed",
				"backend", backend,
				"error", err,
			)
			c.Next()
			return
		}

		if !allowed {
			metrics.RateLimitedRequestsTotal.WithLabelValues(backend).Inc()
			c.Header("Retry-After", retryAfter)
			response.Error(c, apperrors.ErrTooManyRequests)
			return
		}

		c.Next()
	}
}
