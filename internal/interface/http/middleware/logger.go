package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

const (
	// HeaderRequestID 请求ID头，客户端传入时沿用，否则生成新的UUID
	HeaderRequestID = "X-Request-ID"

	// ContextKeyRequestID gin.Context中的请求ID键
	ContextKeyRequestID = "request_id"

	slowRequestThreshold = 3 * time.Second
)

// Logger 请求日志中间件
// 1. 为每个请求分配请求ID，写入响应头
// 2. 派生带request_id（和trace_id）的Logger放入请求Context，下游通过logger.FromContext获取
// 3. 请求结束后输出一行访问日志，慢请求额外告警
func Logger(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, requestID)
		c.Header(HeaderRequestID, requestID)

		reqLogger := base.With("request_id", requestID)
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			reqLogger = reqLogger.With("trace_id", traceID)
		}
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), reqLogger))

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", latency,
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			reqLogger.Error("http request", attrs...)
		case status >= 400:
			reqLogger.Warn("http request", attrs...)
		default:
			reqLogger.Info("http request", attrs...)
		}

		if latency > slowRequestThreshold {
			reqLogger.Warn("slow request", "method", c.Request.Method, "path", c.Request.URL.Path, "latency", latency)
		}
	}
}
