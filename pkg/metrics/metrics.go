// Package metrics 提供基于Prometheus的指标收集
//
// # 指标类型
//
//   - Counter：只增不减的累计值（请求总数、操作总数、发布消息数）
//   - Gauge：可增可减的瞬时值（正在处理的请求数）
//   - Histogram：观测值的分布（请求耗时，可计算P50/P90/P99）
//
// # 使用示例
//
//	metrics.InitMetrics()
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	start := time.Now()
//	err := svc.CreateBook(ctx, b)
//	metrics.RecordBookOperation("create", err, start)
//
// # 命名规范
//
//   - Counter以_total结尾：http_requests_total
//   - Histogram以单位结尾：http_request_duration_seconds
//   - 标签只用有限取值（method、status、operation），不要用图书ID等高基数值
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 结果标签取值
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method（GET/POST）、path（路由模板，如/api/books/:id）、status（200/404）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 业务指标

	// BookOperationsTotal 图书操作总数
	// 标签：operation（list/create/update/delete）、result（success/failure）
	BookOperationsTotal *prometheus.CounterVec

	// BookOperationDuration 图书操作耗时（含数据库往返）
	BookOperationDuration *prometheus.HistogramVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数
	// 标签：exchange、routing_key、result
	MessagesPublishedTotal *prometheus.CounterVec

	// 限流指标

	// RateLimitedRequestsTotal 被限流拒绝的请求数（标签：backend）
	RateLimitedRequestsTotal *prometheus.CounterVec

	// RateLimiterErrorsTotal 限流存储异常次数（异常时放行请求）
	RateLimiterErrorsTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
// 使用promauto注册到默认Registry，重复调用是安全的
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时（秒）",
			// 1ms ~ 10s
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	BookOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_operations_total",
			Help: "图书操作总数",
		},
		[]string{"operation", "result"},
	)

	BookOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "book_operation_duration_seconds",
			Help:    "图书操作耗时（秒）",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key", "result"},
	)

	RateLimitedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "被限流拒绝的请求数",
		},
		[]string{"backend"},
	)

	RateLimiterErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_errors_total",
			Help: "限流存储异常次数",
		},
		[]string{"backend"},
	)
}

// Result 根据err返回结果标签
func Result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

// RecordBookOperation 记录一次图书操作的结果和耗时
func RecordBookOperation(operation string, err error, start time.Time) {
	InitMetrics()
	BookOperationsTotal.WithLabelValues(operation, Result(err)).Inc()
	BookOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// RecordMessagePublished 记录一次消息发布
func RecordMessagePublished(exchange, routingKey string, err error) {
	InitMetrics()
	MessagesPublishedTotal.WithLabelValues(exchange, routingKey, Result(err)).Inc()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
