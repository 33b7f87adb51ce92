package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/messaging"
	mongostore "github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/mongo"
	redisstore "github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
	"github.com/xiebiao/bookcatalog/pkg/circuitbreaker"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/mq"
	"github.com/xiebiao/bookcatalog/pkg/ratelimit"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

// ========================================
// Custom Providers
// ========================================
// 构造函数参数需要从Config中提取，或者需要返回cleanup时，在这里包一层

// provideLogger 创建全局Logger并设为slog默认Logger
func provideLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	l, closeFn, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(l)
	return l, func() { _ = closeFn() }, nil
}

// Telemetry 指标与追踪的初始化结果
type Telemetry struct {
	TracingEnabled bool
}

// provideTelemetry 注册Prometheus指标，按配置初始化OpenTelemetry
// cleanup时刷新未发送的Span
func provideTelemetry(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Telemetry, func(), error) {
	metrics.InitMetrics()

	if !cfg.Tracing.Enabled {
		return &Telemetry{}, func() {}, nil
	}

	shutdown, err := tracing.InitTracer(ctx, tracing.Options{
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := shutdown(context.Background()); err != nil {
			log.Error("tracer shutdown failed", "error", err)
		}
	}
	return &Telemetry{TracingEnabled: true}, cleanup, nil
}

// provideMongoClient 创建MongoDB连接池
func provideMongoClient(ctx context.Context, cfg *config.Config) (*mongo.Client, func(), error) {
	return mongostore.NewClient(ctx, cfg.Mongo)
}

// provideBookCollection 图书集合
func provideBookCollection(client *mongo.Client, cfg *config.Config) *mongo.Collection {
	return mongostore.Collection(client, cfg.Mongo)
}

// provideHealthPinger 就绪检查使用图书仓储探测MongoDB
func provideHealthPinger(repo book.Repository) handler.Pinger {
	return repo
}

// provideEventPublisher 按配置创建事件发布者
// mq.enabled=false时使用空实现，图书操作不依赖RabbitMQ
// 启用时外层加熔断器，RabbitMQ故障期间发布直接失败
func provideEventPublisher(cfg *config.Config, log *slog.Logger) (book.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return messaging.NewNoopPublisher(), func() {}, nil
	}

	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := pub.Close(); err != nil {
			log.Error("close message publisher failed", "error", err)
		}
	}
	breaker := circuitbreaker.New("rabbitmq", circuitbreaker.Config{
		FailureThreshold: cfg.MQ.BreakerThreshold,
		Timeout:          cfg.MQ.BreakerTimeout,
	})
	breaker.OnStateChange(func(name string, from, to circuitbreaker.State) {
		log.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
	})

	return messaging.NewGuardedPublisher(messaging.NewBookEventPublisher(pub), breaker), cleanup, nil
}

// provideRateLimiter 按配置创建限流器，未启用时返回nil
// local：进程内令牌桶，后台定期清理空闲key
// redis：多实例共享的固定窗口计数
func provideRateLimiter(ctx context.Context, cfg *config.Config, log *slog.Logger) (ratelimit.Limiter, func(), error) {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return nil, func() {}, nil
	}

	if rl.Backend == "redis" {
		client, err := redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := client.Close(); err != nil {
				log.Error("close redis client failed", "error", err)
			}
		}
		return redisstore.NewRateLimiter(client, rl.Requests, rl.Window), cleanup, nil
	}

	local := ratelimit.NewLocal(rl.Requests, rl.Window, rl.Burst)
	runCtx, cancel := context.WithCancel(context.Background())
	go local.Run(runCtx, time.Minute)
	return local, cancel, nil
}

// provideHTTPServer 创建HTTP服务
func provideHTTPServer(cfg *config.Config, engine http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
}
