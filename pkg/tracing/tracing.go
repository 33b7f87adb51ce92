// Package tracing 提供基于OpenTelemetry的链路追踪
//
// # 核心概念
//
//   - Trace：一次完整请求的链路（HTTP请求 → 用例 → MongoDB/RabbitMQ）
//   - Span：链路中的一个操作单元，记录名称、起止时间、属性、状态
//   - TraceID：贯穿整个链路，写入日志后可从日志跳转到Jaeger
//
// # 使用示例
//
//	shutdown, err := tracing.InitTracer(ctx, tracing.Options{
//	    ServiceName: "book-catalog",
//	    Endpoint:    "localhost:4317",
//	    SampleRatio: 1,
//	})
//	if err != nil {
//	    return err
//	}
//	defer shutdown(context.Background())
//
//	ctx, span := tracing.StartSpan(ctx, "mongo", "BookRepository.Create")
//	defer span.End()
//
// 未调用InitTracer时，otel全局Provider是noop实现，StartSpan返回的Span不记录任何数据，
// 业务代码无需区分追踪是否开启。
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// Options 追踪配置
type Options struct {
	ServiceName string  // 服务名称（在Jaeger UI中显示）
	Endpoint    string  // OTLP gRPC端点，如localhost:4317
	SampleRatio float64 // 采样率，0~1
}

// ShutdownFunc 关闭函数，程序退出前调用以刷新未发送的Span
type ShutdownFunc func(context.Context) error

// InitTracer 初始化全局Tracer Provider
//
// 设计要点：
// 1. 使用OTLP gRPC协议，厂商中立（Jaeger、Tempo均可接收）
// 2. 采样策略：ParentBased(TraceIDRatioBased)，上游已采样的请求保持采样
// 3. BatchSpanProcessor批量发送，shutdown时强制刷新
func InitTracer(ctx context.Context, opts Options) (ShutdownFunc, error) {
	exporter, err := newExporter(ctx, opts.Endpoint)
	if err != nil {
		return nil, err
	}

	tp, err := newProvider(ctx, opts, sdktrace.WithBatcher(exporter))
	if err != nil {
		return nil, err
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{}, // W3C Trace Context
			propagation.Baggage{},
		),
	)

	return func(ctx context.Context) error {
		// 防止shutdown阻塞过久
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}, nil
}

func newExporter(ctx context.Context, endpoint string) (sdktrace.SpanExporter, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// gRPC连接是惰性的，Collector不可达时不会在这里失败
	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}
	return exporter, nil
}

func newProvider(ctx context.Context, opts Options, extra ...sdktrace.TracerProviderOption) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(
		ctx,
		resource.WithAttributes(semconv.ServiceName(opts.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("创建资源属性失败: %w", err)
	}

	providerOpts := append([]sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(opts.SampleRatio))),
		sdktrace.WithResource(res),
	}, extra...)

	return sdktrace.NewTracerProvider(providerOpts...), nil
}

// StartSpan 创建一个新的Span
// ctx包含父Span时新Span自动成为子Span，必须把返回的ctx传给下游调用
func StartSpan(ctx context.Context, tracerName, spanName string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, spanName)
}

// EndSpan 根据err设置Span状态并结束Span
//
//	ctx, span := tracing.StartSpan(ctx, "mongo", "BookRepository.Delete")
//	defer func() { tracing.EndSpan(span, err) }()
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// ExtractTraceID 从Context提取TraceID（用于关联日志），没有有效Span时返回空字符串
func ExtractTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// ExtractSpanID 从Context提取SpanID
func ExtractSpanID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.SpanID().String()
}
