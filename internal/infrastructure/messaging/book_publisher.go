package messaging

import (
	"context"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

// Sender 消息发送接口（由pkg/mq.Publisher实现）
type Sender interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
	Exchange() string
}

// bookEventPublisher 图书事件发布实现(RabbitMQ)
// 事件类型即路由键，消费方可订阅book.*
type bookEventPublisher struct {
	sender Sender
}

// NewBookEventPublisher 创建基于消息队列的事件发布者
func NewBookEventPublisher(sender Sender) book.EventPublisher {
	return &bookEventPublisher{sender: sender}
}

// Publish 发布图书事件并记录发布结果
func (p *bookEventPublisher) Publish(ctx context.Context, event book.Event) error {
	err := p.sender.Publish(ctx, event.Type, event)
	metrics.RecordMessagePublished(p.sender.Exchange(), event.Type, err)
	if err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeMQError, "发布图书事件失败")
	}
	return nil
}

// guardedPublisher 熔断保护
// RabbitMQ持续不可用时直接返回ErrOpenState，写请求不再等待发布超时
type guardedPublisher struct {
	next    book.EventPublisher
	breaker *circuitbreaker.CircuitBreaker
}

// NewGuardedPublisher 用熔断器包装事件发布者
func NewGuardedPublisher(next book.EventPublisher, breaker *circuitbreaker.CircuitBreaker) book.EventPublisher {
	return &guardedPublisher{next: next, breaker: breaker}
}

func (p *guardedPublisher) Publish(ctx context.Context, event book.Event) error {
	return p.breaker.Execute(func() error {
		return p.next.Publish(ctx, event)
	})
}

// noopPublisher 未启用消息队列时使用
type noopPublisher struct{}

// NewNoopPublisher 创建空实现
func NewNoopPublisher() book.EventPublisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, book.Event) error {
	return nil
}
