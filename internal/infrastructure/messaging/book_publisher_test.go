package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

type recordingSender struct {
	keys     []string
	messages []interface{}
	err      error
}

func (s *recordingSender) Publish(_ context.Context, routingKey string, message interface{}) error {
	s.keys = append(s.keys, routingKey)
	s.messages = append(s.messages, message)
	return s.err
}

func (s *recordingSender) Exchange() string { return "bookcatalog.events" }

func TestBookEventPublisher(t *testing.T) {
	sender := &recordingSender{}
	pub := NewBookEventPublisher(sender)

	ev := book.DeletedEvent("507f1f77bcf86cd799439011", time.Now())
	assert.NoError(t, pub.Publish(context.Background(), ev))

	assert.Equal(t, []string{book.EventDeleted}, sender.keys)
	assert.Equal(t, ev, sender.messages[0])
}

func TestBookEventPublisher_Error(t *testing.T) {
	sender := &recordingSender{err: errors.New("channel closed")}
	pub := NewBookEventPublisher(sender)

	err := pub.Publish(context.Background(), book.DeletedEvent("507f1f77bcf86cd799439011", time.Now()))
	assert.ErrorContains(t, err, "channel closed")
	assert.Equal(t, apperrors.ErrCodeMQError, apperrors.GetAppError(err).Code)
}

func TestGuardedPublisher(t *testing.T) {
	sender := &recordingSender{err: errors.New("connection reset")}
	breaker := circuitbreaker.New("rabbitmq", circuitbreaker.Config{FailureThreshold: 2, Timeout: time.Minute})
	pub := NewGuardedPublisher(NewBookEventPublisher(sender), breaker)
	ev := book.DeletedEvent("507f1f77bcf86cd799439011", time.Now())

	t.Run("未熔断时透传下游错误", func(t *testing.T) {
		assert.ErrorContains(t, pub.Publish(context.Background(), ev), "connection reset")
		assert.ErrorContains(t, pub.Publish(context.Background(), ev), "connection reset")
	})

	t.Run("熔断后不再调用下游", func(t *testing.T) {
		err := pub.Publish(context.Background(), ev)
		assert.ErrorIs(t, err, circuitbreaker.ErrOpenState)
		assert.Len(t, sender.keys, 2)
	})
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NewNoopPublisher().Publish(context.Background(), book.Event{}))
}
