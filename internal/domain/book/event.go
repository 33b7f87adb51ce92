package book

import (
	"context"
	"time"
)

// 事件类型（同时作为消息路由键）
const (
	EventCreated = "book.created"
	EventUpdated = "book.updated"
	EventDeleted = "book.deleted"
)

// Event 图书变更事件
// 写操作成功后发布，发布失败不影响操作结果
type Event struct {
	Type       string    `json:"type"`
	BookID     ID        `json:"bookId"`
	BookName   *string   `json:"bookName,omitempty"`
	AuthorName *string   `json:"authorName,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// CreatedEvent 图书创建事件
func CreatedEvent(b *Book, at time.Time) Event {
	name, author := b.BookName, b.AuthorName
	return Event{Type: EventCreated, BookID: b.ID, BookName: &name, AuthorName: &author, OccurredAt: at}
}

// UpdatedEvent 图书更新事件，只携带被修改的字段
func UpdatedEvent(id ID, ch Changes, at time.Time) Event {
	return Event{Type: EventUpdated, BookID: id, BookName: ch.BookName, AuthorName: ch.AuthorName, OccurredAt: at}
}

// DeletedEvent 图书删除事件
func DeletedEvent(id ID, at time.Time) Event {
	return Event{Type: EventDeleted, BookID: id, OccurredAt: at}
}

// EventPublisher 事件发布接口，由infrastructure/messaging实现
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
