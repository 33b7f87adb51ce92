package book

import (
	"context"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/pkg/logger"
)

// publishEvent 发布图书事件
// 事件是写操作成功后的附带通知,发布失败只记录日志,不改变用例结果
func publishEvent(ctx context.Context, publisher book.EventPublisher, event book.Event) {
	if err := publisher.Publish(ctx, event); err != nil {
		logger.FromContext(ctx).Warn("publish book event failed",
			"event", event.Type,
			"book_id", event.BookID.String(),
			"error", err,
		)
	}
}
