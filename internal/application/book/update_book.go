package book

import (
	"context"
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

// MessageBookUpdated 更新成功提示
const MessageBookUpdated = "book updated successfully"

// UpdateBookUseCase 局部更新图书用例
// 设计说明:
// 1. 只修改请求中提供的字段,空字符串视为未提供
// 2. 两个字段都未提供时返回校验错误,不访问存储
// 3. 文档存在即视为成功,即使字段值没有变化
type UpdateBookUseCase struct {
	bookService book.Service
	publisher   book.EventPublisher
	now         func() time.Time
}

// NewUpdateBookUseCase 创建更新图书用例
func NewUpdateBookUseCase(bookService book.Service, publisher book.EventPublisher) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		bookService: bookService,
		publisher:   publisher,
		now:         time.Now,
	}
}

// UpdateBookRequest 更新图书请求DTO
type UpdateBookRequest struct {
	ID         book.ID
	BookName   string
	AuthorName string
}

// Execute 执行更新图书用例
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (err error) {
	defer func(start time.Time) { metrics.RecordBookOperation("update", err, start) }(time.Now())

	changes, err := book.NewChanges(req.BookName, req.AuthorName)
	if err != nil {
		return err
	}

	if err := uc.bookService.UpdateBook(ctx, req.ID, changes); err != nil {
		return err
	}

	publishEvent(ctx, uc.publisher, book.UpdatedEvent(req.ID, changes, uc.now()))
	return nil
}
