package book

import (
	"context"
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

// MessageBookDeleted 删除成功提示
const MessageBookDeleted = "book deleted successfully"

// DeleteBookUseCase 删除图书用例(物理删除)
type DeleteBookUseCase struct {
	bookService book.Service
	publisher   book.EventPublisher
	now         func() time.Time
}

// NewDeleteBookUseCase 创建删除图书用例
func NewDeleteBookUseCase(bookService book.Service, publisher book.EventPublisher) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookService: bookService,
		publisher:   publisher,
		now:         time.Now,
	}
}

// Execute 执行删除图书用例
// 没有匹配的图书时返回book.ErrBookNotFound
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id book.ID) (err error) {
	defer func(start time.Time) { metrics.RecordBookOperation("delete", err, start) }(time.Now())

	if err := uc.bookService.DeleteBook(ctx, id); err != nil {
		return err
	}

	publishEvent(ctx, uc.publisher, book.DeletedEvent(id, uc.now()))
	return nil
}
