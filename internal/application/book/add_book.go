package book

import (
	"context"
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

// MessageBookAdded 创建成功提示
const MessageBookAdded = "book added successfully"

// AddBookUseCase 新增图书用例
// 设计说明:
// 1. 必填字段校验由领域服务负责,校验失败直接返回,不会写入存储
// 2. 写入成功后发布book.created事件
type AddBookUseCase struct {
	bookService book.Service
	publisher   book.EventPublisher
	now         func() time.Time
}

// NewAddBookUseCase 创建新增图书用例
func NewAddBookUseCase(bookService book.Service, publisher book.EventPublisher) *AddBookUseCase {
	return &AddBookUseCase{
		bookService: bookService,
		publisher:   publisher,
		now:         time.Now,
	}
}

// AddBookRequest 新增图书请求DTO
type AddBookRequest struct {
	BookName   string
	AuthorName string
}

// AddBookResponse 新增图书响应DTO
type AddBookResponse struct {
	Message string
	BookID  string
}

// Execute 执行新增图书用例
func (uc *AddBookUseCase) Execute(ctx context.Context, req AddBookRequest) (resp *AddBookResponse, err error) {
	defer func(start time.Time) { metrics.RecordBookOperation("create", err, start) }(time.Now())

	b, err := uc.bookService.CreateBook(ctx, req.BookName, req.AuthorName)
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, uc.publisher, book.CreatedEvent(b, uc.now()))

	return &AddBookResponse{
		Message: MessageBookAdded,
		BookID:  b.ID.String(),
	}, nil
}
