package book

import (
	"context"
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. 返回全部图书,不分页,顺序由存储决定
// 2. 没有图书时返回空数组而不是null
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
	}
}

// BookItem 图书DTO
type BookItem struct {
	ID         string
	BookName   string
	AuthorName string
}

// Execute 执行列表查询用例
func (uc *ListBooksUseCase) Execute(ctx context.Context) (items []BookItem, err error) {
	defer func(start time.Time) { metrics.RecordBookOperation("list", err, start) }(time.Now())

	books, err := uc.bookService.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	items = make([]BookItem, len(books))
	for i, b := range books {
		items[i] = BookItem{
			ID:         b.ID.String(),
			BookName:   b.BookName,
			AuthorName: b.AuthorName,
		}
	}
	return items, nil
}
