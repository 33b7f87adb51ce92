package book

import (
	"context"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装业务规则校验(必填字段、局部更新至少一个字段)
// 2. 不依赖具体的Repository实现(依赖倒置)
type Service interface {
	// ListBooks 查询全部图书
	ListBooks(ctx context.Context) ([]*Book, error)

	// CreateBook 创建图书
	// 业务规则:书名、作者都必须非空,校验失败时不会写入存储
	CreateBook(ctx context.Context, bookName, authorName string) (*Book, error)

	// DeleteBook 删除图书
	DeleteBook(ctx context.Context, id ID) error

	// UpdateBook 局部更新图书
	// 业务规则:至少提供一个字段
	UpdateBook(ctx context.Context, id ID, changes Changes) error
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// ListBooks 查询全部图书
func (s *service) ListBooks(ctx context.Context) ([]*Book, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []*Book{}
	}
	return books, nil
}

// CreateBook 创建图书
func (s *service) CreateBook(ctx context.Context, bookName, authorName string) (*Book, error) {
	// 1. 创建实体(校验必填字段)
	book, err := NewBook(bookName, authorName)
	if err != nil {
		return nil, err
	}

	// 2. 持久化
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	return book, nil
}

// DeleteBook 删除图书
func (s *service) DeleteBook(ctx context.Context, id ID) error {
	return s.repo.Delete(ctx, id)
}

// UpdateBook 局部更新图书
func (s *service) UpdateBook(ctx context.Context, id ID, changes Changes) error {
	if changes.IsEmpty() {
		return ErrNoUpdateFields
	}
	return s.repo.Update(ctx, id, changes)
}
