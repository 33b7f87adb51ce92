package book

import (
	"context"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=book

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 每个方法只操作一个文档,原子性由存储引擎保证
type Repository interface {
	// List 查询全部图书,顺序由存储引擎决定
	List(ctx context.Context) ([]*Book, error)

	// Create 创建图书,成功后回填存储层生成的ID
	Create(ctx context.Context, book *Book) error

	// Delete 删除图书(物理删除)
	// 没有匹配的文档时返回ErrBookNotFound
	Delete(ctx context.Context, id ID) error

	// Update 局部更新图书字段
	// 没有匹配的文档时返回ErrBookNotFound
	Update(ctx context.Context, id ID, changes Changes) error

	// Ping 检查存储是否可用
	Ping(ctx context.Context) error
}
