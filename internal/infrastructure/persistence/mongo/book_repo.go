package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

const tracerName = "mongo"

// bookRepository 图书仓储实现(MongoDB)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责领域实体与BSON文档之间的转换
// 3. 驱动错误统一包装为数据库错误,对外只暴露通用提示
type bookRepository struct {
	coll *mongo.Collection
}

// NewBookRepository 创建图书仓储
func NewBookRepository(coll *mongo.Collection) book.Repository {
	return &bookRepository{coll: coll}
}

func (r *bookRepository) startSpan(ctx context.Context, op string) (context.Context, func(error)) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BookRepository."+op)
	span.SetAttributes(
		attribute.String("db.system", "mongodb"),
		attribute.String("db.collection", r.coll.Name()),
	)
	return ctx, func(err error) { endSpan(span, err) }
}

// endSpan 结束仓储Span
// 图书不存在是正常的查询结果，只记录属性，不标记为错误
func endSpan(span trace.Span, err error) {
	if errors.Is(err, book.ErrBookNotFound) {
		span.SetAttributes(attribute.Bool("book.found", false))
		err = nil
	}
	tracing.EndSpan(span, err)
}

// List 查询全部图书
func (r *bookRepository) List(ctx context.Context) (books []*book.Book, err error) {
	ctx, end := r.startSpan(ctx, "List")
	defer func() { end(err) }()

	cursor, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, dbError(err, "查询图书列表失败")
	}

	var docs []BookDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, dbError(err, "读取图书列表失败")
	}

	books = make([]*book.Book, 0, len(docs))
	for i := range docs {
		books = append(books, toBookEntity(&docs[i]))
	}
	return books, nil
}

// Create 创建图书并回填ID
func (r *bookRepository) Create(ctx context.Context, b *book.Book) (err error) {
	ctx, end := r.startSpan(ctx, "Create")
	defer func() { end(err) }()

	res, err := r.coll.InsertOne(ctx, toBookDocument(b))
	if err != nil {
		return dbError(err, "创建图书失败")
	}

	oid, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return dbError(fmt.Errorf("unexpected inserted id type %T", res.InsertedID), "创建图书失败")
	}
	b.ID = book.ID(oid.Hex())
	return nil
}

// Delete 删除图书
func (r *bookRepository) Delete(ctx context.Context, id book.ID) (err error) {
	ctx, end := r.startSpan(ctx, "Delete")
	defer func() { end(err) }()

	oid, err := toObjectID(id)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return dbError(err, "删除图书失败")
	}
	if res.DeletedCount == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// Update 局部更新图书
// 以MatchedCount判断是否存在:字段值未变化的更新也算成功
func (r *bookRepository) Update(ctx context.Context, id book.ID, changes book.Changes) (err error) {
	ctx, end := r.startSpan(ctx, "Update")
	defer func() { end(err) }()

	if changes.IsEmpty() {
		return book.ErrNoUpdateFields
	}

	oid, err := toObjectID(id)
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: toSetDocument(changes)}},
	)
	if err != nil {
		return dbError(err, "更新图书失败")
	}
	if res.MatchedCount == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// Ping 检查MongoDB是否可用
func (r *bookRepository) Ping(ctx context.Context) error {
	if err := r.coll.Database().Client().Ping(ctx, nil); err != nil {
		return dbError(err, "MongoDB不可用")
	}
	return nil
}

// dbError 包装驱动错误,客户端只看到通用提示
func dbError(err error, op string) error {
	return apperrors.WrapCode(fmt.Errorf("%s: %w", op, err), apperrors.ErrCodeDatabaseError, "internal server error")
}
