package mongo

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// BookDocument 图书文档结构
// 字段名与已有数据保持一致：_id、bookName、authorName
type BookDocument struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	BookName   string        `bson:"bookName"`
	AuthorName string        `bson:"authorName"`
}

// toBookEntity 文档 → 领域实体
func toBookEntity(doc *BookDocument) *book.Book {
	return &book.Book{
		ID:         book.ID(doc.ID.Hex()),
		BookName:   doc.BookName,
		AuthorName: doc.AuthorName,
	}
}

// toBookDocument 领域实体 → 文档（ID由数据库生成）
func toBookDocument(b *book.Book) *BookDocument {
	return &BookDocument{
		BookName:   b.BookName,
		AuthorName: b.AuthorName,
	}
}

// toObjectID 领域ID → ObjectID
// ID在接口边界已校验，这里的错误只会来自调用方绕过ParseID
func toObjectID(id book.ID) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id.String())
	if err != nil {
		return bson.ObjectID{}, book.ErrInvalidBookID
	}
	return oid, nil
}

// toSetDocument 局部更新 → $set内容，只包含提供了的字段
func toSetDocument(ch book.Changes) bson.D {
	set := bson.D{}
	if ch.BookName != nil {
		set = append(set, bson.E{Key: "bookName", Value: *ch.BookName})
	}
	if ch.AuthorName != nil {
		set = append(set, bson.E{Key: "authorName", Value: *ch.AuthorName})
	}
	return set
}
