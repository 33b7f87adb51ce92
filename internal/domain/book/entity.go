package book

import (
	"regexp"
)

// ID 图书标识符
// 由存储层在插入时生成（24位十六进制），创建后不可修改
type ID string

var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// ParseID 解析并校验路径中的图书标识符
// 在接口边界完成格式校验，非法标识符返回ErrInvalidBookID，不会进入存储层
func ParseID(raw string) (ID, error) {
	if raw == "" || !idPattern.MatchString(raw) {
		return "", ErrInvalidBookID
	}
	return ID(raw), nil
}

func (id ID) String() string {
	return string(id)
}

// Book 图书实体
type Book struct {
	ID         ID
	BookName   string // 书名
	AuthorName string // 作者
}

// NewBook 创建新图书(工厂方法)
// 业务规则:书名和作者都不能为空
func NewBook(bookName, authorName string) (*Book, error) {
	if bookName == "" || authorName == "" {
		return nil, ErrBookFieldsRequired
	}
	return &Book{
		BookName:   bookName,
		AuthorName: authorName,
	}, nil
}

// Changes 局部更新内容
// nil表示该字段不修改
type Changes struct {
	BookName   *string
	AuthorName *string
}

// NewChanges 根据请求字段构建更新内容
// 空字符串视为未提供；两个字段都未提供时返回ErrNoUpdateFields
func NewChanges(bookName, authorName string) (Changes, error) {
	var ch Changes
	if bookName != "" {
		ch.BookName = &bookName
	}
	if authorName != "" {
		ch.AuthorName = &authorName
	}
	if ch.IsEmpty() {
		return Changes{}, ErrNoUpdateFields
	}
	return ch, nil
}

// IsEmpty 是否没有任何字段需要更新
func (ch Changes) IsEmpty() bool {
	return ch.BookName == nil && ch.AuthorName == nil
}

// Apply 将更新内容应用到图书上，返回是否有字段发生变化
func (b *Book) Apply(ch Changes) bool {
	changed := false
	if ch.BookName != nil && *ch.BookName != b.BookName {
		b.BookName = *ch.BookName
		changed = true
	}
	if ch.AuthorName != nil && *ch.AuthorName != b.AuthorName {
		b.AuthorName = *ch.AuthorName
		changed = true
	}
	return changed
}
