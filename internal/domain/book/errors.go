package book

import (
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "book not found")

	// ErrInvalidBookID 标识符格式不正确
	ErrInvalidBookID = apperrors.New(apperrors.ErrCodeInvalidID, "valid book ID is required")

	// ErrBookFieldsRequired 创建时书名和作者必填
	ErrBookFieldsRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "book name and author name are required")

	// ErrNoUpdateFields 更新时至少提供一个字段
	ErrNoUpdateFields = apperrors.New(apperrors.ErrCodeInvalidParams, "book name or author name is required")
)
