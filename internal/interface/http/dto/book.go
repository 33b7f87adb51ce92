package dto

// CreateBookRequest HTTP新增图书请求
// 书名和作者都必须是非空字符串
type CreateBookRequest struct {
	BookName   string `json:"bookName" binding:"required" example:"Dune"`
	AuthorName string `json:"authorName" binding:"required" example:"Frank Herbert"`
}

// UpdateBookRequest HTTP局部更新请求
// 至少提供一个字段，未提供或为空字符串的字段保持原值
type UpdateBookRequest struct {
	BookName   *string `json:"bookName,omitempty" example:"Dune Messiah"`
	AuthorName *string `json:"authorName,omitempty" example:"Frank Herbert"`
}

// Fields 返回请求字段，nil视为空字符串
func (r UpdateBookRequest) Fields() (bookName, authorName string) {
	if r.BookName != nil {
		bookName = *r.BookName
	}
	if r.AuthorName != nil {
		authorName = *r.AuthorName
	}
	return bookName, authorName
}

// BookResponse HTTP图书响应
type BookResponse struct {
	ID         string `json:"id" example:"507f1f77bcf86cd799439011"`
	BookName   string `json:"bookName" example:"Dune"`
	AuthorName string `json:"authorName" example:"Frank Herbert"`
}

// CreateBookResponse HTTP新增图书响应
type CreateBookResponse struct {
	Message string `json:"message" example:"book added successfully"`
	BookID  string `json:"bookId" example:"507f1f77bcf86cd799439011"`
}
