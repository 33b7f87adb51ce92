package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	listBooksUseCase  *appbook.ListBooksUseCase
	addBookUseCase    *appbook.AddBookUseCase
	updateBookUseCase *appbook.UpdateBookUseCase
	deleteBookUseCase *appbook.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	listBooksUseCase *appbook.ListBooksUseCase,
	addBookUseCase *appbook.AddBookUseCase,
	updateBookUseCase *appbook.UpdateBookUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		listBooksUseCase:  listBooksUseCase,
		addBookUseCase:    addBookUseCase,
		updateBookUseCase: updateBookUseCase,
		deleteBookUseCase: deleteBookUseCase,
	}
}

// ListBooks 查询全部图书
// @Summary      图书列表
// @Description  返回全部图书，顺序由存储决定，没有图书时返回空数组
// @Tags         图书
// @Produce      json
// @Success      200 {array}  dto.BookResponse
// @Failure      500 {object} response.ErrorBody "服务端错误"
// @Router       /api/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	items, err := h.listBooksUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]dto.BookResponse, len(items))
	for i, item := range items {
		list[i] = dto.BookResponse{
			ID:         item.ID,
			BookName:   item.BookName,
			AuthorName: item.AuthorName,
		}
	}
	response.Success(c, list)
}

// CreateBook 新增图书
// @Summary      新增图书
// @Description  书名和作者都必填，成功后返回存储生成的图书ID
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      201 {object} dto.CreateBookResponse
// @Failure      400 {object} response.ErrorBody "缺少字段或请求体格式错误"
// @Failure      500 {object} response.ErrorBody "服务端错误"
// @Router       /api/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, book.ErrBookFieldsRequired))
		return
	}

	// 2. 调用应用层用例
	result, err := h.addBookUseCase.Execute(c.Request.Context(), appbook.AddBookRequest{
		BookName:   req.BookName,
		AuthorName: req.AuthorName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, &dto.CreateBookResponse{
		Message: result.Message,
		BookID:  result.BookID,
	})
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID（24位十六进制）"
// @Success      200 {object} response.MessageBody
// @Failure      400 {object} response.ErrorBody "ID格式错误"
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Failure      500 {object} response.ErrorBody "服务端错误"
// @Router       /api/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, err := book.ParseID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.deleteBookUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, appbook.MessageBookDeleted)
}

// UpdateBook 局部更新图书
// @Summary      更新图书
// @Description  只修改提供的字段，至少提供bookName或authorName之一
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id      path string                true "图书ID（24位十六进制）"
// @Param        request body dto.UpdateBookRequest true "要修改的字段"
// @Success      200 {object} response.MessageBody
// @Failure      400 {object} response.ErrorBody "ID格式错误或没有可更新的字段"
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Failure      500 {object} response.ErrorBody "服务端错误"
// @Router       /api/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	// 1. 先校验路径ID，再解析请求体
	id, err := book.ParseID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, book.ErrNoUpdateFields))
		return
	}

	// 2. 调用应用层用例
	bookName, authorName := req.Fields()
	err = h.updateBookUseCase.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		ID:         id,
		BookName:   bookName,
		AuthorName: authorName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, appbook.MessageBookUpdated)
}

// bindError 将绑定错误转换为业务错误
// 空请求体和字段校验失败视为缺少字段，其余（JSON语法、类型不匹配）视为请求体格式错误
func bindError(err error, missing *apperrors.AppError) error {
	var verrs validator.ValidationErrors
	if errors.Is(err, io.EOF) || errors.As(err, &verrs) {
		return missing
	}
	return apperrors.WrapCode(err, apperrors.ErrCodeBindError, apperrors.ErrBindError.Message)
}
