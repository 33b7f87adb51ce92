package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/logger"
)

// ErrorBody 统一错误响应结构
// 设计说明：
// 1. 所有失败响应都是{"error": "..."}，HTTP状态码表达错误类型
// 2. 内部错误只返回通用提示，详细原因记录到日志
type ErrorBody struct {
	Error string `json:"error" example:"book not found"`
}

// MessageBody 只含提示信息的成功响应
type MessageBody struct {
	Message string `json:"message" example:"book deleted successfully"`
}

// Success 成功响应（200）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 创建成功响应（201）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message 成功提示（200）
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageBody{Message: message})
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	if err := uc.Execute(ctx, req); err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := appErr.HTTPStatus()

	// 记录详细错误到日志：服务端错误用Error，带内部原因的客户端错误用Warn
	attrs := []any{
		"code", appErr.Code,
		"error", err.Error(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	switch {
	case status >= http.StatusInternalServerError:
		logger.FromContext(c.Request.Context()).Error("request failed", attrs...)
	case appErr.Err != nil:
		logger.FromContext(c.Request.Context()).Warn("request rejected", attrs...)
	}
	_ = c.Error(err)

	c.AbortWithStatusJSON(status, ErrorBody{Error: appErr.Message})
}

// ErrorWithStatus 自定义状态码和消息
func ErrorWithStatus(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: message})
}
