package response

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/logger"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/books", nil)
	return c, w
}

func TestError_AppError(t *testing.T) {
	c, w := newTestContext()

	Error(c, apperrors.New(apperrors.ErrCodeBookNotFound, "book not found"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"book not found"}`, w.Body.String())
	assert.True(t, c.IsAborted())
}

func TestError_HidesInternalCause(t *testing.T) {
	c, w := newTestContext()

	Error(c, errors.New("dial tcp 127.0.0.1:27017: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "27017")
	assert.Len(t, c.Errors, 1)
}

func TestSuccessResponses(t *testing.T) {
	c, w := newTestContext()
	Created(c, gin.H{"message": "ok"})
	assert.Equal(t, http.StatusCreated, w.Code)

	c, w = newTestContext()
	Message(c, "book deleted successfully")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"book deleted successfully"}`, w.Body.String())

	c, w = newTestContext()
	Success(c, []string{})
	assert.Equal(t, "[]", w.Body.String())
}

func TestErrorWithStatus(t *testing.T) {
	c, w := newTestContext()
	ErrorWithStatus(c, http.StatusServiceUnavailable, "database not ready")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error":"database not ready"}`, w.Body.String())
}

func TestError_LogLevel(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string // 空表示不记录
	}{
		{"服务端错误记为ERROR", apperrors.Wrap(errors.New("server selection timeout"), "internal server error"), `"level":"ERROR"`},
		{"请求体格式错误记为WARN", apperrors.WrapCode(errors.New("unexpected EOF"), apperrors.ErrCodeBindError, "request body must be valid JSON"), `"level":"WARN"`},
		{"普通业务错误不记录", apperrors.New(apperrors.ErrCodeBookNotFound, "book not found"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			c, _ := newTestContext()
			l := logger.NewWithWriter(&buf, "json", slog.LevelDebug, false)
			c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), l))

			Error(c, tt.err)

			if tt.wantLevel == "" {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.wantLevel)
		})
	}
}
