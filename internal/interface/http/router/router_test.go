package router_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/messaging"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
	"github.com/xiebiao/bookcatalog/internal/interface/http/router"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/ratelimit"
)

// memRepository 内存版图书仓储，按插入顺序返回
type memRepository struct {
	mu      sync.Mutex
	seq     int
	order   []book.ID
	books   map[book.ID]book.Book
	creates int
	err     error // 非nil时所有操作都返回该错误
}

func newMemRepository() *memRepository {
	return &memRepository{books: make(map[book.ID]book.Book)}
}

func (r *memRepository) List(ctx context.Context) ([]*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var list []*book.Book
	for _, id := range r.order {
		b := r.books[id]
		list = append(list, &b)
	}
	return list, nil
}

func (r *memRepository) Create(ctx context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.seq++
	r.creates++
	b.ID = book.ID(fmt.Sprintf("%024x", r.seq))
	r.books[b.ID] = *b
	r.order = append(r.order, b.ID)
	return nil
}

func (r *memRepository) Delete(ctx context.Context, id book.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.books[id]; !ok {
		return book.ErrBookNotFound
	}
	delete(r.books, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memRepository) Update(ctx context.Context, id book.ID, changes book.Changes) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	b, ok := r.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	b.Apply(changes)
	r.books[id] = b
	return nil
}

func (r *memRepository) Ping(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Mode: "test"},
		RateLimit: config.RateLimitConfig{Backend: "local", Window: time.Minute},
		CORS: config.CORSConfig{
			Enabled:      true,
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Content-Type"},
			MaxAge:       600,
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func setupRouter(t *testing.T, repo *memRepository, limiter ratelimit.Limiter) http.Handler {
	t.Helper()
	return newRouter(t, testConfig(), repo, limiter)
}

func newRouter(t *testing.T, cfg *config.Config, repo *memRepository, limiter ratelimit.Limiter) http.Handler {
	t.Helper()

	svc := book.NewService(repo)
	pub := messaging.NewNoopPublisher()
	bookHandler := handler.NewBookHandler(
		appbook.NewListBooksUseCase(svc),
		appbook.NewAddBookUseCase(svc, pub),
		appbook.NewUpdateBookUseCase(svc, pub),
		appbook.NewDeleteBookUseCase(svc, pub),
	)
	engine, err := router.New(cfg, logger.Discard(), bookHandler, handler.NewHealthHandler(repo), limiter)
	require.NoError(t, err)
	return engine
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func createBook(t *testing.T, h http.Handler, bookName, authorName string) string {
	t.Helper()
	w := do(h, http.MethodPost, "/api/books", fmt.Sprintf(`{"bookName":%q,"authorName":%q}`, bookName, authorName))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["bookId"]
}

func TestListBooks(t *testing.T) {
	t.Run("没有图书时返回空数组", func(t *testing.T) {
		h := setupRouter(t, newMemRepository(), nil)

		w := do(h, http.MethodGet, "/api/books", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("新增后列表包含该图书", func(t *testing.T) {
		h := setupRouter(t, newMemRepository(), nil)
		id := createBook(t, h, "Dune", "Frank Herbert")

		w := do(h, http.MethodGet, "/api/books", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, fmt.Sprintf(`[{"id":%q,"bookName":"Dune","authorName":"Frank Herbert"}]`, id), w.Body.String())
	})

	t.Run("存储异常时返回500且不泄露原因", func(t *testing.T) {
		repo := newMemRepository()
		repo.err = errors.New("dial tcp 10.0.0.5:27017: connection refused")
		h := setupRouter(t, repo, nil)

		w := do(h, http.MethodGet, "/api/books", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, map[string]string{"error": "internal server error"}, decode(t, w))
		assert.NotContains(t, w.Body.String(), "10.0.0.5")
	})
}

func TestCreateBook(t *testing.T) {
	t.Run("新增成功", func(t *testing.T) {
		repo := newMemRepository()
		h := setupRouter(t, repo, nil)

		w := do(h, http.MethodPost, "/api/books", `{"bookName":"Dune","authorName":"Frank Herbert"}`)
		assert.Equal(t, http.StatusCreated, w.Code)

		body := decode(t, w)
		assert.Equal(t, "book added successfully", body["message"])
		assert.Len(t, body["bookId"], 24)
		assert.Equal(t, 1, repo.creates)
	})

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"作者为空", `{"bookName":"Dune","authorName":""}`, "book name and author name are required"},
		{"缺少书名", `{"authorName":"Frank Herbert"}`, "book name and author name are required"},
		{"空请求体", ``, "book name and author name are required"},
		{"JSON格式错误", `{"bookName":`, "request body must be valid JSON"},
		{"字段类型错误", `{"bookName":1,"authorName":"Frank Herbert"}`, "request body must be valid JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemRepository()
			h := setupRouter(t, repo, nil)

			w := do(h, http.MethodPost, "/api/books", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantErr, decode(t, w)["error"])
			assert.Zero(t, repo.creates, "校验失败时不应写入存储")
		})
	}
}

func TestDeleteBook(t *testing.T) {
	t.Run("删除两次：先成功后404", func(t *testing.T) {
		h := setupRouter(t, newMemRepository(), nil)
		id := createBook(t, h, "Dune", "Frank Herbert")

		w := do(h, http.MethodDelete, "/api/books/"+id, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "book deleted successfully", decode(t, w)["message"])

		w = do(h, http.MethodDelete, "/api/books/"+id, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "book not found", decode(t, w)["error"])

		w = do(h, http.MethodGet, "/api/books", "")
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("ID格式错误", func(t *testing.T) {
		h := setupRouter(t, newMemRepository(), nil)

		w := do(h, http.MethodDelete, "/api/books/xyz", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "valid book ID is required", decode(t, w)["error"])
	})
}

func TestUpdateBook(t *testing.T) {
	t.Run("只修改提供的字段", func(t *testing.T) {
		h := setupRouter(t, newMemRepository(), nil)
		id := createBook(t, h, "Dune", "Frank Herbert")

		w := do(h, http.MethodPut, "/api/books/"+id, `{"bookName":"Dune Messiah"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "book updated successfully", decode(t, w)["message"])

		w = do(h, http.MethodGet, "/api/books", "")
		assert.JSONEq(t, fmt.Sprintf(`[{"id":%q,"bookName":"Dune Messiah","authorName":"Frank Herbert"}]`, id), w.Body.String())
	})

	t.Run("值未变化也算成功", func(t *testing.T) {
		h := setupRouter(t, newMemRepository(), nil)
		id := createBook(t, h, "Dune", "Frank Herbert")

		w := do(h, http.MethodPut, "/api/books/"+id, `{"bookName":"Dune"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantErr    string
	}{
		{"没有字段", "/api/books/000000000000000000000001", `{}`, http.StatusBadRequest, "book name or author name is required"},
		{"字段都为空字符串", "/api/books/000000000000000000000001", `{"bookName":"","authorName":""}`, http.StatusBadRequest, "book name or author name is required"},
		{"ID格式错误", "/api/books/not-an-id", `{"bookName":"x"}`, http.StatusBadRequest, "valid book ID is required"},
		{"ID错误优先于请求体错误", "/api/books/not-an-id", `{bad`, http.StatusBadRequest, "valid book ID is required"},
		{"JSON格式错误", "/api/books/000000000000000000000001", `{bad`, http.StatusBadRequest, "request body must be valid JSON"},
		{"图书不存在", "/api/books/ffffffffffffffffffffffff", `{"authorName":"x"}`, http.StatusNotFound, "book not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupRouter(t, newMemRepository(), nil)
			createBook(t, h, "Dune", "Frank Herbert")

			w := do(h, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantErr, decode(t, w)["error"])
		})
	}
}

func TestRateLimit(t *testing.T) {
	h := setupRouter(t, newMemRepository(), ratelimit.NewLocal(1, time.Minute, 1))

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/books", "").Code)

	w := do(h, http.MethodGet, "/api/books", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate limit exceeded", decode(t, w)["error"])

	// 健康检查不受限流影响
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/ping", "").Code)
}

func TestRateLimit_ForwardedFor(t *testing.T) {
	getWithXFF := func(h http.Handler, xff string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		req.Header.Set("X-Forwarded-For", xff)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("未配置可信代理时伪造的X-Forwarded-For共用一个配额", func(t *testing.T) {
		limiter := ratelimit.NewLocal(1, time.Minute, 1)
		h := setupRouter(t, newMemRepository(), limiter)

		var codes []int
		for i := 0; i < 5; i++ {
			codes = append(codes, getWithXFF(h, fmt.Sprintf("10.9.9.%d", i)))
		}
		assert.Equal(t, []int{200, 429, 429, 429, 429}, codes)
		assert.Equal(t, 1, limiter.Size(), "只应按连接地址计数")
	})

	t.Run("可信代理转发的客户端IP分别计数", func(t *testing.T) {
		cfg := testConfig()
		// httptest请求的连接地址是192.0.2.1
		cfg.Server.TrustedProxies = []string{"192.0.2.0/24"}
		limiter := ratelimit.NewLocal(1, time.Minute, 1)
		h := newRouter(t, cfg, newMemRepository(), limiter)

		assert.Equal(t, http.StatusOK, getWithXFF(h, "203.0.113.1"))
		assert.Equal(t, http.StatusOK, getWithXFF(h, "203.0.113.2"))
		assert.Equal(t, http.StatusTooManyRequests, getWithXFF(h, "203.0.113.1"))
		assert.Equal(t, 2, limiter.Size())
	})

	t.Run("可信代理配置无效时创建失败", func(t *testing.T) {
		cfg := testConfig()
		cfg.Server.TrustedProxies = []string{"not-an-ip"}
		_, err := router.New(cfg, logger.Discard(), nil, nil, nil)
		assert.Error(t, err)
	})
}

func TestHealth(t *testing.T) {
	repo := newMemRepository()
	h := setupRouter(t, repo, nil)

	w := do(h, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", decode(t, w)["message"])

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/readyz", "").Code)

	repo.err = errors.New("server selection timeout")
	w = do(h, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "database not ready", decode(t, w)["error"])
}

func TestNoRoute(t *testing.T) {
	h := setupRouter(t, newMemRepository(), nil)

	w := do(h, http.MethodGet, "/api/authors", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "route not found", decode(t, w)["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	h := setupRouter(t, newMemRepository(), nil)
	do(h, http.MethodGet, "/api/books", "")

	w := do(h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
