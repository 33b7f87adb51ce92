//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 集成测试辅助函数
// 需要先启动服务和MongoDB：
//
//	docker compose up -d mongo
//	go run ./cmd/api
//	go test -tags=integration ./test/integration/...

const (
	// defaultBaseURL 默认API地址，可通过BOOKCATALOG_BASE_URL覆盖
	defaultBaseURL = "http://localhost:5000/api"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// BaseURL API基础URL
func BaseURL() string {
	if u := os.Getenv("BOOKCATALOG_BASE_URL"); u != "" {
		return u
	}
	return defaultBaseURL
}

// Response 原始响应
type Response struct {
	Status int
	Body   []byte
}

// Decode 将响应体解析到v
func (r *Response) Decode(t *testing.T, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, v), "解析JSON响应失败: %s", string(r.Body))
}

// MessageData 成功提示
type MessageData struct {
	Message string `json:"message"`
}

// ErrorData 错误响应
type ErrorData struct {
	Error string `json:"error"`
}

// CreateData 新增图书响应
type CreateData struct {
	Message string `json:"message"`
	BookID  string `json:"bookId"`
}

// BookItem 图书列表项
type BookItem struct {
	ID         string `json:"id"`
	BookName   string `json:"bookName"`
	AuthorName string `json:"authorName"`
}

// Do 发送请求，data非nil时序列化为JSON请求体
func Do(t *testing.T, method, url string, data interface{}) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewReader(jsonData)
	}
	return DoRaw(t, method, url, body)
}

// DoRaw 发送原始请求体
func DoRaw(t *testing.T, method, url string, body io.Reader) *Response {
	t.Helper()

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	return &Response{Status: resp.StatusCode, Body: respBody}
}

// CreateTestBook 新增测试图书并返回ID，测试结束时删除
func CreateTestBook(t *testing.T, bookName, authorName string) string {
	t.Helper()

	resp := Do(t, http.MethodPost, BaseURL()+"/books", map[string]string{
		"bookName":   bookName,
		"authorName": authorName,
	})
	require.Equal(t, http.StatusCreated, resp.Status, "新增图书失败: %s", string(resp.Body))

	var data CreateData
	resp.Decode(t, &data)
	require.Len(t, data.BookID, 24)

	t.Cleanup(func() {
		// 测试中可能已经删除，忽略404
		DoRaw(t, http.MethodDelete, BaseURL()+"/books/"+data.BookID, nil)
	})
	return data.BookID
}

// FindBook 在列表中查找图书
func FindBook(t *testing.T, id string) (BookItem, bool) {
	t.Helper()

	resp := Do(t, http.MethodGet, BaseURL()+"/books", nil)
	require.Equal(t, http.StatusOK, resp.Status)

	var items []BookItem
	resp.Decode(t, &items)
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return BookItem{}, false
}

// UniqueName 生成唯一的测试书名
func UniqueName(prefix string) string {
	return prefix + "-" + time.Now().Format("150405.000000000")
}
