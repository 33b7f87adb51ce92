package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// Pinger 依赖健康检查接口（book.Repository实现了它）
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler 健康检查处理器
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Ping 存活检查
// @Summary  存活检查
// @Tags     健康检查
// @Produce  json
// @Success  200 {object} response.MessageBody
// @Router   /ping [get]
func (h *HealthHandler) Ping(c *gin.Context) {
	response.Message(c, "pong")
}

// Ready 就绪检查，MongoDB不可用时返回503
// @Summary  就绪检查
// @Tags     健康检查
// @Produce  json
// @Success  200 {object} response.MessageBody
// @Failure  503 {object} response.ErrorBody
// @Router   /readyz [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.FromContext(c.Request.Context()).Warn("readiness check failed", "error", err)
		response.ErrorWithStatus(c, http.StatusServiceUnavailable, "database not ready")
		return
	}
	response.Message(c, "ready")
}
