package router

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/xiebiao/bookcatalog/docs" // swagger文档注册
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
	"github.com/xiebiao/bookcatalog/internal/interface/http/middleware"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/ratelimit"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// New 创建Gin引擎并注册全部路由
// limiter为nil时不启用限流
//
// 中间件顺序：Recovery → Tracing → Logger → Metrics → CORS →（/api）RateLimit
// Tracing在Logger之前，访问日志才能带上trace_id
//
// 只信任server.trusted_proxies中的代理，其余请求的X-Forwarded-For被忽略
func New(
	cfg *config.Config,
	log *slog.Logger,
	bookHandler *handler.BookHandler,
	healthHandler *handler.HealthHandler,
	limiter ratelimit.Limiter,
) (*gin.Engine, error) {
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("无效的可信代理配置: %w", err)
	}
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.FromContext(c.Request.Context()).Error("panic recovered", "panic", recovered, "path", c.Request.URL.Path)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "internal server error")
	}))
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing(cfg.Tracing.ServiceName))
	}
	r.Use(middleware.Logger(log))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
	}
	r.Use(middleware.CORS(cfg.CORS))

	// 健康检查
	r.GET("/ping", healthHandler.Ping)
	r.GET("/readyz", healthHandler.Ready)

	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}
	if cfg.Swagger.Enabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api")
	if limiter != nil {
		api.Use(middleware.RateLimit(limiter, cfg.RateLimit.Backend, cfg.RateLimit.Window))
	}

	// 图书模块
	books := api.Group("/books")
	{
		books.GET("", bookHandler.ListBooks)
		books.POST("", bookHandler.CreateBook)
		books.DELETE("/:id", bookHandler.DeleteBook)
		books.PUT("/:id", bookHandler.UpdateBook)
	}

	r.NoRoute(func(c *gin.Context) {
		response.ErrorWithStatus(c, http.StatusNotFound, "route not found")
	})

	return r, nil
}
