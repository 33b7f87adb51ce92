//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	mongostore "github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/mongo"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
	"github.com/xiebiao/bookcatalog/internal/interface/http/router"
)

// ========================================
// Wire Provider Sets
// ========================================

// infrastructureSet 基础设施层依赖：日志、指标与追踪、MongoDB、消息队列、限流
var infrastructureSet = wire.NewSet(
	provideLogger,
	provideTelemetry,
	provideMongoClient,
	provideBookCollection,
	provideEventPublisher,
	provideRateLimiter,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mongostore.NewBookRepository,
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	book.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appbook.NewListBooksUseCase,
	appbook.NewAddBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	provideHealthPinger,
	handler.NewBookHandler,
	handler.NewHealthHandler,
)

// serverSet 路由与HTTP服务
var serverSet = wire.NewSet(
	router.New,
	wire.Bind(new(http.Handler), new(*gin.Engine)),
	provideHTTPServer,
	newApp,
)

// InitializeApp 初始化整个应用
// 返回的cleanup按创建的逆序释放资源
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		handlerSet,
		serverSet,
	)
	return nil, nil, nil
}
