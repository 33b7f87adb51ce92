package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
)

// @title           Book Catalog API
// @version         1.0
// @description     图书目录服务：图书的新增、列表、局部更新和删除
// @host            localhost:5000
// @BasePath        /

// main 主程序入口
// 依赖通过Wire组装（wire.go → wire_gen.go），收到SIGINT/SIGTERM后优雅关闭
func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "bookcatalog: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// 1. 加载配置
	cfg, err := config.Load(args)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. 依赖注入
	app, cleanup, err := InitializeApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("初始化应用失败: %w", err)
	}
	// cleanup按创建的逆序释放：限流器 → 消息队列 → MongoDB → Tracer → 日志文件
	defer cleanup()

	// 3. 启动服务，阻塞到收到退出信号
	return app.Run(ctx)
}
