package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
)

// App 组装完成的应用
type App struct {
	cfg       *config.Config
	server    *http.Server
	log       *slog.Logger
	telemetry *Telemetry
}

func newApp(cfg *config.Config, server *http.Server, log *slog.Logger, telemetry *Telemetry) *App {
	return &App{
		cfg:       cfg,
		server:    server,
		log:       log,
		telemetry: telemetry,
	}
}

// Run 启动HTTP服务，ctx取消后优雅关闭
// 关闭时先停止接收新请求，等待处理中的请求完成（最多shutdown_timeout）
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http server started",
			"addr", a.server.Addr,
			"mode", a.cfg.Server.Mode,
			"mongo", a.cfg.Mongo.RedactedURI(),
			"database", a.cfg.Mongo.Database,
			"rate_limit", a.cfg.RateLimit.Enabled,
			"tracing", a.telemetry.TracingEnabled,
			"mq", a.cfg.MQ.Enabled,
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP服务启动失败: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down http server", "timeout", a.cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP服务关闭失败: %w", err)
	}
	a.log.Info("http server stopped")
	return nil
}
