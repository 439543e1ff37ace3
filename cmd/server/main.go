package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/007-sistemas/ponto-cloud/config"
	"github.com/007-sistemas/ponto-cloud/internal/api/handler"
	"github.com/007-sistemas/ponto-cloud/internal/api/router"
	"github.com/007-sistemas/ponto-cloud/internal/broadcast"
	"github.com/007-sistemas/ponto-cloud/internal/cache"
	"github.com/007-sistemas/ponto-cloud/internal/gateway"
	"github.com/007-sistemas/ponto-cloud/internal/reconcile"
	"github.com/007-sistemas/ponto-cloud/internal/service"
	"github.com/007-sistemas/ponto-cloud/pkg/database"
	applogger "github.com/007-sistemas/ponto-cloud/pkg/logger"
	"github.com/007-sistemas/ponto-cloud/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接远端权威库（失败时降级为离线模式，不中断启动）
	var gw gateway.Gateway
	remoteDB, err := database.NewRemoteDB(&cfg.Remote, logger)
	if err != nil {
		logger.Warn("远端数据库连接失败，以离线模式启动", zap.Error(err))
		gw = gateway.NewUnavailable()
	} else {
		gw = gateway.NewPostgresGateway(remoteDB)
	}

	// 4. 打开本地缓存库（缓存不可用则无法提供离线保障，直接失败）
	cacheDB, err := database.NewCacheDB(&cfg.Cache, logger)
	if err != nil {
		logger.Fatal("本地缓存库打开失败", zap.Error(err))
	}
	store, err := cache.NewSQLiteStore(cacheDB)
	if err != nil {
		logger.Fatal("本地缓存初始化失败", zap.Error(err))
	}

	// 5. 连接 Redis（可选：失败时降级为进程内广播）
	var bc broadcast.Broadcaster
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，跨会话变更广播不可用", zap.Error(err))
		rdb = nil
		bc = broadcast.NewLocal()
	} else {
		bc = broadcast.NewRedis(rdb, logger)
	}

	// 6. 启动对账循环
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reconciler := reconcile.New(gw, store, bc, &cfg.Sync, logger)
	go reconciler.Run(ctx)

	// 7. 依赖注入: Service → Handler → Router
	svc := service.NewService(store, reconciler, bc, logger)
	h := handler.NewHandler(svc)
	engine := router.Setup(cfg, h, rdb, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := newServer(fmt.Sprintf(":%d", cfg.Server.Port), engine)

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	<-ctx.Done()
	logger.Info("收到关闭信号，开始优雅关闭...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	if remoteDB != nil {
		if sqlDB, err := remoteDB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if sqlDB, err := cacheDB.DB(); err == nil {
		sqlDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}

// newServer 构造 HTTP 服务器
// /stream 订阅是长连接，全局写超时会在到期时切断所有在途 SSE 推送，
// 因此 WriteTimeout 必须为 0；慢客户端由 ReadTimeout/IdleTimeout 兜底
func newServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:        addr,
		Handler:     h,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
}
