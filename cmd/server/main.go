package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yog-Raj-sharma/employee-details/config"
	"github.com/yog-Raj-sharma/employee-details/internal/api/handler"
	"github.com/yog-Raj-sharma/employee-details/internal/api/router"
	"github.com/yog-Raj-sharma/employee-details/internal/bootstrap"
	"github.com/yog-Raj-sharma/employee-details/internal/service"
	"github.com/yog-Raj-sharma/employee-details/pkg/jwt"
	applogger "github.com/yog-Raj-sharma/employee-details/pkg/logger"
	"github.com/yog-Raj-sharma/employee-details/pkg/storage"
)

func main() {
	// 0. 读取 .env（不存在时忽略）
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "读取 .env 失败: %v\n", err)
	}

	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("EMPDIR_CONFIG"))
	if err == nil {
		err = cfg.ValidateAuth()
	}
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

	debug := applogger.IsDebug(&cfg.Log)
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("driver", cfg.Database.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接存储并准备 schema
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := bootstrap.OpenStore(connectCtx, cfg, debug, logger)
	cancelConnect()
	if err != nil {
		logger.Fatal("初始化存储失败", zap.Error(err))
	}

	// 4. 图片存储
	images, err := storage.NewLocalStore(&cfg.Upload)
	if err != nil {
		logger.Fatal("初始化图片存储失败", zap.Error(err))
	}

	// 5. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. 依赖注入: Repository → Service → Handler
	svc := service.NewService(store.Repo, images, jwtMgr, logger)
	h := handler.NewHandler(svc, store.Repo.Health)

	// 7. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, images.Dir(), logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr), zap.String("base_url", cfg.Server.BaseURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	store.Close()

	logger.Info("服务器已关闭")
}
