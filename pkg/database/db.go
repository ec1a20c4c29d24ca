package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yog-Raj-sharma/employee-details/config"
)

// 启动时数据库可能尚未就绪（如 docker compose 同时拉起），ping 失败后有限次重试
const (
	pingAttempts = 5
	pingBackoff  = 2 * time.Second
)

// NewDB 初始化 PostgreSQL 连接池，GORM 日志写入 zap
// debug 为 true 时记录全部 SQL，否则只记录慢查询与错误
func NewDB(cfg *config.DatabaseConfig, debug bool, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:               newGormLogger(logger, debug),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 25
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 10
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	}

	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = sqlDB.PingContext(ctx)
		cancel()
		if err == nil {
			break
		}
		if attempt == pingAttempts {
			sqlDB.Close()
			return nil, fmt.Errorf("数据库 ping 失败: %w", err)
		}
		logger.Warn("数据库暂不可用，稍后重试",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", pingBackoff),
			zap.Error(err),
		)
		time.Sleep(pingBackoff)
	}

	logger.Info("PostgreSQL 已连接",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("dbname", cfg.Name),
	)

	return db, nil
}
