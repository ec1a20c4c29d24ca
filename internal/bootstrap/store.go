// Package bootstrap 按 db.driver 打开记录存储，供 server 与 empctl 共用
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/yog-Raj-sharma/employee-details/config"
	"github.com/yog-Raj-sharma/employee-details/internal/repository"
	"github.com/yog-Raj-sharma/employee-details/internal/repository/mongorepo"
	"github.com/yog-Raj-sharma/employee-details/pkg/database"
	"github.com/yog-Raj-sharma/employee-details/pkg/mongodb"
)

// Store 已连接的记录存储及其关闭函数
type Store struct {
	Repo  *repository.Repository
	Close func()
}

// OpenStore 连接存储并准备 schema（PostgreSQL 执行迁移，MongoDB 创建唯一索引）
func OpenStore(ctx context.Context, cfg *config.Config, debug bool, logger *zap.Logger) (*Store, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return openPostgres(cfg, debug, logger)
	case config.DriverMongo:
		return openMongo(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("不支持的 db.driver %q", cfg.Database.Driver)
	}
}

func openPostgres(cfg *config.Config, debug bool, logger *zap.Logger) (*Store, error) {
	db, err := database.NewDB(&cfg.Database, debug, logger)
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}
	logger.Info("数据库连接成功", zap.String("driver", config.DriverPostgres))

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return &Store{
		Repo: repository.NewRepository(db),
		Close: func() {
			if err := sqlDB.Close(); err != nil {
				logger.Warn("关闭数据库连接失败", zap.Error(err))
			}
		},
	}, nil
}

// OpenSQL 只建立 PostgreSQL 连接而不执行迁移，供迁移回滚与版本查询使用
func OpenSQL(cfg *config.Config, debug bool, logger *zap.Logger) (*sql.DB, error) {
	if cfg.Database.Driver != config.DriverPostgres {
		return nil, fmt.Errorf("db.driver=%s 不支持该操作，仅 postgres 可用", cfg.Database.Driver)
	}
	db, err := database.NewDB(&cfg.Database, debug, logger)
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}
	return db.DB()
}

func openMongo(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	client, db, err := mongodb.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("MongoDB 连接失败: %w", err)
	}
	if err := mongodb.EnsureIndexes(ctx, db, logger); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("创建索引失败: %w", err)
	}

	return &Store{
		Repo: mongorepo.NewRepository(client, db),
		Close: func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Warn("断开 MongoDB 失败", zap.Error(err))
			}
		},
	}, nil
}
