package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/yog-Raj-sharma/employee-details/config"
)

// 集合名称
const (
	EmployeesCollection = "employees"
	AdminsCollection    = "admins"
)

// 唯一索引名称，仓储层据此区分违反的是哪个约束
const (
	IndexEmployeeEmail = "uniq_employees_email"
	IndexEmployeeID    = "uniq_employees_employee_id"
	IndexAdminEmail    = "uniq_admins_email"
)

// EmployeeIndexes employees 集合索引
var EmployeeIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName(IndexEmployeeEmail).SetUnique(true),
	},
	{
		Keys:    bson.D{{Key: "employeeId", Value: 1}},
		Options: options.Index().SetName(IndexEmployeeID).SetUnique(true),
	},
}

// AdminIndexes admins 集合索引
var AdminIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName(IndexAdminEmail).SetUnique(true),
	},
}

// Connect 连接 MongoDB 并执行 Ping 健康检查
func Connect(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("连接 MongoDB 失败: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("MongoDB ping 失败: %w", err)
	}

	logger.Info("MongoDB 连接成功", zap.String("database", cfg.MongoDatabase))

	return client, client.Database(cfg.MongoDatabase), nil
}

// EnsureIndexes 创建唯一索引（幂等），相当于 PostgreSQL 侧的迁移
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if _, err := db.Collection(EmployeesCollection).Indexes().CreateMany(ctx, EmployeeIndexes); err != nil {
		return fmt.Errorf("创建 employees 索引失败: %w", err)
	}
	if _, err := db.Collection(AdminsCollection).Indexes().CreateMany(ctx, AdminIndexes); err != nil {
		return fmt.Errorf("创建 admins 索引失败: %w", err)
	}
	logger.Info("MongoDB 索引已就绪")
	return nil
}
