// Package mongorepo 基于 MongoDB 的 Repository 实现，与 GORM 实现共用同一组接口
package mongorepo

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/yog-Raj-sharma/employee-details/internal/repository"
	pkgerrors "github.com/yog-Raj-sharma/employee-details/pkg/errors"
	"github.com/yog-Raj-sharma/employee-details/pkg/mongodb"
)

// NewRepository 创建基于 MongoDB 的 Repository 聚合
func NewRepository(client *mongo.Client, db *mongo.Database) *repository.Repository {
	return &repository.Repository{
		Employee: NewEmployeeRepo(db.Collection(mongodb.EmployeesCollection)),
		Admin:    NewAdminRepo(db.Collection(mongodb.AdminsCollection)),
		Health:   &pinger{client: client},
	}
}

type pinger struct {
	client *mongo.Client
}

func (p *pinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, readpref.Primary())
}

// parseID 将十六进制字符串转换为 ObjectID；格式非法视为记录不存在
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, pkgerrors.ErrNotFound
	}
	return oid, nil
}

// translateError 将驱动错误翻译为 pkg/errors 哨兵值
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return pkgerrors.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		switch duplicateIndex(err) {
		case mongodb.IndexEmployeeEmail, mongodb.IndexAdminEmail:
			return pkgerrors.ErrDuplicateEmail
		case mongodb.IndexEmployeeID:
			return pkgerrors.ErrDuplicateEmployeeID
		}
	}
	return err
}

// duplicateIndex 从 E11000 错误信息中提取冲突的索引名
// 信息形如: E11000 duplicate key error collection: db.employees index: uniq_employees_email dup key: {...}
func duplicateIndex(err error) string {
	msg := err.Error()
	var we mongo.WriteException
	if errors.As(err, &we) && len(we.WriteErrors) > 0 {
		msg = we.WriteErrors[0].Message
	}
	for _, name := range []string{mongodb.IndexEmployeeEmail, mongodb.IndexEmployeeID, mongodb.IndexAdminEmail} {
		if strings.Contains(msg, "index: "+name+" ") {
			return name
		}
	}
	return ""
}
