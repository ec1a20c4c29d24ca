package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	pkgerrors "github.com/yog-Raj-sharma/employee-details/pkg/errors"
)

// Pinger 存储健康检查
type Pinger interface {
	Ping(ctx context.Context) error
}

// Repository 所有 Repository 的聚合入口
// GORM 与 Mongo 两种实现都组装成该结构
type Repository struct {
	Employee EmployeeRepository
	Admin    AdminRepository
	Health   Pinger
}

// NewRepository 创建基于 GORM/PostgreSQL 的 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Employee: NewEmployeeRepo(db),
		Admin:    NewAdminRepo(db),
		Health:   &gormPinger{db: db},
	}
}

type gormPinger struct {
	db *gorm.DB
}

func (p *gormPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// ── 错误翻译 ──

// PostgreSQL 唯一索引名称（见 pkg/database/migrations）
const (
	constraintEmployeeEmail = "uniq_employees_email"
	constraintEmployeeID    = "uniq_employees_employee_id"
	constraintAdminEmail    = "uniq_admins_email"
)

const pgUniqueViolation = "23505"

// translateError 将驱动错误翻译为 pkg/errors 哨兵值
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		switch pgErr.ConstraintName {
		case constraintEmployeeEmail, constraintAdminEmail:
			return pkgerrors.ErrDuplicateEmail
		case constraintEmployeeID:
			return pkgerrors.ErrDuplicateEmployeeID
		}
	}
	return err
}
