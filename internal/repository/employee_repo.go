package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yog-Raj-sharma/employee-details/internal/model"
	pkgerrors "github.com/yog-Raj-sharma/employee-details/pkg/errors"
)

// EmployeeRepository 员工数据访问接口
type EmployeeRepository interface {
	Create(ctx context.Context, emp *model.Employee) error
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	GetByEmail(ctx context.Context, email string) (*model.Employee, error)
	List(ctx context.Context) ([]model.Employee, error)
	Search(ctx context.Context, query string) ([]model.Employee, error)
	Update(ctx context.Context, emp *model.Employee) error
	Delete(ctx context.Context, id string) (*model.Employee, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	MaxEmployeeID(ctx context.Context) (int, error)
}

// employeeRepo EmployeeRepository 的 GORM 实现
type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo 创建 EmployeeRepository 实例
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) Create(ctx context.Context, emp *model.Employee) error {
	return translateError(r.db.WithContext(ctx).Create(emp).Error)
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, pkgerrors.ErrNotFound
	}
	var emp model.Employee
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&emp).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &emp, nil
}

func (r *employeeRepo) GetByEmail(ctx context.Context, email string) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&emp).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &emp, nil
}

func (r *employeeRepo) List(ctx context.Context) ([]model.Employee, error) {
	emps := make([]model.Employee, 0)
	err := r.db.WithContext(ctx).
		Order("employee_id ASC").
		Find(&emps).Error
	return emps, err
}

// Search 在姓名、邮箱、职位、性别及每门课程中做不区分大小写的子串匹配
func (r *employeeRepo) Search(ctx context.Context, query string) ([]model.Employee, error) {
	pattern := "%" + escapeLike(query) + "%"
	emps := make([]model.Employee, 0)
	err := r.db.WithContext(ctx).
		Where("name ILIKE ? OR email ILIKE ? OR position ILIKE ? OR gender ILIKE ? OR EXISTS (SELECT 1 FROM unnest(courses) AS c WHERE c ILIKE ?)",
			pattern, pattern, pattern, pattern, pattern).
		Order("employee_id ASC").
		Find(&emps).Error
	return emps, err
}

// Update 覆盖可变字段；employee_id 与 created_at 不参与更新
func (r *employeeRepo) Update(ctx context.Context, emp *model.Employee) error {
	if _, err := uuid.Parse(emp.ID); err != nil {
		return pkgerrors.ErrNotFound
	}
	res := r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("id = ?", emp.ID).
		Updates(map[string]interface{}{
			"name":       emp.Name,
			"email":      emp.Email,
			"phone":      emp.Phone,
			"position":   emp.Position,
			"department": emp.Department,
			"gender":     emp.Gender,
			"courses":    emp.Courses,
			"image_path": emp.ImagePath,
		})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}

// Delete 物理删除并返回被删除的记录
func (r *employeeRepo) Delete(ctx context.Context, id string) (*model.Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, pkgerrors.ErrNotFound
	}
	var emp model.Employee
	res := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Delete(&emp)
	if res.Error != nil {
		return nil, translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, pkgerrors.ErrNotFound
	}
	return &emp, nil
}

func (r *employeeRepo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("email = ?", email)
	if _, err := uuid.Parse(excludeID); err == nil {
		db = db.Where("id <> ?", excludeID)
	}
	if err := db.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *employeeRepo) MaxEmployeeID(ctx context.Context) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Select("COALESCE(MAX(employee_id), 0)").
		Scan(&max).Error
	return max, err
}

// escapeLike 转义 LIKE 通配符，使查询串按字面匹配
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
