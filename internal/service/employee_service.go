package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yog-Raj-sharma/employee-details/internal/dto"
	"github.com/yog-Raj-sharma/employee-details/internal/model"
	"github.com/yog-Raj-sharma/employee-details/internal/repository"
	pkgerrors "github.com/yog-Raj-sharma/employee-details/pkg/errors"
	"github.com/yog-Raj-sharma/employee-details/pkg/storage"
)

// ── 员工模块业务错误 ──

var (
	ErrEmployeeNotFound = errors.New("Employee not found")
	ErrEmailExists      = errors.New("Email already exists")
	ErrInvalidEmployee  = errors.New("Invalid employee data")
	ErrUnsupportedImage = errors.New("Only jpg and png images are allowed")
	ErrImageTooLarge    = errors.New("Image is too large")
)

// createAttempts 编号冲突时的最大尝试次数
const createAttempts = 3

// EmployeeService 员工业务接口
type EmployeeService interface {
	Create(ctx context.Context, form *dto.EmployeeForm, image *multipart.FileHeader) (*dto.CreateEmployeeResponse, error)
	Get(ctx context.Context, id string) (*dto.EmployeeResponse, error)
	List(ctx context.Context) ([]dto.EmployeeResponse, error)
	Update(ctx context.Context, id string, form *dto.EmployeeForm, image *multipart.FileHeader) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]dto.EmployeeResponse, error)
	CheckEmail(ctx context.Context, req *dto.CheckEmailRequest) (*dto.CheckEmailResponse, error)
}

type employeeService struct {
	repo   *repository.Repository
	images ImageStore
	logger *zap.Logger
	now    func() time.Time
}

// NewEmployeeService 创建 EmployeeService 实例
func NewEmployeeService(repo *repository.Repository, images ImageStore, logger *zap.Logger) EmployeeService {
	return &employeeService{
		repo:   repo,
		images: images,
		logger: logger,
		now:    time.Now,
	}
}

// ═══════════════════════════════════════════════════════════
// Create 新建员工
// ═══════════════════════════════════════════════════════════
//
// 邮箱唯一由存储层唯一索引保证，这里的预检查只为在保存图片前尽早失败。
// 编号取 max(当前最大编号, 100)+1，并发创建撞到编号唯一索引时重新计算。
// 任何持久化失败都会删除已保存的图片。

func (s *employeeService) Create(ctx context.Context, form *dto.EmployeeForm, image *multipart.FileHeader) (*dto.CreateEmployeeResponse, error) {
	// 1. 校验表单
	emp, err := form.ToEmployee()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEmployee, err)
	}

	// 2. 邮箱预检查
	exists, err := s.repo.Employee.ExistsByEmail(ctx, emp.Email, "")
	if err != nil {
		s.logger.Error("检查邮箱失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	// 3. 保存图片
	if image != nil {
		if emp.ImagePath, err = s.saveImage(image); err != nil {
			return nil, err
		}
	}

	// 4. 分配编号并写入
	for attempt := 1; ; attempt++ {
		current, err := s.repo.Employee.MaxEmployeeID(ctx)
		if err != nil {
			s.logger.Error("查询最大员工编号失败", zap.Error(err))
			s.removeImage(emp.ImagePath)
			return nil, err
		}
		emp.EmployeeID = model.NextEmployeeID(current)
		emp.CreatedAt = s.now()

		err = s.repo.Employee.Create(ctx, emp)
		if err == nil {
			break
		}
		if errors.Is(err, pkgerrors.ErrDuplicateEmployeeID) && attempt < createAttempts {
			s.logger.Warn("员工编号冲突，重试", zap.Int("employee_id", emp.EmployeeID), zap.Int("attempt", attempt))
			continue
		}

		s.removeImage(emp.ImagePath)
		if errors.Is(err, pkgerrors.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		s.logger.Error("创建员工失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("员工已创建",
		zap.String("id", emp.ID),
		zap.Int("employee_id", emp.EmployeeID),
	)

	return &dto.CreateEmployeeResponse{
		Message:    "Employee created successfully",
		DocID:      emp.ID,
		ID:         emp.ID,
		EmployeeID: emp.EmployeeID,
	}, nil
}

func (s *employeeService) Get(ctx context.Context, id string) (*dto.EmployeeResponse, error) {
	emp, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := dto.NewEmployeeResponse(emp)
	return &resp, nil
}

func (s *employeeService) List(ctx context.Context) ([]dto.EmployeeResponse, error) {
	list, err := s.repo.Employee.List(ctx)
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, err
	}
	return dto.NewEmployeeListResponse(list), nil
}

// ═══════════════════════════════════════════════════════════
// Update 更新员工
// ═══════════════════════════════════════════════════════════
//
// employeeId / createdAt / id 不可变；未上传新图片时沿用原图片。
// 成功后删除被替换的旧图片，失败时删除新图片。

func (s *employeeService) Update(ctx context.Context, id string, form *dto.EmployeeForm, image *multipart.FileHeader) error {
	// 1. 查询原记录
	existing, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.String("id", id), zap.Error(err))
		return err
	}

	// 2. 校验表单
	emp, err := form.ToEmployee()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEmployee, err)
	}

	// 3. 新邮箱不得被其他员工占用
	if emp.Email != existing.Email {
		exists, err := s.repo.Employee.ExistsByEmail(ctx, emp.Email, existing.ID)
		if err != nil {
			s.logger.Error("检查邮箱失败", zap.Error(err))
			return err
		}
		if exists {
			return ErrEmailExists
		}
	}

	// 4. 保存新图片
	emp.ImagePath = existing.ImagePath
	newImage := ""
	if image != nil {
		if newImage, err = s.saveImage(image); err != nil {
			return err
		}
		emp.ImagePath = newImage
	}

	emp.ID = existing.ID
	emp.EmployeeID = existing.EmployeeID
	emp.CreatedAt = existing.CreatedAt

	// 5. 写入
	if err := s.repo.Employee.Update(ctx, emp); err != nil {
		s.removeImage(newImage)
		switch {
		case errors.Is(err, pkgerrors.ErrNotFound):
			return ErrEmployeeNotFound
		case errors.Is(err, pkgerrors.ErrDuplicateEmail):
			return ErrEmailExists
		}
		s.logger.Error("更新员工失败", zap.String("id", id), zap.Error(err))
		return err
	}

	// 6. 清理被替换的旧图片
	if newImage != "" && existing.ImagePath != "" && existing.ImagePath != newImage {
		s.removeImage(existing.ImagePath)
	}
	return nil
}

// Delete 物理删除员工，并清理其图片（图片删除失败只记录日志）
func (s *employeeService) Delete(ctx context.Context, id string) error {
	removed, err := s.repo.Employee.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		s.logger.Error("删除员工失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.removeImage(removed.ImagePath)

	s.logger.Info("员工已删除", zap.String("id", id), zap.Int("employee_id", removed.EmployeeID))
	return nil
}

// Search 不区分大小写的子串搜索；空查询返回全部
func (s *employeeService) Search(ctx context.Context, query string) ([]dto.EmployeeResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx)
	}
	list, err := s.repo.Employee.Search(ctx, query)
	if err != nil {
		s.logger.Error("搜索员工失败", zap.String("query", query), zap.Error(err))
		return nil, err
	}
	return dto.NewEmployeeListResponse(list), nil
}

func (s *employeeService) CheckEmail(ctx context.Context, req *dto.CheckEmailRequest) (*dto.CheckEmailResponse, error) {
	exists, err := s.repo.Employee.ExistsByEmail(ctx, strings.TrimSpace(req.Email), req.ExcludeID)
	if err != nil {
		s.logger.Error("检查邮箱失败", zap.Error(err))
		return nil, err
	}
	return &dto.CheckEmailResponse{Exists: exists}, nil
}

// ── 图片辅助 ──

func (s *employeeService) saveImage(fh *multipart.FileHeader) (string, error) {
	p, err := s.images.Save(fh)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUnsupportedType):
			return "", ErrUnsupportedImage
		case errors.Is(err, storage.ErrTooLarge):
			return "", ErrImageTooLarge
		}
		s.logger.Error("保存图片失败", zap.String("filename", fh.Filename), zap.Error(err))
		return "", err
	}
	return p, nil
}

func (s *employeeService) removeImage(publicPath string) {
	if publicPath == "" {
		return
	}
	if err := s.images.Remove(publicPath); err != nil {
		s.logger.Warn("删除图片失败", zap.String("path", publicPath), zap.Error(err))
	}
}
