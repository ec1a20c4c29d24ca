package service

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yog-Raj-sharma/employee-details/internal/dto"
	"github.com/yog-Raj-sharma/employee-details/internal/model"
	"github.com/yog-Raj-sharma/employee-details/internal/repository"
	pkgerrors "github.com/yog-Raj-sharma/employee-details/pkg/errors"
	"github.com/yog-Raj-sharma/employee-details/pkg/jwt"
)

// ── 管理员模块业务错误 ──

var (
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrAdminNotFound      = errors.New("Admin not found")
	ErrAdminExists        = errors.New("Admin already exists")
	ErrInvalidAdmin       = errors.New("Invalid admin data")
)

// AdminService 管理员业务接口
type AdminService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	GetSelf(ctx context.Context, adminID string) (*dto.AdminResponse, error)
	CreateAdmin(ctx context.Context, email, password string) (*model.Admin, error)
}

type adminService struct {
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	logger *zap.Logger
}

// NewAdminService 创建 AdminService 实例
func NewAdminService(repo *repository.Repository, jwtMgr *jwt.Manager, logger *zap.Logger) AdminService {
	return &adminService{
		repo:   repo,
		jwtMgr: jwtMgr,
		logger: logger,
	}
}

func (s *adminService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	// 1. 查询管理员
	admin, err := s.repo.Admin.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询管理员失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 签发 Token
	token, err := s.jwtMgr.GenerateToken(admin.AdminID, admin.Email)
	if err != nil {
		s.logger.Error("生成 Token 失败", zap.Error(err))
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: int(s.jwtMgr.TTL().Seconds()),
	}, nil
}

// GetSelf 按 Token 中的管理员 ID 查询，而不是固定邮箱
func (s *adminService) GetSelf(ctx context.Context, adminID string) (*dto.AdminResponse, error) {
	admin, err := s.repo.Admin.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrAdminNotFound
		}
		s.logger.Error("查询管理员失败", zap.String("admin_id", adminID), zap.Error(err))
		return nil, err
	}
	return &dto.AdminResponse{
		Name:  admin.DisplayName(),
		Email: admin.Email,
	}, nil
}

// CreateAdmin 创建管理员（供 empctl 使用），密码以 bcrypt 哈希保存
func (s *adminService) CreateAdmin(ctx context.Context, email, password string) (*model.Admin, error) {
	req := dto.CreateAdminRequest{Email: strings.TrimSpace(email), Password: password}
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		return nil, ErrInvalidAdmin
	}
	email = req.Email

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := &model.Admin{
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.repo.Admin.Create(ctx, admin); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicateEmail) {
			return nil, ErrAdminExists
		}
		s.logger.Error("创建管理员失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("管理员已创建", zap.String("admin_id", admin.AdminID), zap.String("email", admin.Email))
	return admin, nil
}
