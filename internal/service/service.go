package service

import (
	"mime/multipart"

	"go.uber.org/zap"

	"github.com/yog-Raj-sharma/employee-details/internal/repository"
	"github.com/yog-Raj-sharma/employee-details/pkg/jwt"
)

// ImageStore 员工头像存储
type ImageStore interface {
	// Save 校验并保存上传文件，返回公开访问路径
	Save(fh *multipart.FileHeader) (string, error)
	// Remove 按公开路径删除文件，文件不存在视为成功
	Remove(publicPath string) error
}

// Service 所有 Service 的聚合入口
type Service struct {
	Employee EmployeeService
	Admin    AdminService
	Export   ExportService
}

// NewService 创建 Service 聚合
func NewService(
	repo *repository.Repository,
	images ImageStore,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) *Service {
	return &Service{
		Employee: NewEmployeeService(repo, images, logger),
		Admin:    NewAdminService(repo, jwtMgr, logger),
		Export:   NewExportService(repo, logger),
	}
}
