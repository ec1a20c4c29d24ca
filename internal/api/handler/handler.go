package handler

import (
	"github.com/yog-Raj-sharma/employee-details/internal/repository"
	"github.com/yog-Raj-sharma/employee-details/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Employee *EmployeeHandler
	Admin    *AdminHandler
	Export   *ExportHandler
	Health   *HealthHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, pinger repository.Pinger) *Handler {
	return &Handler{
		Employee: NewEmployeeHandler(svc.Employee),
		Admin:    NewAdminHandler(svc.Admin),
		Export:   NewExportHandler(svc.Export),
		Health:   NewHealthHandler(pinger),
	}
}
