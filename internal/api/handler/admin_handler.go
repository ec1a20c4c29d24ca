package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yog-Raj-sharma/employee-details/internal/dto"
	"github.com/yog-Raj-sharma/employee-details/internal/service"
	"github.com/yog-Raj-sharma/employee-details/pkg/response"
)

// 管理员模块错误码
const (
	codeInvalidCredentials = 11001
	codeAdminNotFound      = 11002
)

// AdminHandler 管理员模块 HTTP 处理器
type AdminHandler struct {
	adminSvc service.AdminService
}

// NewAdminHandler 创建 AdminHandler
func NewAdminHandler(adminSvc service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// Login 管理员登录
// POST /api/admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "email and password are required")
		return
	}

	result, err := h.adminSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAdminError(c, err)
		return
	}

	response.OK(c, result)
}

// GetSelf 当前管理员信息
// GET /api/admin
func (h *AdminHandler) GetSelf(c *gin.Context) {
	adminID, ok := MustGetAdminID(c)
	if !ok {
		return
	}

	result, err := h.adminSvc.GetSelf(c.Request.Context(), adminID)
	if err != nil {
		h.handleAdminError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *AdminHandler) handleAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, codeInvalidCredentials, "Invalid email or password")
	case errors.Is(err, service.ErrAdminNotFound):
		response.NotFound(c, codeAdminNotFound, "Admin not found")
	default:
		response.InternalError(c)
	}
}
