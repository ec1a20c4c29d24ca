package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yog-Raj-sharma/employee-details/internal/dto"
	"github.com/yog-Raj-sharma/employee-details/internal/service"
	"github.com/yog-Raj-sharma/employee-details/pkg/response"
)

// 员工模块错误码
const (
	codeEmployeeNotFound = 12001
	codeEmailExists      = 12002
)

// EmployeeHandler 员工模块 HTTP 处理器
type EmployeeHandler struct {
	employeeSvc service.EmployeeService
}

// NewEmployeeHandler 创建 EmployeeHandler
func NewEmployeeHandler(employeeSvc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeSvc: employeeSvc}
}

// Create 新建员工
// POST /api/employees (multipart/form-data)
func (h *EmployeeHandler) Create(c *gin.Context) {
	form, image, ok := h.bindForm(c)
	if !ok {
		return
	}

	result, err := h.employeeSvc.Create(c.Request.Context(), form, image)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.Created(c, result)
}

// List 员工列表
// GET /api/employees
func (h *EmployeeHandler) List(c *gin.Context) {
	list, err := h.employeeSvc.List(c.Request.Context())
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}
	response.OK(c, list)
}

// Get 员工详情
// GET /api/employees/:id
func (h *EmployeeHandler) Get(c *gin.Context) {
	result, err := h.employeeSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}
	response.OK(c, result)
}

// Update 更新员工
// PUT /api/employees/:id (multipart/form-data，image 可选)
func (h *EmployeeHandler) Update(c *gin.Context) {
	form, image, ok := h.bindForm(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := h.employeeSvc.Update(c.Request.Context(), id, form, image); err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.Message(c, http.StatusOK, response.MessageBody{
		Message: "Employee updated successfully",
		ID:      id,
	})
}

// Delete 删除员工
// DELETE /api/employees/:id
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.employeeSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleEmployeeError(c, err)
		return
	}
	response.Message(c, http.StatusOK, response.MessageBody{Message: "Employee deleted successfully"})
}

// Search 搜索员工
// GET /api/employees/search?query=
func (h *EmployeeHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "Invalid query")
		return
	}

	list, err := h.employeeSvc.Search(c.Request.Context(), req.Query)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}
	response.OK(c, list)
}

// CheckEmail 邮箱是否已被占用
// GET /api/employees/check-email?email=&excludeId=
func (h *EmployeeHandler) CheckEmail(c *gin.Context) {
	var req dto.CheckEmailRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "email is required")
		return
	}

	result, err := h.employeeSvc.CheckEmail(c.Request.Context(), &req)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}
	response.OK(c, result)
}

// bindForm 解析 multipart 表单与可选的 image 文件；失败时已写入响应
func (h *EmployeeHandler) bindForm(c *gin.Context) (*dto.EmployeeForm, *multipart.FileHeader, bool) {
	var form dto.EmployeeForm
	if err := c.ShouldBind(&form); err != nil {
		if isBodyTooLarge(err) {
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "Request body too large")
			return nil, nil, false
		}
		response.BadRequest(c, response.CodeInvalidParams, "Name, email, phone and position are required and email must be valid")
		return nil, nil, false
	}

	image, err := c.FormFile("image")
	switch {
	case err == nil:
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		image = nil
	default:
		response.BadRequest(c, response.CodeInvalidParams, "Invalid image upload")
		return nil, nil, false
	}

	return &form, image, true
}

func (h *EmployeeHandler) handleEmployeeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidEmployee):
		response.BadRequest(c, response.CodeInvalidParams, err.Error())
	case errors.Is(err, service.ErrEmailExists):
		response.BadRequest(c, codeEmailExists, "Email already exists")
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, codeEmployeeNotFound, "Employee not found")
	case errors.Is(err, service.ErrUnsupportedImage):
		response.UnsupportedMediaType(c, "Only jpg and png images are allowed")
	case errors.Is(err, service.ErrImageTooLarge):
		response.BadRequest(c, response.CodeBodyTooLarge, "Image is too large")
	default:
		response.InternalError(c)
	}
}
