package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yog-Raj-sharma/employee-details/internal/model"
)

// ErrInvalidForm 表单字段缺失或格式错误
var ErrInvalidForm = errors.New("invalid employee form")

// ── 员工模块 DTO ──

// EmployeeForm 创建/更新员工的 multipart 表单（image 文件由 handler 单独读取）
type EmployeeForm struct {
	Name       string   `form:"name"       binding:"required,max=100"`
	Email      string   `form:"email"      binding:"required,email,max=255"`
	Phone      string   `form:"phone"      binding:"required,max=30"`
	Position   string   `form:"position"   binding:"required"`
	Department string   `form:"department" binding:"max=100"`
	Gender     string   `form:"gender"`
	Courses    []string `form:"courses"`
}

// ToEmployee 校验枚举并转换为模型字段；不设置 ID、EmployeeID、ImagePath、CreatedAt
func (f *EmployeeForm) ToEmployee() (*model.Employee, error) {
	name := strings.TrimSpace(f.Name)
	email := strings.TrimSpace(f.Email)
	phone := strings.TrimSpace(f.Phone)
	if name == "" || email == "" || phone == "" {
		return nil, fmt.Errorf("%w: name, email and phone are required", ErrInvalidForm)
	}

	position, err := model.ParsePosition(strings.TrimSpace(f.Position))
	if err != nil {
		return nil, fmt.Errorf("%w: position must be one of HR, Manager, Sales", ErrInvalidForm)
	}
	gender, err := model.ParseGender(strings.TrimSpace(f.Gender))
	if err != nil {
		return nil, fmt.Errorf("%w: gender must be M or F", ErrInvalidForm)
	}

	raw, err := splitCourses(f.Courses)
	if err != nil {
		return nil, err
	}
	courses, err := model.ParseCourses(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: courses must be drawn from MCA, BCA, BSC", ErrInvalidForm)
	}

	return &model.Employee{
		Name:       name,
		Email:      email,
		Phone:      phone,
		Position:   position,
		Department: strings.TrimSpace(f.Department),
		Gender:     gender,
		Courses:    courses,
	}, nil
}

// splitCourses 兼容两种提交方式：单个 JSON 数组字符串，或多个同名表单值
func splitCourses(values []string) ([]string, error) {
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var arr []string
		if err := json.Unmarshal([]byte(values[0]), &arr); err != nil {
			return nil, fmt.Errorf("%w: courses is not a valid JSON array", ErrInvalidForm)
		}
		values = arr
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

// SearchRequest 搜索参数，query 为空时返回全部
type SearchRequest struct {
	Query string `form:"query"`
}

// CheckEmailRequest 邮箱占用检查参数
type CheckEmailRequest struct {
	Email     string `form:"email"     binding:"required"`
	ExcludeID string `form:"excludeId"`
}

// ── 员工模块响应 ──

// EmployeeResponse 员工信息
// 存储主键同时以 _id 与 id 输出，前端以 _id 拼接编辑/删除地址
type EmployeeResponse struct {
	DocID      string   `json:"_id"`
	ID         string   `json:"id"`
	EmployeeID int      `json:"employeeId"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Position   string   `json:"position"`
	Department string   `json:"department"`
	Gender     string   `json:"gender"`
	Courses    []string `json:"courses"`
	ImagePath  string   `json:"imagePath"`
	CreatedAt  string   `json:"createdAt"`
}

// NewEmployeeResponse 从模型构建响应
func NewEmployeeResponse(e *model.Employee) EmployeeResponse {
	courses := make([]string, 0, len(e.Courses))
	courses = append(courses, e.Courses...)
	return EmployeeResponse{
		DocID:      e.ID,
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		Name:       e.Name,
		Email:      e.Email,
		Phone:      e.Phone,
		Position:   string(e.Position),
		Department: e.Department,
		Gender:     string(e.Gender),
		Courses:    courses,
		ImagePath:  e.ImagePath,
		CreatedAt:  e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// NewEmployeeListResponse 批量转换，空结果返回 [] 而不是 null
func NewEmployeeListResponse(list []model.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(list))
	for i := range list {
		out = append(out, NewEmployeeResponse(&list[i]))
	}
	return out
}

// CreateEmployeeResponse 创建成功
type CreateEmployeeResponse struct {
	Message    string `json:"message"`
	DocID      string `json:"_id"`
	ID         string `json:"id"`
	EmployeeID int    `json:"employeeId"`
}

// CheckEmailResponse 邮箱占用检查结果
type CheckEmailResponse struct {
	Exists bool `json:"exists"`
}
