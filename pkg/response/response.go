package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 业务错误码
const (
	CodeInvalidParams    = 10001
	CodeUnauthenticated  = 10002
	CodeUnsupportedMedia = 10003
	CodeBodyTooLarge     = 10005
	CodeInternal         = 50000
)

// ErrorBody 错误响应结构，客户端直接展示 error 字段
type ErrorBody struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}

// MessageBody 写操作成功时的提示响应
type MessageBody struct {
	Message    string `json:"message"`
	ID         string `json:"id,omitempty"`
	EmployeeID int    `json:"employeeId,omitempty"`
}

// ── 成功响应 ──

// OK 200 成功响应，data 原样作为响应体
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message 返回 {message} 提示
func Message(c *gin.Context, httpStatus int, body MessageBody) {
	c.JSON(httpStatus, body)
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, ErrorBody{
		Error: message,
		Code:  code,
	})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

// NotFound 404
func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// UnsupportedMediaType 415
func UnsupportedMediaType(c *gin.Context, message string) {
	Error(c, http.StatusUnsupportedMediaType, CodeUnsupportedMedia, message)
}

// InternalError 500，不向客户端暴露内部细节
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternal, "Internal Server Error")
}
