package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yog-Raj-sharma/employee-details/pkg/response"
)

// BodyLimit 全局请求体大小限制中间件
// Content-Length 已超限时直接返回 413；未声明长度的请求由 MaxBytesReader 截断，
// 读取方遇到 *http.MaxBytesError 后自行返回 413
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "Request body too large")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
