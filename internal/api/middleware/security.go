package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders 安全 HTTP 头中间件
// JSON 接口禁止缓存并拒绝一切内嵌资源；/uploads 下的图片允许被前端跨源引用
func SecurityHeaders(uploadsPrefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if uploadsPrefix != "" && strings.HasPrefix(c.Request.URL.Path, uploadsPrefix+"/") {
			c.Header("Cross-Origin-Resource-Policy", "cross-origin")
			c.Header("Content-Security-Policy", "default-src 'none'; sandbox")
		} else {
			c.Header("X-Frame-Options", "DENY")
			c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			c.Header("Cache-Control", "no-store")
		}

		c.Next()
	}
}
