package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yog-Raj-sharma/employee-details/pkg/jwt"
	"github.com/yog-Raj-sharma/employee-details/pkg/response"
)

// 注入到 gin.Context 的管理员身份键
const (
	AdminIDKey    = "admin_id"
	AdminEmailKey = "admin_email"
)

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证会话 Token，也接受不带 Bearer 前缀的裸 Token
func JWTAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Unauthorized(c, response.CodeUnauthenticated, "Authorization token required")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(token)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token expired"
			}
			response.Unauthorized(c, response.CodeUnauthenticated, msg)
			c.Abort()
			return
		}

		// 将管理员身份注入上下文
		c.Set(AdminIDKey, claims.AdminID)
		c.Set(AdminEmailKey, claims.Email)

		c.Next()
	}
}

// OptionalJWTAuth enabled 为 false 时放行所有请求，否则等同 JWTAuth
func OptionalJWTAuth(enabled bool, jwtMgr *jwt.Manager) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return JWTAuth(jwtMgr)
}

func extractToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 {
		if !strings.EqualFold(parts[0], "Bearer") {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}
	return header
}
