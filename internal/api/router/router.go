package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yog-Raj-sharma/employee-details/config"
	"github.com/yog-Raj-sharma/employee-details/internal/api/handler"
	"github.com/yog-Raj-sharma/employee-details/internal/api/middleware"
	"github.com/yog-Raj-sharma/employee-details/pkg/jwt"
)

// Setup 初始化并返回 Gin 路由引擎
// uploadDir 为图片存储目录，以 cfg.Upload.URLPrefix 公开
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, uploadDir string, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders(cfg.Upload.URLPrefix))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", h.Health.Check)

	// ── 上传图片 ──
	r.Static(cfg.Upload.URLPrefix, uploadDir)

	api := r.Group("/api")
	{
		// 员工模块（auth.protect_employees 开启时需要认证）
		employees := api.Group("/employees")
		employees.Use(middleware.OptionalJWTAuth(cfg.Auth.ProtectEmployees, jwtMgr))
		{
			employees.POST("", h.Employee.Create)
			employees.GET("", h.Employee.List)
			employees.GET("/search", h.Employee.Search)
			employees.GET("/check-email", h.Employee.CheckEmail)
			employees.GET("/export", h.Export.ExportEmployees)
			employees.GET("/:id", h.Employee.Get)
			employees.PUT("/:id", h.Employee.Update)
			employees.DELETE("/:id", h.Employee.Delete)
		}

		// 管理员模块
		admin := api.Group("/admin")
		{
			admin.POST("/login", h.Admin.Login)
			admin.GET("", middleware.JWTAuth(jwtMgr), h.Admin.GetSelf)
		}
	}

	return r
}
