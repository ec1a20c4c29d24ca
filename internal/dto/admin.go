package dto

// ── 管理员模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateAdminRequest 新建管理员（empctl admin create）
type CreateAdminRequest struct {
	Email    string `binding:"required,email,max=255"`
	Password string `binding:"required,min=8,max=72"` // bcrypt 只使用前 72 字节
}

// LoginResponse 登录成功
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"` // 秒
}

// AdminResponse 当前管理员信息
type AdminResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
