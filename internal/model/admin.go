package model

import (
	"strings"
	"time"
)

// Admin 管理员表，对应 admins
type Admin struct {
	AdminID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"          json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"                     json:"-"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;<-:create"   json:"createdAt"`
}

// TableName 指定表名
func (Admin) TableName() string { return "admins" }

// DisplayName 展示名取邮箱 @ 之前的部分
func (a *Admin) DisplayName() string {
	if i := strings.IndexByte(a.Email, '@'); i >= 0 {
		return a.Email[:i]
	}
	return a.Email
}
