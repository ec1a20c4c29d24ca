package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yog-Raj-sharma/employee-details/config"
	"github.com/yog-Raj-sharma/employee-details/internal/dto"
	"github.com/yog-Raj-sharma/employee-details/internal/model"
	"github.com/yog-Raj-sharma/employee-details/internal/repository"
	"github.com/yog-Raj-sharma/employee-details/pkg/jwt"
)

// ── 测试辅助 ──

func setupTestAdminService() (AdminService, *mockAdminRepo, *jwt.Manager) {
	adminRepo := newMockAdminRepo()
	repo := &repository.Repository{
		Employee: newMockEmployeeRepo(),
		Admin:    adminRepo,
		Health:   &mockPinger{},
	}
	jwtMgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret: "test-secret-key-for-unit-tests",
		TokenTTL:  time.Hour,
		Issuer:    "employee-details",
	})
	return NewAdminService(repo, jwtMgr, zap.NewNop()), adminRepo, jwtMgr
}

func seedAdmin(t *testing.T, repo *mockAdminRepo, email, password string) *model.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成哈希失败: %v", err)
	}
	admin := &model.Admin{AdminID: "admin-1", Email: email, PasswordHash: string(hash)}
	repo.Create(context.Background(), admin)
	return admin
}

// ── Login 测试 ──

func TestAdminService_Login_Success(t *testing.T) {
	svc, repo, jwtMgr := setupTestAdminService()
	seedAdmin(t, repo, "a@x.com", "p")

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "a@x.com", Password: "p"})
	if err != nil {
		t.Fatalf("Login 失败: %v", err)
	}
	if resp.ExpiresIn != 3600 {
		t.Errorf("期望 expiresIn=3600，实际 %d", resp.ExpiresIn)
	}

	claims, err := jwtMgr.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("签发的 Token 应可解析: %v", err)
	}
	if claims.AdminID != "admin-1" || claims.Email != "a@x.com" {
		t.Errorf("Claims 不符: %+v", claims)
	}
}

func TestAdminService_Login_WrongPassword(t *testing.T) {
	svc, repo, _ := setupTestAdminService()
	seedAdmin(t, repo, "a@x.com", "p")

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "a@x.com", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
	if resp != nil {
		t.Error("失败时不应返回 Token")
	}
}

func TestAdminService_Login_UnknownEmail(t *testing.T) {
	svc, _, _ := setupTestAdminService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "none@x.com", Password: "p"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// ── GetSelf 测试 ──

func TestAdminService_GetSelf(t *testing.T) {
	svc, repo, _ := setupTestAdminService()
	seedAdmin(t, repo, "yraj@example.com", "p")

	resp, err := svc.GetSelf(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("GetSelf 失败: %v", err)
	}
	if resp.Name != "yraj" || resp.Email != "yraj@example.com" {
		t.Errorf("结果不符: %+v", resp)
	}

	if _, err := svc.GetSelf(context.Background(), "gone"); !errors.Is(err, ErrAdminNotFound) {
		t.Errorf("期望 ErrAdminNotFound，实际: %v", err)
	}
}

// ── CreateAdmin 测试 ──

func TestAdminService_CreateAdmin(t *testing.T) {
	svc, repo, _ := setupTestAdminService()
	ctx := context.Background()

	admin, err := svc.CreateAdmin(ctx, " root@x.com ", "s3cret-pass")
	if err != nil {
		t.Fatalf("CreateAdmin 失败: %v", err)
	}
	if admin.Email != "root@x.com" {
		t.Errorf("邮箱应去除空白，实际 %q", admin.Email)
	}
	if admin.PasswordHash == "s3cret-pass" {
		t.Error("密码不应明文保存")
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("s3cret-pass")) != nil {
		t.Error("哈希应能校验原密码")
	}
	if len(repo.admins) != 1 {
		t.Errorf("期望 1 个管理员，实际 %d", len(repo.admins))
	}

	if _, err := svc.CreateAdmin(ctx, "root@x.com", "another-pass"); !errors.Is(err, ErrAdminExists) {
		t.Errorf("重复邮箱期望 ErrAdminExists，实际: %v", err)
	}

	// 新建后可登录
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "root@x.com", Password: "s3cret-pass"}); err != nil {
		t.Errorf("新管理员应能登录: %v", err)
	}
}

func TestAdminService_CreateAdmin_Invalid(t *testing.T) {
	svc, _, _ := setupTestAdminService()

	tests := []struct {
		email    string
		password string
	}{
		{"", "s3cret-pass"},
		{"not-an-email", "s3cret-pass"},
		{"Root <root@x.com>", "s3cret-pass"},
		{"root@", "s3cret-pass"},
		{"a@x.com", "short"},
		{"a@x.com", ""},
		{"a@x.com", strings.Repeat("p", 73)},
	}
	for _, tt := range tests {
		if _, err := svc.CreateAdmin(context.Background(), tt.email, tt.password); !errors.Is(err, ErrInvalidAdmin) {
			t.Errorf("CreateAdmin(%q, %q) 期望 ErrInvalidAdmin，实际: %v", tt.email, tt.password, err)
		}
	}
}
