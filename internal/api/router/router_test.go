package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yog-Raj-sharma/employee-details/config"
	"github.com/yog-Raj-sharma/employee-details/internal/api/handler"
	"github.com/yog-Raj-sharma/employee-details/internal/model"
	"github.com/yog-Raj-sharma/employee-details/internal/repository"
	"github.com/yog-Raj-sharma/employee-details/internal/service"
	pkgerrors "github.com/yog-Raj-sharma/employee-details/pkg/errors"
	"github.com/yog-Raj-sharma/employee-details/pkg/jwt"
	"github.com/yog-Raj-sharma/employee-details/pkg/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── 内存仓储 ──

type memEmployeeRepo struct {
	items []*model.Employee
	seq   int
}

func (m *memEmployeeRepo) find(id string) int {
	for i, e := range m.items {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (m *memEmployeeRepo) Create(_ context.Context, emp *model.Employee) error {
	for _, e := range m.items {
		if e.Email == emp.Email {
			return pkgerrors.ErrDuplicateEmail
		}
	}
	m.seq++
	emp.ID = fmt.Sprintf("e%d", m.seq)
	cp := *emp
	m.items = append(m.items, &cp)
	return nil
}

func (m *memEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	if i := m.find(id); i >= 0 {
		cp := *m.items[i]
		return &cp, nil
	}
	return nil, pkgerrors.ErrNotFound
}

func (m *memEmployeeRepo) GetByEmail(_ context.Context, email string) (*model.Employee, error) {
	for _, e := range m.items {
		if e.Email == email {
			cp := *e
			return &cp, nil
		}
	}
	return nil, pkgerrors.ErrNotFound
}

func (m *memEmployeeRepo) List(_ context.Context) ([]model.Employee, error) {
	out := make([]model.Employee, 0, len(m.items))
	for _, e := range m.items {
		out = append(out, *e)
	}
	return out, nil
}

func (m *memEmployeeRepo) Search(ctx context.Context, query string) ([]model.Employee, error) {
	out := make([]model.Employee, 0)
	q := strings.ToLower(query)
	for _, e := range m.items {
		hay := strings.ToLower(strings.Join(append([]string{e.Name, e.Email, string(e.Position), string(e.Gender)}, e.Courses...), "\x00"))
		if strings.Contains(hay, q) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memEmployeeRepo) Update(_ context.Context, emp *model.Employee) error {
	i := m.find(emp.ID)
	if i < 0 {
		return pkgerrors.ErrNotFound
	}
	cp := *emp
	m.items[i] = &cp
	return nil
}

func (m *memEmployeeRepo) Delete(_ context.Context, id string) (*model.Employee, error) {
	i := m.find(id)
	if i < 0 {
		return nil, pkgerrors.ErrNotFound
	}
	e := m.items[i]
	m.items = append(m.items[:i], m.items[i+1:]...)
	return e, nil
}

func (m *memEmployeeRepo) ExistsByEmail(_ context.Context, email, excludeID string) (bool, error) {
	for _, e := range m.items {
		if e.Email == email && e.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memEmployeeRepo) MaxEmployeeID(_ context.Context) (int, error) {
	current := 0
	for _, e := range m.items {
		if e.EmployeeID > current {
			current = e.EmployeeID
		}
	}
	return current, nil
}

type memAdminRepo struct {
	admins []*model.Admin
}

func (m *memAdminRepo) Create(_ context.Context, a *model.Admin) error {
	a.AdminID = fmt.Sprintf("admin-%d", len(m.admins)+1)
	m.admins = append(m.admins, a)
	return nil
}

func (m *memAdminRepo) GetByID(_ context.Context, id string) (*model.Admin, error) {
	for _, a := range m.admins {
		if a.AdminID == id {
			return a, nil
		}
	}
	return nil, pkgerrors.ErrNotFound
}

func (m *memAdminRepo) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
	for _, a := range m.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, pkgerrors.ErrNotFound
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

// ── 测试辅助 ──

type testServer struct {
	engine    *gin.Engine
	jwtMgr    *jwt.Manager
	admins    *memAdminRepo
	uploadDir string
}

func newTestServer(t *testing.T, protect bool) *testServer {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{MaxBodyBytes: 1 << 20, CORS: config.CORSConfig{AllowOrigins: []string{"http://localhost:3000"}}},
		Auth:   config.AuthConfig{JWTSecret: "router-test-secret-key", TokenTTL: time.Hour, Issuer: "employee-details", ProtectEmployees: protect},
		Upload: config.UploadConfig{Dir: filepath.Join(t.TempDir(), "uploads"), URLPrefix: "/uploads", MaxSize: 1 << 16},
	}
	store, err := storage.NewLocalStore(&cfg.Upload)
	if err != nil {
		t.Fatalf("NewLocalStore 失败: %v", err)
	}

	admins := &memAdminRepo{}
	repo := &repository.Repository{Employee: &memEmployeeRepo{}, Admin: admins, Health: okPinger{}}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := service.NewService(repo, store, jwtMgr, zap.NewNop())
	h := handler.NewHandler(svc, repo.Health)

	return &testServer{
		engine:    Setup(cfg, h, jwtMgr, store.Dir(), zap.NewNop()),
		jwtMgr:    jwtMgr,
		admins:    admins,
		uploadDir: store.Dir(),
	}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func employeeForm(t *testing.T, email string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("name", "Shreya")
	w.WriteField("email", email)
	w.WriteField("phone", "9999999999")
	w.WriteField("position", "HR")
	w.WriteField("gender", "F")
	w.WriteField("courses", `["MCA","BSC"]`)
	if withImage {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{`form-data; name="image"; filename="avatar.png"`}
		h["Content-Type"] = []string{"image/png"}
		part, _ := w.CreatePart(h)
		part.Write(append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...))
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

// ── 测试 ──

func TestAdminLoginAndSelf(t *testing.T) {
	s := newTestServer(t, false)
	hash, _ := bcrypt.GenerateFromPassword([]byte("p"), bcrypt.MinCost)
	s.admins.Create(context.Background(), &model.Admin{Email: "a@x.com", PasswordHash: string(hash)})

	// 错误密码
	req := httptest.NewRequest("POST", "/api/admin/login", strings.NewReader(`{"email":"a@x.com","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	if w := s.do(req); w.Code != http.StatusUnauthorized {
		t.Fatalf("错误密码期望 401，实际 %d", w.Code)
	}

	// 正确密码
	req = httptest.NewRequest("POST", "/api/admin/login", strings.NewReader(`{"email":"a@x.com","password":"p"}`))
	req.Header.Set("Content-Type", "application/json")
	w := s.do(req)
	if w.Code != http.StatusOK {
		t.Fatalf("登录期望 200，实际 %d: %s", w.Code, w.Body.String())
	}
	var login struct {
		Token string `json:"token"`
	}
	json.Unmarshal(w.Body.Bytes(), &login)

	// 无 Token
	if w := s.do(httptest.NewRequest("GET", "/api/admin", nil)); w.Code != http.StatusUnauthorized {
		t.Errorf("无 Token 期望 401，实际 %d", w.Code)
	}

	// 携带 Token
	req = httptest.NewRequest("GET", "/api/admin", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w = s.do(req)
	if w.Code != http.StatusOK {
		t.Fatalf("GetSelf 期望 200，实际 %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"name":"a"`) {
		t.Errorf("期望 name=a，实际 %s", w.Body.String())
	}

	// 管理员已删除
	s.admins.admins = nil
	w = s.do(req)
	if w.Code != http.StatusNotFound {
		t.Errorf("管理员不存在期望 404，实际 %d", w.Code)
	}
}

func TestEmployeeLifecycle(t *testing.T) {
	s := newTestServer(t, false)

	// 创建（带图片）
	body, ct := employeeForm(t, "s@x.com", true)
	req := httptest.NewRequest("POST", "/api/employees", body)
	req.Header.Set("Content-Type", ct)
	w := s.do(req)
	if w.Code != http.StatusCreated {
		t.Fatalf("创建期望 201，实际 %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		ID         string `json:"id"`
		EmployeeID int    `json:"employeeId"`
	}
	json.Unmarshal(w.Body.Bytes(), &created)
	if created.EmployeeID != 101 {
		t.Errorf("期望 employeeId=101，实际 %d", created.EmployeeID)
	}

	// 同邮箱再次创建
	body, ct = employeeForm(t, "s@x.com", false)
	req = httptest.NewRequest("POST", "/api/employees", body)
	req.Header.Set("Content-Type", ct)
	if w := s.do(req); w.Code != http.StatusBadRequest {
		t.Errorf("重复邮箱期望 400，实际 %d", w.Code)
	}

	// 详情与图片可访问
	w = s.do(httptest.NewRequest("GET", "/api/employees/"+created.ID, nil))
	var emp struct {
		ImagePath string   `json:"imagePath"`
		Courses   []string `json:"courses"`
	}
	json.Unmarshal(w.Body.Bytes(), &emp)
	if !strings.HasPrefix(emp.ImagePath, "/uploads/") || len(emp.Courses) != 2 {
		t.Fatalf("详情不符: %s", w.Body.String())
	}
	if w := s.do(httptest.NewRequest("GET", emp.ImagePath, nil)); w.Code != http.StatusOK {
		t.Errorf("图片期望 200，实际 %d", w.Code)
	}

	// 搜索
	w = s.do(httptest.NewRequest("GET", "/api/employees/search?query=hr", nil))
	if !strings.Contains(w.Body.String(), created.ID) {
		t.Errorf("搜索 hr 应命中: %s", w.Body.String())
	}

	// 导出
	if w := s.do(httptest.NewRequest("GET", "/api/employees/export", nil)); w.Code != http.StatusOK {
		t.Errorf("导出期望 200，实际 %d", w.Code)
	}

	// 删除后图片一并删除
	if w := s.do(httptest.NewRequest("DELETE", "/api/employees/"+created.ID, nil)); w.Code != http.StatusOK {
		t.Fatalf("删除期望 200，实际 %d", w.Code)
	}
	if _, err := os.Stat(filepath.Join(s.uploadDir, filepath.Base(emp.ImagePath))); !os.IsNotExist(err) {
		t.Error("删除员工后图片文件应被删除")
	}
	if w := s.do(httptest.NewRequest("DELETE", "/api/employees/"+created.ID, nil)); w.Code != http.StatusNotFound {
		t.Errorf("重复删除期望 404，实际 %d", w.Code)
	}
}

func TestEmployee_UnsupportedImage(t *testing.T) {
	s := newTestServer(t, false)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("name", "A")
	mw.WriteField("email", "a@x.com")
	mw.WriteField("phone", "1")
	mw.WriteField("position", "Sales")
	part, _ := mw.CreateFormFile("image", "doc.pdf")
	part.Write([]byte("%PDF-1.4"))
	mw.Close()

	req := httptest.NewRequest("POST", "/api/employees", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if w := s.do(req); w.Code != http.StatusUnsupportedMediaType {
		t.Errorf("非图片期望 415，实际 %d", w.Code)
	}

	if w := s.do(httptest.NewRequest("GET", "/api/employees", nil)); strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("被拒绝的请求不应创建记录: %s", w.Body.String())
	}
}

func TestProtectEmployees(t *testing.T) {
	s := newTestServer(t, true)

	if w := s.do(httptest.NewRequest("GET", "/api/employees", nil)); w.Code != http.StatusUnauthorized {
		t.Errorf("开启保护后无 Token 期望 401，实际 %d", w.Code)
	}

	token, _ := s.jwtMgr.GenerateToken("admin-1", "a@x.com")
	req := httptest.NewRequest("GET", "/api/employees", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if w := s.do(req); w.Code != http.StatusOK {
		t.Errorf("携带 Token 期望 200，实际 %d", w.Code)
	}

	if w := s.do(httptest.NewRequest("GET", "/health", nil)); w.Code != http.StatusOK {
		t.Errorf("/health 不需要认证，实际 %d", w.Code)
	}
}

// 前端以列表/搜索结果中的 _id 拼接编辑与删除地址
func TestEmployee_RecordKeyDrivesEditAndDelete(t *testing.T) {
	s := newTestServer(t, false)

	body, ct := employeeForm(t, "k@x.com", false)
	req := httptest.NewRequest("POST", "/api/employees", body)
	req.Header.Set("Content-Type", ct)
	w := s.do(req)
	if w.Code != http.StatusCreated {
		t.Fatalf("创建期望 201，实际 %d", w.Code)
	}
	var created map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &created)
	if created["_id"] == nil || created["_id"] != created["id"] {
		t.Errorf("创建响应应同时包含相同的 _id 与 id: %v", created)
	}

	for _, path := range []string{"/api/employees", "/api/employees/search?query=shreya"} {
		w := s.do(httptest.NewRequest("GET", path, nil))
		var list []map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil || len(list) != 1 {
			t.Fatalf("%s 期望 1 条记录，实际 %s", path, w.Body.String())
		}
		key, ok := list[0]["_id"].(string)
		if !ok || key == "" {
			t.Fatalf("%s 记录缺少 _id: %v", path, list[0])
		}
		if key != list[0]["id"] {
			t.Errorf("%s 中 _id 与 id 应一致: %v", path, list[0])
		}
	}

	w = s.do(httptest.NewRequest("GET", "/api/employees", nil))
	var list []map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &list)
	key := list[0]["_id"].(string)

	body, ct = employeeForm(t, "k2@x.com", false)
	req = httptest.NewRequest("PUT", "/api/employees/"+key, body)
	req.Header.Set("Content-Type", ct)
	if w := s.do(req); w.Code != http.StatusOK {
		t.Errorf("按 _id 更新期望 200，实际 %d: %s", w.Code, w.Body.String())
	}
	if w := s.do(httptest.NewRequest("DELETE", "/api/employees/"+key, nil)); w.Code != http.StatusOK {
		t.Errorf("按 _id 删除期望 200，实际 %d", w.Code)
	}
}
