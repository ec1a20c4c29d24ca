package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"sort"
	"strings"

	"github.com/yog-Raj-sharma/employee-details/internal/model"
	pkgerrors "github.com/yog-Raj-sharma/employee-details/pkg/errors"
)

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	employees map[string]*model.Employee
	seq       int

	// 测试注入
	createErr   error // 非 nil 时 Create 直接返回
	dupIDTimes  int   // 前 N 次 Create 返回 ErrDuplicateEmployeeID
	createCalls int
	updateErr   error
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[string]*model.Employee)}
}

func (m *mockEmployeeRepo) Create(_ context.Context, emp *model.Employee) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	if m.dupIDTimes > 0 {
		m.dupIDTimes--
		return pkgerrors.ErrDuplicateEmployeeID
	}
	for _, e := range m.employees {
		if e.Email == emp.Email {
			return pkgerrors.ErrDuplicateEmail
		}
		if e.EmployeeID == emp.EmployeeID {
			return pkgerrors.ErrDuplicateEmployeeID
		}
	}
	m.seq++
	emp.ID = fmt.Sprintf("emp-%d", m.seq)
	cp := *emp
	m.employees[emp.ID] = &cp
	return nil
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	if e, ok := m.employees[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, pkgerrors.ErrNotFound
}

func (m *mockEmployeeRepo) GetByEmail(_ context.Context, email string) (*model.Employee, error) {
	for _, e := range m.employees {
		if e.Email == email {
			cp := *e
			return &cp, nil
		}
	}
	return nil, pkgerrors.ErrNotFound
}

func (m *mockEmployeeRepo) List(_ context.Context) ([]model.Employee, error) {
	result := make([]model.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeID < result[j].EmployeeID })
	return result, nil
}

func (m *mockEmployeeRepo) Search(ctx context.Context, query string) ([]model.Employee, error) {
	all, _ := m.List(ctx)
	q := strings.ToLower(query)
	result := make([]model.Employee, 0)
	for _, e := range all {
		fields := append([]string{e.Name, e.Email, string(e.Position), string(e.Gender)}, e.Courses...)
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), q) {
				result = append(result, e)
				break
			}
		}
	}
	return result, nil
}

func (m *mockEmployeeRepo) Update(_ context.Context, emp *model.Employee) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	old, ok := m.employees[emp.ID]
	if !ok {
		return pkgerrors.ErrNotFound
	}
	for id, e := range m.employees {
		if id != emp.ID && e.Email == emp.Email {
			return pkgerrors.ErrDuplicateEmail
		}
	}
	cp := *emp
	cp.EmployeeID = old.EmployeeID
	cp.CreatedAt = old.CreatedAt
	m.employees[emp.ID] = &cp
	return nil
}

func (m *mockEmployeeRepo) Delete(_ context.Context, id string) (*model.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return nil, pkgerrors.ErrNotFound
	}
	delete(m.employees, id)
	return e, nil
}

func (m *mockEmployeeRepo) ExistsByEmail(_ context.Context, email, excludeID string) (bool, error) {
	for id, e := range m.employees {
		if e.Email == email && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEmployeeRepo) MaxEmployeeID(_ context.Context) (int, error) {
	max := 0
	for _, e := range m.employees {
		if e.EmployeeID > max {
			max = e.EmployeeID
		}
	}
	return max, nil
}

// ── Mock AdminRepository ──

type mockAdminRepo struct {
	admins map[string]*model.Admin // key: admin_id
}

func newMockAdminRepo() *mockAdminRepo {
	return &mockAdminRepo{admins: make(map[string]*model.Admin)}
}

func (m *mockAdminRepo) Create(_ context.Context, admin *model.Admin) error {
	for _, a := range m.admins {
		if a.Email == admin.Email {
			return pkgerrors.ErrDuplicateEmail
		}
	}
	if admin.AdminID == "" {
		admin.AdminID = "admin-" + admin.Email
	}
	m.admins[admin.AdminID] = admin
	return nil
}

func (m *mockAdminRepo) GetByID(_ context.Context, id string) (*model.Admin, error) {
	if a, ok := m.admins[id]; ok {
		return a, nil
	}
	return nil, pkgerrors.ErrNotFound
}

func (m *mockAdminRepo) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
	for _, a := range m.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, pkgerrors.ErrNotFound
}

// ── Mock Pinger ──

type mockPinger struct{ err error }

func (p *mockPinger) Ping(_ context.Context) error { return p.err }

// ── Fake ImageStore ──

type fakeImageStore struct {
	saved   []string
	removed []string
	saveErr error
	seq     int
}

func (f *fakeImageStore) Save(fh *multipart.FileHeader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.seq++
	p := fmt.Sprintf("/uploads/%d-%s", f.seq, fh.Filename)
	f.saved = append(f.saved, p)
	return p, nil
}

func (f *fakeImageStore) Remove(publicPath string) error {
	f.removed = append(f.removed, publicPath)
	return nil
}

func (f *fakeImageStore) wasRemoved(p string) bool {
	for _, r := range f.removed {
		if r == p {
			return true
		}
	}
	return false
}
