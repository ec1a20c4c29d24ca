package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/yog-Raj-sharma/employee-details/internal/repository"
)

// ErrExportGenerateFail 生成 Excel 失败
var ErrExportGenerateFail = errors.New("Failed to generate spreadsheet")

const exportSheet = "Employees"

var exportHeaders = []string{
	"Employee ID", "Name", "Email", "Phone", "Position",
	"Department", "Gender", "Courses", "Image", "Created At",
}

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportEmployees 导出全部员工为 Excel，返回内容与建议文件名
	ExportEmployees(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

// ═══════════════════════════════════════════════════════════
// ExportEmployees 导出员工名录
// ═══════════════════════════════════════════════════════════
//
// 单个 Sheet "Employees"：首行表头，其后每名员工一行，按 employeeId 升序。
// 空名录也导出（仅表头）。

func (s *exportService) ExportEmployees(ctx context.Context) (*bytes.Buffer, string, error) {
	list, err := s.repo.Employee.List(ctx)
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, "", s.fail(err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return nil, "", s.fail(err)
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, h)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	f.SetCellStyle(exportSheet, "A1", lastCol+"1", headerStyle)
	f.SetColWidth(exportSheet, "A", "A", 12)
	f.SetColWidth(exportSheet, "B", lastCol, 20)

	for r, e := range list {
		row := []interface{}{
			e.EmployeeID,
			e.Name,
			e.Email,
			e.Phone,
			string(e.Position),
			e.Department,
			string(e.Gender),
			strings.Join(e.Courses, ", "),
			e.ImagePath,
			e.CreatedAt.UTC().Format(time.RFC3339),
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, "", s.fail(err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", s.fail(err)
	}

	filename := fmt.Sprintf("employees-%s.xlsx", s.now().Format("20060102"))
	return buf, filename, nil
}

func (s *exportService) fail(err error) error {
	s.logger.Error("生成 Excel 失败", zap.Error(err))
	return fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
}
