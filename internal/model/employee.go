package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidEnum 枚举取值非法
var ErrInvalidEnum = errors.New("invalid enum value")

// EmployeeIDBase 员工编号基数，首个员工编号为 EmployeeIDBase+1
const EmployeeIDBase = 100

// ── 职位 ──

// Position 员工职位
type Position string

const (
	PositionHR      Position = "HR"
	PositionManager Position = "Manager"
	PositionSales   Position = "Sales"
)

// Positions 全部合法职位（按展示顺序）
var Positions = []Position{PositionHR, PositionManager, PositionSales}

// ParsePosition 解析职位，大小写需严格匹配
func ParsePosition(s string) (Position, error) {
	for _, p := range Positions {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: position %q", ErrInvalidEnum, s)
}

// ── 性别 ──

// Gender 员工性别，空值表示未填写
type Gender string

const (
	GenderUnspecified Gender = ""
	GenderMale        Gender = "M"
	GenderFemale      Gender = "F"
)

// ParseGender 解析性别，允许为空
func ParseGender(s string) (Gender, error) {
	switch Gender(s) {
	case GenderUnspecified, GenderMale, GenderFemale:
		return Gender(s), nil
	}
	return "", fmt.Errorf("%w: gender %q", ErrInvalidEnum, s)
}

// ── 课程 ──

// Course 员工学历课程
type Course string

const (
	CourseMCA Course = "MCA"
	CourseBCA Course = "BCA"
	CourseBSC Course = "BSC"
)

// ParseCourses 校验课程集合：元素必须合法，重复项只保留第一次出现，顺序不变
func ParseCourses(values []string) (StringArray, error) {
	result := make(StringArray, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		switch Course(v) {
		case CourseMCA, CourseBCA, CourseBSC:
		default:
			return nil, fmt.Errorf("%w: course %q", ErrInvalidEnum, v)
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		result = append(result, v)
	}
	return result, nil
}

// Employee 员工表，对应 employees
// EmployeeID 与 CreatedAt 仅在创建时写入
type Employee struct {
	ID         string      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmployeeID int         `gorm:"column:employee_id;not null;uniqueIndex;<-:create"         json:"employeeId"`
	Name       string      `gorm:"type:varchar(100);not null"                                json:"name"`
	Email      string      `gorm:"type:varchar(255);not null;uniqueIndex"                    json:"email"`
	Phone      string      `gorm:"type:varchar(30);not null"                                 json:"phone"`
	Position   Position    `gorm:"type:varchar(20);not null"                                 json:"position"`
	Department string      `gorm:"type:varchar(100);not null;default:''"                     json:"department"`
	Gender     Gender      `gorm:"type:varchar(1);not null;default:''"                       json:"gender"`
	Courses    StringArray `gorm:"type:text[];not null;default:'{}'"                         json:"courses"`
	ImagePath  string      `gorm:"type:varchar(500);not null;default:''"                     json:"imagePath"`
	CreatedAt  time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP;<-:create"              json:"createdAt"`
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// NextEmployeeID 根据当前最大编号计算下一个编号：空表时为 EmployeeIDBase+1
func NextEmployeeID(currentMax int) int {
	if currentMax < EmployeeIDBase {
		currentMax = EmployeeIDBase
	}
	return currentMax + 1
}
