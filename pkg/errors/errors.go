package errors

import "errors"

// 存储层通用错误，GORM 与 Mongo 两种实现都翻译成这些哨兵值，
// 业务层只依赖这里而不依赖具体驱动的错误类型。
var (
	// ErrNotFound 记录不存在（包括格式非法的 ID）
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail 违反 email 唯一约束
	ErrDuplicateEmail = errors.New("duplicate email")
	// ErrDuplicateEmployeeID 违反 employee_id 唯一约束（并发创建时可能出现）
	ErrDuplicateEmployeeID = errors.New("duplicate employee id")
)
