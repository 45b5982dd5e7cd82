package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Department представляет отдел организации
type Department struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"type:varchar(30);uniqueIndex;not null"`
}

// TableName задаёт имя таблицы для GORM
func (Department) TableName() string {
	return "department"
}

// Role представляет должность с окладом, закреплённую за отделом
type Role struct {
	ID           int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	Title        string          `json:"title" gorm:"type:varchar(30);uniqueIndex;not null"`
	Salary       decimal.Decimal `json:"salary" gorm:"type:numeric(12,2);not null"`
	DepartmentID int64           `json:"department_id" gorm:"not null;index"`

	Department *Department `json:"-" gorm:"foreignKey:DepartmentID;constraint:OnDelete:CASCADE"`
}

// TableName задаёт имя таблицы для GORM
func (Role) TableName() string {
	return "role"
}

// Employee представляет сотрудника
type Employee struct {
	ID        int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	FirstName string `json:"first_name" gorm:"type:varchar(30);not null"`
	LastName  string `json:"last_name" gorm:"type:varchar(30);not null"`
	RoleID    int64  `json:"role_id" gorm:"not null;index"`
	ManagerID *int64 `json:"manager_id" gorm:"index"`

	Role    *Role     `json:"-" gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	Manager *Employee `json:"-" gorm:"foreignKey:ManagerID;constraint:OnDelete:SET NULL"`
}

// TableName задаёт имя таблицы для GORM
func (Employee) TableName() string {
	return "employee"
}

// FullName возвращает имя в формате "first last"
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// Validate проверяет обязательные поля отдела
func (d Department) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyDepartmentName
	}
	return nil
}

// Validate проверяет обязательные поля должности
func (r Role) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrEmptyRoleTitle
	}
	return CheckSalary(r.Salary)
}

// Оклад хранится в numeric(12,2)
const salaryScale = 2

var salaryLimit = decimal.New(1, 12-salaryScale)

// CheckSalary проверяет, что оклад положительный и помещается в столбец без округления
func CheckSalary(salary decimal.Decimal) error {
	if !salary.IsPositive() || salary.GreaterThanOrEqual(salaryLimit) {
		return ErrInvalidSalary
	}
	if !salary.Equal(salary.Truncate(salaryScale)) {
		return ErrInvalidSalary
	}
	return nil
}

// Validate проверяет обязательные поля сотрудника
func (e Employee) Validate() error {
	if strings.TrimSpace(e.FirstName) == "" || strings.TrimSpace(e.LastName) == "" {
		return ErrEmptyEmployeeName
	}
	if e.ManagerID != nil && e.ID != 0 && *e.ManagerID == e.ID {
		return ErrSelfManager
	}
	return nil
}

// CheckManager проверяет, что сотрудник не назначается руководителем самому себе
func CheckManager(employeeID int64, managerID *int64) error {
	if managerID != nil && *managerID == employeeID {
		return ErrSelfManager
	}
	return nil
}
