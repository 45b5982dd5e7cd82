package repository

import (
	"context"

	"github.com/employee-tracker/internal/domain"
	"github.com/shopspring/decimal"
)

// DepartmentRepository определяет интерфейс для работы с отделами
type DepartmentRepository interface {
	CreateDepartment(ctx context.Context, name string) (*domain.Department, error)
	GetDepartment(ctx context.Context, id int64) (*domain.Department, error)
	// ListDepartments возвращает отделы по возрастанию id
	ListDepartments(ctx context.Context) ([]domain.Department, error)
	DeleteDepartment(ctx context.Context, id int64) (*domain.Department, error)
}

// RoleRepository определяет интерфейс для работы с должностями
type RoleRepository interface {
	CreateRole(ctx context.Context, title string, salary decimal.Decimal, departmentID int64) (*domain.Role, error)
	GetRole(ctx context.Context, id int64) (*domain.Role, error)
	// ListRoles возвращает должности, упорядоченные по названию
	ListRoles(ctx context.Context) ([]domain.Role, error)
	DeleteRole(ctx context.Context, id int64) (*domain.Role, error)
}

// EmployeeRepository определяет интерфейс для работы с сотрудниками
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, firstName, lastName string, roleID int64, managerID *int64) (*domain.Employee, error)
	GetEmployee(ctx context.Context, id int64) (*domain.Employee, error)
	// ListEmployeeChoices возвращает пары id/"first last", упорядоченные по имени
	ListEmployeeChoices(ctx context.Context) ([]domain.EmployeeChoice, error)
	UpdateEmployeeRole(ctx context.Context, employeeID, roleID int64) (*domain.Employee, error)
	UpdateEmployeeManager(ctx context.Context, employeeID int64, managerID *int64) (*domain.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) (*domain.Employee, error)
}

// QueryRepository определяет производные представления и агрегаты
type QueryRepository interface {
	ListEmployeesExpanded(ctx context.Context) ([]domain.EmployeeDetail, error)
	ListRolesExpanded(ctx context.Context) ([]domain.RoleDetail, error)
	EmployeesByManager(ctx context.Context, managerID int64) ([]domain.ManagedEmployee, error)
	EmployeesByDepartment(ctx context.Context, departmentID int64) ([]domain.DepartmentEmployee, error)
	DepartmentBudget(ctx context.Context, departmentID int64) (*domain.DepartmentBudget, error)
}

// Store - единый контракт хранилища. Реализуется БД-бэкендом и копией в памяти.
//
// Ошибки: domain.ErrValidation и domain.ErrNotFound означают проблему во входных данных,
// domain.ErrBackendUnavailable - сбой самого хранилища.
type Store interface {
	DepartmentRepository
	RoleRepository
	EmployeeRepository
	QueryRepository
}
