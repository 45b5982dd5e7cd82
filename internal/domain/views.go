package domain

import "github.com/shopspring/decimal"

// EmployeeDetail - сотрудник с должностью, отделом и руководителем
type EmployeeDetail struct {
	ID         int64
	FirstName  string
	LastName   string
	Title      string
	Department string
	Salary     decimal.Decimal
	Manager    *string
}

// RoleDetail - должность с названием отдела
type RoleDetail struct {
	ID         int64
	Title      string
	Salary     decimal.Decimal
	Department string
}

// ManagedEmployee - подчинённый с должностью и отделом
type ManagedEmployee struct {
	ID         int64
	FirstName  string
	LastName   string
	Title      string
	Department string
}

// DepartmentEmployee - сотрудник отдела с должностью и руководителем
type DepartmentEmployee struct {
	ID        int64
	FirstName string
	LastName  string
	Title     string
	Manager   *string
}

// DepartmentBudget - суммарный фонд оплаты труда отдела
type DepartmentBudget struct {
	DepartmentID  int64
	Name          string
	Budget        decimal.Decimal
	EmployeeCount int64
}

// EmployeeChoice - элемент списка выбора сотрудника
type EmployeeChoice struct {
	ID   int64
	Name string
}
