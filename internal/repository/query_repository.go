package repository

import (
	"context"
	"errors"

	"github.com/employee-tracker/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// managerName собирает "first last" руководителя; || даёт NULL, если руководителя нет
const managerName = `m.first_name || ' ' || m.last_name`

func (s *gormStore) ListEmployeesExpanded(ctx context.Context) ([]domain.EmployeeDetail, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	query := `
		SELECT
			e.id,
			e.first_name,
			e.last_name,
			r.title,
			d.name AS department,
			r.salary,
			` + managerName + ` AS manager
		FROM employee e
		JOIN role r ON e.role_id = r.id
		JOIN department d ON r.department_id = d.id
		LEFT JOIN employee m ON e.manager_id = m.id
		ORDER BY e.id
	`

	rows := make([]domain.EmployeeDetail, 0)
	if err := db.Raw(query).Scan(&rows).Error; err != nil {
		return nil, classify("list employees", err)
	}
	return rows, nil
}

func (s *gormStore) ListRolesExpanded(ctx context.Context) ([]domain.RoleDetail, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	query := `
		SELECT r.id, r.title, r.salary, d.name AS department
		FROM role r
		JOIN department d ON r.department_id = d.id
		ORDER BY r.id
	`

	rows := make([]domain.RoleDetail, 0)
	if err := db.Raw(query).Scan(&rows).Error; err != nil {
		return nil, classify("list roles", err)
	}
	return rows, nil
}

func (s *gormStore) EmployeesByManager(ctx context.Context, managerID int64) ([]domain.ManagedEmployee, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	query := `
		SELECT
			e.id,
			e.first_name,
			e.last_name,
			r.title,
			d.name AS department
		FROM employee e
		JOIN role r ON e.role_id = r.id
		JOIN department d ON r.department_id = d.id
		WHERE e.manager_id = ?
		ORDER BY e.last_name, e.first_name, e.id
	`

	rows := make([]domain.ManagedEmployee, 0)
	if err := db.Raw(query, managerID).Scan(&rows).Error; err != nil {
		return nil, classify("list employees by manager", err)
	}
	return rows, nil
}

func (s *gormStore) EmployeesByDepartment(ctx context.Context, departmentID int64) ([]domain.DepartmentEmployee, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	query := `
		SELECT
			e.id,
			e.first_name,
			e.last_name,
			r.title,
			` + managerName + ` AS manager
		FROM employee e
		JOIN role r ON e.role_id = r.id
		LEFT JOIN employee m ON e.manager_id = m.id
		WHERE r.department_id = ?
		ORDER BY e.last_name, e.first_name, e.id
	`

	rows := make([]domain.DepartmentEmployee, 0)
	if err := db.Raw(query, departmentID).Scan(&rows).Error; err != nil {
		return nil, classify("list employees by department", err)
	}
	return rows, nil
}

func (s *gormStore) DepartmentBudget(ctx context.Context, departmentID int64) (*domain.DepartmentBudget, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	budget := &domain.DepartmentBudget{DepartmentID: departmentID, Budget: decimal.Zero}

	var dept domain.Department
	if err := db.First(&dept, departmentID).Error; err != nil {
		// Неизвестный отдел даёт нулевой бюджет, а не ошибку
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return budget, nil
		}
		return nil, classify("department budget", err)
	}
	budget.Name = dept.Name

	query := `
		SELECT
			COALESCE(SUM(r.salary), 0) AS budget,
			COUNT(e.id) AS employee_count
		FROM employee e
		JOIN role r ON e.role_id = r.id
		WHERE r.department_id = ?
	`

	var totals budgetTotals
	if err := db.Raw(query, departmentID).Scan(&totals).Error; err != nil {
		return nil, classify("department budget", err)
	}
	budget.Budget = totals.Budget
	budget.EmployeeCount = totals.EmployeeCount
	return budget, nil
}

type budgetTotals struct {
	Budget        decimal.Decimal
	EmployeeCount int64
}
