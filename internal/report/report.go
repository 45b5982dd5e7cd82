// Package report превращает представления домена в таблицы строк,
// общие для терминального интерфейса и команды report.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/employee-tracker/internal/domain"
	"github.com/shopspring/decimal"
)

// Table - заголовок, колонки и строки одной выборки
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Departments строит таблицу отделов
func Departments(depts []domain.Department) Table {
	t := Table{Title: "Departments", Headers: []string{"id", "name"}}
	for _, d := range depts {
		t.Rows = append(t.Rows, []string{formatID(d.ID), d.Name})
	}
	return t
}

// Roles строит таблицу должностей с названием отдела
func Roles(roles []domain.RoleDetail) Table {
	t := Table{Title: "Roles", Headers: []string{"id", "title", "department", "salary"}}
	for _, r := range roles {
		t.Rows = append(t.Rows, []string{formatID(r.ID), r.Title, r.Department, Money(r.Salary)})
	}
	return t
}

// Employees строит полную таблицу сотрудников
func Employees(rows []domain.EmployeeDetail) Table {
	t := Table{
		Title:   "Employees",
		Headers: []string{"id", "first_name", "last_name", "title", "department", "salary", "manager"},
	}
	for _, e := range rows {
		t.Rows = append(t.Rows, []string{
			formatID(e.ID), e.FirstName, e.LastName, e.Title, e.Department, Money(e.Salary), manager(e.Manager),
		})
	}
	return t
}

// Reports строит таблицу подчинённых руководителя
func Reports(managerName string, rows []domain.ManagedEmployee) Table {
	t := Table{
		Title:   "Employees managed by " + managerName,
		Headers: []string{"id", "first_name", "last_name", "title", "department"},
	}
	for _, e := range rows {
		t.Rows = append(t.Rows, []string{formatID(e.ID), e.FirstName, e.LastName, e.Title, e.Department})
	}
	return t
}

// DepartmentStaff строит таблицу сотрудников отдела
func DepartmentStaff(departmentName string, rows []domain.DepartmentEmployee) Table {
	t := Table{
		Title:   "Employees in " + departmentName,
		Headers: []string{"id", "first_name", "last_name", "title", "manager"},
	}
	for _, e := range rows {
		t.Rows = append(t.Rows, []string{formatID(e.ID), e.FirstName, e.LastName, e.Title, manager(e.Manager)})
	}
	return t
}

// Budget строит однострочную таблицу бюджета отдела
func Budget(b *domain.DepartmentBudget) Table {
	return Table{
		Title:   "Department budget",
		Headers: []string{"id", "name", "utilized_budget", "employee_count"},
		Rows: [][]string{{
			formatID(b.DepartmentID), b.Name, Money(b.Budget), strconv.FormatInt(b.EmployeeCount, 10),
		}},
	}
}

// Money форматирует сумму с двумя знаками после запятой
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Render печатает таблицу рамкой без цвета
func Render(w io.Writer, t Table) error {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.Headers...).
		Rows(t.Rows...)

	_, err := fmt.Fprintf(w, "%s\n%s\n", t.Title, tbl.Render())
	return err
}

func manager(name *string) string {
	if name == nil {
		return "None"
	}
	return *name
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
