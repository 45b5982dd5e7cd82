package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/employee-tracker/internal/domain"
	"github.com/employee-tracker/internal/dto"
	"github.com/employee-tracker/internal/repository"
	"github.com/employee-tracker/internal/repository/memory"
	"github.com/employee-tracker/internal/service"
	"github.com/shopspring/decimal"
)

// spyStore считает обращения к хранилищу, чтобы убедиться, что некорректный ввод до него не доходит
type spyStore struct {
	repository.Store
	writes int
}

func (s *spyStore) CreateDepartment(ctx context.Context, name string) (*domain.Department, error) {
	s.writes++
	return s.Store.CreateDepartment(ctx, name)
}

func (s *spyStore) CreateRole(ctx context.Context, title string, salary decimal.Decimal, departmentID int64) (*domain.Role, error) {
	s.writes++
	return s.Store.CreateRole(ctx, title, salary, departmentID)
}

func (s *spyStore) CreateEmployee(ctx context.Context, firstName, lastName string, roleID int64, managerID *int64) (*domain.Employee, error) {
	s.writes++
	return s.Store.CreateEmployee(ctx, firstName, lastName, roleID, managerID)
}

func (s *spyStore) UpdateEmployeeManager(ctx context.Context, employeeID int64, managerID *int64) (*domain.Employee, error) {
	s.writes++
	return s.Store.UpdateEmployeeManager(ctx, employeeID, managerID)
}

func newServices() (*service.Services, *spyStore) {
	spy := &spyStore{Store: memory.New(domain.SeedDataset())}
	return service.New(spy), spy
}

func id(v int64) *int64 { return &v }

func TestDepartmentService_Create(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantErr   error
		wantField string
		wantWrite bool
	}{
		{name: "valid", input: "  Marketing  ", wantWrite: true},
		{name: "empty", input: "   ", wantErr: domain.ErrValidation, wantField: "name"},
		{name: "too long", input: strings.Repeat("x", 31), wantErr: domain.ErrValidation, wantField: "name"},
		{name: "duplicate", input: "Legal", wantErr: domain.ErrDuplicateDepartmentName, wantWrite: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, spy := newServices()

			dept, err := svc.Departments.Create(context.Background(), &dto.CreateDepartmentRequest{Name: tt.input})
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if dept.Name != "Marketing" {
					t.Errorf("expected trimmed name, got %q", dept.Name)
				}
			} else if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			if tt.wantField != "" {
				var verr *domain.ValidationError
				if !errors.As(err, &verr) || verr.Field != tt.wantField {
					t.Errorf("expected field %q, got %v", tt.wantField, err)
				}
			}
			if (spy.writes > 0) != tt.wantWrite {
				t.Errorf("store writes = %d, want write %v", spy.writes, tt.wantWrite)
			}
		})
	}
}

func TestDepartmentService_ChoicesSortedByName(t *testing.T) {
	svc, _ := newServices()

	choices, err := svc.Departments.Choices(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := make([]string, 0, len(choices))
	for _, d := range choices {
		got = append(got, d.Name)
	}
	want := "Engineering,Finance,Human Resources,Legal,Sales"
	if strings.Join(got, ",") != want {
		t.Errorf("got %s, want %s", strings.Join(got, ","), want)
	}

	list, err := svc.Departments.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list[4].Name != "Human Resources" {
		t.Errorf("List must keep id order, got %q last", list[4].Name)
	}
}

func TestRoleService_Create(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.CreateRoleRequest
		wantErr error
	}{
		{"valid", dto.CreateRoleRequest{Title: "Designer", Salary: "85000.50", DepartmentID: 1}, nil},
		{"empty title", dto.CreateRoleRequest{Title: " ", Salary: "1", DepartmentID: 1}, domain.ErrValidation},
		{"salary not a number", dto.CreateRoleRequest{Title: "Designer", Salary: "lots", DepartmentID: 1}, domain.ErrValidation},
		{"zero salary", dto.CreateRoleRequest{Title: "Designer", Salary: "0", DepartmentID: 1}, domain.ErrInvalidSalary},
		{"negative salary", dto.CreateRoleRequest{Title: "Designer", Salary: "-10", DepartmentID: 1}, domain.ErrInvalidSalary},
		{"no department", dto.CreateRoleRequest{Title: "Designer", Salary: "10"}, domain.ErrValidation},
		{"unknown department", dto.CreateRoleRequest{Title: "Designer", Salary: "10", DepartmentID: 42}, domain.ErrUnknownDepartment},
		{"duplicate title", dto.CreateRoleRequest{Title: "Lawyer", Salary: "10", DepartmentID: 1}, domain.ErrDuplicateRoleTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newServices()
			req := tt.req

			role, err := svc.Roles.Create(context.Background(), &req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !role.Salary.Equal(decimal.RequireFromString("85000.5")) {
				t.Errorf("unexpected salary %s", role.Salary)
			}
		})
	}
}

func TestEmployeeService_Create(t *testing.T) {
	svc, spy := newServices()
	ctx := context.Background()

	_, err := svc.Employees.Create(ctx, &dto.CreateEmployeeRequest{FirstName: "Jane", LastName: strings.Repeat("r", 31), RoleID: 1})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for long name, got %v", err)
	}
	_, err = svc.Employees.Create(ctx, &dto.CreateEmployeeRequest{FirstName: "Jane", LastName: "Roe"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for missing role, got %v", err)
	}
	if spy.writes != 0 {
		t.Fatalf("invalid input reached the store %d times", spy.writes)
	}

	_, err = svc.Employees.Create(ctx, &dto.CreateEmployeeRequest{FirstName: "Jane", LastName: "Roe", RoleID: 1, ManagerID: id(77)})
	if !errors.Is(err, domain.ErrUnknownManager) {
		t.Fatalf("expected unknown manager, got %v", err)
	}

	emp, err := svc.Employees.Create(ctx, &dto.CreateEmployeeRequest{FirstName: "Jane", LastName: "Roe", RoleID: 1, ManagerID: id(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reports, err := svc.Employees.Reports(ctx, 1)
	if err != nil {
		t.Fatalf("reports: %v", err)
	}
	if len(reports) != 2 || reports[1].ID != emp.ID {
		t.Errorf("expected Chan then Roe, got %+v", reports)
	}
}

func TestEmployeeService_UpdateManager(t *testing.T) {
	svc, spy := newServices()
	ctx := context.Background()

	_, err := svc.Employees.UpdateManager(ctx, &dto.UpdateEmployeeManagerRequest{EmployeeID: 2, ManagerID: id(2)})
	if !errors.Is(err, domain.ErrSelfManager) {
		t.Fatalf("expected self-manager error, got %v", err)
	}
	if spy.writes != 0 {
		t.Fatalf("self-manager request reached the store")
	}

	_, err = svc.Employees.UpdateManager(ctx, &dto.UpdateEmployeeManagerRequest{EmployeeID: 99, ManagerID: id(1)})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	emp, err := svc.Employees.UpdateManager(ctx, &dto.UpdateEmployeeManagerRequest{EmployeeID: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emp.ManagerID != nil {
		t.Errorf("expected manager cleared")
	}
}

func TestEmployeeService_UpdateRole(t *testing.T) {
	svc, _ := newServices()
	ctx := context.Background()

	emp, err := svc.Employees.UpdateRole(ctx, &dto.UpdateEmployeeRoleRequest{EmployeeID: 1, RoleID: 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emp.RoleID != 9 {
		t.Errorf("expected role 9, got %d", emp.RoleID)
	}

	budget, err := svc.Departments.Budget(ctx, 5)
	if err != nil {
		t.Fatalf("budget: %v", err)
	}
	if !budget.Budget.Equal(decimal.NewFromInt(495000)) || budget.EmployeeCount != 3 {
		t.Errorf("unexpected HR budget: %s/%d", budget.Budget, budget.EmployeeCount)
	}

	_, err = svc.Employees.UpdateRole(ctx, &dto.UpdateEmployeeRoleRequest{EmployeeID: 1})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestParseSalary(t *testing.T) {
	tests := map[string]bool{
		"1":             true,
		"120000":        true,
		"99.99":         true,
		" 5000 ":        true,
		"0":             false,
		"-1":            false,
		"":              false,
		"ten":           false,
		"1,000":         false,
		"0.00":          false,
		"150000.00":     true,
		"0.001":         false,
		"100.555":       false,
		"99999999999":   false,
		"9999999999.99": true,
	}

	for in, ok := range tests {
		_, err := service.ParseSalary(in)
		if ok && err != nil {
			t.Errorf("ParseSalary(%q): unexpected error %v", in, err)
		}
		if !ok && !errors.Is(err, domain.ErrInvalidSalary) {
			t.Errorf("ParseSalary(%q): expected invalid salary, got %v", in, err)
		}
	}
}
