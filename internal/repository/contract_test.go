package repository_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/employee-tracker/internal/config"
	"github.com/employee-tracker/internal/domain"
	"github.com/employee-tracker/internal/logging"
	"github.com/employee-tracker/internal/repository"
	"github.com/employee-tracker/internal/repository/memory"
	"github.com/shopspring/decimal"
)

var dbSeq atomic.Int64

// newSQLiteStore поднимает GORM-хранилище на SQLite в памяти с миграциями и стартовым набором
func newSQLiteStore(t *testing.T) repository.Store {
	t.Helper()

	cfg := config.Default().Database
	cfg.Driver = config.DriverSQLite
	cfg.SQLitePath = fmt.Sprintf("file:contract%d?mode=memory&cache=shared", dbSeq.Add(1))

	db, err := repository.Open(cfg, logging.Discard())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := repository.Bootstrap(context.Background(), db, cfg.Driver, domain.SeedDataset(), logging.Discard()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return repository.NewStore(db, cfg.QueryTimeout)
}

func newMemoryStore(t *testing.T) repository.Store {
	t.Helper()
	return memory.New(domain.SeedDataset())
}

var variants = []struct {
	name string
	open func(t *testing.T) repository.Store
}{
	{"gorm-sqlite", newSQLiteStore},
	{"memory", newMemoryStore},
}

func id(v int64) *int64 { return &v }

func expectErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
}

func TestStoreContract(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T, ctx context.Context, s repository.Store)
	}{
		{"seed expanded employees", testSeedExpanded},
		{"seed roles expanded", testSeedRolesExpanded},
		{"budget of seeded department", testBudgetSeeded},
		{"budget of empty and unknown department", testBudgetEmpty},
		{"delete department cascades", testDeleteDepartment},
		{"delete role cascades", testDeleteRole},
		{"delete employee detaches reports", testDeleteEmployee},
		{"create role validation", testCreateRoleValidation},
		{"create employee validation", testCreateEmployeeValidation},
		{"create department", testCreateDepartment},
		{"update employee role", testUpdateEmployeeRole},
		{"update employee manager", testUpdateEmployeeManager},
		{"not found", testNotFound},
		{"orderings", testOrderings},
	}

	for _, v := range variants {
		for _, tt := range tests {
			t.Run(v.name+"/"+tt.name, func(t *testing.T) {
				tt.run(t, context.Background(), v.open(t))
			})
		}
	}
}

func testSeedExpanded(t *testing.T, ctx context.Context, s repository.Store) {
	rows, err := s.ListEmployeesExpanded(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if row.ID != int64(i+1) {
			t.Fatalf("row %d: expected id %d, got %d", i, i+1, row.ID)
		}
	}

	john, mike := rows[0], rows[1]
	if john.Title != "Lead Engineer" || john.Department != "Engineering" || john.Manager != nil {
		t.Errorf("unexpected first row: %+v", john)
	}
	if !john.Salary.Equal(decimal.NewFromInt(150000)) {
		t.Errorf("expected salary 150000, got %s", john.Salary)
	}
	if mike.FirstName != "Mike" || mike.Manager == nil || *mike.Manager != "John Doe" {
		t.Errorf("unexpected second row: %+v", mike)
	}
	if ana := rows[9]; ana.Department != "Human Resources" || ana.Manager == nil || *ana.Manager != "Sam Kash" {
		t.Errorf("unexpected last row: %+v", ana)
	}
}

func testSeedRolesExpanded(t *testing.T, ctx context.Context, s repository.Store) {
	rows, err := s.ListRolesExpanded(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 10 {
		t.Fatalf("expected 10 roles, got %d", len(rows))
	}
	if rows[4].Title != "Legal Team Lead" || rows[4].Department != "Legal" {
		t.Errorf("unexpected role 5: %+v", rows[4])
	}
}

func testBudgetSeeded(t *testing.T, ctx context.Context, s repository.Store) {
	budget, err := s.DepartmentBudget(ctx, 1)
	if err != nil {
		t.Fatalf("budget: %v", err)
	}
	if budget.Name != "Engineering" {
		t.Errorf("expected Engineering, got %q", budget.Name)
	}
	if !budget.Budget.Equal(decimal.NewFromInt(270000)) {
		t.Errorf("expected 270000, got %s", budget.Budget)
	}
	if budget.EmployeeCount != 2 {
		t.Errorf("expected 2 employees, got %d", budget.EmployeeCount)
	}

	// Два сотрудника на одной должности учитываются дважды
	if _, err := s.CreateEmployee(ctx, "Extra", "Engineer", 2, id(1)); err != nil {
		t.Fatalf("create: %v", err)
	}
	budget, err = s.DepartmentBudget(ctx, 1)
	if err != nil {
		t.Fatalf("budget: %v", err)
	}
	if !budget.Budget.Equal(decimal.NewFromInt(390000)) || budget.EmployeeCount != 3 {
		t.Errorf("expected 390000/3, got %s/%d", budget.Budget, budget.EmployeeCount)
	}
}

func testBudgetEmpty(t *testing.T, ctx context.Context, s repository.Store) {
	dept, err := s.CreateDepartment(ctx, "Marketing")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateRole(ctx, "Marketer", decimal.NewFromInt(70000), dept.ID); err != nil {
		t.Fatalf("create role: %v", err)
	}

	budget, err := s.DepartmentBudget(ctx, dept.ID)
	if err != nil {
		t.Fatalf("budget: %v", err)
	}
	if !budget.Budget.IsZero() || budget.EmployeeCount != 0 || budget.Name != "Marketing" {
		t.Errorf("unexpected budget: %+v", budget)
	}

	unknown, err := s.DepartmentBudget(ctx, 999)
	if err != nil {
		t.Fatalf("budget of unknown department: %v", err)
	}
	if !unknown.Budget.IsZero() || unknown.EmployeeCount != 0 || unknown.Name != "" {
		t.Errorf("unexpected budget: %+v", unknown)
	}
}

func testDeleteDepartment(t *testing.T, ctx context.Context, s repository.Store) {
	dept, err := s.DeleteDepartment(ctx, 1)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if dept.Name != "Engineering" {
		t.Errorf("expected Engineering, got %q", dept.Name)
	}

	expectErr(t, errOnly(s.GetDepartment(ctx, 1)), domain.ErrNotFound)
	for _, roleID := range []int64{1, 2} {
		expectErr(t, errOnly(s.GetRole(ctx, roleID)), domain.ErrNotFound)
	}
	for _, empID := range []int64{1, 2} {
		expectErr(t, errOnly(s.GetEmployee(ctx, empID)), domain.ErrNotFound)
	}

	rows, err := s.ListEmployeesExpanded(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 8 {
		t.Errorf("expected 8 employees, got %d", len(rows))
	}
	roles, err := s.ListRoles(ctx)
	if err != nil {
		t.Fatalf("list roles: %v", err)
	}
	if len(roles) != 8 {
		t.Errorf("expected 8 roles, got %d", len(roles))
	}
}

func testDeleteRole(t *testing.T, ctx context.Context, s repository.Store) {
	if _, err := s.DeleteRole(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}

	expectErr(t, errOnly(s.GetEmployee(ctx, 1)), domain.ErrNotFound)

	// Подчинённый удалённого сотрудника остаётся, но без руководителя
	mike, err := s.GetEmployee(ctx, 2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if mike.ManagerID != nil {
		t.Errorf("expected manager cleared, got %d", *mike.ManagerID)
	}

	if _, err := s.GetDepartment(ctx, 1); err != nil {
		t.Errorf("department must survive role delete: %v", err)
	}
}

func testDeleteEmployee(t *testing.T, ctx context.Context, s repository.Store) {
	john, err := s.DeleteEmployee(ctx, 1)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if john.FullName() != "John Doe" {
		t.Errorf("expected John Doe, got %q", john.FullName())
	}

	mike, err := s.GetEmployee(ctx, 2)
	if err != nil {
		t.Fatalf("report must survive: %v", err)
	}
	if mike.ManagerID != nil {
		t.Errorf("expected manager cleared, got %d", *mike.ManagerID)
	}

	rows, err := s.ListEmployeesExpanded(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 9 {
		t.Fatalf("expected 9 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.ID == 1 {
			t.Errorf("deleted employee still listed")
		}
		if row.ID == 2 && row.Manager != nil {
			t.Errorf("expected no manager for Mike, got %q", *row.Manager)
		}
	}

	// Должность удалённого сотрудника остаётся
	if _, err := s.GetRole(ctx, 1); err != nil {
		t.Errorf("role must survive employee delete: %v", err)
	}
}

func testCreateRoleValidation(t *testing.T, ctx context.Context, s repository.Store) {
	tests := []struct {
		name   string
		title  string
		salary decimal.Decimal
		dept   int64
		target error
	}{
		{"unknown department", "Designer", decimal.NewFromInt(1000), 999, domain.ErrUnknownDepartment},
		{"empty title", "  ", decimal.NewFromInt(1000), 1, domain.ErrEmptyRoleTitle},
		{"zero salary", "Designer", decimal.Zero, 1, domain.ErrInvalidSalary},
		{"negative salary", "Designer", decimal.NewFromInt(-5), 1, domain.ErrInvalidSalary},
		{"sub-cent salary", "Designer", decimal.RequireFromString("0.001"), 1, domain.ErrInvalidSalary},
		{"three decimals", "Designer", decimal.RequireFromString("100.555"), 1, domain.ErrInvalidSalary},
		{"salary overflow", "Designer", decimal.RequireFromString("99999999999"), 1, domain.ErrInvalidSalary},
		{"duplicate title", "Lawyer", decimal.NewFromInt(1000), 3, domain.ErrDuplicateRoleTitle},
	}

	for _, tt := range tests {
		_, err := s.CreateRole(ctx, tt.title, tt.salary, tt.dept)
		expectErr(t, err, tt.target)
		expectErr(t, err, domain.ErrValidation)
	}

	roles, err := s.ListRoles(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(roles) != 10 {
		t.Errorf("role collection changed: %d roles", len(roles))
	}

	role, err := s.CreateRole(ctx, "Designer", decimal.RequireFromString("99000.50"), 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if role.ID != 11 || role.DepartmentID != 1 {
		t.Errorf("unexpected role: %+v", role)
	}
	stored, err := s.GetRole(ctx, role.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !stored.Salary.Equal(decimal.RequireFromString("99000.5")) {
		t.Errorf("expected salary 99000.5, got %s", stored.Salary)
	}
}

func testCreateEmployeeValidation(t *testing.T, ctx context.Context, s repository.Store) {
	_, err := s.CreateEmployee(ctx, "Jane", "Roe", 1, id(999))
	expectErr(t, err, domain.ErrUnknownManager)
	expectErr(t, err, domain.ErrValidation)

	_, err = s.CreateEmployee(ctx, "Jane", "Roe", 999, nil)
	expectErr(t, err, domain.ErrUnknownRole)

	_, err = s.CreateEmployee(ctx, "", "Roe", 1, nil)
	expectErr(t, err, domain.ErrEmptyEmployeeName)

	emp, err := s.CreateEmployee(ctx, " Jane ", "Roe", 3, id(3))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if emp.ID != 11 || emp.FirstName != "Jane" || emp.ManagerID == nil || *emp.ManagerID != 3 {
		t.Errorf("unexpected employee: %+v", emp)
	}

	reports, err := s.EmployeesByManager(ctx, 3)
	if err != nil {
		t.Fatalf("by manager: %v", err)
	}
	if len(reports) != 2 || reports[0].LastName != "Roe" || reports[1].LastName != "Tupik" {
		t.Errorf("unexpected reports: %+v", reports)
	}
}

func testCreateDepartment(t *testing.T, ctx context.Context, s repository.Store) {
	dept, err := s.CreateDepartment(ctx, "  Marketing ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dept.ID != 6 || dept.Name != "Marketing" {
		t.Errorf("unexpected department: %+v", dept)
	}

	expectErr(t, errOnly(s.CreateDepartment(ctx, "Marketing")), domain.ErrDuplicateDepartmentName)
	expectErr(t, errOnly(s.CreateDepartment(ctx, "")), domain.ErrEmptyDepartmentName)

	list, err := s.ListDepartments(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 6 || list[5].Name != "Marketing" {
		t.Errorf("unexpected departments: %+v", list)
	}
}

func testUpdateEmployeeRole(t *testing.T, ctx context.Context, s repository.Store) {
	emp, err := s.UpdateEmployeeRole(ctx, 2, 4)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if emp.RoleID != 4 || emp.ManagerID == nil || *emp.ManagerID != 1 {
		t.Errorf("only role_id must change: %+v", emp)
	}

	rows, err := s.EmployeesByDepartment(ctx, 2)
	if err != nil {
		t.Fatalf("by department: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("expected 3 employees in Finance, got %d", len(rows))
	}

	expectErr(t, errOnly(s.UpdateEmployeeRole(ctx, 2, 999)), domain.ErrUnknownRole)
}

func testUpdateEmployeeManager(t *testing.T, ctx context.Context, s repository.Store) {
	emp, err := s.UpdateEmployeeManager(ctx, 1, id(3))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if emp.ManagerID == nil || *emp.ManagerID != 3 {
		t.Errorf("expected manager 3, got %v", emp.ManagerID)
	}

	emp, err = s.UpdateEmployeeManager(ctx, 2, nil)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if emp.ManagerID != nil {
		t.Errorf("expected manager cleared")
	}

	expectErr(t, errOnly(s.UpdateEmployeeManager(ctx, 4, id(4))), domain.ErrSelfManager)
	expectErr(t, errOnly(s.UpdateEmployeeManager(ctx, 4, id(999))), domain.ErrUnknownManager)

	kevin, err := s.GetEmployee(ctx, 4)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if kevin.ManagerID == nil || *kevin.ManagerID != 3 {
		t.Errorf("failed update must not change manager: %v", kevin.ManagerID)
	}
}

func testNotFound(t *testing.T, ctx context.Context, s repository.Store) {
	checks := map[string]error{
		"update role":       errOnly(s.UpdateEmployeeRole(ctx, 999, 1)),
		"update manager":    errOnly(s.UpdateEmployeeManager(ctx, 999, nil)),
		"delete department": errOnly(s.DeleteDepartment(ctx, 999)),
		"delete role":       errOnly(s.DeleteRole(ctx, 999)),
		"delete employee":   errOnly(s.DeleteEmployee(ctx, 999)),
	}
	for name, err := range checks {
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("%s: expected not found, got %v", name, err)
		}
		if errors.Is(err, domain.ErrBackendUnavailable) {
			t.Errorf("%s: not found must not look like a backend failure", name)
		}
	}
}

func testOrderings(t *testing.T, ctx context.Context, s repository.Store) {
	roles, err := s.ListRoles(ctx)
	if err != nil {
		t.Fatalf("roles: %v", err)
	}
	if roles[0].Title != "Accountant" || roles[9].Title != "Software Engineer" {
		t.Errorf("roles not ordered by title: %s..%s", roles[0].Title, roles[9].Title)
	}

	choices, err := s.ListEmployeeChoices(ctx)
	if err != nil {
		t.Fatalf("choices: %v", err)
	}
	if choices[0].Name != "Ana Bell" || choices[9].Name != "Tom Allen" {
		t.Errorf("choices not ordered by name: %s..%s", choices[0].Name, choices[9].Name)
	}

	// Однофамильцы упорядочиваются по имени, затем по id
	for _, first := range []string{"Zed", "Adam", "Adam"} {
		if _, err := s.CreateEmployee(ctx, first, "Chan", 2, nil); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	rows, err := s.EmployeesByDepartment(ctx, 1)
	if err != nil {
		t.Fatalf("by department: %v", err)
	}
	got := make([]string, 0, len(rows))
	for _, r := range rows {
		got = append(got, fmt.Sprintf("%d:%s %s", r.ID, r.FirstName, r.LastName))
	}
	want := "12:Adam Chan,13:Adam Chan,2:Mike Chan,11:Zed Chan,1:John Doe"
	if strings.Join(got, ",") != want {
		t.Errorf("unexpected order:\n got %s\nwant %s", strings.Join(got, ","), want)
	}
}

// TestVariantsAgree прогоняет одинаковую последовательность изменений на обоих вариантах
func TestVariantsAgree(t *testing.T) {
	ctx := context.Background()
	script := func(s repository.Store) error {
		steps := []error{
			errOnly(s.CreateDepartment(ctx, "Marketing")),
			errOnly(s.CreateRole(ctx, "Marketer", decimal.NewFromInt(70000), 6)),
			errOnly(s.CreateEmployee(ctx, "Lena", "Gold", 11, id(5))),
			errOnly(s.UpdateEmployeeManager(ctx, 6, id(11))),
			errOnly(s.DeleteEmployee(ctx, 5)),
			errOnly(s.DeleteDepartment(ctx, 2)),
			errOnly(s.UpdateEmployeeRole(ctx, 10, 11)),
			errOnly(s.DeleteRole(ctx, 7)),
		}
		return errors.Join(steps...)
	}

	snapshots := make([]string, 0, len(variants))
	for _, v := range variants {
		s := v.open(t)
		if err := script(s); err != nil {
			t.Fatalf("%s: %v", v.name, err)
		}
		snapshots = append(snapshots, snapshot(t, ctx, s))
	}

	if snapshots[0] != snapshots[1] {
		t.Errorf("variants diverged:\n%s: %s\n%s: %s", variants[0].name, snapshots[0], variants[1].name, snapshots[1])
	}
}

func snapshot(t *testing.T, ctx context.Context, s repository.Store) string {
	t.Helper()
	var b strings.Builder

	depts, err := s.ListDepartments(ctx)
	if err != nil {
		t.Fatalf("departments: %v", err)
	}
	for _, d := range depts {
		fmt.Fprintf(&b, "d%d:%s;", d.ID, d.Name)
		budget, err := s.DepartmentBudget(ctx, d.ID)
		if err != nil {
			t.Fatalf("budget: %v", err)
		}
		fmt.Fprintf(&b, "b%s/%d;", budget.Budget.StringFixed(2), budget.EmployeeCount)
	}

	roles, err := s.ListRolesExpanded(ctx)
	if err != nil {
		t.Fatalf("roles: %v", err)
	}
	for _, r := range roles {
		fmt.Fprintf(&b, "r%d:%s:%s:%s;", r.ID, r.Title, r.Salary.StringFixed(2), r.Department)
	}

	emps, err := s.ListEmployeesExpanded(ctx)
	if err != nil {
		t.Fatalf("employees: %v", err)
	}
	for _, e := range emps {
		manager := "-"
		if e.Manager != nil {
			manager = *e.Manager
		}
		fmt.Fprintf(&b, "e%d:%s %s:%s:%s:%s;", e.ID, e.FirstName, e.LastName, e.Title, e.Department, manager)
	}
	return b.String()
}

func errOnly[T any](_ T, err error) error {
	return err
}
