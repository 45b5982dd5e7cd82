// Package memory реализует хранилище в памяти, повторяющее поведение БД:
// те же проверки ссылок, тот же каскад удаления и тот же порядок выдачи.
package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/employee-tracker/internal/domain"
	"github.com/employee-tracker/internal/repository"
	"github.com/shopspring/decimal"
)

var _ repository.Store = (*Store)(nil)

// Store хранит три коллекции в картах по id
type Store struct {
	mu          sync.RWMutex
	departments map[int64]domain.Department
	roles       map[int64]domain.Role
	employees   map[int64]domain.Employee
	nextID      struct{ department, role, employee int64 }
}

// New создаёт хранилище с копией переданного набора
func New(ds domain.Dataset) *Store {
	s := &Store{
		departments: make(map[int64]domain.Department, len(ds.Departments)),
		roles:       make(map[int64]domain.Role, len(ds.Roles)),
		employees:   make(map[int64]domain.Employee, len(ds.Employees)),
	}
	s.nextID.department, s.nextID.role, s.nextID.employee = 1, 1, 1

	for _, d := range ds.Departments {
		s.departments[d.ID] = d
		s.nextID.department = max(s.nextID.department, d.ID+1)
	}
	for _, r := range ds.Roles {
		s.roles[r.ID] = r
		s.nextID.role = max(s.nextID.role, r.ID+1)
	}
	for _, e := range ds.Employees {
		if e.ManagerID != nil {
			managerID := *e.ManagerID
			e.ManagerID = &managerID
		}
		s.employees[e.ID] = e
		s.nextID.employee = max(s.nextID.employee, e.ID+1)
	}
	return s
}

func (s *Store) CreateDepartment(_ context.Context, name string) (*domain.Department, error) {
	dept := domain.Department{Name: strings.TrimSpace(name)}
	if err := dept.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.departments {
		if d.Name == dept.Name {
			return nil, domain.ErrDuplicateDepartmentName
		}
	}

	dept.ID = s.nextID.department
	s.nextID.department++
	s.departments[dept.ID] = dept
	return &dept, nil
}

func (s *Store) GetDepartment(_ context.Context, id int64) (*domain.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dept, ok := s.departments[id]
	if !ok {
		return nil, domain.ErrDepartmentNotFound
	}
	return &dept, nil
}

func (s *Store) ListDepartments(_ context.Context) ([]domain.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedValues(s.departments), nil
}

func (s *Store) DeleteDepartment(_ context.Context, id int64) (*domain.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dept, ok := s.departments[id]
	if !ok {
		return nil, domain.ErrDepartmentNotFound
	}
	s.apply(s.graph().PlanDepartmentDelete(id))
	return &dept, nil
}

func (s *Store) CreateRole(_ context.Context, title string, salary decimal.Decimal, departmentID int64) (*domain.Role, error) {
	role := domain.Role{Title: strings.TrimSpace(title), Salary: salary, DepartmentID: departmentID}
	if err := role.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.departments[departmentID]; !ok {
		return nil, domain.ErrUnknownDepartment
	}
	for _, r := range s.roles {
		if r.Title == role.Title {
			return nil, domain.ErrDuplicateRoleTitle
		}
	}

	role.ID = s.nextID.role
	s.nextID.role++
	s.roles[role.ID] = role
	return &role, nil
}

func (s *Store) GetRole(_ context.Context, id int64) (*domain.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	role, ok := s.roles[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	return &role, nil
}

func (s *Store) ListRoles(_ context.Context) ([]domain.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roles := sortedValues(s.roles)
	slices.SortStableFunc(roles, func(a, b domain.Role) int {
		return strings.Compare(a.Title, b.Title)
	})
	return roles, nil
}

func (s *Store) DeleteRole(_ context.Context, id int64) (*domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	role, ok := s.roles[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	s.apply(s.graph().PlanRoleDelete(id))
	return &role, nil
}

func (s *Store) CreateEmployee(_ context.Context, firstName, lastName string, roleID int64, managerID *int64) (*domain.Employee, error) {
	emp := domain.Employee{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		RoleID:    roleID,
		ManagerID: copyID(managerID),
	}
	if err := emp.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[roleID]; !ok {
		return nil, domain.ErrUnknownRole
	}
	if managerID != nil {
		if _, ok := s.employees[*managerID]; !ok {
			return nil, domain.ErrUnknownManager
		}
	}

	emp.ID = s.nextID.employee
	s.nextID.employee++
	s.employees[emp.ID] = emp
	return cloneEmployee(emp), nil
}

func (s *Store) GetEmployee(_ context.Context, id int64) (*domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emp, ok := s.employees[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	return cloneEmployee(emp), nil
}

func (s *Store) ListEmployeeChoices(_ context.Context) ([]domain.EmployeeChoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employees := sortedValues(s.employees)
	slices.SortStableFunc(employees, func(a, b domain.Employee) int {
		return cmp.Or(strings.Compare(a.FirstName, b.FirstName), strings.Compare(a.LastName, b.LastName))
	})

	choices := make([]domain.EmployeeChoice, 0, len(employees))
	for _, e := range employees {
		choices = append(choices, domain.EmployeeChoice{ID: e.ID, Name: e.FullName()})
	}
	return choices, nil
}

func (s *Store) UpdateEmployeeRole(_ context.Context, employeeID, roleID int64) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, ok := s.employees[employeeID]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	if _, ok := s.roles[roleID]; !ok {
		return nil, domain.ErrUnknownRole
	}

	emp.RoleID = roleID
	s.employees[employeeID] = emp
	return cloneEmployee(emp), nil
}

func (s *Store) UpdateEmployeeManager(_ context.Context, employeeID int64, managerID *int64) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, ok := s.employees[employeeID]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	if err := domain.CheckManager(employeeID, managerID); err != nil {
		return nil, err
	}
	if managerID != nil {
		if _, ok := s.employees[*managerID]; !ok {
			return nil, domain.ErrUnknownManager
		}
	}

	emp.ManagerID = copyID(managerID)
	s.employees[employeeID] = emp
	return cloneEmployee(emp), nil
}

func (s *Store) DeleteEmployee(_ context.Context, id int64) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, ok := s.employees[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	s.apply(s.graph().PlanEmployeeDelete(id))
	return cloneEmployee(emp), nil
}

func (s *Store) ListEmployeesExpanded(_ context.Context) ([]domain.EmployeeDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]domain.EmployeeDetail, 0, len(s.employees))
	for _, e := range sortedValues(s.employees) {
		role := s.roles[e.RoleID]
		rows = append(rows, domain.EmployeeDetail{
			ID:         e.ID,
			FirstName:  e.FirstName,
			LastName:   e.LastName,
			Title:      role.Title,
			Department: s.departments[role.DepartmentID].Name,
			Salary:     role.Salary,
			Manager:    s.managerName(e),
		})
	}
	return rows, nil
}

func (s *Store) ListRolesExpanded(_ context.Context) ([]domain.RoleDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]domain.RoleDetail, 0, len(s.roles))
	for _, r := range sortedValues(s.roles) {
		rows = append(rows, domain.RoleDetail{
			ID:         r.ID,
			Title:      r.Title,
			Salary:     r.Salary,
			Department: s.departments[r.DepartmentID].Name,
		})
	}
	return rows, nil
}

func (s *Store) EmployeesByManager(_ context.Context, managerID int64) ([]domain.ManagedEmployee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]domain.ManagedEmployee, 0)
	for _, e := range s.byName(func(e domain.Employee) bool {
		return e.ManagerID != nil && *e.ManagerID == managerID
	}) {
		role := s.roles[e.RoleID]
		rows = append(rows, domain.ManagedEmployee{
			ID:         e.ID,
			FirstName:  e.FirstName,
			LastName:   e.LastName,
			Title:      role.Title,
			Department: s.departments[role.DepartmentID].Name,
		})
	}
	return rows, nil
}

func (s *Store) EmployeesByDepartment(_ context.Context, departmentID int64) ([]domain.DepartmentEmployee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]domain.DepartmentEmployee, 0)
	for _, e := range s.byName(func(e domain.Employee) bool {
		return s.roles[e.RoleID].DepartmentID == departmentID
	}) {
		rows = append(rows, domain.DepartmentEmployee{
			ID:        e.ID,
			FirstName: e.FirstName,
			LastName:  e.LastName,
			Title:     s.roles[e.RoleID].Title,
			Manager:   s.managerName(e),
		})
	}
	return rows, nil
}

func (s *Store) DepartmentBudget(_ context.Context, departmentID int64) (*domain.DepartmentBudget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	budget := &domain.DepartmentBudget{DepartmentID: departmentID, Budget: decimal.Zero}
	dept, ok := s.departments[departmentID]
	if !ok {
		return budget, nil
	}
	budget.Name = dept.Name

	for _, e := range s.employees {
		role := s.roles[e.RoleID]
		if role.DepartmentID != departmentID {
			continue
		}
		budget.Budget = budget.Budget.Add(role.Salary)
		budget.EmployeeCount++
	}
	return budget, nil
}

// graph вызывается под блокировкой
func (s *Store) graph() domain.Graph {
	return domain.NewGraph(slices.Collect(maps.Values(s.roles)), slices.Collect(maps.Values(s.employees)))
}

// apply выполняет план удаления; вызывается под блокировкой записи
func (s *Store) apply(plan domain.DeletePlan) {
	for _, id := range plan.Detached {
		emp := s.employees[id]
		emp.ManagerID = nil
		s.employees[id] = emp
	}
	for _, id := range plan.Employees {
		delete(s.employees, id)
	}
	for _, id := range plan.Roles {
		delete(s.roles, id)
	}
	for _, id := range plan.Departments {
		delete(s.departments, id)
	}
}

func (s *Store) managerName(e domain.Employee) *string {
	if e.ManagerID == nil {
		return nil
	}
	manager, ok := s.employees[*e.ManagerID]
	if !ok {
		return nil
	}
	name := manager.FullName()
	return &name
}

// byName отбирает сотрудников и сортирует их по фамилии, имени и id
func (s *Store) byName(keep func(domain.Employee) bool) []domain.Employee {
	var out []domain.Employee
	for _, e := range sortedValues(s.employees) {
		if keep(e) {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Employee) int {
		return cmp.Or(strings.Compare(a.LastName, b.LastName), strings.Compare(a.FirstName, b.FirstName))
	})
	return out
}

type identified interface {
	domain.Department | domain.Role | domain.Employee
}

// sortedValues возвращает значения карты по возрастанию id
func sortedValues[T identified](m map[int64]T) []T {
	ids := slices.Sorted(maps.Keys(m))
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func cloneEmployee(e domain.Employee) *domain.Employee {
	e.ManagerID = copyID(e.ManagerID)
	return &e
}
