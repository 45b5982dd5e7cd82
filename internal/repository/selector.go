package repository

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/employee-tracker/internal/domain"
	"github.com/shopspring/decimal"
)

// Mode - режим работы хранилища
type Mode int

const (
	ModeConnected Mode = iota
	ModeOffline
)

func (m Mode) String() string {
	if m == ModeOffline {
		return "offline"
	}
	return "connected"
}

// Selector направляет операции в БД или в копию в памяти.
// После первого сбоя БД переходит в ModeOffline до конца процесса.
type Selector struct {
	backend Store
	mirror  Store
	logger  *slog.Logger

	mu       sync.RWMutex
	mode     Mode
	onChange func(Mode, error)
}

var _ Store = (*Selector)(nil)

// NewSelector создаёт селектор. backend == nil означает, что проверка подключения при старте не прошла.
func NewSelector(backend, mirror Store, logger *slog.Logger) *Selector {
	s := &Selector{backend: backend, mirror: mirror, logger: logger}
	if backend == nil {
		s.mode = ModeOffline
	}
	return s
}

// Mode возвращает текущий режим
func (s *Selector) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// OnModeChange регистрирует обработчик перехода в автономный режим
func (s *Selector) OnModeChange(fn func(Mode, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *Selector) goOffline(op string, cause error) {
	s.mu.Lock()
	if s.mode == ModeOffline {
		s.mu.Unlock()
		return
	}
	s.mode = ModeOffline
	fn := s.onChange
	s.mu.Unlock()

	s.logger.Warn("backend unavailable, switching to in-memory storage",
		slog.String("operation", op),
		slog.Any("error", cause),
	)
	if fn != nil {
		fn(ModeOffline, cause)
	}
}

// route выполняет операцию в активном хранилище и повторяет её в памяти при сбое БД
func route[T any](s *Selector, op string, fn func(Store) (T, error)) (T, error) {
	if s.Mode() == ModeOffline {
		return fn(s.mirror)
	}

	res, err := fn(s.backend)
	if err == nil || !errors.Is(err, domain.ErrBackendUnavailable) {
		return res, err
	}

	s.goOffline(op, err)
	return fn(s.mirror)
}

func (s *Selector) CreateDepartment(ctx context.Context, name string) (*domain.Department, error) {
	return route(s, "create department", func(st Store) (*domain.Department, error) {
		return st.CreateDepartment(ctx, name)
	})
}

func (s *Selector) GetDepartment(ctx context.Context, id int64) (*domain.Department, error) {
	return route(s, "get department", func(st Store) (*domain.Department, error) {
		return st.GetDepartment(ctx, id)
	})
}

func (s *Selector) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	return route(s, "list departments", func(st Store) ([]domain.Department, error) {
		return st.ListDepartments(ctx)
	})
}

func (s *Selector) DeleteDepartment(ctx context.Context, id int64) (*domain.Department, error) {
	return route(s, "delete department", func(st Store) (*domain.Department, error) {
		return st.DeleteDepartment(ctx, id)
	})
}

func (s *Selector) CreateRole(ctx context.Context, title string, salary decimal.Decimal, departmentID int64) (*domain.Role, error) {
	return route(s, "create role", func(st Store) (*domain.Role, error) {
		return st.CreateRole(ctx, title, salary, departmentID)
	})
}

func (s *Selector) GetRole(ctx context.Context, id int64) (*domain.Role, error) {
	return route(s, "get role", func(st Store) (*domain.Role, error) {
		return st.GetRole(ctx, id)
	})
}

func (s *Selector) ListRoles(ctx context.Context) ([]domain.Role, error) {
	return route(s, "list roles", func(st Store) ([]domain.Role, error) {
		return st.ListRoles(ctx)
	})
}

func (s *Selector) DeleteRole(ctx context.Context, id int64) (*domain.Role, error) {
	return route(s, "delete role", func(st Store) (*domain.Role, error) {
		return st.DeleteRole(ctx, id)
	})
}

func (s *Selector) CreateEmployee(ctx context.Context, firstName, lastName string, roleID int64, managerID *int64) (*domain.Employee, error) {
	return route(s, "create employee", func(st Store) (*domain.Employee, error) {
		return st.CreateEmployee(ctx, firstName, lastName, roleID, managerID)
	})
}

func (s *Selector) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	return route(s, "get employee", func(st Store) (*domain.Employee, error) {
		return st.GetEmployee(ctx, id)
	})
}

func (s *Selector) ListEmployeeChoices(ctx context.Context) ([]domain.EmployeeChoice, error) {
	return route(s, "list employee choices", func(st Store) ([]domain.EmployeeChoice, error) {
		return st.ListEmployeeChoices(ctx)
	})
}

func (s *Selector) UpdateEmployeeRole(ctx context.Context, employeeID, roleID int64) (*domain.Employee, error) {
	return route(s, "update employee role", func(st Store) (*domain.Employee, error) {
		return st.UpdateEmployeeRole(ctx, employeeID, roleID)
	})
}

func (s *Selector) UpdateEmployeeManager(ctx context.Context, employeeID int64, managerID *int64) (*domain.Employee, error) {
	return route(s, "update employee manager", func(st Store) (*domain.Employee, error) {
		return st.UpdateEmployeeManager(ctx, employeeID, managerID)
	})
}

func (s *Selector) DeleteEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	return route(s, "delete employee", func(st Store) (*domain.Employee, error) {
		return st.DeleteEmployee(ctx, id)
	})
}

func (s *Selector) ListEmployeesExpanded(ctx context.Context) ([]domain.EmployeeDetail, error) {
	return route(s, "list employees expanded", func(st Store) ([]domain.EmployeeDetail, error) {
		return st.ListEmployeesExpanded(ctx)
	})
}

func (s *Selector) ListRolesExpanded(ctx context.Context) ([]domain.RoleDetail, error) {
	return route(s, "list roles expanded", func(st Store) ([]domain.RoleDetail, error) {
		return st.ListRolesExpanded(ctx)
	})
}

func (s *Selector) EmployeesByManager(ctx context.Context, managerID int64) ([]domain.ManagedEmployee, error) {
	return route(s, "employees by manager", func(st Store) ([]domain.ManagedEmployee, error) {
		return st.EmployeesByManager(ctx, managerID)
	})
}

func (s *Selector) EmployeesByDepartment(ctx context.Context, departmentID int64) ([]domain.DepartmentEmployee, error) {
	return route(s, "employees by department", func(st Store) ([]domain.DepartmentEmployee, error) {
		return st.EmployeesByDepartment(ctx, departmentID)
	})
}

func (s *Selector) DepartmentBudget(ctx context.Context, departmentID int64) (*domain.DepartmentBudget, error) {
	return route(s, "department budget", func(st Store) (*domain.DepartmentBudget, error) {
		return st.DepartmentBudget(ctx, departmentID)
	})
}
