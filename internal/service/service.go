package service

import "github.com/employee-tracker/internal/repository"

// Services объединяет сервисы, работающие поверх одного хранилища
type Services struct {
	Departments DepartmentService
	Roles       RoleService
	Employees   EmployeeService
}

// New создаёт все сервисы поверх store
func New(store repository.Store) *Services {
	return &Services{
		Departments: NewDepartmentService(store, store),
		Roles:       NewRoleService(store, store),
		Employees:   NewEmployeeService(store, store),
	}
}
