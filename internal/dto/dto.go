package dto

// CreateDepartmentRequest - запрос на создание отдела
type CreateDepartmentRequest struct {
	Name string `json:"name" validate:"required,max=30"`
}

// CreateRoleRequest - запрос на создание должности.
// Оклад приходит строкой из формы и разбирается сервисом.
type CreateRoleRequest struct {
	Title        string `json:"title" validate:"required,max=30"`
	Salary       string `json:"salary" validate:"required,numeric"`
	DepartmentID int64  `json:"department_id" validate:"required,min=1"`
}

// CreateEmployeeRequest - запрос на создание сотрудника
type CreateEmployeeRequest struct {
	FirstName string `json:"first_name" validate:"required,max=30"`
	LastName  string `json:"last_name" validate:"required,max=30"`
	RoleID    int64  `json:"role_id" validate:"required,min=1"`
	ManagerID *int64 `json:"manager_id" validate:"omitempty,min=1"`
}

// UpdateEmployeeRoleRequest - запрос на смену должности
type UpdateEmployeeRoleRequest struct {
	EmployeeID int64 `json:"employee_id" validate:"required,min=1"`
	RoleID     int64 `json:"role_id" validate:"required,min=1"`
}

// UpdateEmployeeManagerRequest - запрос на смену руководителя; nil снимает руководителя
type UpdateEmployeeManagerRequest struct {
	EmployeeID int64  `json:"employee_id" validate:"required,min=1"`
	ManagerID  *int64 `json:"manager_id" validate:"omitempty,min=1"`
}
