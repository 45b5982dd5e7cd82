package domain

import (
	"errors"
	"fmt"
)

// Базовые категории ошибок
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// Определение бизнес-ошибок
var (
	ErrDepartmentNotFound = fmt.Errorf("department %w", ErrNotFound)
	ErrRoleNotFound       = fmt.Errorf("role %w", ErrNotFound)
	ErrEmployeeNotFound   = fmt.Errorf("employee %w", ErrNotFound)

	ErrEmptyDepartmentName     = &ValidationError{Field: "name", Reason: "department name cannot be empty"}
	ErrEmptyRoleTitle          = &ValidationError{Field: "title", Reason: "role title cannot be empty"}
	ErrInvalidSalary           = &ValidationError{Field: "salary", Reason: "salary must be a positive amount below 10000000000 with at most two decimals"}
	ErrEmptyEmployeeName       = &ValidationError{Field: "name", Reason: "first and last name cannot be empty"}
	ErrDuplicateDepartmentName = &ValidationError{Field: "name", Reason: "department with this name already exists"}
	ErrDuplicateRoleTitle      = &ValidationError{Field: "title", Reason: "role with this title already exists"}
	ErrUnknownDepartment       = &ValidationError{Field: "department_id", Reason: "department does not exist"}
	ErrUnknownRole             = &ValidationError{Field: "role_id", Reason: "role does not exist"}
	ErrUnknownManager          = &ValidationError{Field: "manager_id", Reason: "manager does not exist"}
	ErrSelfManager             = &ValidationError{Field: "manager_id", Reason: "employee cannot be their own manager"}
)

// ValidationError описывает некорректный ввод для конкретного поля
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Unwrap позволяет проверять ошибку через errors.Is(err, ErrValidation)
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Unavailable оборачивает ошибку хранилища как недоступность бэкенда
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrBackendUnavailable, err)
}
