package service

import (
	"context"
	"strings"

	"github.com/employee-tracker/internal/domain"
	"github.com/employee-tracker/internal/dto"
	"github.com/employee-tracker/internal/repository"
	"github.com/go-playground/validator/v10"
)

// EmployeeService определяет интерфейс бизнес-логики для сотрудников
type EmployeeService interface {
	Create(ctx context.Context, req *dto.CreateEmployeeRequest) (*domain.Employee, error)
	Choices(ctx context.Context) ([]domain.EmployeeChoice, error)
	List(ctx context.Context) ([]domain.EmployeeDetail, error)
	UpdateRole(ctx context.Context, req *dto.UpdateEmployeeRoleRequest) (*domain.Employee, error)
	UpdateManager(ctx context.Context, req *dto.UpdateEmployeeManagerRequest) (*domain.Employee, error)
	Reports(ctx context.Context, managerID int64) ([]domain.ManagedEmployee, error)
	Delete(ctx context.Context, id int64) (*domain.Employee, error)
}

type employeeService struct {
	empRepo   repository.EmployeeRepository
	queryRepo repository.QueryRepository
	validator *validator.Validate
}

// NewEmployeeService создаёт новый экземпляр сервиса
func NewEmployeeService(empRepo repository.EmployeeRepository, queryRepo repository.QueryRepository) EmployeeService {
	return &employeeService{
		empRepo:   empRepo,
		queryRepo: queryRepo,
		validator: newValidator(),
	}
}

func (s *employeeService) Create(ctx context.Context, req *dto.CreateEmployeeRequest) (*domain.Employee, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	return s.empRepo.CreateEmployee(ctx, req.FirstName, req.LastName, req.RoleID, req.ManagerID)
}

func (s *employeeService) Choices(ctx context.Context) ([]domain.EmployeeChoice, error) {
	return s.empRepo.ListEmployeeChoices(ctx)
}

func (s *employeeService) List(ctx context.Context) ([]domain.EmployeeDetail, error) {
	return s.queryRepo.ListEmployeesExpanded(ctx)
}

func (s *employeeService) UpdateRole(ctx context.Context, req *dto.UpdateEmployeeRoleRequest) (*domain.Employee, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	return s.empRepo.UpdateEmployeeRole(ctx, req.EmployeeID, req.RoleID)
}

func (s *employeeService) UpdateManager(ctx context.Context, req *dto.UpdateEmployeeManagerRequest) (*domain.Employee, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	// Проверка: нельзя назначить сотрудника руководителем самому себе
	if err := domain.CheckManager(req.EmployeeID, req.ManagerID); err != nil {
		return nil, err
	}
	return s.empRepo.UpdateEmployeeManager(ctx, req.EmployeeID, req.ManagerID)
}

func (s *employeeService) Reports(ctx context.Context, managerID int64) ([]domain.ManagedEmployee, error) {
	return s.queryRepo.EmployeesByManager(ctx, managerID)
}

func (s *employeeService) Delete(ctx context.Context, id int64) (*domain.Employee, error) {
	return s.empRepo.DeleteEmployee(ctx, id)
}
