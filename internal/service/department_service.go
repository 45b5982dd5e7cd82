package service

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/employee-tracker/internal/domain"
	"github.com/employee-tracker/internal/dto"
	"github.com/employee-tracker/internal/repository"
	"github.com/go-playground/validator/v10"
)

// DepartmentService определяет интерфейс бизнес-логики для отделов
type DepartmentService interface {
	Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*domain.Department, error)
	// List возвращает отделы по возрастанию id
	List(ctx context.Context) ([]domain.Department, error)
	// Choices возвращает отделы по алфавиту для выбора в форме
	Choices(ctx context.Context) ([]domain.Department, error)
	Delete(ctx context.Context, id int64) (*domain.Department, error)
	Employees(ctx context.Context, id int64) ([]domain.DepartmentEmployee, error)
	Budget(ctx context.Context, id int64) (*domain.DepartmentBudget, error)
}

type departmentService struct {
	deptRepo  repository.DepartmentRepository
	queryRepo repository.QueryRepository
	validator *validator.Validate
}

// NewDepartmentService создаёт новый экземпляр сервиса
func NewDepartmentService(deptRepo repository.DepartmentRepository, queryRepo repository.QueryRepository) DepartmentService {
	return &departmentService{
		deptRepo:  deptRepo,
		queryRepo: queryRepo,
		validator: newValidator(),
	}
}

func (s *departmentService) Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*domain.Department, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	return s.deptRepo.CreateDepartment(ctx, req.Name)
}

func (s *departmentService) List(ctx context.Context) ([]domain.Department, error) {
	return s.deptRepo.ListDepartments(ctx)
}

func (s *departmentService) Choices(ctx context.Context) ([]domain.Department, error) {
	departments, err := s.deptRepo.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(departments, func(a, b domain.Department) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return departments, nil
}

func (s *departmentService) Delete(ctx context.Context, id int64) (*domain.Department, error) {
	return s.deptRepo.DeleteDepartment(ctx, id)
}

func (s *departmentService) Employees(ctx context.Context, id int64) ([]domain.DepartmentEmployee, error) {
	return s.queryRepo.EmployeesByDepartment(ctx, id)
}

func (s *departmentService) Budget(ctx context.Context, id int64) (*domain.DepartmentBudget, error) {
	return s.queryRepo.DepartmentBudget(ctx, id)
}
