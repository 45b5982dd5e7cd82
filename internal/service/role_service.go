package service

import (
	"context"
	"strings"

	"github.com/employee-tracker/internal/domain"
	"github.com/employee-tracker/internal/dto"
	"github.com/employee-tracker/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RoleService определяет интерфейс бизнес-логики для должностей
type RoleService interface {
	Create(ctx context.Context, req *dto.CreateRoleRequest) (*domain.Role, error)
	// Choices возвращает должности по алфавиту
	Choices(ctx context.Context) ([]domain.Role, error)
	List(ctx context.Context) ([]domain.RoleDetail, error)
	Delete(ctx context.Context, id int64) (*domain.Role, error)
}

type roleService struct {
	roleRepo  repository.RoleRepository
	queryRepo repository.QueryRepository
	validator *validator.Validate
}

// NewRoleService создаёт новый экземпляр сервиса
func NewRoleService(roleRepo repository.RoleRepository, queryRepo repository.QueryRepository) RoleService {
	return &roleService{
		roleRepo:  roleRepo,
		queryRepo: queryRepo,
		validator: newValidator(),
	}
}

func (s *roleService) Create(ctx context.Context, req *dto.CreateRoleRequest) (*domain.Role, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Salary = strings.TrimSpace(req.Salary)
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	salary, err := ParseSalary(req.Salary)
	if err != nil {
		return nil, err
	}
	return s.roleRepo.CreateRole(ctx, req.Title, salary, req.DepartmentID)
}

func (s *roleService) Choices(ctx context.Context) ([]domain.Role, error) {
	return s.roleRepo.ListRoles(ctx)
}

func (s *roleService) List(ctx context.Context) ([]domain.RoleDetail, error) {
	return s.queryRepo.ListRolesExpanded(ctx)
}

func (s *roleService) Delete(ctx context.Context, id int64) (*domain.Role, error) {
	return s.roleRepo.DeleteRole(ctx, id)
}

// ParseSalary разбирает оклад и проверяет его границы
func ParseSalary(s string) (decimal.Decimal, error) {
	salary, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, domain.ErrInvalidSalary
	}
	if err := domain.CheckSalary(salary); err != nil {
		return decimal.Decimal{}, err
	}
	return salary, nil
}
