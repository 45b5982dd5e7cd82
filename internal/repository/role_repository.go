package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/employee-tracker/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (s *gormStore) CreateRole(ctx context.Context, title string, salary decimal.Decimal, departmentID int64) (*domain.Role, error) {
	role := &domain.Role{
		Title:        strings.TrimSpace(title),
		Salary:       salary,
		DepartmentID: departmentID,
	}
	if err := role.Validate(); err != nil {
		return nil, err
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	// Проверяем существование отдела
	found, err := existsBy(db, &domain.Department{}, "id", departmentID)
	if err != nil {
		return nil, classify("create role", err)
	}
	if !found {
		return nil, domain.ErrUnknownDepartment
	}

	// Проверяем уникальность названия
	exists, err := existsBy(db, &domain.Role{}, "title", role.Title)
	if err != nil {
		return nil, classify("create role", err)
	}
	if exists {
		return nil, domain.ErrDuplicateRoleTitle
	}

	if err := db.Create(role).Error; err != nil {
		return nil, classify("create role", err)
	}
	return role, nil
}

func (s *gormStore) GetRole(ctx context.Context, id int64) (*domain.Role, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var role domain.Role
	if err := db.First(&role, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, classify("get role", err)
	}
	return &role, nil
}

func (s *gormStore) ListRoles(ctx context.Context) ([]domain.Role, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var roles []domain.Role
	if err := db.Order("title ASC").Order("id ASC").Find(&roles).Error; err != nil {
		return nil, classify("list roles", err)
	}
	return roles, nil
}

func (s *gormStore) DeleteRole(ctx context.Context, id int64) (*domain.Role, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var role domain.Role
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&role, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRoleNotFound
			}
			return err
		}
		graph, err := loadGraph(tx)
		if err != nil {
			return err
		}
		return applyPlan(tx, graph.PlanRoleDelete(id))
	})
	if err != nil {
		return nil, classify("delete role", err)
	}
	return &role, nil
}
