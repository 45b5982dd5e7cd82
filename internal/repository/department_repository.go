package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/employee-tracker/internal/domain"
	"gorm.io/gorm"
)

func (s *gormStore) CreateDepartment(ctx context.Context, name string) (*domain.Department, error) {
	dept := &domain.Department{Name: strings.TrimSpace(name)}
	if err := dept.Validate(); err != nil {
		return nil, err
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	exists, err := existsBy(db, &domain.Department{}, "name", dept.Name)
	if err != nil {
		return nil, classify("create department", err)
	}
	if exists {
		return nil, domain.ErrDuplicateDepartmentName
	}

	if err := db.Create(dept).Error; err != nil {
		return nil, classify("create department", err)
	}
	return dept, nil
}

func (s *gormStore) GetDepartment(ctx context.Context, id int64) (*domain.Department, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var dept domain.Department
	if err := db.First(&dept, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDepartmentNotFound
		}
		return nil, classify("get department", err)
	}
	return &dept, nil
}

func (s *gormStore) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var departments []domain.Department
	if err := db.Order("id ASC").Find(&departments).Error; err != nil {
		return nil, classify("list departments", err)
	}
	return departments, nil
}

func (s *gormStore) DeleteDepartment(ctx context.Context, id int64) (*domain.Department, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var dept domain.Department
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&dept, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrDepartmentNotFound
			}
			return err
		}
		graph, err := loadGraph(tx)
		if err != nil {
			return err
		}
		return applyPlan(tx, graph.PlanDepartmentDelete(id))
	})
	if err != nil {
		return nil, classify("delete department", err)
	}
	return &dept, nil
}

// existsBy проверяет наличие записи с заданным значением колонки
func existsBy(db *gorm.DB, model any, column string, value any) (bool, error) {
	var count int64
	err := db.Model(model).Where(column+" = ?", value).Count(&count).Error
	return count > 0, err
}

// loadGraph читает только связи, нужные для расчёта каскада
func loadGraph(tx *gorm.DB) (domain.Graph, error) {
	var roles []domain.Role
	if err := tx.Select("id", "department_id").Find(&roles).Error; err != nil {
		return domain.Graph{}, err
	}
	var employees []domain.Employee
	if err := tx.Select("id", "role_id", "manager_id").Find(&employees).Error; err != nil {
		return domain.Graph{}, err
	}
	return domain.NewGraph(roles, employees), nil
}

// applyPlan выполняет план удаления явными запросами.
// ON DELETE в схеме дают тот же результат и остаются страховкой.
func applyPlan(tx *gorm.DB, plan domain.DeletePlan) error {
	if len(plan.Detached) > 0 {
		err := tx.Model(&domain.Employee{}).
			Where("id IN ?", plan.Detached).
			Update("manager_id", nil).Error
		if err != nil {
			return err
		}
	}
	if len(plan.Employees) > 0 {
		if err := tx.Where("id IN ?", plan.Employees).Delete(&domain.Employee{}).Error; err != nil {
			return err
		}
	}
	if len(plan.Roles) > 0 {
		if err := tx.Where("id IN ?", plan.Roles).Delete(&domain.Role{}).Error; err != nil {
			return err
		}
	}
	if len(plan.Departments) > 0 {
		if err := tx.Where("id IN ?", plan.Departments).Delete(&domain.Department{}).Error; err != nil {
			return err
		}
	}
	return nil
}
