package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/employee-tracker/internal/domain"
	"gorm.io/gorm"
)

func (s *gormStore) CreateEmployee(ctx context.Context, firstName, lastName string, roleID int64, managerID *int64) (*domain.Employee, error) {
	emp := &domain.Employee{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		RoleID:    roleID,
		ManagerID: managerID,
	}
	if err := emp.Validate(); err != nil {
		return nil, err
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	if err := checkEmployeeRefs(db, roleID, managerID); err != nil {
		return nil, classify("create employee", err)
	}

	if err := db.Create(emp).Error; err != nil {
		return nil, classify("create employee", err)
	}
	return emp, nil
}

func (s *gormStore) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	emp, err := findEmployee(db, id)
	if err != nil {
		return nil, classify("get employee", err)
	}
	return emp, nil
}

func (s *gormStore) ListEmployeeChoices(ctx context.Context) ([]domain.EmployeeChoice, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var employees []domain.Employee
	if err := db.Order("first_name ASC").Order("last_name ASC").Order("id ASC").Find(&employees).Error; err != nil {
		return nil, classify("list employees", err)
	}

	choices := make([]domain.EmployeeChoice, 0, len(employees))
	for _, e := range employees {
		choices = append(choices, domain.EmployeeChoice{ID: e.ID, Name: e.FullName()})
	}
	return choices, nil
}

func (s *gormStore) UpdateEmployeeRole(ctx context.Context, employeeID, roleID int64) (*domain.Employee, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	emp, err := findEmployee(db, employeeID)
	if err != nil {
		return nil, classify("update employee role", err)
	}
	if err := checkEmployeeRefs(db, roleID, nil); err != nil {
		return nil, classify("update employee role", err)
	}

	if err := db.Model(emp).Update("role_id", roleID).Error; err != nil {
		return nil, classify("update employee role", err)
	}
	emp.RoleID = roleID
	return emp, nil
}

func (s *gormStore) UpdateEmployeeManager(ctx context.Context, employeeID int64, managerID *int64) (*domain.Employee, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	emp, err := findEmployee(db, employeeID)
	if err != nil {
		return nil, classify("update employee manager", err)
	}
	if err := domain.CheckManager(employeeID, managerID); err != nil {
		return nil, err
	}
	if managerID != nil {
		found, err := existsBy(db, &domain.Employee{}, "id", *managerID)
		if err != nil {
			return nil, classify("update employee manager", err)
		}
		if !found {
			return nil, domain.ErrUnknownManager
		}
	}

	if err := db.Model(emp).Update("manager_id", managerID).Error; err != nil {
		return nil, classify("update employee manager", err)
	}
	emp.ManagerID = managerID
	return emp, nil
}

func (s *gormStore) DeleteEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var emp *domain.Employee
	err := db.Transaction(func(tx *gorm.DB) error {
		found, err := findEmployee(tx, id)
		if err != nil {
			return err
		}
		emp = found
		graph, err := loadGraph(tx)
		if err != nil {
			return err
		}
		return applyPlan(tx, graph.PlanEmployeeDelete(id))
	})
	if err != nil {
		return nil, classify("delete employee", err)
	}
	return emp, nil
}

func findEmployee(db *gorm.DB, id int64) (*domain.Employee, error) {
	var emp domain.Employee
	if err := db.First(&emp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &emp, nil
}

// checkEmployeeRefs проверяет, что должность и руководитель существуют
func checkEmployeeRefs(db *gorm.DB, roleID int64, managerID *int64) error {
	found, err := existsBy(db, &domain.Role{}, "id", roleID)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrUnknownRole
	}

	if managerID == nil {
		return nil
	}
	found, err = existsBy(db, &domain.Employee{}, "id", *managerID)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrUnknownManager
	}
	return nil
}
