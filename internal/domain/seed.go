package domain

import "github.com/shopspring/decimal"

// Dataset - полный набор записей трёх таблиц
type Dataset struct {
	Departments []Department
	Roles       []Role
	Employees   []Employee
}

// SeedDataset возвращает стартовый набор: 5 отделов, по две должности и по два сотрудника в каждом
func SeedDataset() Dataset {
	departments := []string{"Engineering", "Finance", "Legal", "Sales", "Human Resources"}
	roles := []struct {
		title  string
		salary int64
	}{
		{"Lead Engineer", 150000}, {"Software Engineer", 120000},
		{"Finance Lead", 160000}, {"Accountant", 125000},
		{"Legal Team Lead", 250000}, {"Lawyer", 190000},
		{"Sales Lead", 100000}, {"Salesperson", 80000},
		{"HR Director", 190000}, {"HR Specialist", 115000},
	}
	people := [][2]string{
		{"John", "Doe"}, {"Mike", "Chan"},
		{"Ashley", "Rodriguez"}, {"Kevin", "Tupik"},
		{"Kunal", "Singh"}, {"Malia", "Brown"},
		{"Sarah", "Lourd"}, {"Tom", "Allen"},
		{"Sam", "Kash"}, {"Ana", "Bell"},
	}

	var ds Dataset
	for i, name := range departments {
		ds.Departments = append(ds.Departments, Department{ID: int64(i + 1), Name: name})
	}
	for i, r := range roles {
		ds.Roles = append(ds.Roles, Role{
			ID:           int64(i + 1),
			Title:        r.title,
			Salary:       decimal.NewFromInt(r.salary),
			DepartmentID: int64(i/2 + 1),
		})
	}
	// Нечётные - руководители, чётные подчиняются предыдущему
	for i, p := range people {
		emp := Employee{ID: int64(i + 1), FirstName: p[0], LastName: p[1], RoleID: int64(i + 1)}
		if i%2 == 1 {
			managerID := int64(i)
			emp.ManagerID = &managerID
		}
		ds.Employees = append(ds.Employees, emp)
	}
	return ds
}

// Graph строит граф связей набора
func (ds Dataset) Graph() Graph {
	return NewGraph(ds.Roles, ds.Employees)
}
