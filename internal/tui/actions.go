package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/employee-tracker/internal/domain"
	"github.com/employee-tracker/internal/dto"
	"github.com/employee-tracker/internal/report"
)

// action - пункт главного меню; run == nil означает выход
type action struct {
	title string
	desc  string
	run   func() tea.Cmd
}

func (a *App) buildActions() []action {
	return []action{
		{"View All Departments", "List every department", a.viewDepartments},
		{"View All Roles", "Roles with department and salary", a.viewRoles},
		{"View All Employees", "Employees with title, department, salary and manager", a.viewEmployees},
		{"Add a Department", "Create a new department", a.addDepartment},
		{"Add a Role", "Create a role inside a department", a.addRole},
		{"Add an Employee", "Hire someone into an existing role", a.addEmployee},
		{"Update an Employee Role", "Move an employee to another role", a.updateEmployeeRole},
		{"Update Employee Manager", "Change or clear an employee's manager", a.updateEmployeeManager},
		{"View Employees by Manager", "Direct reports of one employee", a.viewByManager},
		{"View Employees by Department", "Everyone holding a role in a department", a.viewByDepartment},
		{"Delete Department", "Removes its roles and their employees", a.deleteDepartment},
		{"Delete Role", "Removes the employees holding it", a.deleteRole},
		{"Delete Employee", "Their reports are left without a manager", a.deleteEmployee},
		{"View Department Budget", "Total salary of a department", a.viewBudget},
		{"Exit", "Quit the tracker", nil},
	}
}

// call выполняет операцию в команде и превращает результат в сообщение
func (a *App) call(name string, fn func(ctx context.Context) (tea.Msg, error)) tea.Cmd {
	return func() tea.Msg {
		msg, err := fn(a.ctx)
		if err != nil {
			return failedMsg{action: name, err: err}
		}
		return msg
	}
}

func notice(format string, args ...any) noticeMsg {
	return noticeMsg{text: fmt.Sprintf(format, args...)}
}

func (a *App) viewDepartments() tea.Cmd {
	return a.call("view departments", func(ctx context.Context) (tea.Msg, error) {
		depts, err := a.svc.Departments.List(ctx)
		if err != nil {
			return nil, err
		}
		return tableMsg{table: report.Departments(depts)}, nil
	})
}

func (a *App) viewRoles() tea.Cmd {
	return a.call("view roles", func(ctx context.Context) (tea.Msg, error) {
		roles, err := a.svc.Roles.List(ctx)
		if err != nil {
			return nil, err
		}
		return tableMsg{table: report.Roles(roles)}, nil
	})
}

func (a *App) viewEmployees() tea.Cmd {
	return a.call("view employees", func(ctx context.Context) (tea.Msg, error) {
		rows, err := a.svc.Employees.List(ctx)
		if err != nil {
			return nil, err
		}
		return tableMsg{table: report.Employees(rows)}, nil
	})
}

func (a *App) addDepartment() tea.Cmd {
	f := newForm("Add a Department",
		textStep("name", "What is the name of the department?", checkName),
	)
	f.submit = func(v formValues) tea.Cmd {
		return a.call("add department", func(ctx context.Context) (tea.Msg, error) {
			dept, err := a.svc.Departments.Create(ctx, &dto.CreateDepartmentRequest{Name: v.text["name"]})
			if err != nil {
				return nil, err
			}
			return notice("Added %s department to the database", dept.Name), nil
		})
	}
	return func() tea.Msg { return formMsg{form: f} }
}

func (a *App) addRole() tea.Cmd {
	return a.call("add role", func(ctx context.Context) (tea.Msg, error) {
		depts, err := a.svc.Departments.Choices(ctx)
		if err != nil {
			return nil, err
		}
		if len(depts) == 0 {
			return notice("You need to add a department first."), nil
		}

		f := newForm("Add a Role",
			textStep("title", "What is the name of the role?", checkName),
			textStep("salary", "What is the salary of the role?", checkSalary),
			pickStep("department", "Which department does the role belong to?", departmentOptions(depts)),
		)
		f.submit = func(v formValues) tea.Cmd {
			return a.call("add role", func(ctx context.Context) (tea.Msg, error) {
				role, err := a.svc.Roles.Create(ctx, &dto.CreateRoleRequest{
					Title:        v.text["title"],
					Salary:       v.text["salary"],
					DepartmentID: v.ids["department"],
				})
				if err != nil {
					return nil, err
				}
				return notice("Added %s role to the database", role.Title), nil
			})
		}
		return formMsg{form: f}, nil
	})
}

func (a *App) addEmployee() tea.Cmd {
	return a.call("add employee", func(ctx context.Context) (tea.Msg, error) {
		roles, err := a.svc.Roles.Choices(ctx)
		if err != nil {
			return nil, err
		}
		if len(roles) == 0 {
			return notice("You need to add a role first."), nil
		}
		people, err := a.svc.Employees.Choices(ctx)
		if err != nil {
			return nil, err
		}

		f := newForm("Add an Employee",
			textStep("first_name", "What is the employee's first name?", checkName),
			textStep("last_name", "What is the employee's last name?", checkName),
			pickStep("role", "What is the employee's role?", roleOptions(roles)),
			pickStep("manager", "Who is the employee's manager?", employeeOptions(people, true)),
		)
		f.submit = func(v formValues) tea.Cmd {
			return a.call("add employee", func(ctx context.Context) (tea.Msg, error) {
				emp, err := a.svc.Employees.Create(ctx, &dto.CreateEmployeeRequest{
					FirstName: v.text["first_name"],
					LastName:  v.text["last_name"],
					RoleID:    v.ids["role"],
					ManagerID: v.optionalID("manager"),
				})
				if err != nil {
					return nil, err
				}
				return notice("Added %s to the database", emp.FullName()), nil
			})
		}
		return formMsg{form: f}, nil
	})
}

func (a *App) updateEmployeeRole() tea.Cmd {
	return a.call("update employee role", func(ctx context.Context) (tea.Msg, error) {
		people, err := a.svc.Employees.Choices(ctx)
		if err != nil {
			return nil, err
		}
		if len(people) == 0 {
			return notice("There are no employees yet."), nil
		}
		roles, err := a.svc.Roles.Choices(ctx)
		if err != nil {
			return nil, err
		}
		if len(roles) == 0 {
			return notice("You need to add a role first."), nil
		}

		f := newForm("Update an Employee Role",
			pickStep("employee", "Which employee's role do you want to update?", employeeOptions(people, false)),
			pickStep("role", "Which role do you want to assign?", roleOptions(roles)),
		)
		f.submit = func(v formValues) tea.Cmd {
			return a.call("update employee role", func(ctx context.Context) (tea.Msg, error) {
				_, err := a.svc.Employees.UpdateRole(ctx, &dto.UpdateEmployeeRoleRequest{
					EmployeeID: v.ids["employee"],
					RoleID:     v.ids["role"],
				})
				if err != nil {
					return nil, err
				}
				return notice("Updated %s's role to %s", v.labels["employee"], v.labels["role"]), nil
			})
		}
		return formMsg{form: f}, nil
	})
}

func (a *App) updateEmployeeManager() tea.Cmd {
	return a.call("update employee manager", func(ctx context.Context) (tea.Msg, error) {
		people, err := a.svc.Employees.Choices(ctx)
		if err != nil {
			return nil, err
		}
		if len(people) == 0 {
			return notice("There are no employees yet."), nil
		}

		f := newForm("Update Employee Manager",
			pickStep("employee", "Which employee's manager do you want to update?", employeeOptions(people, false)),
			pickStep("manager", "Who is the new manager?", employeeOptions(people, true)),
		)
		f.submit = func(v formValues) tea.Cmd {
			return a.call("update employee manager", func(ctx context.Context) (tea.Msg, error) {
				_, err := a.svc.Employees.UpdateManager(ctx, &dto.UpdateEmployeeManagerRequest{
					EmployeeID: v.ids["employee"],
					ManagerID:  v.optionalID("manager"),
				})
				if err != nil {
					return nil, err
				}
				return notice("Updated %s's manager to %s", v.labels["employee"], v.labels["manager"]), nil
			})
		}
		return formMsg{form: f}, nil
	})
}

func (a *App) viewByManager() tea.Cmd {
	return a.call("view employees by manager", func(ctx context.Context) (tea.Msg, error) {
		people, err := a.svc.Employees.Choices(ctx)
		if err != nil {
			return nil, err
		}
		if len(people) == 0 {
			return notice("There are no employees yet."), nil
		}

		f := newForm("View Employees by Manager",
			pickStep("manager", "Whose direct reports do you want to see?", employeeOptions(people, false)),
		)
		f.submit = func(v formValues) tea.Cmd {
			return a.call("view employees by manager", func(ctx context.Context) (tea.Msg, error) {
				rows, err := a.svc.Employees.Reports(ctx, v.ids["manager"])
				if err != nil {
					return nil, err
				}
				if len(rows) == 0 {
					return notice("%s has no direct reports.", v.labels["manager"]), nil
				}
				return tableMsg{table: report.Reports(v.labels["manager"], rows)}, nil
			})
		}
		return formMsg{form: f}, nil
	})
}

func (a *App) viewByDepartment() tea.Cmd {
	return a.pickDepartment("View Employees by Department", "Which department do you want to see?",
		func(ctx context.Context, v formValues) (tea.Msg, error) {
			rows, err := a.svc.Departments.Employees(ctx, v.ids["department"])
			if err != nil {
				return nil, err
			}
			if len(rows) == 0 {
				return notice("No employees in %s.", v.labels["department"]), nil
			}
			return tableMsg{table: report.DepartmentStaff(v.labels["department"], rows)}, nil
		})
}

func (a *App) deleteDepartment() tea.Cmd {
	return a.pickDepartment("Delete Department", "Which department do you want to delete?",
		func(ctx context.Context, v formValues) (tea.Msg, error) {
			dept, err := a.svc.Departments.Delete(ctx, v.ids["department"])
			if err != nil {
				return nil, err
			}
			return notice("Deleted %s department from the database", dept.Name), nil
		})
}

func (a *App) viewBudget() tea.Cmd {
	return a.pickDepartment("View Department Budget", "Which department's budget do you want to see?",
		func(ctx context.Context, v formValues) (tea.Msg, error) {
			budget, err := a.svc.Departments.Budget(ctx, v.ids["department"])
			if err != nil {
				return nil, err
			}
			return tableMsg{table: report.Budget(budget)}, nil
		})
}

// pickDepartment строит форму из одного выбора отдела
func (a *App) pickDepartment(title, prompt string, done func(context.Context, formValues) (tea.Msg, error)) tea.Cmd {
	return a.call(title, func(ctx context.Context) (tea.Msg, error) {
		depts, err := a.svc.Departments.Choices(ctx)
		if err != nil {
			return nil, err
		}
		if len(depts) == 0 {
			return notice("There are no departments yet."), nil
		}

		f := newForm(title, pickStep("department", prompt, departmentOptions(depts)))
		f.submit = func(v formValues) tea.Cmd {
			return a.call(title, func(ctx context.Context) (tea.Msg, error) {
				return done(ctx, v)
			})
		}
		return formMsg{form: f}, nil
	})
}

func (a *App) deleteRole() tea.Cmd {
	return a.call("delete role", func(ctx context.Context) (tea.Msg, error) {
		roles, err := a.svc.Roles.Choices(ctx)
		if err != nil {
			return nil, err
		}
		if len(roles) == 0 {
			return notice("There are no roles yet."), nil
		}

		f := newForm("Delete Role",
			pickStep("role", "Which role do you want to delete?", roleOptions(roles)),
		)
		f.submit = func(v formValues) tea.Cmd {
			return a.call("delete role", func(ctx context.Context) (tea.Msg, error) {
				role, err := a.svc.Roles.Delete(ctx, v.ids["role"])
				if err != nil {
					return nil, err
				}
				return notice("Deleted %s role from the database", role.Title), nil
			})
		}
		return formMsg{form: f}, nil
	})
}

func (a *App) deleteEmployee() tea.Cmd {
	return a.call("delete employee", func(ctx context.Context) (tea.Msg, error) {
		people, err := a.svc.Employees.Choices(ctx)
		if err != nil {
			return nil, err
		}
		if len(people) == 0 {
			return notice("There are no employees yet."), nil
		}

		f := newForm("Delete Employee",
			pickStep("employee", "Which employee do you want to delete?", employeeOptions(people, false)),
		)
		f.submit = func(v formValues) tea.Cmd {
			return a.call("delete employee", func(ctx context.Context) (tea.Msg, error) {
				emp, err := a.svc.Employees.Delete(ctx, v.ids["employee"])
				if err != nil {
					return nil, err
				}
				return notice("Deleted %s from the database", emp.FullName()), nil
			})
		}
		return formMsg{form: f}, nil
	})
}

func departmentOptions(depts []domain.Department) []option {
	opts := make([]option, 0, len(depts))
	for _, d := range depts {
		opts = append(opts, option{id: d.ID, label: d.Name})
	}
	return opts
}

func roleOptions(roles []domain.Role) []option {
	opts := make([]option, 0, len(roles))
	for _, r := range roles {
		opts = append(opts, option{id: r.ID, label: r.Title})
	}
	return opts
}

// employeeOptions строит список сотрудников; withNone добавляет "None" первым пунктом
func employeeOptions(people []domain.EmployeeChoice, withNone bool) []option {
	opts := make([]option, 0, len(people)+1)
	if withNone {
		opts = append(opts, option{id: noneOptionID, label: noneOptionTag})
	}
	for _, p := range people {
		opts = append(opts, option{id: p.ID, label: p.Name})
	}
	return opts
}
