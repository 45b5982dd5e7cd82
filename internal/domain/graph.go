package domain

import "slices"

// Graph - срез связей между сущностями, достаточный для расчёта каскадного удаления
type Graph struct {
	roleDepartment map[int64]int64
	employees      map[int64]employeeLink
}

type employeeLink struct {
	roleID    int64
	managerID *int64
}

// DeletePlan перечисляет, какие записи удаляются и у кого обнуляется manager_id
type DeletePlan struct {
	Departments []int64
	Roles       []int64
	Employees   []int64
	Detached    []int64
}

// NewGraph строит граф по должностям и сотрудникам
func NewGraph(roles []Role, employees []Employee) Graph {
	g := Graph{
		roleDepartment: make(map[int64]int64, len(roles)),
		employees:      make(map[int64]employeeLink, len(employees)),
	}
	for _, r := range roles {
		g.roleDepartment[r.ID] = r.DepartmentID
	}
	for _, e := range employees {
		g.employees[e.ID] = employeeLink{roleID: e.RoleID, managerID: e.ManagerID}
	}
	return g
}

// PlanDepartmentDelete: отдел уносит свои должности и всех сотрудников на них
func (g Graph) PlanDepartmentDelete(id int64) DeletePlan {
	plan := DeletePlan{Departments: []int64{id}}
	for roleID, deptID := range g.roleDepartment {
		if deptID == id {
			plan.Roles = append(plan.Roles, roleID)
		}
	}
	return g.complete(plan, g.holdersOf(plan.Roles))
}

// PlanRoleDelete: должность уносит всех сотрудников, которые её занимают
func (g Graph) PlanRoleDelete(id int64) DeletePlan {
	plan := DeletePlan{Roles: []int64{id}}
	return g.complete(plan, g.holdersOf(plan.Roles))
}

// PlanEmployeeDelete: удаляется только сам сотрудник, подчинённые остаются без руководителя
func (g Graph) PlanEmployeeDelete(id int64) DeletePlan {
	return g.complete(DeletePlan{}, []int64{id})
}

func (g Graph) holdersOf(roleIDs []int64) []int64 {
	var ids []int64
	for empID, link := range g.employees {
		if slices.Contains(roleIDs, link.roleID) {
			ids = append(ids, empID)
		}
	}
	return ids
}

func (g Graph) complete(plan DeletePlan, removed []int64) DeletePlan {
	gone := make(map[int64]struct{}, len(removed))
	for _, id := range removed {
		gone[id] = struct{}{}
	}
	for empID, link := range g.employees {
		if _, ok := gone[empID]; ok || link.managerID == nil {
			continue
		}
		if _, ok := gone[*link.managerID]; ok {
			plan.Detached = append(plan.Detached, empID)
		}
	}
	plan.Employees = removed
	slices.Sort(plan.Roles)
	slices.Sort(plan.Employees)
	slices.Sort(plan.Detached)
	return plan
}
