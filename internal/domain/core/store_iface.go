package core

import "context"

type StoreAPI interface {
	ListDepartments(ctx context.Context) ([]Department, error)
	GetDepartment(ctx context.Context, id string) (Department, error)
	DepartmentExists(ctx context.Context, name string) (bool, error)
	CreateDepartment(ctx context.Context, in DepartmentInput) (Department, error)
	UpdateDepartment(ctx context.Context, id string, in DepartmentInput) (Department, error)
	DeleteDepartment(ctx context.Context, id string) error
	RefreshDepartmentStats(ctx context.Context) error

	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	GetEmployee(ctx context.Context, id string) (Employee, error)
	CreateEmployee(ctx context.Context, emp Employee) (Employee, error)
	UpdateEmployee(ctx context.Context, id string, emp Employee) (Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
	UpdateWorkingDays(ctx context.Context, employees []Employee) error
}
