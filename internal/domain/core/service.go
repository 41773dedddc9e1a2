package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"payscribe/internal/domain/payroll"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) ListDepartments(ctx context.Context) ([]Department, error) {
	deps, err := s.store.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}
	if deps == nil {
		deps = []Department{}
	}
	return deps, nil
}

func (s *Service) CreateDepartment(ctx context.Context, in DepartmentInput) (Department, error) {
	in, err := in.Normalize()
	if err != nil {
		return Department{}, err
	}
	return s.store.CreateDepartment(ctx, in)
}

func (s *Service) UpdateDepartment(ctx context.Context, id string, in DepartmentInput) (Department, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Department{}, ErrDepartmentNotFound
	}
	in, err := in.Normalize()
	if err != nil {
		return Department{}, err
	}
	return s.store.UpdateDepartment(ctx, id, in)
}

func (s *Service) DeleteDepartment(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrDepartmentNotFound
	}
	return s.store.DeleteDepartment(ctx, id)
}

func (s *Service) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, error) {
	employees, err := s.store.ListEmployees(ctx, filter)
	if err != nil {
		return nil, err
	}
	if employees == nil {
		employees = []Employee{}
	}
	return employees, nil
}

func (s *Service) GetEmployee(ctx context.Context, id string) (Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Employee{}, ErrEmployeeNotFound
	}
	return s.store.GetEmployee(ctx, id)
}

func (s *Service) CreateEmployee(ctx context.Context, in EmployeeInput) (Employee, error) {
	emp, err := s.prepare(ctx, in)
	if err != nil {
		return Employee{}, err
	}
	created, err := s.store.CreateEmployee(ctx, emp)
	if err != nil {
		return Employee{}, err
	}
	s.refreshStats(ctx)
	return created, nil
}

func (s *Service) UpdateEmployee(ctx context.Context, id string, in EmployeeInput) (Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Employee{}, ErrEmployeeNotFound
	}
	emp, err := s.prepare(ctx, in)
	if err != nil {
		return Employee{}, err
	}
	updated, err := s.store.UpdateEmployee(ctx, id, emp)
	if err != nil {
		return Employee{}, err
	}
	s.refreshStats(ctx)
	return updated, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrEmployeeNotFound
	}
	if err := s.store.DeleteEmployee(ctx, id); err != nil {
		return err
	}
	s.refreshStats(ctx)
	return nil
}

// ApplyWorkingDays stores new day counts and recomputes each employee's salary from them.
func (s *Service) ApplyWorkingDays(ctx context.Context, updates []WorkingDaysUpdate) ([]Employee, error) {
	employees := make([]Employee, 0, len(updates))
	for _, update := range updates {
		emp, err := s.GetEmployee(ctx, update.EmployeeID)
		if err != nil {
			return nil, fmt.Errorf("employee %s: %w", update.EmployeeID, err)
		}
		if err := payroll.ValidateSalaryInput(emp.BasicSalary, update.WorkingDays); err != nil {
			return nil, err
		}
		emp.WorkingDays = update.WorkingDays
		emp.CalculatedSalary = payroll.CalculateSalary(emp.BasicSalary, emp.WorkingDays)
		employees = append(employees, emp)
	}
	if len(employees) == 0 {
		return employees, nil
	}
	if err := s.store.UpdateWorkingDays(ctx, employees); err != nil {
		return nil, err
	}
	s.refreshStats(ctx)
	return employees, nil
}

func (s *Service) prepare(ctx context.Context, in EmployeeInput) (Employee, error) {
	emp, err := in.Normalize()
	if err != nil {
		return Employee{}, err
	}
	exists, err := s.store.DepartmentExists(ctx, emp.Department)
	if err != nil {
		return Employee{}, err
	}
	if !exists {
		return Employee{}, invalid("department", "does not exist")
	}
	return emp, nil
}

// RefreshDepartmentStats recomputes every department's employee count and salary total.
func (s *Service) RefreshDepartmentStats(ctx context.Context) error {
	return s.store.RefreshDepartmentStats(ctx)
}

// refreshStats keeps the department counters in step with employees. A failure here
// leaves stale counters, not bad data, so it is logged rather than returned.
func (s *Service) refreshStats(ctx context.Context) {
	if err := s.store.RefreshDepartmentStats(ctx); err != nil {
		slog.Warn("refresh department stats failed", "err", err)
	}
}
