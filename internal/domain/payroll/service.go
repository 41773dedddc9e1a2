package payroll

import (
	"context"
	"fmt"
	"log/slog"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) Preview(basicSalary, workingDays float64) (SalaryPreview, error) {
	if err := ValidateSalaryInput(basicSalary, workingDays); err != nil {
		return SalaryPreview{}, err
	}
	return SalaryPreview{
		BasicSalary:      basicSalary,
		WorkingDays:      workingDays,
		CalculatedSalary: CalculateSalary(basicSalary, workingDays),
	}, nil
}

// Run snapshots every matching employee into the period and returns the run totals.
func (s *Service) Run(ctx context.Context, period Period) (RunResult, error) {
	period, err := period.Normalize()
	if err != nil {
		return RunResult{}, err
	}

	sources, err := s.store.ListSources(ctx, period.Department)
	if err != nil {
		return RunResult{}, fmt.Errorf("list payroll employees: %w", err)
	}

	entries := make([]Entry, 0, len(sources))
	for _, src := range sources {
		if err := ValidateSalaryInput(src.BasicSalary, src.WorkingDays); err != nil {
			return RunResult{}, fmt.Errorf("employee %s: %w", src.Name, err)
		}
		entries = append(entries, Entry{
			EmployeeID:       src.EmployeeID,
			EmployeeName:     src.Name,
			Department:       src.Department,
			BasicSalary:      src.BasicSalary,
			WorkingDays:      src.WorkingDays,
			CalculatedSalary: CalculateSalary(src.BasicSalary, src.WorkingDays),
			Month:            period.Month,
			Year:             period.Year,
		})
	}

	if len(entries) == 0 {
		slog.Warn("payroll run matched no employees", "month", period.Month, "year", period.Year, "department", period.Department)
		return RunResult{Period: period, Summary: Summarize(nil), Entries: []Entry{}}, nil
	}

	saved, err := s.store.UpsertEntries(ctx, period, entries)
	if err != nil {
		return RunResult{}, fmt.Errorf("save payroll entries: %w", err)
	}
	return RunResult{Period: period, Summary: Summarize(saved), Entries: saved}, nil
}

func (s *Service) ListEntries(ctx context.Context, period Period) ([]Entry, Summary, error) {
	period, err := period.Normalize()
	if err != nil {
		return nil, Summary{}, err
	}
	entries, err := s.store.ListEntries(ctx, period)
	if err != nil {
		return nil, Summary{}, err
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, Summarize(entries), nil
}
