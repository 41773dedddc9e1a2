package payroll

import (
	"math"

	"payscribe/internal/domain/money"
	"payscribe/internal/domain/validation"
)

// ReferenceWorkingDays is the length of the month salaries are prorated against.
const ReferenceWorkingDays = 22

func CalculateSalary(basicSalary, workingDays float64) float64 {
	return money.RoundHalfUp(basicSalary / ReferenceWorkingDays * workingDays)
}

// ValidateSalaryInput is the single guard callers run before CalculateSalary.
func ValidateSalaryInput(basicSalary, workingDays float64) error {
	if err := checkAmount("basicSalary", basicSalary); err != nil {
		return err
	}
	return checkAmount("workingDays", workingDays)
}

func checkAmount(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return validation.New(ErrInvalidSalaryInput, field, "must be a finite number")
	}
	if value < 0 {
		return validation.New(ErrInvalidSalaryInput, field, "must not be negative")
	}
	return nil
}

func Summarize(entries []Entry) Summary {
	salaries := make([]float64, 0, len(entries))
	for _, entry := range entries {
		salaries = append(salaries, entry.CalculatedSalary)
	}
	summary := Summary{
		TotalPayroll:  money.Sum(salaries...),
		EmployeeCount: len(entries),
	}
	if summary.EmployeeCount > 0 {
		summary.AverageSalary = money.RoundHalfUp(summary.TotalPayroll / float64(summary.EmployeeCount))
	}
	return summary
}
