package core

import (
	"errors"
	"regexp"
	"strings"

	"payscribe/internal/domain/payroll"
	"payscribe/internal/domain/validation"
)

var cnicPattern = regexp.MustCompile(`^\d{5}-\d{7}-\d$`)

// ValidCNIC reports whether value is a national identity number in #####-#######-# form.
func ValidCNIC(value string) bool {
	return cnicPattern.MatchString(value)
}

// ParseCategory accepts the category name in any letter case.
func ParseCategory(raw string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "skilled":
		return CategorySkilled, true
	case "unskilled":
		return CategoryUnskilled, true
	}
	return "", false
}

// Normalize trims and validates the input and returns the employee it describes.
// CalculatedSalary is always derived, never taken from the caller.
func (in EmployeeInput) Normalize() (Employee, error) {
	emp := Employee{
		Name:        strings.TrimSpace(in.Name),
		CNIC:        strings.TrimSpace(in.CNIC),
		Department:  strings.TrimSpace(in.Department),
		BasicSalary: in.BasicSalary,
		WorkingDays: in.WorkingDays,
		CashPayment: in.CashPayment,
	}
	if emp.Name == "" {
		return Employee{}, invalid("name", "is required")
	}
	if !ValidCNIC(emp.CNIC) {
		return Employee{}, invalid("cnic", "must match #####-#######-#")
	}
	if emp.Department == "" {
		return Employee{}, invalid("department", "is required")
	}
	category, ok := ParseCategory(in.Category)
	if !ok {
		return Employee{}, invalid("category", "must be Skilled or Unskilled")
	}
	emp.Category = category
	if err := payroll.ValidateSalaryInput(emp.BasicSalary, emp.WorkingDays); err != nil {
		var fieldErr *validation.FieldError
		if errors.As(err, &fieldErr) {
			return Employee{}, invalid(fieldErr.Field, fieldErr.Reason)
		}
		return Employee{}, err
	}
	if emp.WorkingDays > 31 {
		return Employee{}, invalid("workingDays", "must not exceed 31")
	}
	emp.CalculatedSalary = payroll.CalculateSalary(emp.BasicSalary, emp.WorkingDays)
	return emp, nil
}

func (in DepartmentInput) Normalize() (DepartmentInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return DepartmentInput{}, invalid("name", "is required")
	}
	if len(in.Name) > 100 {
		return DepartmentInput{}, invalid("name", "must be at most 100 characters")
	}
	return in, nil
}
