package payroll

import "errors"

var (
	ErrInvalidSalaryInput = errors.New("invalid salary input")
	ErrInvalidPeriod      = errors.New("invalid payroll period")
)
