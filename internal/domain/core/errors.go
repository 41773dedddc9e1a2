package core

import (
	"errors"

	"payscribe/internal/domain/validation"
)

var (
	ErrInvalidInput           = errors.New("invalid employee input")
	ErrEmployeeNotFound       = errors.New("employee not found")
	ErrDepartmentNotFound     = errors.New("department not found")
	ErrDepartmentHasEmployees = errors.New("department still has employees")
	ErrDuplicateDepartment    = errors.New("department already exists")
)

func invalid(field, reason string) error {
	return validation.New(ErrInvalidInput, field, reason)
}
