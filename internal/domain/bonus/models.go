package bonus

import (
	"errors"
	"time"

	"payscribe/internal/domain/core"
)

var ErrInvalidInput = errors.New("invalid bonus input")

type Record struct {
	ID           string        `json:"id"`
	EmployeeID   string        `json:"employeeId"`
	EmployeeName string        `json:"employeeName"`
	Department   string        `json:"department"`
	Category     core.Category `json:"category"`
	BonusYear    int           `json:"bonusYear"`
	BonusAmount  float64       `json:"bonusAmount"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// Entry is one amount sent by the bonus screen.
type Entry struct {
	EmployeeID  string  `json:"employeeId"`
	BonusAmount float64 `json:"bonusAmount"`
}

type DepartmentGroup struct {
	Department string   `json:"department"`
	Records    []Record `json:"records"`
	Subtotal   float64  `json:"subtotal"`
}

type Report struct {
	Year          int               `json:"year"`
	Departments   []DepartmentGroup `json:"departments"`
	GrandTotal    float64           `json:"grandTotal"`
	EmployeeCount int               `json:"employeeCount"`
}
