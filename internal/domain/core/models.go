package core

import "time"

type Category string

const (
	CategorySkilled   Category = "Skilled"
	CategoryUnskilled Category = "Unskilled"
)

type Employee struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	CNIC             string    `json:"cnic"`
	Department       string    `json:"department"`
	Category         Category  `json:"category"`
	BasicSalary      float64   `json:"basicSalary"`
	WorkingDays      float64   `json:"workingDays"`
	CalculatedSalary float64   `json:"calculatedSalary"`
	CashPayment      bool      `json:"cashPayment"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type EmployeeInput struct {
	Name        string  `json:"name"`
	CNIC        string  `json:"cnic"`
	Department  string  `json:"department"`
	Category    string  `json:"category"`
	BasicSalary float64 `json:"basicSalary"`
	WorkingDays float64 `json:"workingDays"`
	CashPayment bool    `json:"cashPayment"`
}

type Department struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	EmployeeCount int       `json:"employeeCount"`
	TotalSalary   float64   `json:"totalSalary"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type DepartmentInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type EmployeeFilter struct {
	Department string
	Category   Category
}

// WorkingDaysUpdate sets an employee's days for the month, usually from an attendance sheet.
type WorkingDaysUpdate struct {
	EmployeeID  string
	WorkingDays float64
}
