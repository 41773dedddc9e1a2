package payroll

import "time"

type Entry struct {
	ID               string    `json:"id"`
	EmployeeID       string    `json:"employeeId"`
	EmployeeName     string    `json:"employeeName"`
	Department       string    `json:"department"`
	BasicSalary      float64   `json:"basicSalary"`
	WorkingDays      float64   `json:"workingDays"`
	CalculatedSalary float64   `json:"calculatedSalary"`
	Month            string    `json:"month"`
	Year             int       `json:"year"`
	CreatedAt        time.Time `json:"createdAt"`
}

type Summary struct {
	TotalPayroll  float64 `json:"totalPayroll"`
	EmployeeCount int     `json:"employeeCount"`
	AverageSalary float64 `json:"averageSalary"`
}

// Period identifies a monthly payroll run. Department is optional; empty means every department.
type Period struct {
	Month      string `json:"month"`
	Year       int    `json:"year"`
	Department string `json:"department,omitempty"`
}

type RunResult struct {
	Period  Period  `json:"period"`
	Summary Summary `json:"summary"`
	Entries []Entry `json:"entries"`
}

type SalaryPreview struct {
	BasicSalary      float64 `json:"basicSalary"`
	WorkingDays      float64 `json:"workingDays"`
	CalculatedSalary float64 `json:"calculatedSalary"`
}

// Source is the employee data a payroll run snapshots.
type Source struct {
	EmployeeID  string
	Name        string
	Department  string
	BasicSalary float64
	WorkingDays float64
}
