// Package attendance builds monthly attendance sheets and turns them into working days
// and invoice attendance counts.
package attendance

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"payscribe/internal/domain/core"
	"payscribe/internal/domain/validation"
)

var ErrInvalidInput = errors.New("invalid attendance input")

type Status string

const (
	Present Status = "P"
	Absent  Status = "A"
)

func (s Status) Valid() bool {
	return s == Present || s == Absent
}

// Record is one employee's row. Days[0] is the first of the month.
type Record struct {
	EmployeeID string        `json:"employeeId"`
	Name       string        `json:"name"`
	Category   core.Category `json:"category"`
	Days       []Status      `json:"days"`
	TotalDays  int           `json:"totalDays"`
}

type Sheet struct {
	Department  string   `json:"department"`
	Month       string   `json:"month"`
	Year        int      `json:"year"`
	DaysInMonth int      `json:"daysInMonth"`
	Records     []Record `json:"records"`
}

type Summary struct {
	EmployeeCount       int `json:"employeeCount"`
	TotalDays           int `json:"totalDays"`
	SkilledAttendance   int `json:"skilledAttendance"`
	UnskilledAttendance int `json:"unskilledAttendance"`
}

func invalid(field, reason string) error {
	return validation.New(ErrInvalidInput, field, reason)
}

func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// BuildSheet marks weekdays present and weekends absent for every employee.
func BuildSheet(department string, year int, month time.Month, employees []core.Employee) Sheet {
	days := DaysIn(year, month)
	template := make([]Status, days)
	for day := 1; day <= days; day++ {
		switch time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Weekday() {
		case time.Saturday, time.Sunday:
			template[day-1] = Absent
		default:
			template[day-1] = Present
		}
	}

	sheet := Sheet{
		Department:  department,
		Month:       month.String(),
		Year:        year,
		DaysInMonth: days,
		Records:     make([]Record, 0, len(employees)),
	}
	for _, emp := range employees {
		record := Record{
			EmployeeID: emp.ID,
			Name:       emp.Name,
			Category:   emp.Category,
			Days:       append([]Status(nil), template...),
		}
		record.TotalDays = countPresent(record.Days)
		sheet.Records = append(sheet.Records, record)
	}
	return sheet
}

func countPresent(days []Status) int {
	total := 0
	for _, status := range days {
		if status == Present {
			total++
		}
	}
	return total
}

// Mark sets one day for one employee and recomputes that employee's total.
func (s *Sheet) Mark(employeeID string, day int, status Status) error {
	if !status.Valid() {
		return invalid("status", "must be P or A")
	}
	if day < 1 || day > s.DaysInMonth {
		return invalid("day", fmt.Sprintf("must be between 1 and %d", s.DaysInMonth))
	}
	for i := range s.Records {
		if s.Records[i].EmployeeID != employeeID {
			continue
		}
		s.Records[i].Days[day-1] = status
		s.Records[i].TotalDays = countPresent(s.Records[i].Days)
		return nil
	}
	return invalid("employeeId", "is not on the sheet")
}

// Validate checks a sheet sent back by a client and recomputes every total from its days.
func (s *Sheet) Validate() error {
	if s.DaysInMonth < 28 || s.DaysInMonth > 31 {
		return invalid("daysInMonth", "must be between 28 and 31")
	}
	for i := range s.Records {
		record := &s.Records[i]
		field := "records[" + strconv.Itoa(i) + "]"
		if record.EmployeeID == "" {
			return invalid(field+".employeeId", "is required")
		}
		if len(record.Days) != s.DaysInMonth {
			return invalid(field+".days", fmt.Sprintf("must have %d entries", s.DaysInMonth))
		}
		for _, status := range record.Days {
			if !status.Valid() {
				return invalid(field+".days", "must contain only P or A")
			}
		}
		record.TotalDays = countPresent(record.Days)
	}
	return nil
}

// Summary totals present days and splits them by labor category for invoicing.
func (s Sheet) Summary() Summary {
	summary := Summary{EmployeeCount: len(s.Records)}
	for _, record := range s.Records {
		summary.TotalDays += record.TotalDays
		switch record.Category {
		case core.CategorySkilled:
			summary.SkilledAttendance += record.TotalDays
		case core.CategoryUnskilled:
			summary.UnskilledAttendance += record.TotalDays
		}
	}
	return summary
}
