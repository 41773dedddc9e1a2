package payroll

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NormalizeMonth accepts a full or three-letter English month name, or a month number,
// and returns the full month name used in stored records.
func NormalizeMonth(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("%w: month is required", ErrInvalidPeriod)
	}
	if number, err := strconv.Atoi(value); err == nil {
		if number < 1 || number > 12 {
			return "", fmt.Errorf("%w: month %d out of range", ErrInvalidPeriod, number)
		}
		return time.Month(number).String(), nil
	}
	for m := time.January; m <= time.December; m++ {
		name := m.String()
		if strings.EqualFold(value, name) || strings.EqualFold(value, name[:3]) {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: unknown month %q", ErrInvalidPeriod, raw)
}

// MonthNumber is the inverse of NormalizeMonth for stored month names.
func MonthNumber(name string) time.Month {
	for m := time.January; m <= time.December; m++ {
		if m.String() == name {
			return m
		}
	}
	return 0
}

func ValidateYear(year int) error {
	if year < 1000 || year > 9999 {
		return fmt.Errorf("%w: year must have four digits", ErrInvalidPeriod)
	}
	return nil
}

func (p Period) Normalize() (Period, error) {
	month, err := NormalizeMonth(p.Month)
	if err != nil {
		return Period{}, err
	}
	if err := ValidateYear(p.Year); err != nil {
		return Period{}, err
	}
	return Period{Month: month, Year: p.Year, Department: strings.TrimSpace(p.Department)}, nil
}
