package invoice

import (
	"fmt"
	"math"
)

// ValidateLaborInput guards CalculateInvoiceTotal.
func ValidateLaborInput(serviceFee float64, skilled, unskilled int) error {
	if err := checkAmount("serviceFee", serviceFee); err != nil {
		return err
	}
	if skilled < 0 {
		return invalid("skilled", "must not be negative")
	}
	if unskilled < 0 {
		return invalid("unskilled", "must not be negative")
	}
	return nil
}

func checkAmount(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return invalid(field, "must be a finite number")
	}
	if value < 0 {
		return invalid(field, "must not be negative")
	}
	return nil
}

func checkGSTPercent(percent *float64) error {
	if percent == nil {
		return nil
	}
	if err := checkAmount("gstPercent", *percent); err != nil {
		return err
	}
	if *percent > 100 {
		return invalid("gstPercent", "must not exceed 100")
	}
	return nil
}

func indexed(prefix string, i int, field string) string {
	return fmt.Sprintf("%s[%d].%s", prefix, i, field)
}
