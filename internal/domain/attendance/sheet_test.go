package attendance

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payscribe/internal/domain/core"
	"payscribe/internal/domain/invoice"
	"payscribe/internal/domain/validation"
	"payscribe/internal/platform/pdfdoc"
)

func crew() []core.Employee {
	return []core.Employee{
		{ID: "e1", Name: "Aslam", Category: core.CategorySkilled, BasicSalary: 36000},
		{ID: "e2", Name: "Bilal", Category: core.CategoryUnskilled, BasicSalary: 35000},
	}
}

func TestBuildSheetMarksWeekendsAbsent(t *testing.T) {
	// July 2025 starts on a Tuesday and has 23 weekdays.
	sheet := BuildSheet("BS", 2025, time.July, crew())
	assert.Equal(t, 31, sheet.DaysInMonth)
	assert.Equal(t, "July", sheet.Month)
	require.Len(t, sheet.Records, 2)

	record := sheet.Records[0]
	assert.Equal(t, Present, record.Days[0])
	assert.Equal(t, Absent, record.Days[4])
	assert.Equal(t, Absent, record.Days[5])
	assert.Equal(t, 23, record.TotalDays)
}

func TestBuildSheetRecordsDoNotShareDays(t *testing.T) {
	sheet := BuildSheet("BS", 2025, time.July, crew())
	require.NoError(t, sheet.Mark("e1", 1, Absent))
	assert.Equal(t, Present, sheet.Records[1].Days[0])
}

func TestMarkRecomputesTotal(t *testing.T) {
	sheet := BuildSheet("BS", 2025, time.February, crew())
	assert.Equal(t, 28, sheet.DaysInMonth)
	before := sheet.Records[0].TotalDays

	require.NoError(t, sheet.Mark("e1", 1, Present))
	require.NoError(t, sheet.Mark("e1", 3, Absent))
	assert.Equal(t, before, sheet.Records[0].TotalDays)

	require.NoError(t, sheet.Mark("e1", 2, Present))
	assert.Equal(t, before+1, sheet.Records[0].TotalDays)
}

func TestMarkRejectsBadInput(t *testing.T) {
	sheet := BuildSheet("BS", 2025, time.July, crew())
	cases := []struct {
		employee string
		day      int
		status   Status
		field    string
	}{
		{"e1", 0, Present, "day"},
		{"e1", 32, Present, "day"},
		{"e1", 3, "L", "status"},
		{"e9", 3, Present, "employeeId"},
	}
	for _, tc := range cases {
		err := sheet.Mark(tc.employee, tc.day, tc.status)
		var fieldErr *validation.FieldError
		require.True(t, errors.As(err, &fieldErr))
		assert.Equal(t, tc.field, fieldErr.Field)
	}
}

func TestSummarySplitsCategories(t *testing.T) {
	sheet := BuildSheet("BS", 2025, time.July, crew())
	summary := sheet.Summary()
	assert.Equal(t, 2, summary.EmployeeCount)
	assert.Equal(t, 46, summary.TotalDays)
	assert.Equal(t, 23, summary.SkilledAttendance)
	assert.Equal(t, 23, summary.UnskilledAttendance)
}

func TestValidateRecomputesTotals(t *testing.T) {
	sheet := BuildSheet("BS", 2025, time.July, crew())
	sheet.Records[0].TotalDays = 99
	require.NoError(t, sheet.Validate())
	assert.Equal(t, 23, sheet.Records[0].TotalDays)

	sheet.Records[1].Days = sheet.Records[1].Days[:10]
	assert.ErrorIs(t, sheet.Validate(), ErrInvalidInput)
}

type fakeEmployees struct {
	applied []core.WorkingDaysUpdate
}

func (f *fakeEmployees) ListEmployees(_ context.Context, filter core.EmployeeFilter) ([]core.Employee, error) {
	if filter.Department != "BS" {
		return nil, nil
	}
	return crew(), nil
}

func (f *fakeEmployees) ApplyWorkingDays(_ context.Context, updates []core.WorkingDaysUpdate) ([]core.Employee, error) {
	f.applied = updates
	return crew(), nil
}

func newService(employees EmployeeSource) *Service {
	return NewService(employees, invoice.NewCalculator(invoice.DefaultRates()), pdfdoc.DefaultLetterhead(""))
}

func TestServiceSheetNormalizesMonth(t *testing.T) {
	svc := newService(&fakeEmployees{})
	sheet, err := svc.Sheet(context.Background(), "BS", "7", 2025)
	require.NoError(t, err)
	assert.Equal(t, "July", sheet.Month)
	assert.Len(t, sheet.Records, 2)

	_, err = svc.Sheet(context.Background(), "", "July", 2025)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSummarizeFeedsInvoiceTotals(t *testing.T) {
	svc := newService(&fakeEmployees{})
	sheet := Sheet{Department: "BS", Month: "July", Year: 2025, DaysInMonth: 31}
	days := make([]Status, 31)
	for i := range days {
		days[i] = Absent
	}
	for i := 0; i < 26; i++ {
		days[i] = Present
	}
	for i := 0; i < 11; i++ {
		sheet.Records = append(sheet.Records, Record{
			EmployeeID: "u", Category: core.CategoryUnskilled, Days: append([]Status(nil), days...),
		})
	}

	result, err := svc.Summarize(sheet, 139840)
	require.NoError(t, err)
	assert.Equal(t, 286, result.Summary.UnskilledAttendance)
	assert.Equal(t, invoice.CalculateInvoiceTotal(139840, 0, 286), result.Invoice)
	assert.Equal(t, float64(727875), result.Invoice.TotalAmount)
}

func TestApplyWritesTotals(t *testing.T) {
	employees := &fakeEmployees{}
	svc := newService(employees)
	sheet := BuildSheet("BS", 2025, time.July, crew())
	require.NoError(t, sheet.Mark("e2", 1, Absent))

	_, err := svc.Apply(context.Background(), sheet)
	require.NoError(t, err)
	assert.Equal(t, []core.WorkingDaysUpdate{
		{EmployeeID: "e1", WorkingDays: 23},
		{EmployeeID: "e2", WorkingDays: 22},
	}, employees.applied)
}

func TestRenderPDF(t *testing.T) {
	svc := newService(&fakeEmployees{})
	var buf bytes.Buffer
	require.NoError(t, svc.RenderPDF(&buf, BuildSheet("BS", 2025, time.July, crew())))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
