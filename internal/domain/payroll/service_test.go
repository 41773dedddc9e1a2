package payroll

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"payscribe/internal/platform/pdfdoc"
)

type fakeStore struct {
	sources  []Source
	saved    map[string]Entry
	listErr  error
	upserted int
}

func newFakeStore(sources ...Source) *fakeStore {
	return &fakeStore{sources: sources, saved: map[string]Entry{}}
}

func (f *fakeStore) ListSources(_ context.Context, department string) ([]Source, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []Source
	for _, src := range f.sources {
		if department == "" || src.Department == department {
			out = append(out, src)
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertEntries(_ context.Context, period Period, entries []Entry) ([]Entry, error) {
	f.upserted++
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		key := entry.EmployeeID + "/" + period.Month
		entry.ID = "entry-" + key
		f.saved[key] = entry
		out = append(out, entry)
	}
	return out, nil
}

func (f *fakeStore) ListEntries(_ context.Context, period Period) ([]Entry, error) {
	var out []Entry
	for _, entry := range f.saved {
		if entry.Month == period.Month && entry.Year == period.Year {
			out = append(out, entry)
		}
	}
	return out, nil
}

func TestRunSnapshotsEmployees(t *testing.T) {
	store := newFakeStore(
		Source{EmployeeID: "e1", Name: "Aslam", Department: "BS", BasicSalary: 36000, WorkingDays: 26},
		Source{EmployeeID: "e2", Name: "Bilal", Department: "BS", BasicSalary: 35000, WorkingDays: 22},
		Source{EmployeeID: "e3", Name: "Daud", Department: "SOD", BasicSalary: 22000, WorkingDays: 30},
	)
	svc := NewService(store)

	result, err := svc.Run(context.Background(), Period{Month: "jul", Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, "July", result.Period.Month)
	assert.Len(t, result.Entries, 3)
	assert.Equal(t, Summary{TotalPayroll: 107545, EmployeeCount: 3, AverageSalary: 35848}, result.Summary)

	again, err := svc.Run(context.Background(), Period{Month: "7", Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, result.Summary, again.Summary)
	assert.Len(t, store.saved, 3)
}

func TestRunFiltersDepartment(t *testing.T) {
	store := newFakeStore(
		Source{EmployeeID: "e1", Name: "Aslam", Department: "BS", BasicSalary: 36000, WorkingDays: 26},
		Source{EmployeeID: "e3", Name: "Daud", Department: "SOD", BasicSalary: 22000, WorkingDays: 30},
	)
	result, err := NewService(store).Run(context.Background(), Period{Month: "July", Year: 2025, Department: "SOD"})
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, 30000.0, result.Entries[0].CalculatedSalary)
}

func TestRunWithNoEmployeesSkipsStore(t *testing.T) {
	store := newFakeStore()
	result, err := NewService(store).Run(context.Background(), Period{Month: "July", Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, Summary{}, result.Summary)
	assert.Empty(t, result.Entries)
	assert.Zero(t, store.upserted)
}

func TestRunRejectsBadData(t *testing.T) {
	store := newFakeStore(Source{EmployeeID: "e1", Name: "Broken", BasicSalary: -1, WorkingDays: 10})
	_, err := NewService(store).Run(context.Background(), Period{Month: "July", Year: 2025})
	assert.ErrorIs(t, err, ErrInvalidSalaryInput)

	_, err = NewService(store).Run(context.Background(), Period{Month: "Julember", Year: 2025})
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = NewService(store).Run(context.Background(), Period{Month: "July", Year: 25})
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestRunPropagatesStoreErrors(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("connection refused")
	_, err := NewService(store).Run(context.Background(), Period{Month: "July", Year: 2025})
	assert.ErrorContains(t, err, "connection refused")
}

func TestPreview(t *testing.T) {
	svc := NewService(newFakeStore())
	preview, err := svc.Preview(36000, 26)
	require.NoError(t, err)
	assert.Equal(t, 42545.0, preview.CalculatedSalary)

	_, err = svc.Preview(math.NaN(), 26)
	assert.ErrorIs(t, err, ErrInvalidSalaryInput)
}

func TestListEntriesReturnsEmptySlice(t *testing.T) {
	entries, summary, err := NewService(newFakeStore()).ListEntries(context.Background(), Period{Month: "August", Year: 2025})
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Zero(t, summary.EmployeeCount)
}

func TestNormalizeMonth(t *testing.T) {
	for _, raw := range []string{"July", "july", "JUL", "7", "07"} {
		month, err := NormalizeMonth(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, "July", month)
	}
	_, err := NormalizeMonth("13")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	assert.Equal(t, 7, int(MonthNumber("July")))
}

func sampleEntries() []Entry {
	return []Entry{
		{EmployeeName: "Aslam", Department: "BS", BasicSalary: 36000, WorkingDays: 26, CalculatedSalary: 42545},
		{EmployeeName: "Bilal", Department: "BS", BasicSalary: 35000, WorkingDays: 22, CalculatedSalary: 35000},
	}
}

func TestWriteRegisterPDF(t *testing.T) {
	var buf bytes.Buffer
	err := WriteRegisterPDF(&buf, pdfdoc.DefaultLetterhead(""), Period{Month: "July", Year: 2025, Department: "BS"}, sampleEntries())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWriteRegisterXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRegisterXLSX(&buf, Period{Month: "July", Year: 2025}, sampleEntries()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(registerSheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 5)
	assert.Equal(t, "Employee Name", rows[0][0])
	assert.Equal(t, "Aslam", rows[1][0])
	assert.Equal(t, "42545", rows[1][4])
	assert.Equal(t, "77545", rows[4][4])
}
