package attendancehandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payscribe/internal/domain/attendance"
	"payscribe/internal/domain/core"
	"payscribe/internal/domain/invoice"
	"payscribe/internal/platform/pdfdoc"
)

type fakeEmployees struct {
	applied []core.WorkingDaysUpdate
}

func (f *fakeEmployees) ListEmployees(context.Context, core.EmployeeFilter) ([]core.Employee, error) {
	return []core.Employee{
		{ID: "e1", Name: "Ali", Department: "BS", Category: core.CategoryUnskilled},
	}, nil
}

func (f *fakeEmployees) ApplyWorkingDays(_ context.Context, updates []core.WorkingDaysUpdate) ([]core.Employee, error) {
	f.applied = append(f.applied, updates...)
	out := make([]core.Employee, 0, len(updates))
	for _, u := range updates {
		out = append(out, core.Employee{ID: u.EmployeeID, WorkingDays: u.WorkingDays})
	}
	return out, nil
}

func newRouter(employees *fakeEmployees) http.Handler {
	svc := attendance.NewService(employees, invoice.NewCalculator(invoice.DefaultRates()), pdfdoc.DefaultLetterhead(""))
	r := chi.NewRouter()
	NewHandler(svc, nil).RegisterRoutes(r)
	return r
}

func sheetJSON(t *testing.T) []byte {
	t.Helper()
	sheet := attendance.BuildSheet("BS", 2025, time.July, []core.Employee{{ID: "e1", Name: "Ali", Category: core.CategoryUnskilled}})
	raw, err := json.Marshal(sheet)
	require.NoError(t, err)
	return raw
}

func TestSheet(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&fakeEmployees{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/attendance/sheet?department=BS&month=7&year=2025", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env struct {
		Data attendance.Sheet `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "July", env.Data.Month)
	require.Len(t, env.Data.Records, 1)
	assert.Equal(t, 23, env.Data.Records[0].TotalDays)
}

func TestSheetRequiresQuery(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&fakeEmployees{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/attendance/sheet?year=2025", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"department"`)
}

func TestSummary(t *testing.T) {
	body := []byte(`{"serviceFee":0,"sheet":`)
	body = append(body, sheetJSON(t)...)
	body = append(body, '}')

	rec := httptest.NewRecorder()
	newRouter(&fakeEmployees{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/attendance/summary", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env struct {
		Data attendance.SummaryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, 23, env.Data.Summary.UnskilledAttendance)
	assert.Equal(t, 0, env.Data.Summary.SkilledAttendance)
}

func TestApplyWritesWorkingDays(t *testing.T) {
	employees := &fakeEmployees{}
	rec := httptest.NewRecorder()
	newRouter(employees).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/attendance/apply", bytes.NewReader(sheetJSON(t))))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, employees.applied, 1)
	assert.Equal(t, float64(23), employees.applied[0].WorkingDays)
}

func TestExportPDF(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&fakeEmployees{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/attendance/export.pdf", bytes.NewReader(sheetJSON(t))))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attendance-bs-july-2025.pdf")
}
