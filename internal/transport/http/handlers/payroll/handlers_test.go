package payrollhandler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payscribe/internal/domain/payroll"
	"payscribe/internal/platform/pdfdoc"
)

func newRouter() http.Handler {
	h := NewHandler(payroll.NewService(nil), pdfdoc.DefaultLetterhead(""), nil)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func TestCalculate(t *testing.T) {
	rec := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"basicSalary":36000,"workingDays":26}`)
	newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payroll/calculate", body))
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data payroll.SalaryPreview `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, float64(42545), env.Data.CalculatedSalary)
}

func TestCalculateRejectsNegative(t *testing.T) {
	rec := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"basicSalary":-1,"workingDays":26}`)
	newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payroll/calculate", body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}

func TestEntriesRequirePeriod(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payroll/entries?year=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"month"`)
	assert.Contains(t, rec.Body.String(), `"field":"year"`)
}
