package invoicehandler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payscribe/internal/domain/invoice"
	"payscribe/internal/platform/metrics"
	"payscribe/internal/platform/pdfdoc"
)

func newRouter() (http.Handler, *metrics.Collector) {
	collector := metrics.New()
	svc := invoice.NewService(nil, invoice.NewCalculator(invoice.DefaultRates()), pdfdoc.DefaultLetterhead(""))
	r := chi.NewRouter()
	NewHandler(svc, collector).RegisterRoutes(r)
	return r, collector
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body)))
	return rec
}

func TestCalculateReferenceInvoice(t *testing.T) {
	router, _ := newRouter()
	rec := post(t, router, "/invoices/calculate", `{"serviceFee":139840,"skilledAttendance":0,"unskilledAttendance":286}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data invoice.InvoiceBreakdown `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, float64(727875), env.Data.TotalAmount)
}

func TestCalculateRejectsNegativeAttendance(t *testing.T) {
	router, _ := newRouter()
	rec := post(t, router, "/invoices/calculate", `{"serviceFee":1,"skilledAttendance":-1,"unskilledAttendance":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"skilled"`)
}

func TestPreviewKPK(t *testing.T) {
	router, _ := newRouter()
	body := `{"header":{"invoiceNumber":"TCS-001","month":"july","year":2025},
		"lines":[{"description":"Unskilled Labors","rate":2550,"attendance":286}],"serviceFee":139840}`
	rec := post(t, router, "/invoices/kpk/preview", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env struct {
		Data invoice.Invoice `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, invoice.KindKPK, env.Data.Kind)
	assert.Equal(t, "July", env.Data.Month)
	assert.Empty(t, env.Data.ID)
}

func TestPreviewRejectsUnknownFields(t *testing.T) {
	router, _ := newRouter()
	rec := post(t, router, "/invoices/kpk/preview", `{"bogus":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreviewPDFRecordsDocument(t *testing.T) {
	router, collector := newRouter()
	body := `{"header":{"invoiceNumber":"TCS-002"},"lines":[{"description":"Skilled Labors","rate":3150,"attendance":10}],"serviceFee":0}`
	rec := post(t, router, "/invoices/kpk/pdf", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
	documents := collector.Snapshot()["documentsTotal"].(map[string]uint64)
	assert.Equal(t, uint64(1), documents["invoice.kpk"])
}

func TestPresets(t *testing.T) {
	router, _ := newRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoices/dynamic/presets", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Drain Channel Cleaning")
}

func TestGetWithMalformedIDIsNotFound(t *testing.T) {
	router, _ := newRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoices/not-a-uuid", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
