package payrollhandler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"payscribe/internal/domain/payroll"
	"payscribe/internal/platform/metrics"
	"payscribe/internal/platform/pdfdoc"
	"payscribe/internal/requestctx"
	"payscribe/internal/transport/http/api"
	"payscribe/internal/transport/http/shared"
)

type Handler struct {
	Service    *payroll.Service
	Letterhead pdfdoc.Letterhead
	Metrics    *metrics.Collector
}

func NewHandler(service *payroll.Service, letterhead pdfdoc.Letterhead, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Letterhead: letterhead, Metrics: collector}
}

type calculateRequest struct {
	BasicSalary float64 `json:"basicSalary"`
	WorkingDays float64 `json:"workingDays"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Post("/calculate", h.handleCalculate)
		r.Post("/runs", h.handleRun)
		r.Get("/entries", h.handleListEntries)
		r.Get("/export.pdf", h.handleExportPDF)
		r.Get("/export.xlsx", h.handleExportXLSX)
	})
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var payload calculateRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	preview, err := h.Service.Preview(payload.BasicSalary, payload.WorkingDays)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, preview, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	var payload payroll.Period
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	result, err := h.Service.Run(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, result, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleListEntries(w http.ResponseWriter, r *http.Request) {
	period, ok := periodFromQuery(w, r)
	if !ok {
		return
	}
	entries, summary, err := h.Service.ListEntries(r.Context(), period)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]any{"entries": entries, "summary": summary}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "pdf", shared.PDFContentType)
}

func (h *Handler) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "xlsx", shared.XLSXContentType)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request, format, contentType string) {
	period, ok := periodFromQuery(w, r)
	if !ok {
		return
	}
	entries, _, err := h.Service.ListEntries(r.Context(), period)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	period, _ = period.Normalize()

	var buf bytes.Buffer
	if format == "pdf" {
		err = payroll.WriteRegisterPDF(&buf, h.Letterhead, period, entries)
	} else {
		err = payroll.WriteRegisterXLSX(&buf, period, entries)
	}
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	h.Metrics.RecordDocument("payroll." + format)
	name := fmt.Sprintf("payroll-%s-%d.%s", strings.ToLower(period.Month), period.Year, format)
	api.Attachment(w, contentType, name, buf.Bytes())
}

func periodFromQuery(w http.ResponseWriter, r *http.Request) (payroll.Period, bool) {
	query := r.URL.Query()
	v := shared.NewValidator()
	v.Required("month", query.Get("month"), "is required")
	year, err := strconv.Atoi(query.Get("year"))
	if err != nil {
		v.Add("year", "must be a number")
	}
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return payroll.Period{}, false
	}
	return payroll.Period{Month: query.Get("month"), Year: year, Department: query.Get("department")}, true
}
