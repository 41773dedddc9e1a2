package attendancehandler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"payscribe/internal/domain/attendance"
	"payscribe/internal/platform/metrics"
	"payscribe/internal/requestctx"
	"payscribe/internal/transport/http/api"
	"payscribe/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
	Metrics *metrics.Collector
}

func NewHandler(service *attendance.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Metrics: collector}
}

type summaryRequest struct {
	Sheet      attendance.Sheet `json:"sheet"`
	ServiceFee float64          `json:"serviceFee"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Get("/sheet", h.handleSheet)
		r.Post("/summary", h.handleSummary)
		r.Post("/apply", h.handleApply)
		r.Post("/export.pdf", h.handleExportPDF)
	})
}

func (h *Handler) handleSheet(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	v := shared.NewValidator()
	v.Required("department", query.Get("department"), "is required")
	v.Required("month", query.Get("month"), "is required")
	year, err := strconv.Atoi(query.Get("year"))
	if err != nil {
		v.Add("year", "must be a number")
	}
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	sheet, err := h.Service.Sheet(r.Context(), query.Get("department"), query.Get("month"), year)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, sheet, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	var payload summaryRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	result, err := h.Service.Summarize(payload.Sheet, payload.ServiceFee)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, result, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	var sheet attendance.Sheet
	if !shared.DecodeJSON(w, r, &sheet) {
		return
	}
	updated, err := h.Service.Apply(r.Context(), sheet)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, updated, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	var sheet attendance.Sheet
	if !shared.DecodeJSON(w, r, &sheet) {
		return
	}
	var buf bytes.Buffer
	if err := h.Service.RenderPDF(&buf, sheet); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	h.Metrics.RecordDocument("attendance.pdf")
	name := fmt.Sprintf("attendance-%s-%s-%d.pdf", slug(sheet.Department), strings.ToLower(sheet.Month), sheet.Year)
	api.Attachment(w, shared.PDFContentType, name, buf.Bytes())
}

func slug(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), "-"))
}
