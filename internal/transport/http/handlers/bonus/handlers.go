package bonushandler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"payscribe/internal/domain/bonus"
	"payscribe/internal/platform/metrics"
	"payscribe/internal/requestctx"
	"payscribe/internal/transport/http/api"
	"payscribe/internal/transport/http/shared"
)

type Handler struct {
	Service *bonus.Service
	Metrics *metrics.Collector
}

func NewHandler(service *bonus.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Metrics: collector}
}

type saveRequest struct {
	Entries []bonus.Entry `json:"entries"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/bonuses/{year}", func(r chi.Router) {
		r.Get("/", h.handleReport)
		r.Put("/", h.handleSave)
		r.Get("/export.pdf", h.handleExportPDF)
	})
}

func yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		shared.FailValidation(w, requestctx.GetRequestID(r.Context()), []shared.ValidationIssue{
			{Field: "year", Reason: "must be a number"},
		})
		return 0, false
	}
	return year, true
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	report, err := h.Service.Report(r.Context(), year)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, report, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	var payload saveRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	report, err := h.Service.Save(r.Context(), year, payload.Entries)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, report, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.Service.RenderPDF(r.Context(), &buf, year); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	h.Metrics.RecordDocument("bonus.pdf")
	api.Attachment(w, shared.PDFContentType, fmt.Sprintf("bonus-report-%d.pdf", year), buf.Bytes())
}
