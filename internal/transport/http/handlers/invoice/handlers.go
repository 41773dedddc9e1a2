package invoicehandler

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"payscribe/internal/domain/invoice"
	"payscribe/internal/platform/metrics"
	"payscribe/internal/requestctx"
	"payscribe/internal/transport/http/api"
	"payscribe/internal/transport/http/shared"
)

type Handler struct {
	Service *invoice.Service
	Metrics *metrics.Collector
}

func NewHandler(service *invoice.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Metrics: collector}
}

type calculateRequest struct {
	ServiceFee          float64 `json:"serviceFee"`
	SkilledAttendance   int     `json:"skilledAttendance"`
	UnskilledAttendance int     `json:"unskilledAttendance"`
}

type listResponse struct {
	Items  []invoice.Invoice `json:"items"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// previewFunc decodes a request body and prices it without saving.
type previewFunc func(w http.ResponseWriter, r *http.Request) (invoice.Invoice, bool)

func previewOf[T any](preview func(T) (invoice.Invoice, error)) previewFunc {
	return func(w http.ResponseWriter, r *http.Request) (invoice.Invoice, bool) {
		var payload T
		if !shared.DecodeJSON(w, r, &payload) {
			return invoice.Invoice{}, false
		}
		inv, err := preview(payload)
		if err != nil {
			shared.WriteError(w, r, err)
			return invoice.Invoice{}, false
		}
		return inv, true
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/invoices", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/calculate", h.handleCalculate)
		r.Get("/dynamic/presets", h.handlePresets)

		h.registerKind(r, "/kpk", previewOf(h.Service.PreviewKPK))
		h.registerKind(r, "/project", previewOf(h.Service.PreviewProject))
		h.registerKind(r, "/weed-cutting", previewOf(h.Service.PreviewWeedCutting))
		h.registerKind(r, "/dynamic", previewOf(h.Service.PreviewDynamic))

		r.Route("/{invoiceID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Put("/", h.handleUpdateHeader)
			r.Delete("/", h.handleDelete)
			r.Get("/pdf", h.handleStoredPDF)
		})
	})
}

func (h *Handler) registerKind(r chi.Router, path string, preview previewFunc) {
	r.Post(path, func(w http.ResponseWriter, r *http.Request) {
		inv, ok := preview(w, r)
		if !ok {
			return
		}
		saved, err := h.Service.Save(r.Context(), inv)
		if err != nil {
			shared.WriteError(w, r, err)
			return
		}
		slog.Info("invoice saved", "invoice", invoice.Describe(saved), "total", saved.TotalAmount)
		api.Created(w, saved, requestctx.GetRequestID(r.Context()))
	})
	r.Post(path+"/preview", func(w http.ResponseWriter, r *http.Request) {
		inv, ok := preview(w, r)
		if !ok {
			return
		}
		api.Success(w, inv, requestctx.GetRequestID(r.Context()))
	})
	r.Post(path+"/pdf", func(w http.ResponseWriter, r *http.Request) {
		inv, ok := preview(w, r)
		if !ok {
			return
		}
		h.writePDF(w, r, inv)
	})
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var payload calculateRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	breakdown, err := h.Service.CalculateLabor(payload.ServiceFee, payload.SkilledAttendance, payload.UnskilledAttendance)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, breakdown, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handlePresets(w http.ResponseWriter, r *http.Request) {
	api.Success(w, invoice.ContractPresets(), requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	filter := invoice.ListFilter{
		Department: r.URL.Query().Get("department"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		v := shared.NewValidator()
		if err != nil {
			v.Add("year", "must be a number")
		} else {
			v.Year("year", year)
		}
		if v.Reject(w, requestctx.GetRequestID(r.Context())) {
			return
		}
		filter.Year = year
	}
	items, total, err := h.Service.List(r.Context(), filter)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, listResponse{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Service.Get(r.Context(), chi.URLParam(r, "invoiceID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, inv, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateHeader(w http.ResponseWriter, r *http.Request) {
	var payload invoice.Header
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	inv, err := h.Service.UpdateHeader(r.Context(), chi.URLParam(r, "invoiceID"), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, inv, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "invoiceID")); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleStoredPDF(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Service.Get(r.Context(), chi.URLParam(r, "invoiceID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	h.writePDF(w, r, inv)
}

func (h *Handler) writePDF(w http.ResponseWriter, r *http.Request, inv invoice.Invoice) {
	var buf bytes.Buffer
	if err := h.Service.RenderPDF(&buf, inv); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	h.Metrics.RecordDocument("invoice." + string(inv.Kind))
	api.Attachment(w, shared.PDFContentType, "invoice-"+invoice.Describe(inv)+".pdf", buf.Bytes())
}
