package corehandler

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"payscribe/internal/domain/core"
	"payscribe/internal/platform/metrics"
	"payscribe/internal/requestctx"
	"payscribe/internal/transport/http/api"
	"payscribe/internal/transport/http/shared"
)

const maxRosterBytes = 8 << 20

type Handler struct {
	Service *core.Service
	Metrics *metrics.Collector
}

func NewHandler(service *core.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/departments", func(r chi.Router) {
		r.Get("/", h.handleListDepartments)
		r.Post("/", h.handleCreateDepartment)
		r.Put("/{departmentID}", h.handleUpdateDepartment)
		r.Delete("/{departmentID}", h.handleDeleteDepartment)
	})
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleListEmployees)
		r.Post("/", h.handleCreateEmployee)
		r.Post("/import", h.handleImportRoster)
		r.Get("/import/template", h.handleRosterTemplate)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.Get("/", h.handleGetEmployee)
			r.Put("/", h.handleUpdateEmployee)
			r.Delete("/", h.handleDeleteEmployee)
		})
	})
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	deps, err := h.Service.ListDepartments(r.Context())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, deps, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	var payload core.DepartmentInput
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	dep, err := h.Service.CreateDepartment(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, dep, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	var payload core.DepartmentInput
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	dep, err := h.Service.UpdateDepartment(r.Context(), chi.URLParam(r, "departmentID"), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, dep, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteDepartment(r.Context(), chi.URLParam(r, "departmentID")); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	filter := core.EmployeeFilter{Department: r.URL.Query().Get("department")}
	if raw := r.URL.Query().Get("category"); raw != "" {
		category, ok := core.ParseCategory(raw)
		if !ok {
			shared.FailValidation(w, requestctx.GetRequestID(r.Context()), []shared.ValidationIssue{
				{Field: "category", Reason: "must be Skilled or Unskilled"},
			})
			return
		}
		filter.Category = category
	}
	employees, err := h.Service.ListEmployees(r.Context(), filter)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, employees, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Service.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, emp, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var payload core.EmployeeInput
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	emp, err := h.Service.CreateEmployee(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, emp, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var payload core.EmployeeInput
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	emp, err := h.Service.UpdateEmployee(r.Context(), chi.URLParam(r, "employeeID"), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, emp, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteEmployee(r.Context(), chi.URLParam(r, "employeeID")); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, requestctx.GetRequestID(r.Context()))
}

// handleImportRoster expects a multipart form with the workbook in the "file" field.
func (h *Handler) handleImportRoster(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxRosterBytes); err != nil {
		shared.FailValidation(w, requestctx.GetRequestID(r.Context()), []shared.ValidationIssue{
			{Field: "file", Reason: "must be a multipart upload"},
		})
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		shared.FailValidation(w, requestctx.GetRequestID(r.Context()), []shared.ValidationIssue{
			{Field: "file", Reason: "is required"},
		})
		return
	}
	defer file.Close()

	result, err := h.Service.ImportRoster(r.Context(), file)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, result, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleRosterTemplate(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := core.WriteRosterTemplate(&buf); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	h.Metrics.RecordDocument("roster-template.xlsx")
	api.Attachment(w, shared.XLSXContentType, "employee-roster-template.xlsx", buf.Bytes())
}
