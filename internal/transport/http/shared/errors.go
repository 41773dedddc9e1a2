package shared

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"payscribe/internal/domain/attendance"
	"payscribe/internal/domain/auth"
	"payscribe/internal/domain/bonus"
	"payscribe/internal/domain/core"
	"payscribe/internal/domain/invoice"
	"payscribe/internal/domain/payroll"
	"payscribe/internal/domain/validation"
	"payscribe/internal/requestctx"
	"payscribe/internal/transport/http/api"
)

var (
	notFoundErrors = []error{core.ErrEmployeeNotFound, core.ErrDepartmentNotFound, invoice.ErrInvoiceNotFound}
	conflictErrors = []error{core.ErrDuplicateDepartment, core.ErrDepartmentHasEmployees, invoice.ErrDuplicateInvoiceNumber}
	invalidErrors  = []error{
		core.ErrInvalidInput, invoice.ErrInvalidInput, attendance.ErrInvalidInput, bonus.ErrInvalidInput,
		payroll.ErrInvalidSalaryInput, payroll.ErrInvalidPeriod,
	}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// WriteError maps a service error onto the response envelope. Unknown errors are
// logged and reported as 500 without their cause.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestctx.GetRequestID(r.Context())

	var fieldErr *validation.FieldError
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &fieldErr):
		FailValidation(w, requestID, []ValidationIssue{{Field: fieldErr.Field, Reason: fieldErr.Reason}})
	case isAny(err, invalidErrors):
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
	case isAny(err, notFoundErrors):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case isAny(err, conflictErrors):
		api.Fail(w, http.StatusConflict, "conflict", err.Error(), requestID)
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", err.Error(), requestID)
	case errors.As(err, &maxBytes):
		api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "request_id", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
	}
}

// DecodeJSON reads the body into dst and writes the error response when it cannot.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			WriteError(w, r, err)
			return false
		}
		if errors.Is(err, io.EOF) {
			api.Fail(w, http.StatusBadRequest, "invalid_json", "request body is empty", requestctx.GetRequestID(r.Context()))
			return false
		}
		api.Fail(w, http.StatusBadRequest, "invalid_json", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return false
	}
	return true
}
