package invoice

import (
	"errors"

	"payscribe/internal/domain/validation"
)

var (
	ErrInvalidInput           = errors.New("invalid invoice input")
	ErrInvoiceNotFound        = errors.New("invoice not found")
	ErrDuplicateInvoiceNumber = errors.New("invoice number already exists")
)

func invalid(field, reason string) error {
	return validation.New(ErrInvalidInput, field, reason)
}
