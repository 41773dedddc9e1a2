package invoice

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"payscribe/internal/domain/payroll"
	"payscribe/internal/platform/pdfdoc"
)

type KPKRequest struct {
	Header Header `json:"header"`
	KPKInput
}

type ProjectRequest struct {
	Header Header `json:"header"`
	ProjectInput
}

type WeedCuttingRequest struct {
	Header Header `json:"header"`
	WeedCuttingInput
}

type DynamicRequest struct {
	Header Header `json:"header"`
	DynamicInput
}

type Service struct {
	store      StoreAPI
	calc       Calculator
	letterhead pdfdoc.Letterhead
	now        func() time.Time
}

func NewService(store StoreAPI, calc Calculator, letterhead pdfdoc.Letterhead) *Service {
	return &Service{store: store, calc: calc, letterhead: letterhead, now: time.Now}
}

func (s *Service) Calculator() Calculator {
	return s.calc
}

func (s *Service) CalculateLabor(serviceFee float64, skilled, unskilled int) (InvoiceBreakdown, error) {
	if err := ValidateLaborInput(serviceFee, skilled, unskilled); err != nil {
		return InvoiceBreakdown{}, err
	}
	return s.calc.CalculateInvoiceTotal(serviceFee, skilled, unskilled), nil
}

func (s *Service) PreviewKPK(req KPKRequest) (Invoice, error) {
	if err := req.KPKInput.Validate(); err != nil {
		return Invoice{}, err
	}
	header, err := normalizeHeader(req.Header)
	if err != nil {
		return Invoice{}, err
	}
	return KPKInvoice(header, s.calc.KPK(req.KPKInput), s.now()), nil
}

func (s *Service) PreviewProject(req ProjectRequest) (Invoice, error) {
	return s.previewProject(KindProject, req.Header, req.ProjectInput)
}

func (s *Service) PreviewWeedCutting(req WeedCuttingRequest) (Invoice, error) {
	return s.previewProject(KindWeedCutting, req.Header, req.WeedCuttingInput.Project())
}

func (s *Service) previewProject(kind Kind, header Header, in ProjectInput) (Invoice, error) {
	if err := in.Validate(); err != nil {
		return Invoice{}, err
	}
	header, err := normalizeHeader(header)
	if err != nil {
		return Invoice{}, err
	}
	return ProjectInvoice(kind, header, in, s.calc.Project(in), s.now()), nil
}

func (s *Service) PreviewDynamic(req DynamicRequest) (Invoice, error) {
	if err := req.DynamicInput.Validate(); err != nil {
		return Invoice{}, err
	}
	header, err := normalizeHeader(req.Header)
	if err != nil {
		return Invoice{}, err
	}
	return DynamicInvoice(header, req.DynamicInput, s.calc.Dynamic(req.DynamicInput), s.now()), nil
}

// Save stores a previewed invoice. The invoice number is required once an invoice is kept.
func (s *Service) Save(ctx context.Context, inv Invoice) (Invoice, error) {
	if inv.InvoiceNumber == "" {
		return Invoice{}, invalid("header.invoiceNumber", "is required")
	}
	saved, err := s.store.Create(ctx, inv)
	if err != nil {
		return Invoice{}, err
	}
	saved.Status = StatusAt(saved.GeneratedAt, s.now())
	return saved, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Invoice, int, error) {
	filter.Department = strings.TrimSpace(filter.Department)
	invoices, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	for i := range invoices {
		invoices[i].Status = StatusAt(invoices[i].GeneratedAt, now)
	}
	if invoices == nil {
		invoices = []Invoice{}
	}
	return invoices, total, nil
}

func (s *Service) Get(ctx context.Context, id string) (Invoice, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Invoice{}, ErrInvoiceNotFound
	}
	inv, err := s.store.Get(ctx, id)
	if err != nil {
		return Invoice{}, err
	}
	inv.Status = StatusAt(inv.GeneratedAt, s.now())
	return inv, nil
}

// UpdateHeader edits the printed metadata of a stored invoice and returns the result.
func (s *Service) UpdateHeader(ctx context.Context, id string, header Header) (Invoice, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Invoice{}, err
	}
	header, err = normalizeHeader(header)
	if err != nil {
		return Invoice{}, err
	}
	if header.InvoiceNumber == "" {
		return Invoice{}, invalid("invoiceNumber", "is required")
	}
	header = header.withDefaults(current.InvoiceDate)
	if err := s.store.UpdateHeader(ctx, id, header); err != nil {
		return Invoice{}, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvoiceNotFound
	}
	return s.store.Delete(ctx, id)
}

func (s *Service) RenderPDF(w io.Writer, inv Invoice) error {
	return WritePDF(w, s.letterhead, inv)
}

func normalizeHeader(h Header) (Header, error) {
	if strings.TrimSpace(h.Month) != "" {
		month, err := payroll.NormalizeMonth(h.Month)
		if err != nil {
			return Header{}, invalid("header.month", "must be a month name or number")
		}
		h.Month = month
	}
	if h.Year != 0 {
		if err := payroll.ValidateYear(h.Year); err != nil {
			return Header{}, invalid("header.year", "must have four digits")
		}
	}
	return h, nil
}

// Describe is used in logs and file names.
func Describe(inv Invoice) string {
	number := inv.InvoiceNumber
	if number == "" {
		number = "draft"
	}
	return fmt.Sprintf("%s-%s", inv.Kind, number)
}
