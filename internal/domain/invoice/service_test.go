package invoice

import (
	"bytes"
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payscribe/internal/domain/validation"
	"payscribe/internal/platform/pdfdoc"
)

type memoryStore struct {
	invoices map[string]Invoice
}

func newMemoryStore() *memoryStore {
	return &memoryStore{invoices: map[string]Invoice{}}
}

func (m *memoryStore) Create(_ context.Context, inv Invoice) (Invoice, error) {
	for _, existing := range m.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return Invoice{}, ErrDuplicateInvoiceNumber
		}
	}
	inv.ID = uuid.NewString()
	m.invoices[inv.ID] = inv
	return inv, nil
}

func (m *memoryStore) List(_ context.Context, filter ListFilter) ([]Invoice, int, error) {
	var out []Invoice
	for _, inv := range m.invoices {
		if filter.Department != "" && inv.Department != filter.Department {
			continue
		}
		if filter.Year != 0 && inv.Year != filter.Year {
			continue
		}
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GeneratedAt.After(out[j].GeneratedAt) })
	return out, len(out), nil
}

func (m *memoryStore) Get(_ context.Context, id string) (Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return Invoice{}, ErrInvoiceNotFound
	}
	return inv, nil
}

func (m *memoryStore) UpdateHeader(_ context.Context, id string, header Header) error {
	inv, ok := m.invoices[id]
	if !ok {
		return ErrInvoiceNotFound
	}
	inv.Header = header
	m.invoices[id] = inv
	return nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	if _, ok := m.invoices[id]; !ok {
		return ErrInvoiceNotFound
	}
	delete(m.invoices, id)
	return nil
}

func newTestService(now time.Time) (*Service, *memoryStore) {
	store := newMemoryStore()
	svc := NewService(store, NewCalculator(DefaultRates()), pdfdoc.DefaultLetterhead(""))
	svc.now = func() time.Time { return now }
	return svc, store
}

func referenceKPKRequest() KPKRequest {
	return KPKRequest{
		Header: Header{
			InvoiceNumber:      "TCS-335",
			ContractNumber:     "CON1467/25",
			Month:              "july",
			Year:               2025,
			Department:         "BS",
			ServiceDescription: "Provision of Support Services at Loading Operation-1",
		},
		KPKInput: KPKInput{Lines: LaborLines(DefaultRates(), 0, 286), ServiceFee: 139840},
	}
}

func TestPreviewAndSaveKPK(t *testing.T) {
	now := time.Date(2025, 8, 13, 10, 0, 0, 0, time.UTC)
	svc, store := newTestService(now)

	draft, err := svc.PreviewKPK(referenceKPKRequest())
	require.NoError(t, err)
	assert.Equal(t, KindKPK, draft.Kind)
	assert.Equal(t, "July", draft.Month)
	assert.Equal(t, DefaultNTN, draft.NTN)
	assert.Equal(t, now, draft.InvoiceDate)
	assert.Equal(t, 727875.0, draft.TotalAmount)
	assert.Equal(t, 28860.0, draft.EOBIAmount)
	assert.Equal(t, 15.0, draft.GSTRate)
	require.Len(t, draft.LineItems, 3)
	assert.Equal(t, "Service Fee", draft.LineItems[2].Description)
	assert.Empty(t, store.invoices)

	saved, err := svc.Save(context.Background(), draft)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, StatusRecent, saved.Status)

	_, err = svc.Save(context.Background(), draft)
	assert.ErrorIs(t, err, ErrDuplicateInvoiceNumber)
}

func TestSaveRequiresInvoiceNumber(t *testing.T) {
	svc, _ := newTestService(time.Now())
	req := referenceKPKRequest()
	req.Header.InvoiceNumber = ""
	draft, err := svc.PreviewKPK(req)
	require.NoError(t, err)
	_, err = svc.Save(context.Background(), draft)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPreviewRejectsBadHeader(t *testing.T) {
	svc, _ := newTestService(time.Now())
	req := referenceKPKRequest()
	req.Header.Month = "Smarch"
	_, err := svc.PreviewKPK(req)
	var fieldErr *validation.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "header.month", fieldErr.Field)
}

func TestPreviewProjectVariants(t *testing.T) {
	svc, _ := newTestService(time.Now())

	weed, err := svc.PreviewWeedCutting(WeedCuttingRequest{Header: Header{InvoiceNumber: "TCS-001"}})
	require.NoError(t, err)
	assert.Equal(t, KindWeedCutting, weed.Kind)
	assert.Equal(t, "Weed and Grass Cutting (Round-1)", weed.ServiceDescription)
	assert.Equal(t, "Environmental Services", weed.Department)
	assert.Equal(t, 156000.0, weed.LocalManagement)
	assert.Equal(t, 828000.0, weed.TotalAmount)
	assert.Len(t, weed.LineItems, len(KarakBlockSites)+1)

	project, err := svc.PreviewProject(ProjectRequest{ProjectInput: ProjectInput{
		Type:  ProjectPPESupply,
		Items: []ProjectItem{{Description: "Safety helmets", Quantity: 10, Rate: 1500}},
	}})
	require.NoError(t, err)
	assert.Equal(t, 17250.0, project.TotalAmount)

	_, err = svc.PreviewProject(ProjectRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPreviewDynamic(t *testing.T) {
	svc, _ := newTestService(time.Now())
	preset := ContractPresets()[0]
	inv, err := svc.PreviewDynamic(DynamicRequest{DynamicInput: DynamicInput{
		ContractType:        preset.ContractType,
		Fields:              preset.Fields,
		Lines:               []DynamicLine{{Values: map[string]any{"description": "Makori-3 Well Site"}}},
		LocalManagementRate: preset.LocalManagementRate,
	}})
	require.NoError(t, err)
	assert.Equal(t, KindDynamic, inv.Kind)
	assert.Equal(t, 60000.0, inv.SubTotal)
	assert.Equal(t, 69000.0, inv.TotalAmount)
	assert.Equal(t, "Weed and Grass Cutting", inv.ServiceDescription)
}

func TestListGetUpdateDelete(t *testing.T) {
	now := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	svc, store := newTestService(now)

	old, err := svc.PreviewKPK(referenceKPKRequest())
	require.NoError(t, err)
	old.GeneratedAt = now.AddDate(0, -2, 0)
	old, err = store.Create(context.Background(), old)
	require.NoError(t, err)

	req := referenceKPKRequest()
	req.Header.InvoiceNumber = "TCS-336"
	fresh, err := svc.PreviewKPK(req)
	require.NoError(t, err)
	fresh, err = svc.Save(context.Background(), fresh)
	require.NoError(t, err)

	list, total, err := svc.List(context.Background(), ListFilter{Department: " BS ", Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, fresh.ID, list[0].ID)
	assert.Equal(t, StatusRecent, list[0].Status)
	assert.Equal(t, StatusArchived, list[1].Status)

	header := old.Header
	header.ContractNumber = "CON2000/25"
	header.Month = "8"
	updated, err := svc.UpdateHeader(context.Background(), old.ID, header)
	require.NoError(t, err)
	assert.Equal(t, "CON2000/25", updated.ContractNumber)
	assert.Equal(t, "August", updated.Month)
	assert.Equal(t, old.TotalAmount, updated.TotalAmount)

	require.NoError(t, svc.Delete(context.Background(), old.ID))
	_, err = svc.Get(context.Background(), old.ID)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)

	_, err = svc.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), "not-a-uuid"), ErrInvoiceNotFound)
}

func TestStatusAt(t *testing.T) {
	now := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, StatusRecent, StatusAt(now.AddDate(0, 0, -30), now))
	assert.Equal(t, StatusArchived, StatusAt(now.AddDate(0, 0, -31), now))
}

func TestRenderPDF(t *testing.T) {
	svc, _ := newTestService(time.Now())
	kpk, err := svc.PreviewKPK(referenceKPKRequest())
	require.NoError(t, err)
	weed, err := svc.PreviewWeedCutting(WeedCuttingRequest{})
	require.NoError(t, err)

	for _, inv := range []Invoice{kpk, weed} {
		var buf bytes.Buffer
		require.NoError(t, svc.RenderPDF(&buf, inv))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), Describe(inv))
	}
}
