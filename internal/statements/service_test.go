package statements

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
)

type sourceItem struct {
	id    int64
	entry LedgerEntry
}

type staticSource struct {
	invoices []sourceItem
	payments []sourceItem
}

func (s *staticSource) ContractorName(context.Context, int64) (string, error) {
	return "Alpha Builders", nil
}

func (s *staticSource) SiteInfo(context.Context, int64) (string, string, error) {
	return "Tower Site", "LPO-7", nil
}

func (s *staticSource) ListInvoiceEntries(_ context.Context, _ int64, ids []int64) ([]LedgerEntry, error) {
	return selectItems(s.invoices, ids), nil
}

func (s *staticSource) ListPaymentEntries(_ context.Context, _ int64, ids []int64) ([]LedgerEntry, error) {
	return selectItems(s.payments, ids), nil
}

func selectItems(items []sourceItem, ids []int64) []LedgerEntry {
	selected := map[int64]bool{}
	for _, id := range ids {
		selected[id] = true
	}
	var out []LedgerEntry
	for _, it := range items {
		if selected[it.id] {
			out = append(out, it.entry)
		}
	}
	return out
}

type memoryStatementRepo struct {
	statements map[string]*Statement
}

func newMemoryStatementRepo() *memoryStatementRepo {
	return &memoryStatementRepo{statements: map[string]*Statement{}}
}

func (m *memoryStatementRepo) SaveStatement(_ context.Context, st *Statement) error {
	if _, exists := m.statements[st.ID]; exists {
		return fmt.Errorf("%w: statement id reused", httpx.ErrPersistence)
	}
	cp := *st
	m.statements[st.ID] = &cp
	return nil
}

func (m *memoryStatementRepo) GetStatement(_ context.Context, id string) (*Statement, error) {
	st, ok := m.statements[id]
	if !ok {
		return nil, fmt.Errorf("%w: statement", httpx.ErrNotFound)
	}
	cp := *st
	return &cp, nil
}

func (m *memoryStatementRepo) ListStatements(_ context.Context, contractorID int64) ([]Statement, error) {
	var out []Statement
	for _, st := range m.statements {
		if contractorID > 0 && st.ContractorID != contractorID {
			continue
		}
		out = append(out, *st)
	}
	return out, nil
}

func seededService(repo *memoryStatementRepo) *Service {
	source := &staticSource{
		invoices: []sourceItem{
			{id: 1, entry: LedgerEntry{Date: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), Description: "Invoice INV-1", Amount: 1000}},
		},
		payments: []sourceItem{
			{id: 10, entry: LedgerEntry{Date: time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC), Description: "Payment cheque 101", Amount: 400}},
			{id: 11, entry: LedgerEntry{Date: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC), Description: "Payment", Amount: 600}},
		},
	}
	return NewService(source, repo)
}

func fullSelection() GenerateInput {
	return GenerateInput{
		ContractorID: 1,
		SiteID:       2,
		InvoiceIDs:   []int64{1},
		PaymentIDs:   []int64{10, 11},
	}
}

func TestGenerateStatement(t *testing.T) {
	svc := seededService(newMemoryStatementRepo())
	ctx := context.Background()

	st, err := svc.Generate(ctx, fullSelection())
	require.NoError(t, err)

	_, err = uuid.Parse(st.ID)
	require.NoError(t, err)

	require.Equal(t, "Alpha Builders", st.Document.ContractorName)
	require.Equal(t, "Tower Site", st.Document.Site)
	require.Equal(t, "LPO-7", st.Document.LPONo)
	require.Len(t, st.Document.Items, 3)
	require.InDelta(t, 0, st.Document.Items[2].Balance, 0.001)
}

func TestGenerateRequiresSelection(t *testing.T) {
	svc := seededService(newMemoryStatementRepo())
	ctx := context.Background()

	_, err := svc.Generate(ctx, GenerateInput{SiteID: 2, InvoiceIDs: []int64{1}})
	require.True(t, errors.Is(err, httpx.ErrValidation))

	_, err = svc.Generate(ctx, GenerateInput{ContractorID: 1, InvoiceIDs: []int64{1}})
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestGenerateEmptySelectionRejected(t *testing.T) {
	svc := seededService(newMemoryStatementRepo())

	_, err := svc.Generate(context.Background(), GenerateInput{ContractorID: 1, SiteID: 2})
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestGenerateUnknownSelectionRejected(t *testing.T) {
	svc := seededService(newMemoryStatementRepo())

	input := fullSelection()
	input.InvoiceIDs = []int64{99}
	input.PaymentIDs = []int64{98}

	_, err := svc.Generate(context.Background(), input)
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestGeneratePartiallyUnknownSelectionRejected(t *testing.T) {
	svc := seededService(newMemoryStatementRepo())

	input := fullSelection()
	input.PaymentIDs = []int64{10, 98}

	_, err := svc.Generate(context.Background(), input)
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestNameAndTypeRoundTrip(t *testing.T) {
	svc := seededService(newMemoryStatementRepo())
	ctx := context.Background()

	input := fullSelection()
	input.Name = "May account statement"
	input.Type = "letterhead"

	st, err := svc.Generate(ctx, input)
	require.NoError(t, err)

	stored, err := svc.Get(ctx, st.ID)
	require.NoError(t, err)
	require.Equal(t, "May account statement", stored.Name)
	require.Equal(t, "letterhead", stored.Type)
}

func TestNameAndTypeDefaults(t *testing.T) {
	svc := seededService(newMemoryStatementRepo())

	st, err := svc.Generate(context.Background(), fullSelection())
	require.NoError(t, err)
	require.Equal(t, "Alpha Builders", st.Name)
	require.Equal(t, "plain", st.Type)
}

func TestPartialSelectionSkipsDeselectedItems(t *testing.T) {
	svc := seededService(newMemoryStatementRepo())

	input := fullSelection()
	input.PaymentIDs = []int64{10}

	st, err := svc.Generate(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, st.Document.Items, 2)
	require.InDelta(t, 600, st.Document.Items[1].Balance, 0.001)
}

func TestRegenerationLeavesEarlierSnapshotsAlone(t *testing.T) {
	repo := newMemoryStatementRepo()
	svc := seededService(repo)
	ctx := context.Background()

	first, err := svc.Generate(ctx, fullSelection())
	require.NoError(t, err)

	second, err := svc.Generate(ctx, fullSelection())
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	stored, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, first.Document, stored.Document)

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestGetRejectsMalformedID(t *testing.T) {
	svc := seededService(newMemoryStatementRepo())

	_, err := svc.Get(context.Background(), "not-a-uuid")
	require.True(t, errors.Is(err, httpx.ErrValidation))
}
