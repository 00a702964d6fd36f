package billing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
)

type memoryLedgerRepo struct {
	invoices map[int64]*Invoice
	payments map[int64]*Payment
	order    []int64
	nextID   int64
}

func newMemoryLedgerRepo() *memoryLedgerRepo {
	return &memoryLedgerRepo{
		invoices: map[int64]*Invoice{},
		payments: map[int64]*Payment{},
		nextID:   1,
	}
}

func (m *memoryLedgerRepo) CreateInvoice(_ context.Context, input CreateInvoiceInput) (*Invoice, error) {
	for _, inv := range m.invoices {
		if inv.InvoiceNo == input.InvoiceNo {
			return nil, fmt.Errorf("%w: invoice number already used", httpx.ErrDuplicate)
		}
	}
	inv := &Invoice{
		ID:           m.nextID,
		InvoiceNo:    input.InvoiceNo,
		ContractorID: input.ContractorID,
		Date:         input.Date,
		TotalAmount:  input.TotalAmount,
		Status:       StatusUnpaid,
		CreatedAt:    time.Now(),
	}
	m.invoices[m.nextID] = inv
	m.nextID++
	return inv, nil
}

func (m *memoryLedgerRepo) GetInvoice(_ context.Context, id int64) (*Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return nil, fmt.Errorf("%w: invoice", httpx.ErrNotFound)
	}
	out := *inv
	out.Status = DeriveStatus(out.TotalAmount, out.PaidAmount)
	return &out, nil
}

func (m *memoryLedgerRepo) ListInvoices(_ context.Context, contractorID int64) ([]Invoice, error) {
	var out []Invoice
	for _, inv := range m.invoices {
		if contractorID > 0 && inv.ContractorID != contractorID {
			continue
		}
		cp := *inv
		cp.Status = DeriveStatus(cp.TotalAmount, cp.PaidAmount)
		out = append(out, cp)
	}
	return out, nil
}

func (m *memoryLedgerRepo) DeleteInvoice(_ context.Context, id int64) error {
	if _, ok := m.invoices[id]; !ok {
		return fmt.Errorf("%w: invoice", httpx.ErrNotFound)
	}
	delete(m.invoices, id)
	return nil
}

func (m *memoryLedgerRepo) GetPayment(_ context.Context, id int64) (*Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return nil, fmt.Errorf("%w: payment", httpx.ErrNotFound)
	}
	out := *p
	return &out, nil
}

func (m *memoryLedgerRepo) ListPayments(_ context.Context, invoiceID int64) ([]Payment, error) {
	var out []Payment
	for _, id := range m.order {
		p, ok := m.payments[id]
		if !ok || p.InvoiceID != invoiceID {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *memoryLedgerRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, &memoryTx{repo: m})
}

type memoryTx struct {
	repo *memoryLedgerRepo
}

func (t *memoryTx) GetInvoiceForUpdate(ctx context.Context, id int64) (*Invoice, error) {
	return t.repo.GetInvoice(ctx, id)
}

func (t *memoryTx) GetPaymentForUpdate(ctx context.Context, id int64) (*Payment, error) {
	return t.repo.GetPayment(ctx, id)
}

func (t *memoryTx) InsertPayment(_ context.Context, input RecordPaymentInput) (*Payment, error) {
	p := &Payment{
		ID:        t.repo.nextID,
		InvoiceID: input.InvoiceID,
		Date:      input.Date,
		Type:      input.Type,
		Amount:    input.Amount,
		ChequeNo:  input.ChequeNo,
		BankName:  input.BankName,
		CreatedAt: time.Now(),
	}
	t.repo.payments[t.repo.nextID] = p
	t.repo.order = append(t.repo.order, t.repo.nextID)
	t.repo.nextID++
	return p, nil
}

func (t *memoryTx) UpdatePaymentRow(_ context.Context, id int64, input RecordPaymentInput) (*Payment, error) {
	p, ok := t.repo.payments[id]
	if !ok {
		return nil, fmt.Errorf("%w: payment", httpx.ErrNotFound)
	}
	p.InvoiceID = input.InvoiceID
	p.Date = input.Date
	p.Type = input.Type
	p.Amount = input.Amount
	p.ChequeNo = input.ChequeNo
	p.BankName = input.BankName
	return p, nil
}

func (t *memoryTx) DeletePaymentRow(_ context.Context, id int64) error {
	if _, ok := t.repo.payments[id]; !ok {
		return fmt.Errorf("%w: payment", httpx.ErrNotFound)
	}
	delete(t.repo.payments, id)
	return nil
}

func (t *memoryTx) RecomputePaidAmount(_ context.Context, invoiceID int64) (float64, error) {
	inv, ok := t.repo.invoices[invoiceID]
	if !ok {
		return 0, fmt.Errorf("%w: invoice", httpx.ErrNotFound)
	}
	var sum float64
	for _, p := range t.repo.payments {
		if p.InvoiceID == invoiceID {
			sum += p.Amount
		}
	}
	inv.PaidAmount = sum
	return sum, nil
}

func seedInvoice(t *testing.T, svc *Service, total float64) *Invoice {
	t.Helper()
	inv, err := svc.CreateInvoice(context.Background(), CreateInvoiceInput{
		InvoiceNo:    fmt.Sprintf("INV-%d", time.Now().UnixNano()),
		ContractorID: 1,
		Date:         time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		TotalAmount:  total,
	})
	require.NoError(t, err)
	return inv
}

func TestCreateInvoiceValidation(t *testing.T) {
	svc := NewService(newMemoryLedgerRepo())
	ctx := context.Background()

	_, err := svc.CreateInvoice(ctx, CreateInvoiceInput{ContractorID: 1, Date: time.Now(), TotalAmount: 100})
	require.True(t, errors.Is(err, httpx.ErrValidation))

	_, err = svc.CreateInvoice(ctx, CreateInvoiceInput{InvoiceNo: "INV-1", ContractorID: 1, Date: time.Now(), TotalAmount: 0})
	require.True(t, errors.Is(err, httpx.ErrValidation))

	_, err = svc.CreateInvoice(ctx, CreateInvoiceInput{InvoiceNo: "INV-1", ContractorID: 1, Date: time.Now(), TotalAmount: -50})
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestDuplicateInvoiceNumberRejected(t *testing.T) {
	svc := NewService(newMemoryLedgerRepo())
	ctx := context.Background()

	_, err := svc.CreateInvoice(ctx, CreateInvoiceInput{InvoiceNo: "INV-42", ContractorID: 1, Date: time.Now(), TotalAmount: 100})
	require.NoError(t, err)

	_, err = svc.CreateInvoice(ctx, CreateInvoiceInput{InvoiceNo: "INV-42", ContractorID: 1, Date: time.Now(), TotalAmount: 200})
	require.True(t, errors.Is(err, httpx.ErrDuplicate))
}

func TestPaymentValidation(t *testing.T) {
	svc := NewService(newMemoryLedgerRepo())
	ctx := context.Background()
	date := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)

	_, err := svc.RecordPayment(ctx, RecordPaymentInput{InvoiceID: 1, Date: date, Type: PaymentPartial, Amount: 0})
	require.True(t, errors.Is(err, httpx.ErrValidation))

	_, err = svc.RecordPayment(ctx, RecordPaymentInput{InvoiceID: 1, Date: date, Type: PaymentPartial, Amount: -10})
	require.True(t, errors.Is(err, httpx.ErrValidation))

	_, err = svc.RecordPayment(ctx, RecordPaymentInput{InvoiceID: 1, Date: date, Type: "refund", Amount: 10})
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestPaymentsDrivePaidAmountAndStatus(t *testing.T) {
	svc := NewService(newMemoryLedgerRepo())
	ctx := context.Background()
	inv := seedInvoice(t, svc, 1000)
	date := time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)

	got, err := svc.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, StatusUnpaid, got.Status)

	_, err = svc.RecordPayment(ctx, RecordPaymentInput{InvoiceID: inv.ID, Date: date, Type: PaymentPartial, Amount: 400})
	require.NoError(t, err)

	got, err = svc.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	require.InDelta(t, 400, got.PaidAmount, 0.001)
	require.Equal(t, StatusPartiallyPaid, got.Status)

	_, err = svc.RecordPayment(ctx, RecordPaymentInput{InvoiceID: inv.ID, Date: date, Type: PaymentFull, Amount: 600})
	require.NoError(t, err)

	got, err = svc.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	require.InDelta(t, 1000, got.PaidAmount, 0.001)
	require.Equal(t, StatusPaid, got.Status)
}

func TestDeletePaymentRecomputesFromRemaining(t *testing.T) {
	svc := NewService(newMemoryLedgerRepo())
	ctx := context.Background()
	inv := seedInvoice(t, svc, 1000)
	date := time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)

	first, err := svc.RecordPayment(ctx, RecordPaymentInput{InvoiceID: inv.ID, Date: date, Type: PaymentPartial, Amount: 400})
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, RecordPaymentInput{InvoiceID: inv.ID, Date: date, Type: PaymentPartial, Amount: 300})
	require.NoError(t, err)

	got, err := svc.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	require.InDelta(t, 700, got.PaidAmount, 0.001)

	require.NoError(t, svc.DeletePayment(ctx, first.ID))

	got, err = svc.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	require.InDelta(t, 300, got.PaidAmount, 0.001)
	require.Equal(t, StatusPartiallyPaid, got.Status)
}

func TestRecomputeIsIdempotent(t *testing.T) {
	repo := newMemoryLedgerRepo()
	svc := NewService(repo)
	ctx := context.Background()
	inv := seedInvoice(t, svc, 500)
	date := time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)

	_, err := svc.RecordPayment(ctx, RecordPaymentInput{InvoiceID: inv.ID, Date: date, Type: PaymentPartial, Amount: 200})
	require.NoError(t, err)

	err = repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		for i := 0; i < 3; i++ {
			paid, err := tx.RecomputePaidAmount(ctx, inv.ID)
			if err != nil {
				return err
			}
			require.InDelta(t, 200, paid, 0.001)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestUpdatePaymentMovesBetweenInvoices(t *testing.T) {
	svc := NewService(newMemoryLedgerRepo())
	ctx := context.Background()
	first := seedInvoice(t, svc, 500)
	second := seedInvoice(t, svc, 800)
	date := time.Date(2025, 4, 6, 0, 0, 0, 0, time.UTC)

	p, err := svc.RecordPayment(ctx, RecordPaymentInput{InvoiceID: first.ID, Date: date, Type: PaymentPartial, Amount: 250})
	require.NoError(t, err)

	_, err = svc.UpdatePayment(ctx, p.ID, RecordPaymentInput{InvoiceID: second.ID, Date: date, Type: PaymentPartial, Amount: 250})
	require.NoError(t, err)

	got, err := svc.GetInvoice(ctx, first.ID)
	require.NoError(t, err)
	require.InDelta(t, 0, got.PaidAmount, 0.001)
	require.Equal(t, StatusUnpaid, got.Status)

	got, err = svc.GetInvoice(ctx, second.ID)
	require.NoError(t, err)
	require.InDelta(t, 250, got.PaidAmount, 0.001)
}

func TestUpdatePaymentRecomputesCurrentInvoice(t *testing.T) {
	repo := newMemoryLedgerRepo()
	svc := NewService(repo)
	ctx := context.Background()
	first := seedInvoice(t, svc, 500)
	second := seedInvoice(t, svc, 800)
	date := time.Date(2025, 4, 6, 0, 0, 0, 0, time.UTC)

	p, err := svc.RecordPayment(ctx, RecordPaymentInput{InvoiceID: first.ID, Date: date, Type: PaymentPartial, Amount: 250})
	require.NoError(t, err)

	// Another request already moved the payment to the second invoice and
	// recomputed both sides before this update runs.
	repo.payments[p.ID].InvoiceID = second.ID
	repo.invoices[first.ID].PaidAmount = 0
	repo.invoices[second.ID].PaidAmount = 250

	_, err = svc.UpdatePayment(ctx, p.ID, RecordPaymentInput{InvoiceID: first.ID, Date: date, Type: PaymentPartial, Amount: 250})
	require.NoError(t, err)

	got, err := svc.GetInvoice(ctx, second.ID)
	require.NoError(t, err)
	require.InDelta(t, 0, got.PaidAmount, 0.001)

	got, err = svc.GetInvoice(ctx, first.ID)
	require.NoError(t, err)
	require.InDelta(t, 250, got.PaidAmount, 0.001)
}

func TestDeleteInvoiceWithPaymentsRejected(t *testing.T) {
	svc := NewService(newMemoryLedgerRepo())
	ctx := context.Background()
	inv := seedInvoice(t, svc, 500)
	date := time.Date(2025, 4, 6, 0, 0, 0, 0, time.UTC)

	_, err := svc.RecordPayment(ctx, RecordPaymentInput{InvoiceID: inv.ID, Date: date, Type: PaymentPartial, Amount: 100})
	require.NoError(t, err)

	err = svc.DeleteInvoice(ctx, inv.ID)
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestOverpaymentStillDerivesPaid(t *testing.T) {
	svc := NewService(newMemoryLedgerRepo())
	ctx := context.Background()
	inv := seedInvoice(t, svc, 300)
	date := time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC)

	_, err := svc.RecordPayment(ctx, RecordPaymentInput{InvoiceID: inv.ID, Date: date, Type: PaymentFull, Amount: 350})
	require.NoError(t, err)

	got, err := svc.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, StatusPaid, got.Status)
}
