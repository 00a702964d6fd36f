package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
)

// TxRepository exposes the operations available inside a ledger transaction.
type TxRepository interface {
	GetInvoiceForUpdate(ctx context.Context, id int64) (*Invoice, error)
	GetPaymentForUpdate(ctx context.Context, id int64) (*Payment, error)
	InsertPayment(ctx context.Context, input RecordPaymentInput) (*Payment, error)
	UpdatePaymentRow(ctx context.Context, id int64, input RecordPaymentInput) (*Payment, error)
	DeletePaymentRow(ctx context.Context, id int64) error
	RecomputePaidAmount(ctx context.Context, invoiceID int64) (float64, error)
}

// RepositoryPort defines data access methods for invoices and payments.
type RepositoryPort interface {
	CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*Invoice, error)
	GetInvoice(ctx context.Context, id int64) (*Invoice, error)
	ListInvoices(ctx context.Context, contractorID int64) ([]Invoice, error)
	DeleteInvoice(ctx context.Context, id int64) error
	GetPayment(ctx context.Context, id int64) (*Payment, error)
	ListPayments(ctx context.Context, invoiceID int64) ([]Payment, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// Service handles invoice and payment business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateInvoice issues an invoice and attaches the given trips to it.
// Trips already billed cause the whole call to fail.
func (s *Service) CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*Invoice, error) {
	if strings.TrimSpace(input.InvoiceNo) == "" {
		return nil, fmt.Errorf("%w: invoice number is required", httpx.ErrValidation)
	}
	if input.ContractorID == 0 {
		return nil, fmt.Errorf("%w: contractor is required", httpx.ErrValidation)
	}
	if input.Date.IsZero() {
		return nil, fmt.Errorf("%w: invoice date is required", httpx.ErrValidation)
	}
	if input.TotalAmount <= 0 {
		return nil, fmt.Errorf("%w: invoice total must be positive", httpx.ErrValidation)
	}
	return s.repo.CreateInvoice(ctx, input)
}

// GetInvoice returns a single invoice with its derived status.
func (s *Service) GetInvoice(ctx context.Context, id int64) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

// ListInvoices returns invoices, optionally filtered by contractor.
func (s *Service) ListInvoices(ctx context.Context, contractorID int64) ([]Invoice, error) {
	return s.repo.ListInvoices(ctx, contractorID)
}

// DeleteInvoice removes an invoice with no payments and releases its trips.
func (s *Service) DeleteInvoice(ctx context.Context, id int64) error {
	payments, err := s.repo.ListPayments(ctx, id)
	if err != nil {
		return err
	}
	if len(payments) > 0 {
		return fmt.Errorf("%w: invoice has %d payments; remove them first", httpx.ErrValidation, len(payments))
	}
	return s.repo.DeleteInvoice(ctx, id)
}

func validatePaymentInput(input RecordPaymentInput) error {
	if input.InvoiceID == 0 {
		return fmt.Errorf("%w: invoice is required", httpx.ErrValidation)
	}
	if input.Date.IsZero() {
		return fmt.Errorf("%w: payment date is required", httpx.ErrValidation)
	}
	if input.Amount <= 0 {
		return fmt.Errorf("%w: payment amount must be positive", httpx.ErrValidation)
	}
	if input.Type != PaymentFull && input.Type != PaymentPartial {
		return fmt.Errorf("%w: payment type must be full or partial", httpx.ErrValidation)
	}
	return nil
}

// RecordPayment inserts a payment and recomputes the invoice's paid amount
// in the same transaction.
func (s *Service) RecordPayment(ctx context.Context, input RecordPaymentInput) (*Payment, error) {
	if err := validatePaymentInput(input); err != nil {
		return nil, err
	}
	var payment *Payment
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if _, err := tx.GetInvoiceForUpdate(ctx, input.InvoiceID); err != nil {
			return err
		}
		p, err := tx.InsertPayment(ctx, input)
		if err != nil {
			return err
		}
		if _, err := tx.RecomputePaidAmount(ctx, input.InvoiceID); err != nil {
			return err
		}
		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// UpdatePayment overwrites a payment and recomputes both the old and new
// invoice's paid amount when the payment moves between invoices.
func (s *Service) UpdatePayment(ctx context.Context, id int64, input RecordPaymentInput) (*Payment, error) {
	if err := validatePaymentInput(input); err != nil {
		return nil, err
	}
	var payment *Payment
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		existing, err := tx.GetPaymentForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if _, err := tx.GetInvoiceForUpdate(ctx, input.InvoiceID); err != nil {
			return err
		}
		p, err := tx.UpdatePaymentRow(ctx, id, input)
		if err != nil {
			return err
		}
		if _, err := tx.RecomputePaidAmount(ctx, input.InvoiceID); err != nil {
			return err
		}
		if existing.InvoiceID != input.InvoiceID {
			if _, err := tx.RecomputePaidAmount(ctx, existing.InvoiceID); err != nil {
				return err
			}
		}
		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// DeletePayment removes a payment. The invoice's paid amount drops back to
// the sum of whatever payments remain.
func (s *Service) DeletePayment(ctx context.Context, id int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		existing, err := tx.GetPaymentForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeletePaymentRow(ctx, id); err != nil {
			return err
		}
		_, err = tx.RecomputePaidAmount(ctx, existing.InvoiceID)
		return err
	})
}

// GetPayment returns a single payment.
func (s *Service) GetPayment(ctx context.Context, id int64) (*Payment, error) {
	return s.repo.GetPayment(ctx, id)
}

// ListPayments returns payments for an invoice in insertion order.
func (s *Service) ListPayments(ctx context.Context, invoiceID int64) ([]Payment, error) {
	return s.repo.ListPayments(ctx, invoiceID)
}
