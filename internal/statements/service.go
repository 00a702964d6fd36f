package statements

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
)

// defaultStatementType is the letterhead choice used when the caller does
// not pick one.
const defaultStatementType = "plain"

// SourcePort supplies the ledger data a statement is built from.
type SourcePort interface {
	ContractorName(ctx context.Context, contractorID int64) (string, error)
	SiteInfo(ctx context.Context, siteID int64) (name, lpoNo string, err error)
	ListInvoiceEntries(ctx context.Context, contractorID int64, invoiceIDs []int64) ([]LedgerEntry, error)
	ListPaymentEntries(ctx context.Context, contractorID int64, paymentIDs []int64) ([]LedgerEntry, error)
}

// RepositoryPort persists statement snapshots.
type RepositoryPort interface {
	SaveStatement(ctx context.Context, st *Statement) error
	GetStatement(ctx context.Context, id string) (*Statement, error)
	ListStatements(ctx context.Context, contractorID int64) ([]Statement, error)
}

// Service builds and stores statement snapshots.
type Service struct {
	source SourcePort
	repo   RepositoryPort
	now    func() time.Time
}

// NewService builds a Service instance.
func NewService(source SourcePort, repo RepositoryPort) *Service {
	return &Service{source: source, repo: repo, now: time.Now}
}

// Generate builds a statement over the caller-selected invoices and
// payments and stores it as a new immutable snapshot. Re-running the same
// selection produces a fresh snapshot; earlier ones are never touched.
func (s *Service) Generate(ctx context.Context, input GenerateInput) (*Statement, error) {
	if input.ContractorID == 0 {
		return nil, fmt.Errorf("%w: contractor is required", httpx.ErrValidation)
	}
	if input.SiteID == 0 {
		return nil, fmt.Errorf("%w: site is required", httpx.ErrValidation)
	}
	if len(input.InvoiceIDs) == 0 && len(input.PaymentIDs) == 0 {
		return nil, fmt.Errorf("%w: statement selection is empty", httpx.ErrValidation)
	}

	contractorName, err := s.source.ContractorName(ctx, input.ContractorID)
	if err != nil {
		return nil, err
	}
	siteName, lpoNo, err := s.source.SiteInfo(ctx, input.SiteID)
	if err != nil {
		return nil, err
	}

	invoices, err := s.source.ListInvoiceEntries(ctx, input.ContractorID, input.InvoiceIDs)
	if err != nil {
		return nil, err
	}
	payments, err := s.source.ListPaymentEntries(ctx, input.ContractorID, input.PaymentIDs)
	if err != nil {
		return nil, err
	}
	// Every selected ID must resolve to a row of this contractor. A partial
	// resolution would silently drop lines from the snapshot.
	if len(invoices) != len(input.InvoiceIDs) || len(payments) != len(input.PaymentIDs) {
		return nil, fmt.Errorf("%w: selection contains unknown invoices or payments", httpx.ErrValidation)
	}

	doc := BuildDocument(Header{
		ContractorName: contractorName,
		Date:           s.now(),
		LPONo:          lpoNo,
		Site:           siteName,
	}, invoices, payments)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = contractorName
	}
	typ := strings.TrimSpace(input.Type)
	if typ == "" {
		typ = defaultStatementType
	}

	st := &Statement{
		ID:           uuid.NewString(),
		ContractorID: input.ContractorID,
		SiteID:       input.SiteID,
		Name:         name,
		Type:         typ,
		Document:     doc,
		CreatedAt:    s.now(),
	}
	if err := s.repo.SaveStatement(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Get returns a stored snapshot.
func (s *Service) Get(ctx context.Context, id string) (*Statement, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: invalid statement id", httpx.ErrValidation)
	}
	return s.repo.GetStatement(ctx, id)
}

// List returns snapshots, optionally for one contractor, newest first.
func (s *Service) List(ctx context.Context, contractorID int64) ([]Statement, error) {
	return s.repo.ListStatements(ctx, contractorID)
}
