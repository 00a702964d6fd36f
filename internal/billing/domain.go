package billing

import "time"

// InvoiceStatus is derived from amounts, never stored.
type InvoiceStatus string

const (
	StatusUnpaid        InvoiceStatus = "UNPAID"
	StatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	StatusPaid          InvoiceStatus = "PAID"
)

// PaymentType distinguishes full settlements from partial ones.
type PaymentType string

const (
	PaymentFull    PaymentType = "full"
	PaymentPartial PaymentType = "partial"
)

// Invoice bills a contractor for a batch of trips. PaidAmount is a cache of
// the payment sum, recomputed inside the same transaction as every payment
// mutation.
type Invoice struct {
	ID             int64         `json:"id"`
	InvoiceNo      string        `json:"invoice_no"`
	ContractorID   int64         `json:"contractor_id"`
	ContractorName string        `json:"contractor_name"`
	Date           time.Time     `json:"date"`
	TotalAmount    float64       `json:"total_amount"`
	PaidAmount     float64       `json:"paid_amount"`
	Status         InvoiceStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}

// DeriveStatus classifies an invoice from its amounts.
func DeriveStatus(total, paid float64) InvoiceStatus {
	switch {
	case paid <= 0:
		return StatusUnpaid
	case paid >= total:
		return StatusPaid
	default:
		return StatusPartiallyPaid
	}
}

// CreateInvoiceInput carries fields for issuing an invoice.
type CreateInvoiceInput struct {
	InvoiceNo    string
	ContractorID int64
	Date         time.Time
	TotalAmount  float64
	TripIDs      []int64
}

// Payment settles part or all of an invoice. Cheque fields are optional and
// only meaningful for cheque payments.
type Payment struct {
	ID             int64       `json:"id"`
	InvoiceID      int64       `json:"invoice_id"`
	Date           time.Time   `json:"date"`
	Type           PaymentType `json:"type"`
	Amount         float64     `json:"amount"`
	ChequeNo       string      `json:"cheque_no,omitempty"`
	BankName       string      `json:"bank_name,omitempty"`
	ChequeImageURL string      `json:"cheque_image_url,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

// RecordPaymentInput carries fields for recording a payment.
type RecordPaymentInput struct {
	InvoiceID      int64
	Date           time.Time
	Type           PaymentType
	Amount         float64
	ChequeNo       string
	BankName       string
	ChequeImageURL string
}
