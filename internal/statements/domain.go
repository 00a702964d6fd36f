package statements

import "time"

// LineItem is a single statement row. Dates render as DD/MM/YYYY and the
// balance column carries the running total after the row is applied.
type LineItem struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Credit      float64 `json:"credit"`
	Debit       float64 `json:"debit"`
	Balance     float64 `json:"balance"`
}

// Document is the rendered statement body, stored verbatim as a snapshot.
type Document struct {
	ContractorName string     `json:"contractorName"`
	Date           string     `json:"date"`
	LPONo          string     `json:"lpoNo"`
	Site           string     `json:"site"`
	Items          []LineItem `json:"items"`
}

// Statement is a stored snapshot. Once written it never changes; later
// payments or regenerations produce new snapshots instead.
type Statement struct {
	ID           string    `json:"id"`
	ContractorID int64     `json:"contractor_id"`
	SiteID       int64     `json:"site_id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Document     Document  `json:"document"`
	CreatedAt    time.Time `json:"created_at"`
}

// LedgerEntry is one invoice or payment feeding a statement.
type LedgerEntry struct {
	Date        time.Time
	Description string
	Amount      float64
}

// Header carries the statement identity fields.
type Header struct {
	ContractorName string
	Date           time.Time
	LPONo          string
	Site           string
}

// GenerateInput names the exact invoices and payments a statement covers.
// Callers may deselect items to produce a partial statement. Name defaults
// to the contractor name, Type is the letterhead choice.
type GenerateInput struct {
	ContractorID int64
	SiteID       int64
	Name         string
	Type         string
	InvoiceIDs   []int64
	PaymentIDs   []int64
}
