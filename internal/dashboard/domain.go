package dashboard

import "github.com/haulbooks/haulbooks/internal/rates"

// TripCounts reports fleet activity volume.
type TripCounts struct {
	Total    int64 `json:"total"`
	Unbilled int64 `json:"unbilled"`
}

// ReceivableTotals aggregates the invoice ledger.
type ReceivableTotals struct {
	OpenInvoices int64   `json:"open_invoices"`
	Invoiced     float64 `json:"invoiced"`
	Paid         float64 `json:"paid"`
	Outstanding  float64 `json:"outstanding"`
}

// DieselTotals is the current month's fuel spend.
type DieselTotals struct {
	Month  string  `json:"month"`
	Liters float64 `json:"liters"`
	Amount float64 `json:"amount"`
}

// Summary is the aggregated back-office overview.
type Summary struct {
	Trips       TripCounts          `json:"trips"`
	Receivables ReceivableTotals    `json:"receivables"`
	Diesel      DieselTotals        `json:"diesel"`
	Revenue     rates.BatchEstimate `json:"revenue"`
	Conflicts   int                 `json:"rate_conflicts"`
}
