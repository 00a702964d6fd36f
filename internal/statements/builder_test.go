package statements

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, 5, d, 0, 0, 0, 0, time.UTC)
}

func TestRunningBalance(t *testing.T) {
	doc := BuildDocument(Header{ContractorName: "Alpha Builders", Date: day(20), LPONo: "LPO-7", Site: "Tower Site"},
		[]LedgerEntry{
			{Date: day(1), Description: "Invoice INV-1", Amount: 1000},
		},
		[]LedgerEntry{
			{Date: day(5), Description: "Payment cheque 101", Amount: 400},
			{Date: day(10), Description: "Payment", Amount: 600},
		},
	)

	require.Len(t, doc.Items, 3)
	require.InDelta(t, 1000, doc.Items[0].Balance, 0.001)
	require.InDelta(t, 600, doc.Items[1].Balance, 0.001)
	require.InDelta(t, 0, doc.Items[2].Balance, 0.001)

	require.InDelta(t, 1000, doc.Items[0].Credit, 0.001)
	require.Zero(t, doc.Items[0].Debit)
	require.InDelta(t, 400, doc.Items[1].Debit, 0.001)
	require.Zero(t, doc.Items[1].Credit)
}

func TestSameDateInvoiceBeforePayment(t *testing.T) {
	doc := BuildDocument(Header{},
		[]LedgerEntry{{Date: day(3), Description: "Invoice INV-2", Amount: 500}},
		[]LedgerEntry{{Date: day(3), Description: "Payment", Amount: 500}},
	)

	require.Len(t, doc.Items, 2)
	require.Equal(t, "Invoice INV-2", doc.Items[0].Description)
	require.Equal(t, "Payment", doc.Items[1].Description)
	require.InDelta(t, 500, doc.Items[0].Balance, 0.001)
	require.InDelta(t, 0, doc.Items[1].Balance, 0.001)
}

func TestInsertionOrderWithinSameDateAndKind(t *testing.T) {
	doc := BuildDocument(Header{},
		[]LedgerEntry{
			{Date: day(3), Description: "Invoice INV-10", Amount: 100},
			{Date: day(3), Description: "Invoice INV-11", Amount: 200},
		},
		nil,
	)

	require.Equal(t, "Invoice INV-10", doc.Items[0].Description)
	require.Equal(t, "Invoice INV-11", doc.Items[1].Description)
}

func TestRowsSortByDate(t *testing.T) {
	doc := BuildDocument(Header{},
		[]LedgerEntry{
			{Date: day(15), Description: "Invoice INV-3", Amount: 300},
			{Date: day(2), Description: "Invoice INV-1", Amount: 100},
		},
		[]LedgerEntry{
			{Date: day(8), Description: "Payment", Amount: 100},
		},
	)

	require.Equal(t, "Invoice INV-1", doc.Items[0].Description)
	require.Equal(t, "Payment", doc.Items[1].Description)
	require.Equal(t, "Invoice INV-3", doc.Items[2].Description)
}

func TestDateFormat(t *testing.T) {
	doc := BuildDocument(Header{Date: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)},
		[]LedgerEntry{{Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), Description: "Invoice INV-9", Amount: 50}},
		nil,
	)

	require.Equal(t, "31/12/2025", doc.Date)
	require.Equal(t, "02/01/2025", doc.Items[0].Date)
}

func TestNegativeBalanceAllowed(t *testing.T) {
	doc := BuildDocument(Header{},
		nil,
		[]LedgerEntry{{Date: day(1), Description: "Payment", Amount: 200}},
	)

	require.InDelta(t, -200, doc.Items[0].Balance, 0.001)
}

func TestDocumentJSONShape(t *testing.T) {
	doc := BuildDocument(Header{ContractorName: "Alpha Builders", Date: day(20), LPONo: "LPO-7", Site: "Tower Site"},
		[]LedgerEntry{{Date: day(1), Description: "Invoice INV-1", Amount: 1000}},
		nil,
	)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Contains(t, decoded, "contractorName")
	require.Contains(t, decoded, "lpoNo")
	require.Contains(t, decoded, "site")
	require.Contains(t, decoded, "items")

	items := decoded["items"].([]any)
	first := items[0].(map[string]any)
	require.Equal(t, "01/05/2025", first["date"])
	require.Contains(t, first, "credit")
	require.Contains(t, first, "debit")
	require.Contains(t, first, "balance")
}
