package statements

import "sort"

const dateLayout = "02/01/2006"

type mergedRow struct {
	entry LedgerEntry
	rank  int // 0 invoice, 1 payment
}

// BuildDocument merges invoices (credits) and payments (debits) into a
// dated statement with a running balance starting from zero. Rows sort by
// date; on equal dates invoices come before payments, and rows sharing a
// date and kind keep their input order.
func BuildDocument(header Header, invoices, payments []LedgerEntry) Document {
	rows := make([]mergedRow, 0, len(invoices)+len(payments))
	for _, e := range invoices {
		rows = append(rows, mergedRow{entry: e, rank: 0})
	}
	for _, e := range payments {
		rows = append(rows, mergedRow{entry: e, rank: 1})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		di, dj := rows[i].entry.Date, rows[j].entry.Date
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return rows[i].rank < rows[j].rank
	})

	doc := Document{
		ContractorName: header.ContractorName,
		Date:           header.Date.Format(dateLayout),
		LPONo:          header.LPONo,
		Site:           header.Site,
		Items:          make([]LineItem, 0, len(rows)),
	}

	var balance float64
	for _, row := range rows {
		item := LineItem{
			Date:        row.entry.Date.Format(dateLayout),
			Description: row.entry.Description,
		}
		if row.rank == 0 {
			item.Credit = row.entry.Amount
			balance += row.entry.Amount
		} else {
			item.Debit = row.entry.Amount
			balance -= row.entry.Amount
		}
		item.Balance = balance
		doc.Items = append(doc.Items, item)
	}
	return doc
}
