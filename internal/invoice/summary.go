package invoice

import (
	"time"

	"invoicer/pkg/models"
	"invoicer/pkg/services"
)

// Summarize flattens a saved record into one history row. Sub total and tax are
// recomputed from the embedded document; Amount is the stored rounded total.
func Summarize(record models.SavedInvoiceRecord) services.HistoryRow {
	items := record.Document.Items
	return services.HistoryRow{
		ID:            record.ID,
		InvoiceNumber: record.Document.Details.InvoiceNumber,
		Date:          record.Date,
		Customer:      record.CustomerName,
		CustomerGSTIN: record.Document.Receiver.TaxID,
		Items:         len(items),
		SubTotal:      FormatMoney(SubTotal(items)),
		TotalTax:      FormatMoney(TotalTax(items)),
		Amount:        record.Amount,
		SavedAt:       record.SavedAtTime().Format(time.DateTime),
	}
}
