package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"invoicer/pkg/models"
)

func TestSummarize(t *testing.T) {
	savedAt := time.Date(2025, 3, 14, 10, 30, 0, 0, time.Local)
	doc := models.InvoiceDocument{
		Receiver: models.PartyInfo{Name: "Acme", TaxID: "33ABCDE1234F1Z5"},
		Details:  models.InvoiceDetails{InvoiceNumber: "INV-042", Date: "2025-03-14"},
		Items:    []models.LineItem{item("5", "260", "18"), item("2", "100", "5")},
	}

	row := Summarize(fixedBuilder(savedAt, "rec-9").Build(doc))

	assert.Equal(t, "rec-9", row.ID)
	assert.Equal(t, "INV-042", row.InvoiceNumber)
	assert.Equal(t, "2025-03-14", row.Date)
	assert.Equal(t, "Acme", row.Customer)
	assert.Equal(t, "33ABCDE1234F1Z5", row.CustomerGSTIN)
	assert.Equal(t, 2, row.Items)
	assert.Equal(t, "1500.00", row.SubTotal)
	assert.Equal(t, "244.00", row.TotalTax)
	assert.Equal(t, int64(1744), row.Amount)
	assert.Equal(t, "2025-03-14 10:30:00", row.SavedAt)
}
