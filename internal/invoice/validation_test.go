package invoice

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"invoicer/pkg/models"
)

func savedRecord(t *testing.T, id string, items ...models.LineItem) models.SavedInvoiceRecord {
	t.Helper()
	doc := models.InvoiceDocument{
		Receiver: models.PartyInfo{Name: "Acme"},
		Details:  models.InvoiceDetails{Date: "2025-01-02"},
		Items:    items,
	}
	return fixedBuilder(time.Unix(0, 0), id).Build(doc)
}

func TestVerifyRecord(t *testing.T) {
	av := NewAmountValidation()

	t.Run("consistent record", func(t *testing.T) {
		rec := savedRecord(t, "a", item("5", "260", "18"))
		res := av.VerifyRecord(rec)

		assert.False(t, res.HasDiscrepancy)
		assert.Empty(t, res.Warnings)
		assert.NoError(t, res.Err())
		assert.Equal(t, int64(1534), res.ComputedAmount)
	})

	t.Run("tampered amount", func(t *testing.T) {
		rec := savedRecord(t, "b", item("5", "260", "18"))
		rec.Amount = 1500

		res := av.VerifyRecord(rec)
		assert.True(t, res.HasDiscrepancy)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "difference: 34")
		assert.True(t, errors.Is(res.Err(), ErrAmountMismatch))
	})

	t.Run("customer name out of sync", func(t *testing.T) {
		rec := savedRecord(t, "c", item("1", "10", "0"))
		rec.CustomerName = "Someone else"

		res := av.VerifyRecord(rec)
		assert.False(t, res.HasDiscrepancy)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "Someone else")
	})

	t.Run("whitespace receiver name is not Unknown", func(t *testing.T) {
		rec := savedRecord(t, "e", item("1", "10", "0"))
		rec.Document.Receiver.Name = " "
		rec.CustomerName = " "

		res := av.VerifyRecord(rec)
		assert.Empty(t, res.Warnings)
	})

	t.Run("duplicate item ids", func(t *testing.T) {
		rec := savedRecord(t, "d", item("1", "10", "0"), item("1", "10", "0"))

		res := av.VerifyRecord(rec)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], ErrDuplicateItemID.Error())
	})
}

func TestVerifyAll(t *testing.T) {
	good := savedRecord(t, "good", item("1", "100", "18"))
	bad := savedRecord(t, "bad", item("1", "100", "18"))
	bad.Amount = 0

	flagged := NewAmountValidation().VerifyAll([]models.SavedInvoiceRecord{good, bad})

	require.Len(t, flagged, 1)
	assert.Equal(t, "bad", flagged[0].RecordID)
	assert.Equal(t, int64(118), flagged[0].ComputedAmount)
}
