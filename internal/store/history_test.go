package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"invoicer/internal/invoice"
	"invoicer/pkg/models"
)

func testBuilder() *invoice.Builder {
	n := 0
	clock := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	return &invoice.Builder{
		Now: func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		},
		NewID: func() string {
			n++
			return fmt.Sprintf("inv-%d", n)
		},
	}
}

func billFor(customer string, qty, rate, tax int64) models.InvoiceDocument {
	doc := models.DefaultDocument(time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))
	doc.Receiver.Name = customer
	doc.Items = []models.LineItem{{
		ID:             "1",
		Description:    "Tile",
		Quantity:       decimal.NewFromInt(qty),
		Rate:           decimal.NewFromInt(rate),
		TaxRatePercent: decimal.NewFromInt(tax),
	}}
	return doc
}

func TestInvoiceHistorySave(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	h, err := OpenInvoiceHistory(ctx, kv, testBuilder())
	require.NoError(t, err)

	first, err := h.Save(ctx, billFor("Acme", 5, 260, 18))
	require.NoError(t, err)
	assert.Equal(t, "inv-1", first.ID)
	assert.Equal(t, "Acme", first.CustomerName)
	assert.Equal(t, int64(1534), first.Amount)

	second, err := h.Save(ctx, billFor("", 1, 100, 0))
	require.NoError(t, err)
	assert.Equal(t, invoice.UnknownCustomer, second.CustomerName)

	t.Run("newest first", func(t *testing.T) {
		list := h.List()
		require.Len(t, list, 2)
		assert.Equal(t, "inv-2", list[0].ID)
		assert.Equal(t, "inv-1", list[1].ID)
	})

	t.Run("stored under the invoice key", func(t *testing.T) {
		reloaded, err := OpenInvoiceHistory(ctx, kv, nil)
		require.NoError(t, err)
		require.Len(t, reloaded.List(), 2)
		for i, rec := range h.List() {
			assert.Equal(t, rec.ID, reloaded.List()[i].ID)
			assert.Equal(t, rec.Amount, reloaded.List()[i].Amount)
			assert.Equal(t, rec.SavedAt, reloaded.List()[i].SavedAt)
		}

		raw, ok, err := kv.Get(ctx, InvoicesKey)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Contains(t, raw, `"name":"Acme"`)
		assert.Contains(t, raw, `"data":`)
	})

	t.Run("get and delete", func(t *testing.T) {
		got, ok := h.Get("inv-1")
		require.True(t, ok)
		assert.Equal(t, "Acme", got.CustomerName)

		require.NoError(t, h.Delete(ctx, "inv-1"))
		_, ok = h.Get("inv-1")
		assert.False(t, ok)
		require.NoError(t, h.Delete(ctx, "inv-1"))
		assert.Len(t, h.List(), 1)
	})
}

func TestInvoiceHistorySnapshotIsFrozen(t *testing.T) {
	ctx := context.Background()
	h, err := OpenInvoiceHistory(ctx, NewMemoryKV(), testBuilder())
	require.NoError(t, err)

	doc := billFor("Acme", 5, 260, 18)
	saved, err := h.Save(ctx, doc)
	require.NoError(t, err)

	doc.Items[0].Quantity = decimal.NewFromInt(500)
	doc.Receiver.Name = "Changed"

	got, ok := h.Get(saved.ID)
	require.True(t, ok)
	assert.Equal(t, "Acme", got.Document.Receiver.Name)
	assert.True(t, got.Document.Items[0].Quantity.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, int64(1534), got.Amount)
}

func TestInvoiceHistoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	h, err := OpenInvoiceHistory(ctx, NewMemoryKV(), testBuilder())
	require.NoError(t, err)

	saved, err := h.Save(ctx, billFor("Acme", 5, 260, 18))
	require.NoError(t, err)
	saved.Document.Items[0].Description = "edited via Save result"

	listed := h.List()
	require.Len(t, listed, 1)
	listed[0].Document.Items[0].Quantity = decimal.NewFromInt(99)

	got, ok := h.Get(saved.ID)
	require.True(t, ok)
	got.Document.Items[0].Rate = decimal.NewFromInt(1)

	again, ok := h.Get(saved.ID)
	require.True(t, ok)
	assert.NotEqual(t, "edited via Save result", again.Document.Items[0].Description)
	assert.True(t, again.Document.Items[0].Quantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, again.Document.Items[0].Rate.Equal(decimal.NewFromInt(260)))
}

func TestInvoiceHistoryCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, InvoicesKey, `[{"id":`))

	h, err := OpenInvoiceHistory(ctx, kv, nil)
	require.NoError(t, err)
	assert.Empty(t, h.List())
	require.Len(t, h.Warnings(), 1)
	assert.Contains(t, h.Warnings()[0].String(), InvoicesKey)
}

func TestInvoiceHistoryOnSQLite(t *testing.T) {
	ctx := context.Background()
	kv, err := NewSQLiteKV(t.TempDir() + "/history.db")
	require.NoError(t, err)
	defer kv.Close()

	h, err := OpenInvoiceHistory(ctx, kv, testBuilder())
	require.NoError(t, err)
	_, err = h.Save(ctx, billFor("Acme", 5, 260, 18))
	require.NoError(t, err)

	reloaded, err := OpenInvoiceHistory(ctx, kv, nil)
	require.NoError(t, err)
	require.Len(t, reloaded.List(), 1)
	assert.Equal(t, int64(1534), reloaded.List()[0].Amount)
}
