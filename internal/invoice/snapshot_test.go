package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"invoicer/pkg/models"
)

func fixedBuilder(now time.Time, id string) *Builder {
	return &Builder{
		Now:   func() time.Time { return now },
		NewID: func() string { return id },
	}
}

func TestBuilderBuild(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

	doc := models.DefaultDocument(now)
	doc.Receiver.Name = "Acme Builders"
	doc.Details.Date = "2025-03-01"
	doc.Items = []models.LineItem{item("5", "260", "18"), item("1", "0.5", "0")}

	record := fixedBuilder(now, "rec-1").Build(doc)

	assert.Equal(t, "rec-1", record.ID)
	assert.Equal(t, "Acme Builders", record.CustomerName)
	assert.Equal(t, "2025-03-01", record.Date)
	// 1534 + 0.5 rounds half away from zero
	assert.Equal(t, int64(1535), record.Amount)
	assert.Equal(t, now.UnixMilli(), record.SavedAt)
	assert.True(t, record.SavedAtTime().Equal(now))
	require.Len(t, record.Document.Items, 2)
}

func TestBuilderDefaults(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

	t.Run("empty receiver name becomes Unknown", func(t *testing.T) {
		record := fixedBuilder(now, "x").Build(models.InvoiceDocument{})
		assert.Equal(t, UnknownCustomer, record.CustomerName)
	})

	t.Run("whitespace receiver name is kept", func(t *testing.T) {
		doc := models.InvoiceDocument{Receiver: models.PartyInfo{Name: "   "}}
		record := fixedBuilder(now, "x").Build(doc)
		assert.Equal(t, "   ", record.CustomerName)
	})

	t.Run("missing date defaults to today", func(t *testing.T) {
		record := fixedBuilder(now, "x").Build(models.InvoiceDocument{})
		assert.Equal(t, "2025-03-14", record.Date)
		assert.Equal(t, int64(0), record.Amount)
	})

	t.Run("nil builder uses the clock and uuids", func(t *testing.T) {
		var b *Builder
		record := b.Build(models.InvoiceDocument{})
		assert.Len(t, record.ID, 36)
		assert.NotZero(t, record.SavedAt)
	})
}

func TestBuilderSnapshotIsIndependent(t *testing.T) {
	doc := models.InvoiceDocument{Items: []models.LineItem{item("1", "100", "18")}}

	record := NewBuilder().Build(doc)
	doc.Items[0].Description = "changed later"
	doc.Items = append(doc.Items, item("9", "9", "9"))

	require.Len(t, record.Document.Items, 1)
	assert.Empty(t, record.Document.Items[0].Description)
	assert.Equal(t, int64(118), record.Amount)
}
