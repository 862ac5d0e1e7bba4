package invoice

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"invoicer/pkg/models"
)

func TestDocumentRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bill.json")

	doc := models.DefaultDocument(time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))
	doc.Receiver.Name = "Acme"
	doc.Items = []models.LineItem{item("2.5", "100.10", "18")}

	require.NoError(t, SaveDocument(path, doc))

	loaded, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, "Acme", loaded.Receiver.Name)
	assert.Equal(t, doc.Sender.Name, loaded.Sender.Name)
	require.Len(t, loaded.Items, 1)
	assert.True(t, loaded.Items[0].Rate.Equal(d("100.10")))
	assert.True(t, Compute(loaded.Items, models.TaxModeLocal).TotalAmount.Equal(Compute(doc.Items, models.TaxModeLocal).TotalAmount))
}

func TestLoadDocumentNumericJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bill.json")
	raw := `{"receiver":{"name":"Acme"},"details":{"invoiceNo":"7"},"items":[{"id":"a","description":"Tile","qty":5,"rate":260,"taxRate":18}]}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	assert.True(t, Compute(doc.Items, models.TaxModeLocal).FinalAmount.Equal(d("1534")))
}

func TestLoadDocumentErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadDocument(filepath.Join(dir, "nope.json"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))

		var docErr *DocumentError
		require.True(t, errors.As(err, &docErr))
		assert.Equal(t, "LoadDocument", docErr.Op)
	})

	t.Run("not json", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

		_, err := LoadDocument(path)
		assert.True(t, errors.Is(err, ErrInvalidDocument))
	})

}

func TestLoadDocumentAssignsItemIDs(t *testing.T) {
	dir := t.TempDir()

	t.Run("items without ids", func(t *testing.T) {
		path := filepath.Join(dir, "noids.json")
		raw := `{"items":[{"description":"A","qty":5,"rate":260,"taxRate":18},{"description":"B","qty":1,"rate":100,"taxRate":5}]}`
		require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

		doc, err := LoadDocument(path)
		require.NoError(t, err)
		require.Len(t, doc.Items, 2)
		assert.NotEmpty(t, doc.Items[0].ID)
		assert.NotEmpty(t, doc.Items[1].ID)
		assert.NotEqual(t, doc.Items[0].ID, doc.Items[1].ID)
		assert.NoError(t, CheckDocument(doc))
		assert.True(t, Compute(doc.Items, models.TaxModeLocal).FinalAmount.Equal(d("1639")))
	})

	t.Run("repeated ids keep the first occurrence", func(t *testing.T) {
		path := filepath.Join(dir, "dup.json")
		raw := `{"items":[{"id":"a","qty":1,"rate":1,"taxRate":0},{"id":"a","qty":1,"rate":2,"taxRate":0},{"id":"b","qty":1,"rate":3,"taxRate":0}]}`
		require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

		doc, err := LoadDocument(path)
		require.NoError(t, err)
		assert.Equal(t, "a", doc.Items[0].ID)
		assert.NotEqual(t, "a", doc.Items[1].ID)
		assert.Equal(t, "b", doc.Items[2].ID)
		assert.NoError(t, CheckDocument(doc))
	})
}

func TestAssignItemIDs(t *testing.T) {
	doc := models.InvoiceDocument{Items: []models.LineItem{{ID: ""}, {ID: ""}, {ID: ""}, {ID: "x"}}}
	assert.Equal(t, 3, AssignItemIDs(&doc))
	assert.NoError(t, CheckDocument(doc))
	assert.Equal(t, "x", doc.Items[3].ID)

	assert.Equal(t, 0, AssignItemIDs(&doc))
}

func TestCheckDocument(t *testing.T) {
	doc := models.InvoiceDocument{Items: []models.LineItem{{ID: "a"}, {ID: "a"}}}
	assert.True(t, errors.Is(CheckDocument(doc), ErrDuplicateItemID))
}
