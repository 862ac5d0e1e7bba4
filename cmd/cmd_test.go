package cmd

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"invoicer/internal/config"
	"invoicer/internal/invoice"
	"invoicer/internal/store"
	"invoicer/pkg/models"
)

func useTempStore(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	prev := cfg
	c := config.Default()
	c.DataDir = dir
	c.StoreBackend = store.BackendFile
	cfg = c
	t.Cleanup(func() { cfg = prev })
	return dir
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestInvoiceWorkflow(t *testing.T) {
	dir := useTempStore(t)
	bill := filepath.Join(dir, "bill.json")

	require.NoError(t, run(t, "product", "add", "Tile 600x600", "--hsn", "6907", "--rate", "260", "--unit", "BOX"))
	require.NoError(t, run(t, "invoice", "new", "-o", bill))
	require.NoError(t, run(t, "invoice", "add-item", bill, "--description", "Tile 600x600", "--qty", "5"))

	doc, err := invoice.LoadDocument(bill)
	require.NoError(t, err)
	require.Len(t, doc.Items, 1)
	assert.Equal(t, "6907", doc.Items[0].HSNCode)
	assert.Equal(t, "BOX", doc.Items[0].Unit)
	assert.True(t, doc.Items[0].TaxRatePercent.Equal(decimal.NewFromInt(18)))
	assert.True(t, doc.Items[0].Quantity.Equal(decimal.NewFromInt(5)))

	require.NoError(t, run(t, "invoice", "compute", bill))
	require.NoError(t, run(t, "invoice", "save", bill))

	kv, err := store.Open(context.Background(), cfg.GetStoreConfig())
	require.NoError(t, err)
	defer kv.Close()

	history, err := store.OpenInvoiceHistory(context.Background(), kv, nil)
	require.NoError(t, err)
	require.Len(t, history.List(), 1)
	assert.Equal(t, int64(1534), history.List()[0].Amount)
	assert.Equal(t, invoice.UnknownCustomer, history.List()[0].CustomerName)

	require.NoError(t, run(t, "invoice", "history", "--verify"))
	require.NoError(t, run(t, "print", bill, "-o", filepath.Join(dir, "bill.pdf"), "--tax-mode", "igst"))
}

func TestInvoiceComputeRejectsBadTaxMode(t *testing.T) {
	dir := useTempStore(t)
	bill := filepath.Join(dir, "bill.json")
	require.NoError(t, invoice.SaveDocument(bill, models.DefaultDocument(testNow)))

	err := run(t, "invoice", "compute", bill, "--tax-mode", "vat")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUnknownTaxMode)

	// reset for later tests sharing the command tree
	require.NoError(t, invoiceComputeCmd.Flags().Set("tax-mode", ""))
}

func TestBuildComputeOutput(t *testing.T) {
	doc := models.DefaultDocument(testNow)
	doc.Items = []models.LineItem{{
		ID:             "1",
		Quantity:       decimal.NewFromInt(5),
		Rate:           decimal.NewFromInt(260),
		TaxRatePercent: decimal.NewFromInt(18),
	}}

	local := buildComputeOutput(doc, models.TaxModeLocal, invoice.Compute(doc.Items, models.TaxModeLocal))
	assert.Equal(t, "117.00", local.CGST)
	assert.Equal(t, "117.00", local.SGST)
	assert.Empty(t, local.IGST)
	assert.Equal(t, int64(1534), local.FinalAmount)
	require.Len(t, local.Items, 1)
	assert.Equal(t, "1534.00", local.Items[0].Total)

	igst := buildComputeOutput(doc, models.TaxModeIGST, invoice.Compute(doc.Items, models.TaxModeIGST))
	assert.Equal(t, "234.00", igst.IGST)
	assert.Empty(t, igst.CGST)
}

func TestBuildHistoryOutput(t *testing.T) {
	doc := models.DefaultDocument(testNow)
	doc.Items = []models.LineItem{{
		ID:             "1",
		Quantity:       decimal.NewFromInt(1),
		Rate:           decimal.NewFromInt(100),
		TaxRatePercent: decimal.NewFromInt(18),
	}}
	builder := invoice.NewBuilder()
	good := builder.Build(doc)
	bad := builder.Build(doc)
	bad.Amount = 1

	records := []models.SavedInvoiceRecord{good, bad}
	flagged := invoice.NewAmountValidation().VerifyAll(records)
	entries := buildHistoryOutput(records, flagged)

	require.Len(t, entries, 2)
	assert.Empty(t, entries[0].Warnings)
	assert.Equal(t, int64(118), entries[0].Amount)
	require.Len(t, entries[1].Warnings, 1)
	assert.Contains(t, entries[1].Warnings[0], "amount discrepancy")

	assert.Error(t, verificationError(flagged, len(records)))
	assert.NoError(t, verificationError(nil, len(records)))
}

func TestInvoiceHistoryJSONVerifies(t *testing.T) {
	useTempStore(t)

	// stored amount no longer matches the embedded document
	raw := `[{"id":"r1","name":"Unknown","date":"2025-03-14","amount":99,"savedAt":1,"data":{}}]`
	kv, err := store.Open(context.Background(), cfg.GetStoreConfig())
	require.NoError(t, err)
	require.NoError(t, kv.Set(context.Background(), store.InvoicesKey, raw))
	require.NoError(t, kv.Close())

	err = run(t, "invoice", "history", "--json", "--verify")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 saved invoices failed verification")

	require.NoError(t, invoiceHistoryCmd.Flags().Set("json", "false"))
	require.NoError(t, invoiceHistoryCmd.Flags().Set("verify", "false"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc…", truncate("abcdef", 4))
	assert.Equal(t, "₹₹…", truncate("₹₹₹₹", 3))
}

var testNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
