package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"invoicer/internal/catalog"
	"invoicer/internal/invoice"
	"invoicer/internal/logger"
	"invoicer/internal/store"
	"invoicer/pkg/models"
	"invoicer/pkg/services"
)

const storeTimeout = 30 * time.Second

var invoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Create, compute, save and browse GST invoices",
	Long: `Work with invoice documents and the saved-bill history.

An invoice document is a JSON file holding the sender, the receiver, the invoice
details and the line items. Totals are never stored in the document; they are
computed from the items every time.`,
}

var invoiceComputeCmd = &cobra.Command{
	Use:   "compute [doc.json]",
	Short: "Compute totals, tax split and amount in words for a document",
	Example: `  # Intra-state invoice (CGST + SGST)
  invoicer invoice compute bill.json

  # Inter-state invoice as JSON
  invoicer invoice compute bill.json --tax-mode igst --json`,
	Args: cobra.ExactArgs(1),
	RunE: runInvoiceCompute,
}

var invoiceSaveCmd = &cobra.Command{
	Use:   "save [doc.json]",
	Short: "Save a snapshot of a document to the history",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoiceSave,
}

var invoiceHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved invoices, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runInvoiceHistory,
}

var invoiceShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print or export the document of a saved invoice",
	Example: `  # Reopen a saved bill for editing
  invoicer invoice show 1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed -o bill.json`,
	Args: cobra.ExactArgs(1),
	RunE: runInvoiceShow,
}

var invoiceDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved invoice",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoiceDelete,
}

var invoiceNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Write a blank document with the default sender letterhead",
	Args:  cobra.NoArgs,
	RunE:  runInvoiceNew,
}

var invoiceAddItemCmd = &cobra.Command{
	Use:   "add-item [doc.json]",
	Short: "Append a line item, filled from the product catalog when the description matches",
	Example: `  # Catalog product, 2.5 units
  invoicer invoice add-item bill.json --description "Teak plywood 18mm" --qty 2.5

  # Ad-hoc row
  invoicer invoice add-item bill.json --description "Labour" --qty 1 --rate 1500 --tax-rate 18`,
	Args: cobra.ExactArgs(1),
	RunE: runInvoiceAddItem,
}

// ComputeOutput is the JSON form of computed invoice totals
type ComputeOutput struct {
	InvoiceNumber string       `json:"invoice_number"`
	TaxMode       string       `json:"tax_mode"`
	Items         []ItemOutput `json:"items"`
	SubTotal      string       `json:"sub_total"`
	TotalTax      string       `json:"total_tax"`
	CGST          string       `json:"cgst,omitempty"`
	SGST          string       `json:"sgst,omitempty"`
	IGST          string       `json:"igst,omitempty"`
	TotalAmount   string       `json:"total_amount"`
	RoundOff      string       `json:"round_off"`
	FinalAmount   int64        `json:"final_amount"`
	TotalQuantity string       `json:"total_quantity"`
	AmountInWords string       `json:"amount_in_words"`
}

// ItemOutput is one computed row
type ItemOutput struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Tax         string `json:"tax"`
	Total       string `json:"total"`
}

func init() {
	rootCmd.AddCommand(invoiceCmd)
	invoiceCmd.AddCommand(invoiceComputeCmd, invoiceSaveCmd, invoiceHistoryCmd,
		invoiceShowCmd, invoiceDeleteCmd, invoiceNewCmd, invoiceAddItemCmd)

	invoiceComputeCmd.Flags().String("tax-mode", "", "Tax mode: local (CGST+SGST) or igst (default: DEFAULT_TAX_MODE)")
	invoiceComputeCmd.Flags().Bool("json", false, "Output as JSON")

	invoiceHistoryCmd.Flags().Bool("verify", false, "Recompute each saved amount and report mismatches")
	invoiceHistoryCmd.Flags().Bool("json", false, "Output as JSON")

	invoiceShowCmd.Flags().StringP("output", "o", "", "Write the document to this file (default: stdout)")

	invoiceNewCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")

	invoiceAddItemCmd.Flags().String("description", "", "Item description, looked up in the product catalog")
	invoiceAddItemCmd.Flags().String("qty", "1", "Quantity")
	invoiceAddItemCmd.Flags().String("rate", "", "Rate per unit (overrides the catalog)")
	invoiceAddItemCmd.Flags().String("hsn", "", "HSN code (overrides the catalog)")
	invoiceAddItemCmd.Flags().String("unit", "", "Unit (overrides the catalog)")
	invoiceAddItemCmd.Flags().String("tax-rate", "", "Tax rate percent (overrides the catalog)")
	_ = invoiceAddItemCmd.MarkFlagRequired("description")
}

func runInvoiceCompute(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice")

	jsonOutput, _ := cmd.Flags().GetBool("json")
	mode, err := taxModeFlag(cmd)
	if err != nil {
		return err
	}

	doc, err := invoice.LoadDocument(args[0])
	if err != nil {
		return handleInvoiceError(err, log)
	}

	totals := invoice.Compute(doc.Items, mode)

	log.Debug().
		Str("file", args[0]).
		Str("tax_mode", string(mode)).
		Int("items", len(doc.Items)).
		Str("final_amount", totals.FinalAmount.String()).
		Msg("Invoice computed")

	if jsonOutput {
		return writeJSON(buildComputeOutput(doc, mode, totals), "", log)
	}
	outputComputeConsole(doc, mode, totals)
	return nil
}

func buildComputeOutput(doc models.InvoiceDocument, mode models.TaxMode, totals invoice.Totals) ComputeOutput {
	out := ComputeOutput{
		InvoiceNumber: doc.Details.InvoiceNumber,
		TaxMode:       string(mode),
		Items:         make([]ItemOutput, 0, len(doc.Items)),
		SubTotal:      invoice.FormatMoney(totals.SubTotal),
		TotalTax:      invoice.FormatMoney(totals.TotalTax),
		TotalAmount:   invoice.FormatMoney(totals.TotalAmount),
		RoundOff:      invoice.FormatMoney(totals.RoundOff),
		FinalAmount:   totals.FinalAmount.IntPart(),
		TotalQuantity: invoice.FormatQuantity(totals.TotalQuantity),
		AmountInWords: totals.AmountInWords,
	}

	if mode == models.TaxModeIGST {
		out.IGST = invoice.FormatMoney(totals.Split.IGST)
	} else {
		out.CGST = invoice.FormatMoney(totals.Split.CGST)
		out.SGST = invoice.FormatMoney(totals.Split.SGST)
	}

	for _, item := range doc.Items {
		out.Items = append(out.Items, ItemOutput{
			ID:          item.ID,
			Description: item.Description,
			Amount:      invoice.FormatMoney(invoice.ItemAmount(item)),
			Tax:         invoice.FormatMoney(invoice.ItemTax(item)),
			Total:       invoice.FormatMoney(invoice.ItemTotal(item)),
		})
	}
	return out
}

func outputComputeConsole(doc models.InvoiceDocument, mode models.TaxMode, totals invoice.Totals) {
	fmt.Printf("Invoice %s  (%s)\n", doc.Details.InvoiceNumber, doc.Details.Date)
	fmt.Printf("To: %s\n", doc.Receiver.Name)
	fmt.Println(strings.Repeat("─", 78))
	fmt.Printf("%-3s %-30s %10s %10s %10s %10s\n", "#", "Description", "Qty", "Rate", "Tax", "Total")
	for i, item := range doc.Items {
		fmt.Printf("%-3d %-30s %10s %10s %10s %10s\n",
			i+1,
			truncate(item.Description, 30),
			invoice.FormatQuantity(item.Quantity),
			invoice.FormatMoney(item.Rate),
			invoice.FormatMoney(invoice.ItemTax(item)),
			invoice.FormatMoney(invoice.ItemTotal(item)))
	}
	fmt.Println(strings.Repeat("─", 78))
	fmt.Printf("%-20s %s\n", "Total quantity:", invoice.FormatQuantity(totals.TotalQuantity))
	fmt.Printf("%-20s %s\n", "Sub total:", invoice.FormatMoney(totals.SubTotal))
	if mode == models.TaxModeIGST {
		fmt.Printf("%-20s %s\n", "IGST:", invoice.FormatMoney(totals.Split.IGST))
	} else {
		fmt.Printf("%-20s %s\n", "CGST:", invoice.FormatMoney(totals.Split.CGST))
		fmt.Printf("%-20s %s\n", "SGST:", invoice.FormatMoney(totals.Split.SGST))
	}
	fmt.Printf("%-20s %s\n", "Total:", invoice.FormatMoney(totals.TotalAmount))
	fmt.Printf("%-20s %s\n", "Round off:", invoice.FormatMoney(totals.RoundOff))
	fmt.Printf("%-20s %s\n", "Net amount:", rupees(totals.FinalAmount.IntPart()))
	fmt.Printf("%-20s Rupees %s\n", "In words:", totals.AmountInWords)
}

func runInvoiceSave(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice")

	doc, err := invoice.LoadDocument(args[0])
	if err != nil {
		return handleInvoiceError(err, log)
	}

	ctx, cancel := createCommandContext(storeTimeout, log)
	defer cancel()

	kv, err := openBackend(ctx, log)
	if err != nil {
		return err
	}
	defer closeBackend(kv, log)

	history, err := store.OpenInvoiceHistory(ctx, kv, nil)
	if err != nil {
		return handleStoreError(err, log)
	}
	reportWarnings(history.Warnings())

	record, err := history.Save(ctx, doc)
	if err != nil {
		return handleStoreError(err, log)
	}

	fmt.Printf("Saved invoice %s for %s: %s\n", record.ID, record.CustomerName, rupees(record.Amount))
	return nil
}

func runInvoiceHistory(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice")

	verify, _ := cmd.Flags().GetBool("verify")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	ctx, cancel := createCommandContext(storeTimeout, log)
	defer cancel()

	kv, err := openBackend(ctx, log)
	if err != nil {
		return err
	}
	defer closeBackend(kv, log)

	history, err := store.OpenInvoiceHistory(ctx, kv, nil)
	if err != nil {
		return handleStoreError(err, log)
	}
	reportWarnings(history.Warnings())

	records := history.List()

	var flagged []*invoice.AmountValidationResult
	if verify {
		flagged = invoice.NewAmountValidation().VerifyAll(records)
	}

	if jsonOutput {
		if err := writeJSON(buildHistoryOutput(records, flagged), "", log); err != nil {
			return err
		}
		return verificationError(flagged, len(records))
	}

	if len(records) == 0 {
		fmt.Println("No saved invoices.")
		return nil
	}

	fmt.Printf("%-36s  %-10s  %-12s  %-28s  %14s\n", "ID", "Date", "Invoice No", "Customer", "Amount")
	for _, r := range records {
		row := invoice.Summarize(r)
		fmt.Printf("%-36s  %-10s  %-12s  %-28s  %14s\n",
			row.ID, row.Date, truncate(row.InvoiceNumber, 12), truncate(row.Customer, 28), rupees(row.Amount))
	}

	if !verify {
		return nil
	}

	fmt.Println()
	if len(flagged) == 0 {
		fmt.Printf("✅ All %d saved amounts match their documents\n", len(records))
		return nil
	}
	for _, result := range flagged {
		fmt.Printf("⚠️  %s\n", result.RecordID)
		for _, w := range result.Warnings {
			fmt.Printf("    %s\n", w)
		}
	}
	return verificationError(flagged, len(records))
}

// HistoryEntry is one row of the JSON history listing. Warnings is only set when
// the listing was verified and the record was flagged.
type HistoryEntry struct {
	services.HistoryRow
	Warnings []string `json:"warnings,omitempty"`
}

func buildHistoryOutput(records []models.SavedInvoiceRecord, flagged []*invoice.AmountValidationResult) []HistoryEntry {
	warnings := make(map[string][]string, len(flagged))
	for _, result := range flagged {
		warnings[result.RecordID] = result.Warnings
	}

	entries := make([]HistoryEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, HistoryEntry{
			HistoryRow: invoice.Summarize(r),
			Warnings:   warnings[r.ID],
		})
	}
	return entries
}

func verificationError(flagged []*invoice.AmountValidationResult, total int) error {
	if len(flagged) == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d saved invoices failed verification", len(flagged), total)
}

func runInvoiceShow(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice")
	outputPath, _ := cmd.Flags().GetString("output")

	ctx, cancel := createCommandContext(storeTimeout, log)
	defer cancel()

	record, err := loadSavedRecord(ctx, args[0], log)
	if err != nil {
		return err
	}

	if outputPath != "" {
		if err := invoice.SaveDocument(outputPath, record.Document); err != nil {
			return handleInvoiceError(err, log)
		}
		fmt.Printf("Wrote invoice %s to %s\n", record.ID, outputPath)
		return nil
	}
	return writeJSON(record.Document, "", log)
}

func runInvoiceDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice")

	ctx, cancel := createCommandContext(storeTimeout, log)
	defer cancel()

	kv, err := openBackend(ctx, log)
	if err != nil {
		return err
	}
	defer closeBackend(kv, log)

	history, err := store.OpenInvoiceHistory(ctx, kv, nil)
	if err != nil {
		return handleStoreError(err, log)
	}
	reportWarnings(history.Warnings())

	if _, ok := history.Get(args[0]); !ok {
		fmt.Printf("No saved invoice %s, nothing to delete\n", args[0])
		return nil
	}
	if err := history.Delete(ctx, args[0]); err != nil {
		return handleStoreError(err, log)
	}

	fmt.Printf("Deleted invoice %s\n", args[0])
	return nil
}

func runInvoiceNew(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice")
	outputPath, _ := cmd.Flags().GetString("output")

	doc := models.DefaultDocument(time.Now())

	if outputPath != "" {
		if err := invoice.SaveDocument(outputPath, doc); err != nil {
			return handleInvoiceError(err, log)
		}
		fmt.Printf("Wrote blank invoice to %s\n", outputPath)
		return nil
	}
	return writeJSON(doc, "", log)
}

func runInvoiceAddItem(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice")
	path := args[0]

	description, _ := cmd.Flags().GetString("description")

	doc, err := invoice.LoadDocument(path)
	if err != nil {
		return handleInvoiceError(err, log)
	}

	ctx, cancel := createCommandContext(storeTimeout, log)
	defer cancel()

	kv, err := openBackend(ctx, log)
	if err != nil {
		return err
	}
	defer closeBackend(kv, log)

	products, err := store.OpenProductCatalog(ctx, kv)
	if err != nil {
		return handleStoreError(err, log)
	}
	reportWarnings(products.Warnings())

	item, matched := catalog.ApplyDescription(models.NewLineItem(), description, products.List())
	// NewLineItem ids come from the clock and can repeat in a tight loop
	for doc.ItemIndex(item.ID) >= 0 {
		item.ID += "0"
	}

	if item.Quantity, err = decimalFlag(cmd, "qty"); err != nil {
		return err
	}
	if err := applyItemOverrides(cmd, &item); err != nil {
		return err
	}

	doc.Items = append(doc.Items, item)
	if err := invoice.SaveDocument(path, doc); err != nil {
		return handleInvoiceError(err, log)
	}

	log.Info().
		Str("file", path).
		Str("item_id", item.ID).
		Bool("catalog_match", matched).
		Msg("Line item added")

	source := "no catalog match"
	if matched {
		source = "from catalog"
	}
	fmt.Printf("Added %q (%s): %s x %s, total %s\n",
		item.Description, source,
		invoice.FormatQuantity(item.Quantity), invoice.FormatMoney(item.Rate),
		invoice.FormatMoney(invoice.ItemTotal(item)))
	return nil
}

// applyItemOverrides copies explicitly set flags over catalog values
func applyItemOverrides(cmd *cobra.Command, item *models.LineItem) error {
	flags := cmd.Flags()
	var err error
	if flags.Changed("rate") {
		if item.Rate, err = decimalFlag(cmd, "rate"); err != nil {
			return err
		}
	}
	if flags.Changed("tax-rate") {
		if item.TaxRatePercent, err = decimalFlag(cmd, "tax-rate"); err != nil {
			return err
		}
	}
	if flags.Changed("hsn") {
		item.HSNCode, _ = flags.GetString("hsn")
	}
	if flags.Changed("unit") {
		item.Unit, _ = flags.GetString("unit")
	}
	return nil
}

func decimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	value, _ := cmd.Flags().GetString(name)
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: must be a number", name, value)
	}
	return d, nil
}

// loadSavedRecord opens the history and returns one record
func loadSavedRecord(ctx context.Context, id string, log zerolog.Logger) (models.SavedInvoiceRecord, error) {
	kv, err := openBackend(ctx, log)
	if err != nil {
		return models.SavedInvoiceRecord{}, err
	}
	defer closeBackend(kv, log)

	history, err := store.OpenInvoiceHistory(ctx, kv, nil)
	if err != nil {
		return models.SavedInvoiceRecord{}, handleStoreError(err, log)
	}
	reportWarnings(history.Warnings())

	record, ok := history.Get(id)
	if !ok {
		return models.SavedInvoiceRecord{}, handleStoreError(
			fmt.Errorf("%w: invoice %s", store.ErrRecordNotFound, id), log)
	}
	return record, nil
}

// handleInvoiceError provides user-friendly error messages for document failures
func handleInvoiceError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Invoice document operation failed")

	var docErr *invoice.DocumentError
	path := ""
	if errors.As(err, &docErr) {
		path = docErr.Path
	}

	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("invoice document not found: %s", path)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("permission denied accessing invoice document: %s", path)
	case errors.Is(err, invoice.ErrInvalidDocument):
		return fmt.Errorf("%s is not a valid invoice document. Create one with 'invoicer invoice new': %w", path, err)
	default:
		return fmt.Errorf("invoice document operation failed: %w", err)
	}
}

// writeJSON pretty prints v to outputPath, or stdout when empty
func writeJSON(v any, outputPath string, log zerolog.Logger) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON output")
		return fmt.Errorf("failed to create JSON output: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
			log.Error().
				Err(err).
				Str("output_file", outputPath).
				Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}

	if _, err := os.Stdout.Write(jsonData); err != nil {
		log.Error().Err(err).Msg("Failed to write to stdout")
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Println()
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
