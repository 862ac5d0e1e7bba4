package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"invoicer/internal/invoice"
	"invoicer/internal/logger"
	"invoicer/internal/printing"
	"invoicer/pkg/models"
)

var printCmd = &cobra.Command{
	Use:   "print [doc.json]",
	Short: "Render an invoice as an A4 PDF with an ORIGINAL and a COPY page",
	Example: `  # Print a document file
  invoicer print bill.json -o bill.pdf

  # Print a saved invoice as an IGST invoice
  invoicer print --id 1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed --tax-mode igst -o bill.pdf`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrint,
}

func init() {
	rootCmd.AddCommand(printCmd)

	printCmd.Flags().String("id", "", "Print a saved invoice instead of a document file")
	printCmd.Flags().StringP("output", "o", "", "Output PDF path")
	printCmd.Flags().String("tax-mode", "", "Tax mode: local (CGST+SGST) or igst (default: DEFAULT_TAX_MODE)")
	_ = printCmd.MarkFlagRequired("output")
}

func runPrint(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("print")

	id, _ := cmd.Flags().GetString("id")
	outputPath, _ := cmd.Flags().GetString("output")

	mode, err := taxModeFlag(cmd)
	if err != nil {
		return err
	}

	if (id == "") == (len(args) == 0) {
		return fmt.Errorf("pass either a document file or --id, not both")
	}

	var doc models.InvoiceDocument
	if id != "" {
		ctx, cancel := createCommandContext(storeTimeout, log)
		defer cancel()

		record, err := loadSavedRecord(ctx, id, log)
		if err != nil {
			return err
		}
		doc = record.Document
	} else {
		if doc, err = invoice.LoadDocument(args[0]); err != nil {
			return handleInvoiceError(err, log)
		}
	}

	if err := printing.NewRenderer().RenderFile(outputPath, doc, mode); err != nil {
		log.Error().
			Err(err).
			Str("output_file", outputPath).
			Msg("Failed to render invoice PDF")
		if os.IsPermission(err) {
			return fmt.Errorf("permission denied writing %s", outputPath)
		}
		return fmt.Errorf("failed to render invoice PDF: %w", err)
	}

	log.Info().
		Str("output_file", outputPath).
		Str("tax_mode", string(mode)).
		Int("items", len(doc.Items)).
		Msg("Invoice PDF written")

	fmt.Printf("Wrote %s (ORIGINAL + COPY)\n", outputPath)
	return nil
}
