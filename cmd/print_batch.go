package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"invoicer/internal/logger"
	"invoicer/internal/printing"
	"invoicer/internal/store"
)

var printBatchCmd = &cobra.Command{
	Use:   "print-batch [output-dir]",
	Short: "Render every saved invoice as a PDF into a folder",
	Long: `Render all saved invoices to A4 PDFs (ORIGINAL + COPY) in parallel.

Files are named after the invoice number followed by the first eight characters
of the record id. Existing files with the same name are overwritten.

Optional environment variables:
  BATCH_WORKERS - Number of parallel workers (default: 4)`,
	Example: `  invoicer print-batch ./pdf
  invoicer print-batch ./pdf --tax-mode igst --workers 8`,
	Args: cobra.ExactArgs(1),
	RunE: runPrintBatch,
}

func init() {
	rootCmd.AddCommand(printBatchCmd)

	printBatchCmd.Flags().String("tax-mode", "", "Tax mode: local (CGST+SGST) or igst (default: DEFAULT_TAX_MODE)")
	printBatchCmd.Flags().Int("workers", 0, "Number of parallel workers (default: BATCH_WORKERS)")
	printBatchCmd.Flags().Int("timeout", 300, "Timeout in seconds")
}

func runPrintBatch(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("print-batch")

	outputDir := args[0]
	workers, _ := cmd.Flags().GetInt("workers")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
	if workers <= 0 {
		workers = cfg.BatchWorkers
	}

	mode, err := taxModeFlag(cmd)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("cannot create output folder %s: %w", outputDir, err)
	}

	ctx, cancel := createCommandContext(time.Duration(timeoutSecs)*time.Second, log)
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
	if len(records) == 0 {
		fmt.Println("No saved invoices to print.")
		return nil
	}

	log.Info().
		Str("folder", outputDir).
		Str("tax_mode", string(mode)).
		Int("records", len(records)).
		Int("workers", workers).
		Msg("Starting batch print")

	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Printing %d saved invoices to %s (%d workers)\n", len(records), outputDir, workers)
	fmt.Println(strings.Repeat("=", 60))

	startTime := time.Now()
	results := printing.NewRenderer().RenderBatch(ctx, records, outputDir, mode, workers,
		func(done, total int, result printing.BatchResult) {
			status := "✅"
			if result.Err != nil {
				status = "❌"
			}
			fmt.Printf("[%d/%d] %s - %s", done, total, filepath.Base(result.Path), status)
			if result.Err != nil {
				fmt.Printf(" (%s)", result.Err.Error())
			}
			fmt.Println()
		})

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Printed: %d  Failed: %d  Duration: %s\n",
		len(results)-failed, failed, time.Since(startTime).Round(time.Millisecond))

	if failed > 0 {
		return fmt.Errorf("%d of %d invoices could not be printed", failed, len(results))
	}
	return nil
}
