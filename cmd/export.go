package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"invoicer/internal/invoice"
	"invoicer/internal/logger"
	"invoicer/internal/sheets"
	"invoicer/internal/store"
	"invoicer/pkg/services"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved invoices",
}

var exportSheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "Append the saved-bill history to a Google Sheet",
	Long: `Append one row per saved invoice to a worksheet of the Google Sheet named by
GOOGLE_SHEET_URL. The worksheet and its header row are created when missing.
Invoices whose id is already in column A are skipped unless --all is given.

Required environment variables:
  GOOGLE_SHEET_URL - URL of the target spreadsheet
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string`,
	Example: `  invoicer export sheets
  invoicer export sheets --sheet "Bills 2025"`,
	Args: cobra.NoArgs,
	RunE: runExportSheets,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportSheetsCmd)

	exportSheetsCmd.Flags().String("sheet", "", "Worksheet name (default: GOOGLE_SHEET_WORKSHEET)")
	exportSheetsCmd.Flags().Int("timeout", 120, "Export timeout in seconds")
	exportSheetsCmd.Flags().Bool("all", false, "Append every saved invoice, even ids already in the sheet")
}

func runExportSheets(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("export")

	sheetName, _ := cmd.Flags().GetString("sheet")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
	all, _ := cmd.Flags().GetBool("all")
	if sheetName == "" {
		sheetName = cfg.GoogleSheetWorksheet
	}
	if cfg.GoogleSheetURL == "" {
		return fmt.Errorf("GOOGLE_SHEET_URL is not set. Add the spreadsheet URL to your .env file")
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
	rows := make([]services.HistoryRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, invoice.Summarize(r))
	}
	if len(rows) == 0 {
		fmt.Println("No saved invoices to export.")
		return nil
	}

	sheetsService, err := sheets.NewSheetsService(ctx, cfg.GoogleSheetURL)
	if err != nil {
		return handleExportError(err, log)
	}

	if !all {
		exported, err := sheetsService.ExportedIDs(ctx, sheetName)
		if err != nil {
			return handleExportError(err, log)
		}
		skipped := len(rows)
		rows = sheets.FilterNew(rows, exported)
		skipped -= len(rows)
		if skipped > 0 {
			fmt.Printf("Skipping %d invoices already in sheet %q\n", skipped, sheetName)
		}
		if len(rows) == 0 {
			fmt.Println("Nothing new to export.")
			return nil
		}
	}

	if err := sheetsService.AppendHistory(ctx, rows, sheetName); err != nil {
		return handleExportError(err, log)
	}

	fmt.Printf("✅ Exported %d saved invoices to sheet %q\n", len(rows), sheetName)
	return nil
}

// handleExportError provides user-friendly error messages for Google Sheets failures
func handleExportError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Sheets export failed")

	errStr := err.Error()

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("export timed out. Try increasing --timeout")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("export was canceled")
	case errors.Is(err, sheets.ErrMissingCredentials):
		return fmt.Errorf("missing Google credentials. Please set one of:\n" +
			"  GOOGLE_APPLICATION_CREDENTIALS=/path/to/service-account-key.json\n" +
			"  GOOGLE_CREDENTIALS='<json-credentials>'")
	case errors.Is(err, sheets.ErrInvalidSheetURL):
		return fmt.Errorf("GOOGLE_SHEET_URL is not a Google Sheets URL (expected .../spreadsheets/d/<id>/...)")
	case strings.Contains(errStr, "PERMISSION_DENIED") || strings.Contains(errStr, "403"):
		return fmt.Errorf("permission denied. Share the spreadsheet with the service account email as an editor")
	case strings.Contains(errStr, "invalid_grant") || strings.Contains(errStr, "Unauthenticated"):
		return fmt.Errorf("Google authentication failed. Please check your credentials: %w", err)
	default:
		return fmt.Errorf("sheets export failed: %w", err)
	}
}
