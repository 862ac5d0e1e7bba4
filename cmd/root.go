package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"invoicer/internal/config"
	"invoicer/internal/logger"
	"invoicer/internal/store"
	"invoicer/pkg/models"
)

var version = "1.0.0"

var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "invoicer",
	Short: "Invoicer - GST invoices, saved bills and a product catalog from the command line",
	Long: `Invoicer computes GST invoices (CGST/SGST or IGST), keeps a history of
saved bills and a catalog of reusable products, prints A4 invoices with an
ORIGINAL and a COPY page and exports the saved bills to Google Sheets.

Documents are JSON files. Create one with 'invoicer invoice new', add rows
with 'invoicer invoice add-item' and check the totals with 'invoicer invoice compute'.

Storage is selected with STORE_BACKEND (file, sqlite, redis, memory).`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Debug().
			Str("version", version).
			Msg("Invoicer executed without subcommand")

		fmt.Println("Welcome to Invoicer!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

// Execute runs the root command with the loaded configuration
func Execute(c *config.Config) {
	log := logger.WithComponent("cmd")

	if c != nil {
		cfg = c
	}

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}

// createCommandContext returns a context that is canceled on interrupt or after timeout
func createCommandContext(timeout time.Duration, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

// openBackend opens the configured key value backend
func openBackend(ctx context.Context, log zerolog.Logger) (store.KeyValue, error) {
	storeCfg := cfg.GetStoreConfig()

	kv, err := store.Open(ctx, storeCfg)
	if err != nil {
		return nil, handleStoreError(err, log)
	}

	log.Debug().
		Str("backend", storeCfg.Backend).
		Msg("Storage backend opened")

	return kv, nil
}

func closeBackend(kv store.KeyValue, log zerolog.Logger) {
	if err := kv.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close storage backend")
	}
}

// reportWarnings prints recovered load problems so the user knows a collection was reset
func reportWarnings(warnings []store.Warning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w.String())
	}
}

// taxModeFlag resolves --tax-mode, falling back to DEFAULT_TAX_MODE
func taxModeFlag(cmd *cobra.Command) (models.TaxMode, error) {
	value, _ := cmd.Flags().GetString("tax-mode")
	if value == "" {
		return cfg.TaxMode(), nil
	}
	mode, err := models.ParseTaxMode(value)
	if err != nil {
		return "", fmt.Errorf("invalid --tax-mode: %w", err)
	}
	return mode, nil
}

// rupees formats a whole rupee amount with Indian digit grouping
func rupees(amount int64) string {
	p := message.NewPrinter(language.MustParse("en-IN"))
	return p.Sprintf("₹%d", amount)
}

// handleStoreError provides user-friendly error messages for storage failures
func handleStoreError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Storage operation failed")

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("storage backend timed out. Check that %s is reachable", cfg.StoreBackend)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("operation was canceled")
	case errors.Is(err, store.ErrUnknownBackend):
		return fmt.Errorf("unknown STORE_BACKEND %q. Use one of: file, sqlite, redis, memory", cfg.StoreBackend)
	case errors.Is(err, store.ErrRecordNotFound):
		return fmt.Errorf("no such record: %w", err)
	case errors.Is(err, store.ErrInvalidKey):
		return fmt.Errorf("invalid storage key: %w", err)
	default:
		return fmt.Errorf("storage operation failed: %w", err)
	}
}
