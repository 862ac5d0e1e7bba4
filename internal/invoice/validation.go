package invoice

import (
	"fmt"

	"github.com/rs/zerolog"
	"invoicer/internal/logger"
	"invoicer/pkg/models"
)

// AmountValidation re-derives the figures of saved records and flags the ones whose
// stored summary no longer matches their embedded document
type AmountValidation struct {
	log zerolog.Logger
}

// NewAmountValidation creates a new amount validation service
func NewAmountValidation() *AmountValidation {
	return &AmountValidation{
		log: logger.WithComponent("amount-validation"),
	}
}

// AmountValidationResult contains the recomputed amount and any warnings for one record
type AmountValidationResult struct {
	RecordID       string
	StoredAmount   int64
	ComputedAmount int64
	Warnings       []string
	HasDiscrepancy bool
}

// Err returns ErrAmountMismatch wrapped with the record id when the amounts differ
func (r *AmountValidationResult) Err() error {
	if !r.HasDiscrepancy {
		return nil
	}
	return fmt.Errorf("%w: record %s stores %d, document totals %d",
		ErrAmountMismatch, r.RecordID, r.StoredAmount, r.ComputedAmount)
}

// VerifyRecord recomputes the rounded total of the embedded document and compares it
// with the stored amount. It also checks the denormalized customer name.
func (av *AmountValidation) VerifyRecord(record models.SavedInvoiceRecord) *AmountValidationResult {
	computed := FinalAmount(TotalAmount(record.Document.Items)).IntPart()

	result := &AmountValidationResult{
		RecordID:       record.ID,
		StoredAmount:   record.Amount,
		ComputedAmount: computed,
		Warnings:       []string{},
	}

	if computed != record.Amount {
		result.HasDiscrepancy = true
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"amount discrepancy: stored=%d, computed=%d (difference: %d)",
			record.Amount, computed, abs(computed-record.Amount)))

		av.log.Warn().
			Str("record_id", record.ID).
			Int64("stored", record.Amount).
			Int64("computed", computed).
			Msg("Saved amount does not match document total")
	}

	expectedName := record.Document.Receiver.Name
	if expectedName == "" {
		expectedName = UnknownCustomer
	}
	if record.CustomerName != expectedName {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"customer name %q differs from receiver %q", record.CustomerName, expectedName))
	}

	if err := CheckDocument(record.Document); err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	}

	av.log.Debug().
		Str("record_id", record.ID).
		Bool("has_discrepancy", result.HasDiscrepancy).
		Strs("warnings", result.Warnings).
		Msg("Record verification completed")

	return result
}

// VerifyAll checks every record and returns only the results carrying warnings
func (av *AmountValidation) VerifyAll(records []models.SavedInvoiceRecord) []*AmountValidationResult {
	var flagged []*AmountValidationResult
	for _, record := range records {
		if res := av.VerifyRecord(record); len(res.Warnings) > 0 {
			flagged = append(flagged, res)
		}
	}

	av.log.Info().
		Int("records", len(records)).
		Int("flagged", len(flagged)).
		Msg("History verification completed")

	return flagged
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
