package store

import (
	"context"

	"github.com/rs/zerolog"
	"invoicer/internal/invoice"
	"invoicer/internal/logger"
	"invoicer/pkg/models"
	"invoicer/pkg/services"
)

var _ services.InvoiceHistory = (*InvoiceHistory)(nil)

// InvoiceHistory keeps saved invoice snapshots, newest first
type InvoiceHistory struct {
	records *RecordStore[models.SavedInvoiceRecord]
	builder *invoice.Builder
	log     zerolog.Logger
}

var invoiceIdentity = Identity[models.SavedInvoiceRecord]{
	Get: func(r models.SavedInvoiceRecord) string { return r.ID },
	Set: func(r *models.SavedInvoiceRecord, id string) { r.ID = id },
	Clone: func(r models.SavedInvoiceRecord) models.SavedInvoiceRecord {
		r.Document = r.Document.Clone()
		return r
	},
}

// NewInvoiceHistory creates the history on kv. A nil builder uses the wall clock and UUIDs.
func NewInvoiceHistory(kv KeyValue, builder *invoice.Builder) *InvoiceHistory {
	if builder == nil {
		builder = invoice.NewBuilder()
	}
	return &InvoiceHistory{
		records: NewRecordStore(kv, InvoicesKey, Prepend, invoiceIdentity),
		builder: builder,
		log:     logger.WithComponent("invoice-history"),
	}
}

// OpenInvoiceHistory creates and loads the history
func OpenInvoiceHistory(ctx context.Context, kv KeyValue, builder *invoice.Builder) (*InvoiceHistory, error) {
	h := NewInvoiceHistory(kv, builder)
	if err := h.Load(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

// Load reads the stored history
func (h *InvoiceHistory) Load(ctx context.Context) error {
	return h.records.Load(ctx)
}

func (h *InvoiceHistory) List() []models.SavedInvoiceRecord {
	return h.records.List()
}

func (h *InvoiceHistory) Get(id string) (models.SavedInvoiceRecord, bool) {
	return h.records.Get(id)
}

// Save snapshots doc and prepends it. Later edits to doc do not reach the stored record.
func (h *InvoiceHistory) Save(ctx context.Context, doc models.InvoiceDocument) (models.SavedInvoiceRecord, error) {
	record := h.builder.Build(doc)

	saved, err := h.records.Insert(ctx, record)
	if err != nil {
		return models.SavedInvoiceRecord{}, err
	}

	h.log.Info().
		Str("id", saved.ID).
		Str("customer", saved.CustomerName).
		Str("invoice_number", saved.Document.Details.InvoiceNumber).
		Int64("amount", saved.Amount).
		Msg("Invoice saved")

	return saved, nil
}

func (h *InvoiceHistory) Delete(ctx context.Context, id string) error {
	return h.records.Remove(ctx, id)
}

// Warnings returns recovered load problems
func (h *InvoiceHistory) Warnings() []Warning {
	return h.records.Warnings()
}
