package services

import (
	"context"

	"invoicer/pkg/models"
)

// InvoiceHistory is the saved-bill list the presentation layer works with
type InvoiceHistory interface {
	// List returns the saved records, most recent first
	List() []models.SavedInvoiceRecord

	// Get returns one saved record
	Get(id string) (models.SavedInvoiceRecord, bool)

	// Save snapshots doc and prepends it to the history
	Save(ctx context.Context, doc models.InvoiceDocument) (models.SavedInvoiceRecord, error)

	// Delete removes a record; unknown ids are ignored
	Delete(ctx context.Context, id string) error
}

// ProductCatalog is the reusable product list the presentation layer works with
type ProductCatalog interface {
	// List returns the products in insertion order
	List() []models.Product

	// Add stores a new product and returns it with its identifier
	Add(ctx context.Context, draft models.ProductDraft) (models.Product, error)

	// Update merges patch into the product; unknown ids are ignored
	Update(ctx context.Context, id string, patch models.ProductPatch) error

	// Delete removes a product; unknown ids are ignored
	Delete(ctx context.Context, id string) error

	// Resolve finds the product whose description matches exactly
	Resolve(description string) (models.Product, bool)
}

// HistoryRow is the flattened summary of a saved invoice used by exports and listings
type HistoryRow struct {
	ID            string `json:"id"`
	InvoiceNumber string `json:"invoice_number"`
	Date          string `json:"date"`
	Customer      string `json:"customer"`
	CustomerGSTIN string `json:"customer_gstin"`
	Items         int    `json:"items"`
	SubTotal      string `json:"sub_total"`
	TotalTax      string `json:"total_tax"`
	Amount        int64  `json:"amount"`
	SavedAt       string `json:"saved_at"`
}
